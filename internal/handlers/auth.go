package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/civic-polls/backend/internal/auth"
	"github.com/emilythestrangee/civic-polls/backend/internal/middleware"
	"github.com/emilythestrangee/civic-polls/backend/internal/models"
	"github.com/emilythestrangee/civic-polls/backend/internal/store"
)

type AuthHandler struct {
	users        store.UserRepository
	sessions     *auth.Sessions
	secureCookie bool
}

func NewAuthHandler(users store.UserRepository, sessions *auth.Sessions, secureCookie bool) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, secureCookie: secureCookie}
}

// setSessionCookie stores a fresh session token for user in an HTTP-only cookie.
func (h *AuthHandler) setSessionCookie(c *gin.Context, user *models.User) error {
	token, err := h.sessions.Issue(user)
	if err != nil {
		return err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(h.sessions.TTL().Seconds()), "/", "", h.secureCookie, true)
	return nil
}

// Signup creates a user with a password and logs them in.
func (h *AuthHandler) Signup(c *gin.Context) {
	var input models.SignupRequest
	if !bindJSON(c, &input) {
		return
	}

	if input.Password == "" {
		respondError(c, &store.ValidationError{
			Model:  "User",
			Issues: []store.FieldIssue{{Field: "password", Message: "Path `password` is required."}},
		})
		return
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	user := input.User
	user.PasswordHash = hash
	if err := h.users.Create(c.Request.Context(), &user); err != nil {
		respondError(c, err)
		return
	}

	if err := h.setSessionCookie(c, &user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Login checks the credentials and starts a session.
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginRequest
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), input.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		respondError(c, auth.ErrInvalidCredentials)
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, input.Password); err != nil {
		respondError(c, err)
		return
	}

	if err := h.setSessionCookie(c, user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Verify returns the user of the current session.
func (h *AuthHandler) Verify(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, auth.ErrMissingToken)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Logout expires the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookie, true)

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
