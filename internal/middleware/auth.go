package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/civic-polls/backend/internal/auth"
	"github.com/emilythestrangee/civic-polls/backend/internal/models"
)

// SessionCookie is the name of the cookie holding the signed session token.
const SessionCookie = "session"

const userKey = "user"

// RequireSession rejects requests without a valid session cookie and stores the
// session's user in the context for CurrentUser.
func RequireSession(sessions *auth.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(SessionCookie)

		user, err := sessions.Verify(token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				slog.Debug("rejected session token", "path", c.FullPath(), "ip", c.ClientIP())
			}
			handleAuthError(c, err.Error())
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the user attached by RequireSession.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

func handleAuthError(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status":  http.StatusUnauthorized,
		"message": message,
	})
}
