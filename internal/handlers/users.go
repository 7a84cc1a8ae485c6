package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/civic-polls/backend/internal/models"
	"github.com/emilythestrangee/civic-polls/backend/internal/populate"
	"github.com/emilythestrangee/civic-polls/backend/internal/store"
)

type UserHandler struct {
	users store.UserRepository
}

func NewUserHandler(users store.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// CreateUser stores a user without credentials; only signup sets a password.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var user models.User
	if !bindJSON(c, &user) {
		return
	}

	if err := h.users.Create(c.Request.Context(), &user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetUsers lists users, showing only their name and image.
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context(), store.FilterFromQuery(c.Request.URL.Query()))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]populate.Object, 0, len(users))
	for i := range users {
		obj, err := populate.Project(&users[i], "name", "imageUrl")
		if err != nil {
			respondError(c, err)
			return
		}
		responses = append(responses, obj)
	}

	c.JSON(http.StatusOK, responses)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	patch, ok := patchFromBody(c)
	if !ok {
		return
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser leaves the user's memberships and votes in place.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	user, err := h.users.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
