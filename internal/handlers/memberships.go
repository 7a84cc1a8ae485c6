package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/civic-polls/backend/internal/models"
	"github.com/emilythestrangee/civic-polls/backend/internal/populate"
	"github.com/emilythestrangee/civic-polls/backend/internal/store"
)

type MembershipHandler struct {
	memberships store.MembershipRepository
	resolver    *populate.Resolver
}

func NewMembershipHandler(memberships store.MembershipRepository, resolver *populate.Resolver) *MembershipHandler {
	return &MembershipHandler{memberships: memberships, resolver: resolver}
}

func (h *MembershipHandler) CreateMembership(c *gin.Context) {
	var m models.Membership
	if !bindJSON(c, &m) {
		return
	}

	if err := h.memberships.Create(c.Request.Context(), &m); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, m)
}

// GetMemberships lists memberships filtered by organization or user, with both sides expanded.
func (h *MembershipHandler) GetMemberships(c *gin.Context) {
	ctx := c.Request.Context()

	memberships, err := h.memberships.List(ctx, store.FilterFromQuery(c.Request.URL.Query()))
	if err != nil {
		respondError(c, err)
		return
	}

	responses, err := h.resolver.Memberships(ctx, memberships)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses)
}

func (h *MembershipHandler) DeleteMembership(c *gin.Context) {
	m, err := h.memberships.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, m)
}
