package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/civic-polls/backend/internal/models"
	"github.com/emilythestrangee/civic-polls/backend/internal/populate"
	"github.com/emilythestrangee/civic-polls/backend/internal/store"
)

type OrganizationHandler struct {
	orgs     store.OrganizationRepository
	resolver *populate.Resolver
}

func NewOrganizationHandler(orgs store.OrganizationRepository, resolver *populate.Resolver) *OrganizationHandler {
	return &OrganizationHandler{orgs: orgs, resolver: resolver}
}

func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	var org models.Organization
	if !bindJSON(c, &org) {
		return
	}

	if err := h.orgs.Create(c.Request.Context(), &org); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, org)
}

// GetOrganizations lists organizations, showing only their title and image.
func (h *OrganizationHandler) GetOrganizations(c *gin.Context) {
	orgs, err := h.orgs.List(c.Request.Context(), store.FilterFromQuery(c.Request.URL.Query()))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]populate.Object, 0, len(orgs))
	for i := range orgs {
		obj, err := populate.Project(&orgs[i], "title", "imageUrl")
		if err != nil {
			respondError(c, err)
			return
		}
		responses = append(responses, obj)
	}

	c.JSON(http.StatusOK, responses)
}

// GetOrganization returns one organization with its memberships and their users.
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	org, err := h.orgs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if org == nil {
		c.JSON(http.StatusOK, nil)
		return
	}

	detail, err := h.resolver.OrganizationDetail(c.Request.Context(), org)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *OrganizationHandler) UpdateOrganization(c *gin.Context) {
	patch, ok := patchFromBody(c)
	if !ok {
		return
	}

	org, err := h.orgs.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, org)
}

// DeleteOrganization removes the organization along with its polls and their votes.
func (h *OrganizationHandler) DeleteOrganization(c *gin.Context) {
	org, err := h.orgs.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, org)
}
