package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/civic-polls/backend/internal/populate"
	"github.com/emilythestrangee/civic-polls/backend/internal/store"
)

type VoteHandler struct {
	votes    store.VoteRepository
	resolver *populate.Resolver
}

func NewVoteHandler(votes store.VoteRepository, resolver *populate.Resolver) *VoteHandler {
	return &VoteHandler{votes: votes, resolver: resolver}
}

// CastVote records the user's choice on a poll, replacing an earlier one.
func (h *VoteHandler) CastVote(c *gin.Context) {
	var input struct {
		Poll           string `json:"poll"`
		User           string `json:"user"`
		OptionSelected string `json:"optionSelected"`
	}
	if !bindJSON(c, &input) {
		return
	}

	vote, err := h.votes.Record(c.Request.Context(), input.Poll, input.User, input.OptionSelected)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, vote)
}

// GetVotes lists votes filtered by poll or user, each with its full poll.
func (h *VoteHandler) GetVotes(c *gin.Context) {
	ctx := c.Request.Context()

	votes, err := h.votes.List(ctx, store.FilterFromQuery(c.Request.URL.Query()))
	if err != nil {
		respondError(c, err)
		return
	}

	responses, err := h.resolver.Votes(ctx, votes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses)
}

func (h *VoteHandler) UpdateVote(c *gin.Context) {
	patch, ok := patchFromBody(c)
	if !ok {
		return
	}

	vote, err := h.votes.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, vote)
}

// GetVoteTotals returns the per-option tally of a poll.
func (h *VoteHandler) GetVoteTotals(c *gin.Context) {
	tallies, err := h.votes.Totals(c.Request.Context(), c.Param("pollId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tallies)
}
