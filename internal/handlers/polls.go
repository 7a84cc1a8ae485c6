package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/civic-polls/backend/internal/models"
	"github.com/emilythestrangee/civic-polls/backend/internal/notify"
	"github.com/emilythestrangee/civic-polls/backend/internal/populate"
	"github.com/emilythestrangee/civic-polls/backend/internal/store"
)

const notifyTimeout = 30 * time.Second

type PollHandler struct {
	polls    store.PollRepository
	resolver *populate.Resolver
	notifier *notify.Notifier
}

func NewPollHandler(polls store.PollRepository, resolver *populate.Resolver, notifier *notify.Notifier) *PollHandler {
	return &PollHandler{polls: polls, resolver: resolver, notifier: notifier}
}

// CreatePoll creates a poll and, when SMS is configured, notifies the organization's members in the background.
func (h *PollHandler) CreatePoll(c *gin.Context) {
	var poll models.Poll
	if !bindJSON(c, &poll) {
		return
	}

	if err := h.polls.Create(c.Request.Context(), &poll); err != nil {
		respondError(c, err)
		return
	}

	if h.notifier != nil {
		go h.notifyMembers(context.WithoutCancel(c.Request.Context()), poll)
	}

	c.JSON(http.StatusOK, poll)
}

func (h *PollHandler) notifyMembers(ctx context.Context, poll models.Poll) {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	sent, err := h.notifier.PollCreated(ctx, &poll)
	if err != nil {
		slog.Error("failed to notify members of new poll", "poll_id", poll.ID, "sent", sent, "error", err)
		return
	}
	slog.Info("notified members of new poll", "poll_id", poll.ID, "sent", sent)
}

// GetPolls lists polls, each with its organization's title.
func (h *PollHandler) GetPolls(c *gin.Context) {
	ctx := c.Request.Context()

	polls, err := h.polls.List(ctx, store.FilterFromQuery(c.Request.URL.Query()))
	if err != nil {
		respondError(c, err)
		return
	}

	responses, err := h.resolver.Polls(ctx, polls)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses)
}

// GetPoll returns one poll with its full organization and vote count.
func (h *PollHandler) GetPoll(c *gin.Context) {
	ctx := c.Request.Context()

	poll, err := h.polls.Get(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if poll == nil {
		c.JSON(http.StatusOK, nil)
		return
	}

	detail, err := h.resolver.PollDetail(ctx, poll)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *PollHandler) UpdatePoll(c *gin.Context) {
	patch, ok := patchFromBody(c)
	if !ok {
		return
	}

	poll, err := h.polls.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, poll)
}

// DeletePoll removes only the poll; its votes stay behind.
func (h *PollHandler) DeletePoll(c *gin.Context) {
	poll, err := h.polls.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, poll)
}
