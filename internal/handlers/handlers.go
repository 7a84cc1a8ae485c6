package handlers

import (
	"github.com/emilythestrangee/civic-polls/backend/internal/auth"
	"github.com/emilythestrangee/civic-polls/backend/internal/notify"
	"github.com/emilythestrangee/civic-polls/backend/internal/populate"
	"github.com/emilythestrangee/civic-polls/backend/internal/store"
)

// Handler combines all handler types
type Handler struct {
	Auth         *AuthHandler
	Organization *OrganizationHandler
	User         *UserHandler
	Membership   *MembershipHandler
	Poll         *PollHandler
	Vote         *VoteHandler
}

// Options carries the dependencies shared by the handlers. Notifier may be nil.
type Options struct {
	Store        *store.Store
	Sessions     *auth.Sessions
	Notifier     *notify.Notifier
	CookieSecure bool
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(opts Options) *Handler {
	resolver := populate.NewResolver(opts.Store)

	return &Handler{
		Auth:         NewAuthHandler(opts.Store.Users, opts.Sessions, opts.CookieSecure),
		Organization: NewOrganizationHandler(opts.Store.Organizations, resolver),
		User:         NewUserHandler(opts.Store.Users),
		Membership:   NewMembershipHandler(opts.Store.Memberships, resolver),
		Poll:         NewPollHandler(opts.Store.Polls, resolver, opts.Notifier),
		Vote:         NewVoteHandler(opts.Store.Votes, resolver),
	}
}
