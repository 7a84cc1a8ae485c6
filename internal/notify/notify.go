// Package notify tells an organization's members about new polls through their preferred medium.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/emilythestrangee/civic-polls/backend/internal/models"
	"github.com/emilythestrangee/civic-polls/backend/internal/store"
)

// SMSSender delivers a text message to a phone number.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

type Notifier struct {
	store *store.Store
	sms   SMSSender
}

func NewNotifier(s *store.Store, sms SMSSender) *Notifier {
	return &Notifier{store: s, sms: sms}
}

// PollCreated texts every member of the poll's organization who prefers the phone. Members
// preferring email are skipped since there is no mail transport. It returns how many messages
// were sent; failed deliveries are joined into the error without stopping the others.
func (n *Notifier) PollCreated(ctx context.Context, poll *models.Poll) (int, error) {
	memberships, err := n.store.Memberships.List(ctx, store.Filter{"organization": poll.OrganizationID})
	if err != nil {
		return 0, fmt.Errorf("listing members of organization %s: %w", poll.OrganizationID, err)
	}

	seen := make(map[string]bool, len(memberships))
	ids := make([]string, 0, len(memberships))
	for _, m := range memberships {
		if !seen[m.UserID] {
			seen[m.UserID] = true
			ids = append(ids, m.UserID)
		}
	}
	users, err := n.store.Users.GetMany(ctx, ids)
	if err != nil {
		return 0, err
	}

	org, err := n.store.Organizations.Get(ctx, poll.OrganizationID)
	if err != nil {
		return 0, err
	}
	body := pollMessage(org, poll)

	var (
		sent int
		errs []error
	)
	for _, id := range ids {
		user, ok := users[id]
		if !ok {
			continue
		}
		if user.CommunicationMedium != models.MediumPhone {
			slog.Debug("skipping poll notification", "user_id", user.ID, "medium", user.CommunicationMedium)
			continue
		}
		if err := n.sms.SendSMS(ctx, user.Phone, body); err != nil {
			errs = append(errs, fmt.Errorf("texting user %s: %w", user.ID, err))
			continue
		}
		sent++
	}
	return sent, errors.Join(errs...)
}

func pollMessage(org *models.Organization, poll *models.Poll) string {
	if org == nil {
		return fmt.Sprintf("New poll: %s", poll.Title)
	}
	return fmt.Sprintf("New poll in %s: %s", org.Title, poll.Title)
}
