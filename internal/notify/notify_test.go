package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/civic-polls/backend/internal/models"
	"github.com/emilythestrangee/civic-polls/backend/internal/notify"
	"github.com/emilythestrangee/civic-polls/backend/internal/testutil"
)

type fakeSMS struct {
	mu   sync.Mutex
	sent map[string]string
	fail map[string]bool
}

func (f *fakeSMS) SendSMS(_ context.Context, to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[to] {
		return errors.New("undeliverable")
	}
	if f.sent == nil {
		f.sent = make(map[string]string)
	}
	f.sent[to] = body
	return nil
}

func TestPollCreatedTextsPhoneMembersOnce(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewTestStore(t, nil)

	org := testutil.CreateOrganization(t, s, "Riverside Tenants")
	phone := testutil.CreateUser(t, s, "Pat", "pat@example.com", models.MediumPhone)
	email := testutil.CreateUser(t, s, "Em", "em@example.com", models.MediumEmail)
	testutil.CreateMembership(t, s, org.ID, phone.ID)
	testutil.CreateMembership(t, s, org.ID, phone.ID)
	testutil.CreateMembership(t, s, org.ID, email.ID)
	testutil.CreateMembership(t, s, org.ID, "deleted-user")
	poll := testutil.CreatePoll(t, s, org.ID, "Rent strike")

	sms := &fakeSMS{}
	sent, err := notify.NewNotifier(s, sms).PollCreated(ctx, poll)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, map[string]string{phone.Phone: "New poll in Riverside Tenants: Rent strike"}, sms.sent)
}

func TestPollCreatedReportsFailedDeliveries(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewTestStore(t, nil)

	org := testutil.CreateOrganization(t, s, "Riverside Tenants")
	user := testutil.CreateUser(t, s, "Pat", "pat@example.com", models.MediumPhone)
	testutil.CreateMembership(t, s, org.ID, user.ID)
	poll := testutil.CreatePoll(t, s, org.ID, "Rent strike")

	sms := &fakeSMS{fail: map[string]bool{user.Phone: true}}
	sent, err := notify.NewNotifier(s, sms).PollCreated(ctx, poll)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), user.ID)
	assert.Zero(t, sent)
}
