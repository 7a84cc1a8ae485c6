package seed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/civic-polls/backend/internal/auth"
	"github.com/emilythestrangee/civic-polls/backend/internal/models"
	"github.com/emilythestrangee/civic-polls/backend/internal/seed"
	"github.com/emilythestrangee/civic-polls/backend/internal/store"
	"github.com/emilythestrangee/civic-polls/backend/internal/testutil"
)

func TestRun(t *testing.T) {
	ctx := context.Background()
	s, db := testutil.NewTestStore(t, nil)

	res, err := seed.New(s, 42).Run(ctx, seed.Counts{
		Users:         4,
		Organizations: 2,
		Memberships:   6,
		Polls:         3,
		Votes:         20,
	})
	require.NoError(t, err)
	assert.Len(t, res.Users, 4)
	assert.Len(t, res.Organizations, 2)
	assert.Len(t, res.Memberships, 6)
	assert.Len(t, res.Polls, 3)
	assert.Len(t, res.Votes, 20)

	for _, p := range res.Polls {
		assert.Equal(t, []string{"for", "against"}, []string(p.Options))
	}

	// At most one stored vote per (poll, user) pair.
	var stored int64
	require.NoError(t, db.Model(&models.Vote{}).Count(&stored).Error)
	assert.LessOrEqual(t, stored, int64(len(res.Polls)*len(res.Users)))

	user, err := s.Users.FindByEmail(ctx, res.Users[0].Email)
	require.NoError(t, err)
	assert.NoError(t, auth.CheckPassword(user.PasswordHash, seed.Password))

	orgs, err := s.Organizations.List(ctx, store.Filter{})
	require.NoError(t, err)
	assert.Len(t, orgs, 2)
}

func TestRunWithoutOrganizationsSkipsDependents(t *testing.T) {
	s, _ := testutil.NewTestStore(t, nil)

	res, err := seed.New(s, 7).Run(context.Background(), seed.Counts{Users: 2, Memberships: 5, Polls: 5, Votes: 5})
	require.NoError(t, err)
	assert.Len(t, res.Users, 2)
	assert.Empty(t, res.Memberships)
	assert.Empty(t, res.Polls)
	assert.Empty(t, res.Votes)
}
