package store_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/civic-polls/backend/internal/cache"
	"github.com/emilythestrangee/civic-polls/backend/internal/models"
	"github.com/emilythestrangee/civic-polls/backend/internal/store"
	"github.com/emilythestrangee/civic-polls/backend/internal/testutil"
)

func TestCreateOrganizationRequiresTitle(t *testing.T) {
	s, _ := testutil.NewTestStore(t, nil)

	err := s.Organizations.Create(context.Background(), &models.Organization{
		Description: "No title here",
		ImageURL:    "https://example.com/org.png",
	})

	var verr *store.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Organization", verr.Model)
	assert.Equal(t, "Organization validation failed: title: Path `title` is required.", err.Error())
}

func TestCreateOrganizationRejectsLongDescription(t *testing.T) {
	s, _ := testutil.NewTestStore(t, nil)

	err := s.Organizations.Create(context.Background(), &models.Organization{
		Title:       "Riverside Tenants",
		Description: strings.Repeat("a", 151),
		ImageURL:    "https://example.com/org.png",
	})

	var verr *store.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Issues, 1)
	assert.Equal(t, "description", verr.Issues[0].Field)
	assert.Contains(t, verr.Issues[0].Message, "maximum allowed length (150)")
}

func TestCreateOrganizationAssignsIDAndVersion(t *testing.T) {
	s, _ := testutil.NewTestStore(t, nil)

	org := testutil.CreateOrganization(t, s, "Riverside Tenants")
	assert.NotEmpty(t, org.ID)
	assert.Equal(t, 0, org.Version)

	got, err := s.Organizations.Get(context.Background(), org.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Riverside Tenants", got.Title)
}

func TestGetMissingOrganizationReturnsNil(t *testing.T) {
	s, _ := testutil.NewTestStore(t, nil)

	org, err := s.Organizations.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, org)
}

func TestUpdateOrganizationMergesFields(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewTestStore(t, nil)
	org := testutil.CreateOrganization(t, s, "Riverside Tenants")

	updated, err := s.Organizations.Update(ctx, org.ID, jsonPatch(`{"title":"Riverside Tenants Union","_id":"hijack"}`))
	require.NoError(t, err)
	assert.Equal(t, org.ID, updated.ID)
	assert.Equal(t, "Riverside Tenants Union", updated.Title)
	assert.Equal(t, org.Description, updated.Description)
	assert.Equal(t, 1, updated.Version)

	_, err = s.Organizations.Update(ctx, org.ID, jsonPatch(`{"title":""}`))
	var verr *store.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = s.Organizations.Update(ctx, org.ID, jsonPatch(`{"title":`))
	assert.ErrorIs(t, err, store.ErrInvalidPatch)

	stored, err := s.Organizations.Get(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, "Riverside Tenants Union", stored.Title)
}

func TestListOrganizationsFiltersByTitle(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewTestStore(t, nil)
	testutil.CreateOrganization(t, s, "Riverside Tenants")
	testutil.CreateOrganization(t, s, "Hillside Gardeners")

	all, err := s.Organizations.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	some, err := s.Organizations.List(ctx, store.Filter{"title": "Hillside Gardeners"})
	require.NoError(t, err)
	require.Len(t, some, 1)
	assert.Equal(t, "Hillside Gardeners", some[0].Title)
}

func TestDeleteOrganizationCascades(t *testing.T) {
	ctx := context.Background()
	tallies := cache.NewMemory()
	s, db := testutil.NewTestStore(t, tallies)

	org := testutil.CreateOrganization(t, s, "Riverside Tenants")
	other := testutil.CreateOrganization(t, s, "Hillside Gardeners")
	poll := testutil.CreatePoll(t, s, org.ID, "Rent strike")
	kept := testutil.CreatePoll(t, s, other.ID, "Compost")
	alice := testutil.CreateUser(t, s, "Alice", "alice@example.com", models.MediumEmail)
	bob := testutil.CreateUser(t, s, "Bob", "bob@example.com", models.MediumPhone)
	membership := testutil.CreateMembership(t, s, org.ID, alice.ID)

	for _, u := range []*models.User{alice, bob} {
		_, err := s.Votes.Record(ctx, poll.ID, u.ID, "for")
		require.NoError(t, err)
	}
	_, err := s.Votes.Record(ctx, kept.ID, alice.ID, "against")
	require.NoError(t, err)
	_, err = s.Votes.Totals(ctx, poll.ID)
	require.NoError(t, err)

	deleted, err := s.Organizations.Delete(ctx, org.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, org.ID, deleted.ID)

	var polls, votes int64
	require.NoError(t, db.Model(&models.Poll{}).Where("organization_id = ?", org.ID).Count(&polls).Error)
	require.NoError(t, db.Model(&models.Vote{}).Where("poll_id = ?", poll.ID).Count(&votes).Error)
	assert.Zero(t, polls)
	assert.Zero(t, votes)
	assert.Zero(t, tallies.Len())

	gone, err := s.Organizations.Get(ctx, org.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	// Other organizations are untouched; memberships are not swept.
	remaining, err := s.Votes.CountByPoll(ctx, kept.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, remaining)
	memberships, err := s.Memberships.List(ctx, store.Filter{"organization": org.ID})
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	assert.Equal(t, membership.ID, memberships[0].ID)
}

func TestDeleteMissingOrganizationSweepsOrphanedPolls(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewTestStore(t, nil)

	poll := testutil.CreatePoll(t, s, "ghost-org", "Orphan")

	deleted, err := s.Organizations.Delete(ctx, "ghost-org")
	require.NoError(t, err)
	assert.Nil(t, deleted)

	got, err := s.Polls.Get(ctx, poll.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
