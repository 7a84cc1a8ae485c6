package populate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/civic-polls/backend/internal/models"
	"github.com/emilythestrangee/civic-polls/backend/internal/populate"
	"github.com/emilythestrangee/civic-polls/backend/internal/testutil"
)

func TestProjectKeepsIDAndListedFields(t *testing.T) {
	org := &models.Organization{ID: "org-1", Title: "Riverside", Description: "d", ImageURL: "img"}

	obj, err := populate.Project(org, "title")
	require.NoError(t, err)
	assert.Equal(t, populate.Object{"_id": "org-1", "title": "Riverside"}, obj)

	full, err := populate.Project(org)
	require.NoError(t, err)
	assert.Len(t, full, 5)
	assert.Contains(t, full, "__v")
}

func TestOrganizationDetail(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewTestStore(t, nil)
	r := populate.NewResolver(s)

	org := testutil.CreateOrganization(t, s, "Riverside Tenants")
	user := testutil.CreateUser(t, s, "Jenny", "jenny@example.com", models.MediumEmail)
	testutil.CreateMembership(t, s, org.ID, user.ID)
	testutil.CreateMembership(t, s, org.ID, "deleted-user")

	detail, err := r.OrganizationDetail(ctx, org)
	require.NoError(t, err)
	assert.Equal(t, "Riverside Tenants", detail["title"])

	memberships, ok := detail["memberships"].([]populate.Object)
	require.True(t, ok)
	require.Len(t, memberships, 2)
	assert.Equal(t, org.ID, memberships[0]["organization"])
	assert.Equal(t, populate.Object{"_id": user.ID, "name": "Jenny", "imageUrl": user.ImageURL}, memberships[0]["user"])
	assert.Nil(t, memberships[1]["user"])
}

func TestPollsCarryOrganizationTitle(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewTestStore(t, nil)
	r := populate.NewResolver(s)

	org := testutil.CreateOrganization(t, s, "Riverside Tenants")
	poll := testutil.CreatePoll(t, s, org.ID, "Rent strike")

	out, err := r.Polls(ctx, []models.Poll{*poll})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, populate.Object{"_id": org.ID, "title": "Riverside Tenants"}, out[0]["organization"])
	assert.Equal(t, "Rent strike", out[0]["title"])
}

func TestPollDetailCountsVotes(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewTestStore(t, nil)
	r := populate.NewResolver(s)

	org := testutil.CreateOrganization(t, s, "Riverside Tenants")
	poll := testutil.CreatePoll(t, s, org.ID, "Rent strike")
	alice := testutil.CreateUser(t, s, "Alice", "alice@example.com", models.MediumEmail)
	bob := testutil.CreateUser(t, s, "Bob", "bob@example.com", models.MediumEmail)
	for _, u := range []*models.User{alice, bob} {
		_, err := s.Votes.Record(ctx, poll.ID, u.ID, "for")
		require.NoError(t, err)
	}

	detail, err := r.PollDetail(ctx, poll)
	require.NoError(t, err)
	assert.EqualValues(t, 2, detail["votes"])

	embedded, ok := detail["organization"].(populate.Object)
	require.True(t, ok)
	assert.Equal(t, org.Description, embedded["description"])
}

func TestMembershipsAndVotes(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewTestStore(t, nil)
	r := populate.NewResolver(s)

	org := testutil.CreateOrganization(t, s, "Riverside Tenants")
	user := testutil.CreateUser(t, s, "Jenny", "jenny@example.com", models.MediumEmail)
	m := testutil.CreateMembership(t, s, org.ID, user.ID)
	poll := testutil.CreatePoll(t, s, org.ID, "Rent strike")
	vote, err := s.Votes.Record(ctx, poll.ID, user.ID, "against")
	require.NoError(t, err)

	memberships, err := r.Memberships(ctx, []models.Membership{*m})
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	assert.Equal(t, populate.Object{"_id": org.ID, "title": org.Title, "imageUrl": org.ImageURL}, memberships[0]["organization"])
	assert.Equal(t, populate.Object{"_id": user.ID, "name": "Jenny", "imageUrl": user.ImageURL}, memberships[0]["user"])

	votes, err := r.Votes(ctx, []models.Vote{*vote, {ID: "v-2", PollID: "gone", UserID: user.ID, OptionSelected: "for"}})
	require.NoError(t, err)
	require.Len(t, votes, 2)
	embedded, ok := votes[0]["poll"].(populate.Object)
	require.True(t, ok)
	assert.Equal(t, "Rent strike", embedded["title"])
	assert.Equal(t, []any{"for", "against"}, embedded["options"])
	assert.Nil(t, votes[1]["poll"])
}
