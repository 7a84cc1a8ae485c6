package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/civic-polls/backend/internal/models"
	"github.com/emilythestrangee/civic-polls/backend/internal/store"
	"github.com/emilythestrangee/civic-polls/backend/internal/testutil"
)

func TestCreateUserRejectsUnknownMedium(t *testing.T) {
	s, _ := testutil.NewTestStore(t, nil)

	err := s.Users.Create(context.Background(), &models.User{
		Name:                "Jenny",
		Phone:               "5035558675",
		Email:               "jenny@example.com",
		CommunicationMedium: "text",
		ImageURL:            "https://example.com/jenny.png",
	})

	require.Error(t, err)
	assert.Equal(t, "User validation failed: communicationMedium: `text` is not a valid enum value for path `communicationMedium`.", err.Error())
}

func TestCreateUserReportsEveryMissingField(t *testing.T) {
	s, _ := testutil.NewTestStore(t, nil)

	err := s.Users.Create(context.Background(), &models.User{Name: "Jenny"})

	var verr *store.ValidationError
	require.ErrorAs(t, err, &verr)
	fields := make([]string, 0, len(verr.Issues))
	for _, issue := range verr.Issues {
		fields = append(fields, issue.Field)
	}
	assert.Equal(t, []string{"phone", "email", "communicationMedium", "imageUrl"}, fields)
}

func TestCreateUserRejectsTakenEmail(t *testing.T) {
	s, _ := testutil.NewTestStore(t, nil)
	testutil.CreateUser(t, s, "Jenny", "jenny@example.com", models.MediumEmail)

	err := s.Users.Create(context.Background(), &models.User{
		Name:                "Other Jenny",
		Phone:               "5035558675",
		Email:               "jenny@example.com",
		CommunicationMedium: models.MediumPhone,
		ImageURL:            "https://example.com/jenny.png",
	})
	assert.ErrorIs(t, err, store.ErrEmailTaken)
}

func TestUpdateUserKeepsPasswordHash(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewTestStore(t, nil)

	user := &models.User{
		Name:                "Jenny",
		Phone:               "5035558675",
		Email:               "jenny@example.com",
		CommunicationMedium: models.MediumEmail,
		ImageURL:            "https://example.com/jenny.png",
		PasswordHash:        "hash",
	}
	require.NoError(t, s.Users.Create(ctx, user))

	updated, err := s.Users.Update(ctx, user.ID, jsonPatch(`{"name":"Jenny Tutone","communicationMedium":"phone"}`))
	require.NoError(t, err)
	assert.Equal(t, "Jenny Tutone", updated.Name)
	assert.Equal(t, models.MediumPhone, updated.CommunicationMedium)
	assert.Equal(t, 1, updated.Version)

	stored, err := s.Users.FindByEmail(ctx, "jenny@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "hash", stored.PasswordHash)
}

func TestUpdateUserRejectsTakenEmail(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewTestStore(t, nil)
	testutil.CreateUser(t, s, "Alice", "alice@example.com", models.MediumEmail)
	bob := testutil.CreateUser(t, s, "Bob", "bob@example.com", models.MediumEmail)

	_, err := s.Users.Update(ctx, bob.ID, jsonPatch(`{"email":"alice@example.com"}`))
	assert.ErrorIs(t, err, store.ErrEmailTaken)
}

func TestDeleteUserLeavesMemberships(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewTestStore(t, nil)
	org := testutil.CreateOrganization(t, s, "Riverside Tenants")
	user := testutil.CreateUser(t, s, "Jenny", "jenny@example.com", models.MediumEmail)
	testutil.CreateMembership(t, s, org.ID, user.ID)

	deleted, err := s.Users.Delete(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, deleted.ID)

	memberships, err := s.Memberships.List(ctx, store.Filter{"user": user.ID})
	require.NoError(t, err)
	assert.Len(t, memberships, 1)

	again, err := s.Users.Delete(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, again)
}
