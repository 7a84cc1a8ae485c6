// Package testutil opens throwaway databases and creates fixtures for tests.
package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emilythestrangee/civic-polls/backend/internal/database"
	"github.com/emilythestrangee/civic-polls/backend/internal/models"
	"github.com/emilythestrangee/civic-polls/backend/internal/store"
)

// NewTestDB opens a migrated in-memory SQLite database private to t.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := database.Open(sqlite.Open(dsn), logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewTestStore returns a store over a fresh database with the given tally cache (nil for none).
func NewTestStore(t *testing.T, tallies store.TallyCache) (*store.Store, *gorm.DB) {
	t.Helper()
	db := NewTestDB(t)
	return store.New(db, tallies), db
}

func CreateOrganization(t *testing.T, s *store.Store, title string) *models.Organization {
	t.Helper()
	org := &models.Organization{
		Title:       title,
		Description: "Neighbors deciding things together",
		ImageURL:    "https://example.com/org.png",
	}
	require.NoError(t, s.Organizations.Create(context.Background(), org))
	return org
}

func CreateUser(t *testing.T, s *store.Store, name, email, medium string) *models.User {
	t.Helper()
	user := &models.User{
		Name:                name,
		Phone:               "5035551234",
		Email:               email,
		CommunicationMedium: medium,
		ImageURL:            "https://example.com/user.png",
	}
	require.NoError(t, s.Users.Create(context.Background(), user))
	return user
}

func CreateMembership(t *testing.T, s *store.Store, orgID, userID string) *models.Membership {
	t.Helper()
	m := &models.Membership{OrganizationID: orgID, UserID: userID}
	require.NoError(t, s.Memberships.Create(context.Background(), m))
	return m
}

func CreatePoll(t *testing.T, s *store.Store, orgID, title string) *models.Poll {
	t.Helper()
	poll := &models.Poll{
		OrganizationID: orgID,
		Title:          title,
		Description:    "Should we do the thing?",
		Options:        []string{"for", "against"},
	}
	require.NoError(t, s.Polls.Create(context.Background(), poll))
	return poll
}
