package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/civic-polls/backend/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:                  "user-1",
		Name:                "Jenny",
		Phone:               "5035558675",
		Email:               "jenny@example.com",
		CommunicationMedium: models.MediumPhone,
		ImageURL:            "https://example.com/jenny.png",
		PasswordHash:        "secret-hash",
	}
}

func TestIssueAndVerify(t *testing.T) {
	s := NewSessions("test-secret", 0)
	assert.Equal(t, SessionTTL, s.TTL())

	token, err := s.Issue(testUser())
	require.NoError(t, err)

	user, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "jenny@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessions("test-secret", time.Hour)
	s.now = func() time.Time { return issued }

	token, err := s.Issue(testUser())
	require.NoError(t, err)

	s.now = func() time.Time { return issued.Add(59 * time.Minute) }
	_, err = s.Verify(token)
	require.NoError(t, err)

	s.now = func() time.Time { return issued.Add(61 * time.Minute) }
	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsForeignTokens(t *testing.T) {
	s := NewSessions("test-secret", time.Hour)

	_, err := s.Verify("")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = s.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, err := NewSessions("other-secret", time.Hour).Issue(testUser())
	require.NoError(t, err)
	_, err = s.Verify(other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// A valid signature over a token whose subject does not match its user.
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		User: *testUser(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := forged.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = s.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRequiresExpiry(t *testing.T) {
	s := NewSessions("test-secret", time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		User:             *testUser(),
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = s.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
