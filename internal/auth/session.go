// Package auth issues and verifies session tokens and hashes passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/emilythestrangee/civic-polls/backend/internal/models"
)

// SessionTTL is how long a session token stays valid after it is issued.
const SessionTTL = 3 * time.Hour

var (
	ErrMissingToken = errors.New("session token not provided")
	ErrInvalidToken = errors.New("invalid or expired session token")
)

// Claims embeds a snapshot of the user the token was issued to.
type Claims struct {
	User models.User `json:"user"`
	jwt.RegisteredClaims
}

// Sessions signs tokens with an HMAC secret.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessions(secret string, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = SessionTTL
	}
	return &Sessions{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL is the validity window of issued tokens.
func (s *Sessions) TTL() time.Duration { return s.ttl }

// Issue returns a signed token carrying user's public fields.
func (s *Sessions) Issue(user *models.User) (string, error) {
	now := s.now()
	snapshot := *user
	snapshot.PasswordHash = ""

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		User: snapshot,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token and rebuilds the user it was issued to.
func (s *Sessions) Verify(token string) (*models.User, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.User.ID == "" || claims.User.ID != claims.Subject {
		return nil, ErrInvalidToken
	}

	user := claims.User
	return &user, nil
}
