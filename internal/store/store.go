// Package store persists organizations, users, memberships, polls and votes through GORM.
//
// Lookups by id return (nil, nil) when the record does not exist; callers decide how to
// surface a missing record.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"gorm.io/gorm"

	"github.com/emilythestrangee/civic-polls/backend/internal/models"
)

var (
	// ErrEmailTaken is returned when a user is created or updated with an email already in use.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrDuplicateVote is returned when a vote update would give a user two votes on one poll.
	ErrDuplicateVote = errors.New("user has already voted on this poll")
	// ErrInvalidPatch wraps failures to apply a partial update onto a record.
	ErrInvalidPatch = errors.New("invalid update")
)

// Filter restricts list queries by exact match on wire field names, e.g. {"organization": id}.
// Keys a repository does not know are ignored.
type Filter map[string]string

// FilterFromQuery takes the first value of every query-string parameter.
func FilterFromQuery(q url.Values) Filter {
	f := make(Filter, len(q))
	for key, vals := range q {
		if len(vals) > 0 {
			f[key] = vals[0]
		}
	}
	return f
}

// Patch merges a partial update into dst, which is a pointer to the stored record.
type Patch func(dst any) error

// TallyCache keeps computed vote totals per poll. Every Invalidate bumps the poll's
// generation; Set only stores a tally computed under the current generation.
type TallyCache interface {
	Get(ctx context.Context, pollID string) ([]models.Tally, bool, error)
	Generation(ctx context.Context, pollID string) (int64, error)
	Set(ctx context.Context, pollID string, generation int64, tallies []models.Tally) error
	Invalidate(ctx context.Context, pollIDs ...string) error
}

// Store groups the repositories of every entity.
type Store struct {
	Organizations OrganizationRepository
	Users         UserRepository
	Memberships   MembershipRepository
	Polls         PollRepository
	Votes         VoteRepository
}

// New builds a Store on db. tallies may be nil, in which case totals are always computed.
func New(db *gorm.DB, tallies TallyCache) *Store {
	if tallies == nil {
		tallies = noTallyCache{}
	}
	return &Store{
		Organizations: &organizationRepo{db: db, tallies: tallies},
		Users:         &userRepo{db: db},
		Memberships:   &membershipRepo{db: db},
		Polls:         &pollRepo{db: db, tallies: tallies},
		Votes:         &voteRepo{db: db, tallies: tallies},
	}
}

// Models lists every persisted record type, in migration order.
func Models() []any {
	return []any{
		&models.Organization{},
		&models.User{},
		&models.Membership{},
		&models.Poll{},
		&models.Vote{},
	}
}

func findByID[T any](ctx context.Context, db *gorm.DB, id string) (*T, error) {
	var rec T
	err := db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

type identified[T any] interface {
	*T
	RecordID() string
}

// findByIDs loads every record whose id is in ids, keyed by id. Missing ids are simply absent.
func findByIDs[T any, PT identified[T]](ctx context.Context, db *gorm.DB, ids []string) (map[string]*T, error) {
	out := make(map[string]*T, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var recs []T
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&recs).Error; err != nil {
		return nil, err
	}
	for i := range recs {
		out[PT(&recs[i]).RecordID()] = &recs[i]
	}
	return out, nil
}

func list[T any](ctx context.Context, db *gorm.DB, filter Filter, columns map[string]string) ([]T, error) {
	q := db.WithContext(ctx).Order("created_at ASC")
	for key, val := range filter {
		col, ok := columns[key]
		if !ok {
			continue
		}
		q = q.Where(col+" = ?", val)
	}
	recs := []T{}
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func applyPatch(patch Patch, dst any) error {
	if err := patch(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	return nil
}

func invalidate(ctx context.Context, tallies TallyCache, pollIDs ...string) {
	if err := tallies.Invalidate(ctx, pollIDs...); err != nil {
		slog.Warn("failed to invalidate cached tallies", "poll_ids", pollIDs, "error", err)
	}
}

type noTallyCache struct{}

func (noTallyCache) Get(context.Context, string) ([]models.Tally, bool, error) { return nil, false, nil }
func (noTallyCache) Generation(context.Context, string) (int64, error)         { return 0, nil }
func (noTallyCache) Set(context.Context, string, int64, []models.Tally) error  { return nil }
func (noTallyCache) Invalidate(context.Context, ...string) error               { return nil }
