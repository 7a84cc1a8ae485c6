package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/civic-polls/backend/internal/models"
)

type VoteRepository interface {
	// Record stores userID's choice on pollID, replacing any earlier choice.
	Record(ctx context.Context, pollID, userID, optionSelected string) (*models.Vote, error)
	List(ctx context.Context, filter Filter) ([]models.Vote, error)
	Get(ctx context.Context, id string) (*models.Vote, error)
	Update(ctx context.Context, id string, patch Patch) (*models.Vote, error)
	// Totals returns a single summary of the votes on pollID, or an empty list when it has none.
	Totals(ctx context.Context, pollID string) ([]models.Tally, error)
	CountByPoll(ctx context.Context, pollID string) (int64, error)
}

var voteColumns = map[string]string{
	"_id":            "id",
	"poll":           "poll_id",
	"user":           "user_id",
	"optionSelected": "option_selected",
}

type voteRepo struct {
	db      *gorm.DB
	tallies TallyCache
}

// Record relies on the unique (poll_id, user_id) index: the insert, the overwrite of an
// existing vote and the read of the stored row happen in one
// INSERT ... ON CONFLICT DO UPDATE ... RETURNING statement.
func (r *voteRepo) Record(ctx context.Context, pollID, userID, optionSelected string) (*models.Vote, error) {
	vote := &models.Vote{
		PollID:         pollID,
		UserID:         userID,
		OptionSelected: optionSelected,
	}
	if err := validateRecord("Vote", vote); err != nil {
		return nil, err
	}

	err := r.db.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "poll_id"}, {Name: "user_id"}},
			DoUpdates: append(
				clause.AssignmentColumns([]string{"option_selected", "updated_at"}),
				clause.Assignment{Column: clause.Column{Name: "version"}, Value: gorm.Expr("votes.version + 1")},
			),
		},
		clause.Returning{},
	).Create(vote).Error
	if err != nil {
		return nil, fmt.Errorf("recording vote: %w", err)
	}
	invalidate(ctx, r.tallies, pollID)
	return vote, nil
}

func (r *voteRepo) List(ctx context.Context, filter Filter) ([]models.Vote, error) {
	return list[models.Vote](ctx, r.db, filter, voteColumns)
}

func (r *voteRepo) Get(ctx context.Context, id string) (*models.Vote, error) {
	return findByID[models.Vote](ctx, r.db, id)
}

func (r *voteRepo) Update(ctx context.Context, id string, patch Patch) (*models.Vote, error) {
	vote, err := r.Get(ctx, id)
	if vote == nil || err != nil {
		return nil, err
	}

	version, previousPoll := vote.Version, vote.PollID
	if err := applyPatch(patch, vote); err != nil {
		return nil, err
	}
	vote.ID, vote.Version = id, version+1

	if err := validateRecord("Vote", vote); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Save(vote).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateVote
		}
		return nil, fmt.Errorf("updating vote %s: %w", id, err)
	}
	invalidate(ctx, r.tallies, previousPoll, vote.PollID)
	return vote, nil
}

func (r *voteRepo) Totals(ctx context.Context, pollID string) ([]models.Tally, error) {
	if cached, ok, err := r.tallies.Get(ctx, pollID); err != nil {
		slog.Warn("failed to read cached tally", "poll_id", pollID, "error", err)
	} else if ok {
		return cached, nil
	}

	// Read before the scan so an invalidation during it keeps this result out of the cache.
	generation, genErr := r.tallies.Generation(ctx, pollID)
	if genErr != nil {
		slog.Warn("failed to read tally generation", "poll_id", pollID, "error", genErr)
	}

	var counts []models.OptionCount
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Select("option_selected, COUNT(*) AS total").
		Where("poll_id = ?", pollID).
		Group("option_selected").
		Order("total DESC").
		Order("option_selected ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("tallying poll %s: %w", pollID, err)
	}

	tallies := summarize(counts)
	if genErr == nil {
		if err := r.tallies.Set(ctx, pollID, generation, tallies); err != nil {
			slog.Warn("failed to cache tally", "poll_id", pollID, "error", err)
		}
	}
	return tallies, nil
}

// summarize folds per-option counts into one summary row. No counts means no summary at all.
func summarize(counts []models.OptionCount) []models.Tally {
	if len(counts) == 0 {
		return []models.Tally{}
	}
	summary := models.Tally{VoteOptions: counts}
	for _, c := range counts {
		summary.Total += c.Count
	}
	return []models.Tally{summary}
}

func (r *voteRepo) CountByPoll(ctx context.Context, pollID string) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Vote{}).Where("poll_id = ?", pollID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting votes of poll %s: %w", pollID, err)
	}
	return n, nil
}
