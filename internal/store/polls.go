package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/emilythestrangee/civic-polls/backend/internal/models"
)

type PollRepository interface {
	Create(ctx context.Context, poll *models.Poll) error
	List(ctx context.Context, filter Filter) ([]models.Poll, error)
	Get(ctx context.Context, id string) (*models.Poll, error)
	GetMany(ctx context.Context, ids []string) (map[string]*models.Poll, error)
	Update(ctx context.Context, id string, patch Patch) (*models.Poll, error)
	// Delete removes only the poll; its votes are left in place.
	Delete(ctx context.Context, id string) (*models.Poll, error)
}

var pollColumns = map[string]string{
	"_id":          "id",
	"organization": "organization_id",
	"title":        "title",
}

type pollRepo struct {
	db      *gorm.DB
	tallies TallyCache
}

func (r *pollRepo) Create(ctx context.Context, poll *models.Poll) error {
	poll.ID, poll.Version = "", 0
	if err := validateRecord("Poll", poll); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(poll).Error; err != nil {
		return fmt.Errorf("creating poll: %w", err)
	}
	return nil
}

func (r *pollRepo) List(ctx context.Context, filter Filter) ([]models.Poll, error) {
	return list[models.Poll](ctx, r.db, filter, pollColumns)
}

func (r *pollRepo) Get(ctx context.Context, id string) (*models.Poll, error) {
	return findByID[models.Poll](ctx, r.db, id)
}

func (r *pollRepo) GetMany(ctx context.Context, ids []string) (map[string]*models.Poll, error) {
	return findByIDs[models.Poll](ctx, r.db, ids)
}

func (r *pollRepo) Update(ctx context.Context, id string, patch Patch) (*models.Poll, error) {
	poll, err := r.Get(ctx, id)
	if poll == nil || err != nil {
		return nil, err
	}

	version := poll.Version
	if err := applyPatch(patch, poll); err != nil {
		return nil, err
	}
	poll.ID, poll.Version = id, version+1

	if err := validateRecord("Poll", poll); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Save(poll).Error; err != nil {
		return nil, fmt.Errorf("updating poll %s: %w", id, err)
	}
	return poll, nil
}

func (r *pollRepo) Delete(ctx context.Context, id string) (*models.Poll, error) {
	poll, err := r.Get(ctx, id)
	if poll == nil || err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Delete(&models.Poll{}, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("deleting poll %s: %w", id, err)
	}
	invalidate(ctx, r.tallies, id)
	return poll, nil
}
