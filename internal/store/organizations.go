package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/emilythestrangee/civic-polls/backend/internal/models"
)

type OrganizationRepository interface {
	Create(ctx context.Context, org *models.Organization) error
	List(ctx context.Context, filter Filter) ([]models.Organization, error)
	Get(ctx context.Context, id string) (*models.Organization, error)
	GetMany(ctx context.Context, ids []string) (map[string]*models.Organization, error)
	Update(ctx context.Context, id string, patch Patch) (*models.Organization, error)
	// Delete removes the organization together with its polls and their votes.
	Delete(ctx context.Context, id string) (*models.Organization, error)
}

var organizationColumns = map[string]string{
	"_id":   "id",
	"title": "title",
}

type organizationRepo struct {
	db      *gorm.DB
	tallies TallyCache
}

func (r *organizationRepo) Create(ctx context.Context, org *models.Organization) error {
	org.ID, org.Version = "", 0
	if err := validateRecord("Organization", org); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(org).Error; err != nil {
		return fmt.Errorf("creating organization: %w", err)
	}
	return nil
}

func (r *organizationRepo) List(ctx context.Context, filter Filter) ([]models.Organization, error) {
	return list[models.Organization](ctx, r.db, filter, organizationColumns)
}

func (r *organizationRepo) Get(ctx context.Context, id string) (*models.Organization, error) {
	return findByID[models.Organization](ctx, r.db, id)
}

func (r *organizationRepo) GetMany(ctx context.Context, ids []string) (map[string]*models.Organization, error) {
	return findByIDs[models.Organization](ctx, r.db, ids)
}

func (r *organizationRepo) Update(ctx context.Context, id string, patch Patch) (*models.Organization, error) {
	org, err := r.Get(ctx, id)
	if org == nil || err != nil {
		return nil, err
	}

	version := org.Version
	if err := applyPatch(patch, org); err != nil {
		return nil, err
	}
	org.ID, org.Version = id, version+1

	if err := validateRecord("Organization", org); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Save(org).Error; err != nil {
		return nil, fmt.Errorf("updating organization %s: %w", id, err)
	}
	return org, nil
}

// Delete sweeps polls and votes one statement at a time without a transaction, so a failure
// part way leaves the remaining polls and votes behind. Polls are swept even when the
// organization itself no longer exists.
func (r *organizationRepo) Delete(ctx context.Context, id string) (*models.Organization, error) {
	org, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx)

	var polls []models.Poll
	if err := db.Where("organization_id = ?", id).Find(&polls).Error; err != nil {
		return nil, fmt.Errorf("finding polls of organization %s: %w", id, err)
	}

	for _, poll := range polls {
		if err := db.Where("poll_id = ?", poll.ID).Delete(&models.Vote{}).Error; err != nil {
			return nil, fmt.Errorf("deleting votes of poll %s: %w", poll.ID, err)
		}
		if err := db.Delete(&models.Poll{}, "id = ?", poll.ID).Error; err != nil {
			return nil, fmt.Errorf("deleting poll %s: %w", poll.ID, err)
		}
		invalidate(ctx, r.tallies, poll.ID)
	}

	if org == nil {
		return nil, nil
	}
	if err := db.Delete(&models.Organization{}, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("deleting organization %s: %w", id, err)
	}
	return org, nil
}
