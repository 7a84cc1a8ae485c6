package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/emilythestrangee/civic-polls/backend/internal/models"
)

type MembershipRepository interface {
	Create(ctx context.Context, m *models.Membership) error
	List(ctx context.Context, filter Filter) ([]models.Membership, error)
	// Delete removes only the membership; the user's votes are left in place.
	Delete(ctx context.Context, id string) (*models.Membership, error)
}

var membershipColumns = map[string]string{
	"_id":          "id",
	"organization": "organization_id",
	"user":         "user_id",
}

type membershipRepo struct {
	db *gorm.DB
}

func (r *membershipRepo) Create(ctx context.Context, m *models.Membership) error {
	m.ID, m.Version = "", 0
	if err := validateRecord("Membership", m); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("creating membership: %w", err)
	}
	return nil
}

func (r *membershipRepo) List(ctx context.Context, filter Filter) ([]models.Membership, error) {
	return list[models.Membership](ctx, r.db, filter, membershipColumns)
}

func (r *membershipRepo) Delete(ctx context.Context, id string) (*models.Membership, error) {
	m, err := findByID[models.Membership](ctx, r.db, id)
	if m == nil || err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Delete(&models.Membership{}, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("deleting membership %s: %w", id, err)
	}
	return m, nil
}
