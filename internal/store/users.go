package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/emilythestrangee/civic-polls/backend/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	List(ctx context.Context, filter Filter) ([]models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	GetMany(ctx context.Context, ids []string) (map[string]*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id string, patch Patch) (*models.User, error)
	// Delete removes only the user; memberships and votes referencing it are left in place.
	Delete(ctx context.Context, id string) (*models.User, error)
}

var userColumns = map[string]string{
	"_id":                 "id",
	"name":                "name",
	"email":               "email",
	"communicationMedium": "communication_medium",
}

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	user.ID, user.Version = "", 0
	if err := validateRecord("User", user); err != nil {
		return err
	}

	existing, err := r.FindByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmailTaken
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

func (r *userRepo) List(ctx context.Context, filter Filter) ([]models.User, error) {
	return list[models.User](ctx, r.db, filter, userColumns)
}

func (r *userRepo) Get(ctx context.Context, id string) (*models.User, error) {
	return findByID[models.User](ctx, r.db, id)
}

func (r *userRepo) GetMany(ctx context.Context, ids []string) (map[string]*models.User, error) {
	return findByIDs[models.User](ctx, r.db, ids)
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepo) Update(ctx context.Context, id string, patch Patch) (*models.User, error) {
	user, err := r.Get(ctx, id)
	if user == nil || err != nil {
		return nil, err
	}

	version, email, hash := user.Version, user.Email, user.PasswordHash
	if err := applyPatch(patch, user); err != nil {
		return nil, err
	}
	user.ID, user.Version, user.PasswordHash = id, version+1, hash

	if err := validateRecord("User", user); err != nil {
		return nil, err
	}
	if user.Email != email {
		other, err := r.FindByEmail(ctx, user.Email)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, ErrEmailTaken
		}
	}

	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("updating user %s: %w", id, err)
	}
	return user, nil
}

func (r *userRepo) Delete(ctx context.Context, id string) (*models.User, error) {
	user, err := r.Get(ctx, id)
	if user == nil || err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("deleting user %s: %w", id, err)
	}
	return user, nil
}
