package repository

import (
	"context"
	"errors"

	"github.com/prmhq/prm-backend/internal/common"
	"github.com/prmhq/prm-backend/internal/domain"
	"gorm.io/gorm"
)

// UserRepository account data access
type UserRepository interface {
	// CreateWithProfile stores the user and its profile, then runs afterCreate in the
	// same transaction. An afterCreate error rolls everything back.
	CreateWithProfile(ctx context.Context, user *domain.User, afterCreate func(*domain.User) error) error
	FindByID(ctx context.Context, id uint64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// Activate flips is_active from false to true and reports whether it did
	Activate(ctx context.Context, id uint64) (bool, error)
	Update(ctx context.Context, user *domain.User) error
	UpdatePicture(ctx context.Context, userID uint64, url string) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateWithProfile(ctx context.Context, user *domain.User, afterCreate func(*domain.User) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if user.Profile == nil {
			user.Profile = &domain.Profile{}
		}
		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return common.NewValidationError("", "a user with that email or username already exists")
			}
			return err
		}
		if afterCreate == nil {
			return nil
		}
		return afterCreate(user)
	})
}

func (r *userRepository) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Where(query, arg).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.NotFound("user")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *userRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where(query, arg).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

func (r *userRepository) Activate(ctx context.Context, id uint64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ? AND is_active = ?", id, false).
		Update("is_active", true)
	return result.RowsAffected == 1, result.Error
}

// Update writes the user's editable columns and upserts its profile
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(user).
			Select("first_name", "last_name", "phone_number").
			Updates(user).Error
		if err != nil {
			return err
		}
		if user.Profile == nil {
			return nil
		}
		user.Profile.UserID = user.ID
		return tx.Save(user.Profile).Error
	})
}

func (r *userRepository) UpdatePicture(ctx context.Context, userID uint64, url string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Profile{}).
		Where("user_id = ?", userID).
		Update("picture", url).Error
}
