package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"

	"github.com/prmhq/prm-backend/internal/common"
	"github.com/prmhq/prm-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AuthTokenRepository session credential storage
type AuthTokenRepository interface {
	// GetOrCreate returns the user's token, creating one on first login
	GetOrCreate(ctx context.Context, userID uint64) (*domain.AuthToken, error)
	FindByKey(ctx context.Context, key string) (*domain.AuthToken, error)
	DeleteByUser(ctx context.Context, userID uint64) (*domain.AuthToken, error)
}

type authTokenRepository struct {
	db *gorm.DB
}

// NewAuthTokenRepository creates a new AuthTokenRepository
func NewAuthTokenRepository(db *gorm.DB) AuthTokenRepository {
	return &authTokenRepository{db: db}
}

// newTokenKey returns 40 hex characters
func newTokenKey() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (r *authTokenRepository) GetOrCreate(ctx context.Context, userID uint64) (*domain.AuthToken, error) {
	key, err := newTokenKey()
	if err != nil {
		return nil, err
	}
	token := &domain.AuthToken{Key: key, UserID: userID}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(token).Error
	if err != nil {
		return nil, err
	}

	var stored domain.AuthToken
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *authTokenRepository) FindByKey(ctx context.Context, key string) (*domain.AuthToken, error) {
	var token domain.AuthToken
	err := r.db.WithContext(ctx).Where("token = ?", key).First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.NotFound("token")
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// DeleteByUser removes the user's token and returns it so callers can evict caches
func (r *authTokenRepository) DeleteByUser(ctx context.Context, userID uint64) (*domain.AuthToken, error) {
	var token domain.AuthToken
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).First(&token).Error; err != nil {
			return err
		}
		return tx.Delete(&token).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.NotFound("token")
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}
