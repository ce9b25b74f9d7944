package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/prmhq/prm-backend/internal/common"
	"github.com/prmhq/prm-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MoodRepository mood data access. Lists and deletes go through the generic Store.
type MoodRepository interface {
	FindByDate(ctx context.Context, ownerID uint64, date common.Date) (*domain.Mood, error)
	Upsert(ctx context.Context, ownerID uint64, mood *domain.Mood) (*domain.Mood, bool, error)
}

type moodRepository struct {
	db *gorm.DB
}

// NewMoodRepository creates a new MoodRepository
func NewMoodRepository(db *gorm.DB) MoodRepository {
	return &moodRepository{db: db}
}

func (r *moodRepository) FindByDate(ctx context.Context, ownerID uint64, date common.Date) (*domain.Mood, error) {
	var mood domain.Mood
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND date = ?", ownerID, date).
		First(&mood).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.NotFound("mood")
	}
	if err != nil {
		return nil, err
	}
	return &mood, nil
}

// Upsert inserts the mood or, when (owner, date) already has one, overwrites its
// mood value and description in place. The store resolves concurrent saves through
// the unique (owner_id, date) index. It returns the stored row and whether it was created.
//
// MySQL applies ON DUPLICATE KEY UPDATE to any unique key, code included, so a
// fresh code is checked against existing moods before the write.
func (r *moodRepository) Upsert(ctx context.Context, ownerID uint64, mood *domain.Mood) (*domain.Mood, bool, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := newCode()
		if err != nil {
			return nil, false, fmt.Errorf("generate code: %w", err)
		}
		taken, err := r.codeTaken(ctx, code)
		if err != nil {
			return nil, false, err
		}
		if taken {
			continue
		}
		mood.Assign(ownerID, code)

		err = r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "owner_id"}, {Name: "date"}},
				DoUpdates: clause.AssignmentColumns([]string{"mood", "description", "updated_at"}),
			}).
			Create(mood).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// code collision with another mood
			continue
		}
		if err != nil {
			return nil, false, err
		}

		stored, err := r.FindByDate(ctx, ownerID, mood.Date)
		if err != nil {
			return nil, false, err
		}
		return stored, stored.Code == code, nil
	}
	return nil, false, fmt.Errorf("upsert mood: %w", common.ErrConflict)
}

func (r *moodRepository) codeTaken(ctx context.Context, code string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Mood{}).Where("code = ?", code).Count(&n).Error
	return n > 0, err
}
