package service

import (
	"context"
	"time"

	"github.com/prmhq/prm-backend/internal/authz"
	"github.com/prmhq/prm-backend/internal/common"
	"github.com/prmhq/prm-backend/internal/domain"
	"github.com/prmhq/prm-backend/internal/repository"
)

// MoodService mood business logic
type MoodService interface {
	// Save stores the day's mood, overwriting an existing one; created reports which happened
	Save(ctx context.Context, actorID uint64, mood *domain.Mood) (saved *domain.Mood, created bool, err error)
	List(ctx context.Context, actorID uint64, q repository.ListQuery) ([]*domain.Mood, int64, error)
	GetByDate(ctx context.Context, actorID uint64, date common.Date) (*domain.Mood, error)
	DeleteByDate(ctx context.Context, actorID uint64, date common.Date) error
}

type moodService struct {
	moods repository.MoodRepository
	store repository.Store[domain.Mood, *domain.Mood]
	now   func() time.Time
}

// NewMoodService creates a new MoodService. now may be nil.
func NewMoodService(moods repository.MoodRepository, store repository.Store[domain.Mood, *domain.Mood], now func() time.Time) MoodService {
	if now == nil {
		now = time.Now
	}
	return &moodService{moods: moods, store: store, now: now}
}

func (s *moodService) Save(ctx context.Context, actorID uint64, mood *domain.Mood) (*domain.Mood, bool, error) {
	if mood.Date.After(common.Today(s.now())) {
		return nil, false, common.NewValidationError("date", "can only log moods from today or the past")
	}
	return s.moods.Upsert(ctx, actorID, mood)
}

func (s *moodService) List(ctx context.Context, actorID uint64, q repository.ListQuery) ([]*domain.Mood, int64, error) {
	return s.store.FindByOwner(ctx, actorID, q)
}

func (s *moodService) GetByDate(ctx context.Context, actorID uint64, date common.Date) (*domain.Mood, error) {
	mood, err := s.moods.FindByDate(ctx, actorID, date)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actorID, mood); err != nil {
		return nil, err
	}
	return mood, nil
}

func (s *moodService) DeleteByDate(ctx context.Context, actorID uint64, date common.Date) error {
	mood, err := s.GetByDate(ctx, actorID, date)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, mood)
}
