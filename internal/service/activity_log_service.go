package service

import (
	"context"

	"github.com/prmhq/prm-backend/internal/domain"
	"github.com/prmhq/prm-backend/internal/repository"
)

// ActivityLogService adds activity scoped list and create to the log roster
type ActivityLogService struct {
	*Roster[domain.ActivityLog, *domain.ActivityLog]
	activities *ResourceService[domain.Activity, *domain.Activity]
}

// NewActivityLogService creates an ActivityLogService
func NewActivityLogService(
	logs *Roster[domain.ActivityLog, *domain.ActivityLog],
	activities *ResourceService[domain.Activity, *domain.Activity],
) *ActivityLogService {
	return &ActivityLogService{Roster: logs, activities: activities}
}

// ListForActivity lists the actor's logs of one activity
func (s *ActivityLogService) ListForActivity(ctx context.Context, actorID uint64, activityCode string, q repository.ListQuery) ([]*domain.ActivityLog, int64, error) {
	activity, err := s.activities.Get(ctx, actorID, activityCode)
	if err != nil {
		return nil, 0, err
	}
	q.Scopes = append(q.Scopes, repository.WhereColumn("activity_id", activity.ID))
	return s.List(ctx, actorID, q)
}

// CreateForActivity logs an occurrence of the actor's activity
func (s *ActivityLogService) CreateForActivity(ctx context.Context, actorID uint64, activityCode string, log *domain.ActivityLog) (*domain.ActivityLog, error) {
	activity, err := s.activities.Get(ctx, actorID, activityCode)
	if err != nil {
		return nil, err
	}
	log.ActivityID = &activity.ID
	return s.Create(ctx, actorID, log)
}
