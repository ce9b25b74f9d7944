package service

import (
	"context"

	"github.com/prmhq/prm-backend/internal/authz"
	"github.com/prmhq/prm-backend/internal/repository"
)

// ResourceService is the CRUD flow shared by every owned resource:
// fetch by code, authorize against the actor, then mutate.
type ResourceService[T any, PT repository.Resource[T]] struct {
	store repository.Store[T, PT]
}

// NewResourceService creates a ResourceService over store
func NewResourceService[T any, PT repository.Resource[T]](store repository.Store[T, PT]) *ResourceService[T, PT] {
	return &ResourceService[T, PT]{store: store}
}

// List returns the actor's records; foreign records are never visible
func (s *ResourceService[T, PT]) List(ctx context.Context, actorID uint64, q repository.ListQuery) ([]PT, int64, error) {
	return s.store.FindByOwner(ctx, actorID, q)
}

// Get resolves code and authorizes the actor against it
func (s *ResourceService[T, PT]) Get(ctx context.Context, actorID uint64, code string) (PT, error) {
	record, err := s.store.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actorID, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Create stores record as owned by the actor and returns the stored row
func (s *ResourceService[T, PT]) Create(ctx context.Context, actorID uint64, record PT) (PT, error) {
	if err := s.store.Insert(ctx, actorID, record); err != nil {
		return nil, err
	}
	return s.store.FindByCode(ctx, record.PublicCode())
}

// Update applies a field change to an authorized record
func (s *ResourceService[T, PT]) Update(ctx context.Context, actorID uint64, code string, apply func(PT) error) (PT, error) {
	record, err := s.Get(ctx, actorID, code)
	if err != nil {
		return nil, err
	}
	if err := apply(record); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, record); err != nil {
		return nil, err
	}
	return s.store.FindByCode(ctx, code)
}

// Delete removes an authorized record
func (s *ResourceService[T, PT]) Delete(ctx context.Context, actorID uint64, code string) error {
	record, err := s.Get(ctx, actorID, code)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, record)
}
