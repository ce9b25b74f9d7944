package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/prmhq/prm-backend/internal/common"
	"github.com/prmhq/prm-backend/internal/domain"
	"github.com/prmhq/prm-backend/pkg/shortcode"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxCodeAttempts bounds regeneration when a fresh code collides with an existing one
const maxCodeAttempts = 3

// newCode generates public codes; tests swap it to force collisions
var newCode = shortcode.New

// columns that are written once on insert and never again
var immutableColumns = []string{"id", "code", "owner_id", "created_at"}

// Resource constrains PT to a pointer to T that implements domain.Record
type Resource[T any] interface {
	*T
	domain.Record
}

// ListQuery narrows and pages an owner's records
type ListQuery struct {
	Page    int
	PerPage int
	Scopes  []func(*gorm.DB) *gorm.DB
}

// Store is the data access capability set shared by every owned resource
type Store[T any, PT Resource[T]] interface {
	FindByOwner(ctx context.Context, ownerID uint64, q ListQuery) ([]PT, int64, error)
	FindByCode(ctx context.Context, code string) (PT, error)
	Insert(ctx context.Context, ownerID uint64, record PT) error
	Update(ctx context.Context, record PT) error
	Delete(ctx context.Context, record PT) error
}

// DeleteHook runs inside the delete transaction before the row is removed
type DeleteHook func(tx *gorm.DB, id uint64) error

type storeConfig struct {
	preloads     []string
	order        string
	beforeDelete []DeleteHook
}

// StoreOption configures a Store
type StoreOption func(*storeConfig)

// WithPreload loads the named associations on every read
func WithPreload(associations ...string) StoreOption {
	return func(c *storeConfig) {
		c.preloads = append(c.preloads, associations...)
	}
}

// WithOrder sets the list ordering
func WithOrder(order string) StoreOption {
	return func(c *storeConfig) {
		c.order = order
	}
}

// WithBeforeDelete registers a hook that runs before each delete
func WithBeforeDelete(hook DeleteHook) StoreOption {
	return func(c *storeConfig) {
		c.beforeDelete = append(c.beforeDelete, hook)
	}
}

type gormStore[T any, PT Resource[T]] struct {
	db   *gorm.DB
	name string
	cfg  storeConfig
}

// NewStore creates a GORM backed Store. name is used in not-found messages.
func NewStore[T any, PT Resource[T]](db *gorm.DB, name string, opts ...StoreOption) Store[T, PT] {
	s := &gormStore[T, PT]{db: db, name: name}
	for _, opt := range opts {
		opt(&s.cfg)
	}
	if s.cfg.order == "" {
		s.cfg.order = "created_at DESC, id DESC"
	}
	return s
}

func (s *gormStore[T, PT]) withPreloads(db *gorm.DB) *gorm.DB {
	for _, p := range s.cfg.preloads {
		db = db.Preload(p)
	}
	return db
}

func (s *gormStore[T, PT]) FindByOwner(ctx context.Context, ownerID uint64, q ListQuery) ([]PT, int64, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Model(PT(new(T))).
		Where("owner_id = ?", ownerID).
		Scopes(q.Scopes...).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	query := s.withPreloads(s.db.WithContext(ctx)).
		Where("owner_id = ?", ownerID).
		Scopes(q.Scopes...).
		Order(s.cfg.order)
	if q.PerPage > 0 {
		page := q.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * q.PerPage).Limit(q.PerPage)
	}

	records := make([]PT, 0)
	if err := query.Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// FindByCode loads a record by its public code. Codes of the wrong shape are
// reported as not found without touching the database.
func (s *gormStore[T, PT]) FindByCode(ctx context.Context, code string) (PT, error) {
	if !shortcode.Valid(code) {
		return nil, common.NotFound(s.name)
	}
	record := PT(new(T))
	err := s.withPreloads(s.db.WithContext(ctx)).
		Where("code = ?", code).
		First(record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.NotFound(s.name)
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Insert assigns the owner and a fresh code, then creates the row.
// Roster members are never written through Insert.
func (s *gormStore[T, PT]) Insert(ctx context.Context, ownerID uint64, record PT) error {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := newCode()
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		record.Assign(ownerID, code)

		err = s.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return fmt.Errorf("insert %s: %w", s.name, common.ErrConflict)
}

// Update writes every mutable column, zero values included
func (s *gormStore[T, PT]) Update(ctx context.Context, record PT) error {
	omit := append([]string{clause.Associations}, immutableColumns...)
	return s.db.WithContext(ctx).
		Model(record).
		Select("*").
		Omit(omit...).
		Updates(record).Error
}

// Delete removes the row and its roster join rows
func (s *gormStore[T, PT]) Delete(ctx context.Context, record PT) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, hook := range s.cfg.beforeDelete {
			if err := hook(tx, record.Key()); err != nil {
				return err
			}
		}
		return tx.Select(clause.Associations).Delete(record).Error
	})
}
