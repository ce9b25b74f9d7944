package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/prmhq/prm-backend/internal/common"
	"github.com/prmhq/prm-backend/internal/domain"
	"github.com/prmhq/prm-backend/internal/repository"
	pkglogger "github.com/prmhq/prm-backend/pkg/logger"
	"github.com/prmhq/prm-backend/pkg/storage"
)

// DefaultMaxPictureSize caps uploads when no limit is configured
const DefaultMaxPictureSize int64 = 5 << 20

var pictureTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Picture is an uploaded image
type Picture struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// PictureService stores profile and contact pictures in object storage
type PictureService interface {
	SetProfilePicture(ctx context.Context, userID uint64, pic *Picture) (*domain.User, error)
	SetContactPicture(ctx context.Context, actorID uint64, code string, pic *Picture) (*domain.Contact, error)
}

type pictureService struct {
	uploader storage.Uploader
	users    repository.UserRepository
	contacts *ResourceService[domain.Contact, *domain.Contact]
	maxSize  int64
}

// NewPictureService creates a new PictureService. A nil uploader disables uploads.
func NewPictureService(
	uploader storage.Uploader,
	users repository.UserRepository,
	contacts *ResourceService[domain.Contact, *domain.Contact],
	maxSize int64,
) PictureService {
	if maxSize <= 0 {
		maxSize = DefaultMaxPictureSize
	}
	return &pictureService{uploader: uploader, users: users, contacts: contacts, maxSize: maxSize}
}

func (s *pictureService) upload(ctx context.Context, prefix string, pic *Picture) (string, error) {
	if s.uploader == nil {
		return "", common.ErrStorageUnavailable
	}
	if !pictureTypes[pic.ContentType] {
		return "", common.NewValidationError("picture", fmt.Sprintf("unsupported image type %q", pic.ContentType))
	}
	if pic.Size > s.maxSize {
		return "", common.NewValidationError("picture", fmt.Sprintf("image exceeds %d bytes", s.maxSize))
	}

	key := storage.GenerateKey(prefix, pic.Filename, time.Now())
	result, err := s.uploader.Upload(ctx, key, pic.Body, pic.ContentType, pic.Size)
	if err != nil {
		return "", err
	}
	return result.URL, nil
}

// replaced removes a superseded picture. Failures only leave an orphan object behind.
func (s *pictureService) replaced(ctx context.Context, oldURL string) {
	if oldURL == "" {
		return
	}
	key, ok := s.uploader.KeyFromURL(oldURL)
	if !ok {
		return
	}
	if err := s.uploader.Delete(ctx, key); err != nil {
		pkglogger.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to delete replaced picture")
	}
}

func (s *pictureService) SetProfilePicture(ctx context.Context, userID uint64, pic *Picture) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	url, err := s.upload(ctx, "users/pictures", pic)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdatePicture(ctx, userID, url); err != nil {
		return nil, err
	}
	if user.Profile != nil {
		s.replaced(ctx, user.Profile.Picture)
	}
	return s.users.FindByID(ctx, userID)
}

// SetContactPicture authorizes before uploading so foreign contacts never cost storage
func (s *pictureService) SetContactPicture(ctx context.Context, actorID uint64, code string, pic *Picture) (*domain.Contact, error) {
	contact, err := s.contacts.Get(ctx, actorID, code)
	if err != nil {
		return nil, err
	}
	oldURL := contact.Picture

	url, err := s.upload(ctx, "contacts/pictures", pic)
	if err != nil {
		return nil, err
	}
	updated, err := s.contacts.Update(ctx, actorID, code, func(c *domain.Contact) error {
		c.Picture = url
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.replaced(ctx, oldURL)
	return updated, nil
}
