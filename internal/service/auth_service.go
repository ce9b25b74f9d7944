package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/prmhq/prm-backend/internal/authz"
	"github.com/prmhq/prm-backend/internal/common"
	"github.com/prmhq/prm-backend/internal/domain"
	"github.com/prmhq/prm-backend/internal/mail"
	"github.com/prmhq/prm-backend/internal/repository"
	"github.com/prmhq/prm-backend/pkg/cache"
	"github.com/prmhq/prm-backend/pkg/jwt"
	pkglogger "github.com/prmhq/prm-backend/pkg/logger"
)

// AuthService account and session business logic
type AuthService interface {
	Signup(ctx context.Context, req *domain.SignupRequest) (*domain.User, error)
	Verify(ctx context.Context, token string) error
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	Logout(ctx context.Context, userID uint64) error
	// Authenticate resolves a session key to its user id
	Authenticate(ctx context.Context, key string) (uint64, error)
	Profile(ctx context.Context, userID uint64) (*domain.User, error)
	GetUser(ctx context.Context, actorID uint64, username string) (*domain.User, error)
	UpdateUser(ctx context.Context, actorID uint64, username string, apply func(*domain.User) error) (*domain.User, error)
}

// AuthOptions configures the verification email
type AuthOptions struct {
	VerificationTTL time.Duration
	MailFrom        string
	VerifyURL       string
}

type authService struct {
	users    repository.UserRepository
	tokens   repository.AuthTokenRepository
	jwt      *jwt.Manager
	outbox   mail.Enqueuer
	sessions cache.Service
	opts     AuthOptions
}

// NewAuthService creates a new AuthService
func NewAuthService(
	users repository.UserRepository,
	tokens repository.AuthTokenRepository,
	jwtManager *jwt.Manager,
	outbox mail.Enqueuer,
	sessions cache.Service,
	opts AuthOptions,
) AuthService {
	if opts.VerificationTTL <= 0 {
		opts.VerificationTTL = 72 * time.Hour
	}
	return &authService{
		users:    users,
		tokens:   tokens,
		jwt:      jwtManager,
		outbox:   outbox,
		sessions: sessions,
		opts:     opts,
	}
}

// Signup creates an inactive account and queues the confirmation email.
// A queue failure rolls the account back.
func (s *authService) Signup(ctx context.Context, req *domain.SignupRequest) (*domain.User, error) {
	if req.Password != req.PasswordConfirmation {
		return nil, common.NewValidationError("password_confirmation", "passwords mismatch")
	}

	if exists, err := s.users.ExistsByEmail(ctx, req.Email); err != nil {
		return nil, err
	} else if exists {
		return nil, common.NewValidationError("email", "this field must be unique")
	}
	if exists, err := s.users.ExistsByUsername(ctx, req.Username); err != nil {
		return nil, err
	} else if exists {
		return nil, common.NewValidationError("username", "this field must be unique")
	}

	birthDate, err := optionalDate("birth_date", req.BirthDate)
	if err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:    req.Username,
		Email:       req.Email,
		Password:    string(hashed),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		IsActive:    false,
		Profile:     &domain.Profile{BirthDate: birthDate},
	}

	err = s.users.CreateWithProfile(ctx, user, func(created *domain.User) error {
		return s.sendConfirmation(ctx, created)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) sendConfirmation(ctx context.Context, user *domain.User) error {
	token, err := s.jwt.Issue(user.Username, jwt.KindEmailConfirmation, s.opts.VerificationTTL)
	if err != nil {
		return err
	}
	msg, err := mail.NewConfirmation(s.opts.MailFrom, user.Email, mail.ConfirmationData{
		FirstName: user.FirstName,
		Username:  user.Username,
		Token:     token,
		Link:      s.opts.VerifyURL,
	})
	if err != nil {
		return err
	}
	return s.outbox.Enqueue(ctx, msg)
}

// Verify activates the account named by a confirmation token
func (s *authService) Verify(ctx context.Context, token string) error {
	claims, err := s.jwt.Verify(token, jwt.KindEmailConfirmation)
	switch {
	case errors.Is(err, jwt.ErrExpired):
		return common.NewValidationError("token", "token has expired")
	case err != nil:
		return common.NewValidationError("token", "invalid token")
	}

	user, err := s.users.FindByUsername(ctx, claims.Subject)
	if errors.Is(err, common.ErrNotFound) {
		return common.NewValidationError("token", "invalid token")
	}
	if err != nil {
		return err
	}

	activated, err := s.users.Activate(ctx, user.ID)
	if err != nil {
		return err
	}
	if !activated {
		return common.ErrAlreadyActive
	}
	pkglogger.Ctx(ctx).Info().Uint64("verified_user_id", user.ID).Msg("account verified")
	return nil
}

func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, common.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, common.ErrInactiveAccount
	}

	token, err := s.tokens.GetOrCreate(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &domain.LoginResponse{User: user, Token: token.Key}, nil
}

func (s *authService) Logout(ctx context.Context, userID uint64) error {
	token, err := s.tokens.DeleteByUser(ctx, userID)
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.sessions.DeleteSession(ctx, token.Key); err != nil {
		pkglogger.Ctx(ctx).Warn().Err(err).Msg("failed to evict session from cache")
	}
	return nil
}

func (s *authService) Authenticate(ctx context.Context, key string) (uint64, error) {
	if key == "" {
		return 0, common.ErrUnauthorized
	}
	if userID, err := s.sessions.GetSession(ctx, key); err == nil {
		return userID, nil
	}

	token, err := s.tokens.FindByKey(ctx, key)
	if errors.Is(err, common.ErrNotFound) {
		return 0, common.ErrUnauthorized
	}
	if err != nil {
		return 0, err
	}
	if err := s.sessions.SetSession(ctx, key, token.UserID); err != nil {
		pkglogger.Ctx(ctx).Warn().Err(err).Msg("failed to cache session")
	}
	return token.UserID, nil
}

func (s *authService) Profile(ctx context.Context, userID uint64) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// GetUser returns an active account, readable only by itself
func (s *authService) GetUser(ctx context.Context, actorID uint64, username string) (*domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, common.NotFound("user")
	}
	if err := authz.Authorize(actorID, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateUser(ctx context.Context, actorID uint64, username string, apply func(*domain.User) error) (*domain.User, error) {
	user, err := s.GetUser(ctx, actorID, username)
	if err != nil {
		return nil, err
	}
	if err := apply(user); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, user.ID)
}

func optionalDate(field, s string) (*common.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := common.ParseDate(s)
	if err != nil {
		return nil, common.NewValidationError(field, "invalid date, expected YYYY-MM-DD")
	}
	return &d, nil
}
