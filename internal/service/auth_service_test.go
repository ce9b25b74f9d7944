package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/prmhq/prm-backend/internal/common"
	"github.com/prmhq/prm-backend/internal/domain"
	"github.com/prmhq/prm-backend/internal/mail"
	"github.com/prmhq/prm-backend/pkg/cache"
	"github.com/prmhq/prm-backend/pkg/jwt"
)

// --- Mock UserRepository ---

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) CreateWithProfile(ctx context.Context, user *domain.User, afterCreate func(*domain.User) error) error {
	if err := m.Called(user).Error(0); err != nil {
		return err
	}
	user.ID = 1
	return afterCreate(user)
}

func (m *mockUserRepo) userResult(args mock.Arguments) (*domain.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	return m.userResult(m.Called(id))
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.userResult(m.Called(username))
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.userResult(m.Called(email))
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(username)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) Activate(ctx context.Context, id uint64) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(user).Error(0)
}

func (m *mockUserRepo) UpdatePicture(ctx context.Context, userID uint64, url string) error {
	return m.Called(userID, url).Error(0)
}

// --- Mock AuthTokenRepository ---

type mockTokenRepo struct {
	mock.Mock
}

func (m *mockTokenRepo) tokenResult(args mock.Arguments) (*domain.AuthToken, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthToken), args.Error(1)
}

func (m *mockTokenRepo) GetOrCreate(ctx context.Context, userID uint64) (*domain.AuthToken, error) {
	return m.tokenResult(m.Called(userID))
}

func (m *mockTokenRepo) FindByKey(ctx context.Context, key string) (*domain.AuthToken, error) {
	return m.tokenResult(m.Called(key))
}

func (m *mockTokenRepo) DeleteByUser(ctx context.Context, userID uint64) (*domain.AuthToken, error) {
	return m.tokenResult(m.Called(userID))
}

// --- Fake outbox ---

type fakeOutbox struct {
	sent []*mail.Message
	err  error
}

func (f *fakeOutbox) Enqueue(_ context.Context, msg *mail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

// --- Tests ---

const testSecret = "test-secret-key-for-testing-only-32b!"

func newTestAuthService(users *mockUserRepo, tokens *mockTokenRepo, outbox *fakeOutbox, now time.Time) AuthService {
	return NewAuthService(users, tokens,
		jwt.NewManager(testSecret, jwt.WithClock(func() time.Time { return now })),
		outbox, cache.NewService(nil, 0),
		AuthOptions{VerificationTTL: 72 * time.Hour, MailFrom: "PRM <noreply@prm.com>", VerifyURL: "https://prm.example.com/users/verify"})
}

func validSignup() *domain.SignupRequest {
	return &domain.SignupRequest{
		Email:                "ada@example.com",
		Username:             "ada",
		Password:             "correct-horse",
		PasswordConfirmation: "correct-horse",
		FirstName:            "Ada",
		LastName:             "Lovelace",
	}
}

func TestSignup_CreatesInactiveUserAndQueuesMail(t *testing.T) {
	users, tokens, outbox := new(mockUserRepo), new(mockTokenRepo), &fakeOutbox{}
	svc := newTestAuthService(users, tokens, outbox, time.Now())

	users.On("ExistsByEmail", "ada@example.com").Return(false, nil)
	users.On("ExistsByUsername", "ada").Return(false, nil)
	users.On("CreateWithProfile", mock.MatchedBy(func(u *domain.User) bool {
		return !u.IsActive && u.Profile != nil &&
			bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("correct-horse")) == nil
	})).Return(nil)

	user, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)
	assert.False(t, user.IsActive)
	require.Len(t, outbox.sent, 1)
	assert.Equal(t, []string{"ada@example.com"}, outbox.sent[0].To)
	users.AssertExpectations(t)
}

func TestSignup_PasswordMismatch(t *testing.T) {
	svc := newTestAuthService(new(mockUserRepo), new(mockTokenRepo), &fakeOutbox{}, time.Now())
	req := validSignup()
	req.PasswordConfirmation = "something-else"

	_, err := svc.Signup(context.Background(), req)
	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "passwords mismatch", verr.Message)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	users := new(mockUserRepo)
	svc := newTestAuthService(users, new(mockTokenRepo), &fakeOutbox{}, time.Now())
	users.On("ExistsByEmail", "ada@example.com").Return(true, nil)

	_, err := svc.Signup(context.Background(), validSignup())
	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)
}

func TestSignup_QueueFailureFails(t *testing.T) {
	users := new(mockUserRepo)
	outbox := &fakeOutbox{err: errors.New("redis down")}
	svc := newTestAuthService(users, new(mockTokenRepo), outbox, time.Now())

	users.On("ExistsByEmail", mock.Anything).Return(false, nil)
	users.On("ExistsByUsername", mock.Anything).Return(false, nil)
	users.On("CreateWithProfile", mock.Anything).Return(nil)

	_, err := svc.Signup(context.Background(), validSignup())
	assert.EqualError(t, err, "redis down")
}

func issueToken(t *testing.T, subject string, kind jwt.Kind, at time.Time) string {
	t.Helper()
	tok, err := jwt.NewManager(testSecret, jwt.WithClock(func() time.Time { return at })).Issue(subject, kind, 72*time.Hour)
	require.NoError(t, err)
	return tok
}

func TestVerify(t *testing.T) {
	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	inactive := &domain.User{ID: 5, Username: "ada"}

	tests := []struct {
		name    string
		token   string
		now     time.Time
		setup   func(*mockUserRepo)
		wantErr error
		wantMsg string
	}{
		{
			name:  "activates",
			token: issueToken(t, "ada", jwt.KindEmailConfirmation, issued),
			now:   issued.Add(time.Hour),
			setup: func(u *mockUserRepo) {
				u.On("FindByUsername", "ada").Return(inactive, nil)
				u.On("Activate", uint64(5)).Return(true, nil)
			},
		},
		{
			name:  "already active",
			token: issueToken(t, "ada", jwt.KindEmailConfirmation, issued),
			now:   issued.Add(time.Hour),
			setup: func(u *mockUserRepo) {
				u.On("FindByUsername", "ada").Return(inactive, nil)
				u.On("Activate", uint64(5)).Return(false, nil)
			},
			wantErr: common.ErrAlreadyActive,
		},
		{
			name:    "expired",
			token:   issueToken(t, "ada", jwt.KindEmailConfirmation, issued),
			now:     issued.Add(73 * time.Hour),
			wantMsg: "token has expired",
		},
		{
			name:    "wrong kind",
			token:   issueToken(t, "ada", jwt.KindPasswordReset, issued),
			now:     issued.Add(time.Hour),
			wantMsg: "invalid token",
		},
		{
			name:    "garbage",
			token:   "not-a-token",
			now:     issued,
			wantMsg: "invalid token",
		},
		{
			name:  "unknown subject",
			token: issueToken(t, "ghost", jwt.KindEmailConfirmation, issued),
			now:   issued.Add(time.Hour),
			setup: func(u *mockUserRepo) {
				u.On("FindByUsername", "ghost").Return(nil, common.NotFound("user"))
			},
			wantMsg: "invalid token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(mockUserRepo)
			if tt.setup != nil {
				tt.setup(users)
			}
			svc := newTestAuthService(users, new(mockTokenRepo), &fakeOutbox{}, tt.now)

			err := svc.Verify(context.Background(), tt.token)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantMsg != "":
				var verr *common.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.wantMsg, verr.Message)
			default:
				assert.NoError(t, err)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestLogin(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	active := &domain.User{ID: 3, Email: "ada@example.com", Password: string(hashed), IsActive: true}
	inactive := &domain.User{ID: 4, Email: "bob@example.com", Password: string(hashed)}

	users, tokens := new(mockUserRepo), new(mockTokenRepo)
	svc := newTestAuthService(users, tokens, &fakeOutbox{}, time.Now())
	users.On("FindByEmail", "ada@example.com").Return(active, nil)
	users.On("FindByEmail", "bob@example.com").Return(inactive, nil)
	users.On("FindByEmail", "nobody@example.com").Return(nil, common.NotFound("user"))
	tokens.On("GetOrCreate", uint64(3)).Return(&domain.AuthToken{Key: "k3", UserID: 3}, nil)

	ctx := context.Background()
	resp, err := svc.Login(ctx, &domain.LoginRequest{Email: "ada@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "k3", resp.Token)
	assert.Same(t, active, resp.User)

	_, err = svc.Login(ctx, &domain.LoginRequest{Email: "ada@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &domain.LoginRequest{Email: "nobody@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &domain.LoginRequest{Email: "bob@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, common.ErrInactiveAccount)
}

func TestAuthenticate(t *testing.T) {
	tokens := new(mockTokenRepo)
	svc := newTestAuthService(new(mockUserRepo), tokens, &fakeOutbox{}, time.Now())
	tokens.On("FindByKey", "good").Return(&domain.AuthToken{Key: "good", UserID: 9}, nil)
	tokens.On("FindByKey", "bad").Return(nil, common.NotFound("token"))

	ctx := context.Background()
	userID, err := svc.Authenticate(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, uint64(9), userID)

	_, err = svc.Authenticate(ctx, "bad")
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestGetUser_SelfOnly(t *testing.T) {
	users := new(mockUserRepo)
	svc := newTestAuthService(users, new(mockTokenRepo), &fakeOutbox{}, time.Now())
	users.On("FindByUsername", "ada").Return(&domain.User{ID: 1, Username: "ada", IsActive: true}, nil)
	users.On("FindByUsername", "sleepy").Return(&domain.User{ID: 3, Username: "sleepy"}, nil)

	ctx := context.Background()
	user, err := svc.GetUser(ctx, 1, "ada")
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)

	_, err = svc.GetUser(ctx, 2, "ada")
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = svc.GetUser(ctx, 3, "sleepy")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
