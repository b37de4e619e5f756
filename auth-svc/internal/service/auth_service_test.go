package service_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"tablehouse/auth"
	"tablehouse/auth-svc/internal/domain"
	"tablehouse/auth-svc/internal/mocks"
	"tablehouse/auth-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type staticIdentities map[int]*auth.Identity

func (s staticIdentities) FindIdentity(ctx context.Context, id int) (*auth.Identity, error) {
	if identity, ok := s[id]; ok {
		return identity, nil
	}
	return nil, auth.ErrNotFound
}

func newAuthService(t *testing.T, identities staticIdentities) (*service.AuthService, *mocks.UserRepository, *auth.Tokens) {
	t.Helper()
	repo := mocks.NewUserRepository(t)
	tokens := auth.NewTokens([]byte("auth-svc-secret"), time.Hour)
	svc := service.NewAuthService(repo, auth.NewGate(tokens, identities)).WithHashCost(bcrypt.MinCost)
	return svc, repo, tokens
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthService_Register(t *testing.T) {
	svc, repo, tokens := newAuthService(t, staticIdentities{})
	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(user *domain.User) bool {
		return user.Email == "ada@example.com" &&
			user.Name == "Ada" &&
			user.Role == auth.RoleUser &&
			user.IsActive &&
			bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")) == nil
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = 5
	}).Return(nil).Once()

	session, err := svc.Register(context.Background(), domain.RegisterRequest{
		Name: " Ada ", Email: " ADA@Example.com", Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, session.User.ID)

	userID, claims, err := tokens.Parse(session.Token)
	require.NoError(t, err)
	assert.Equal(t, 5, userID)
	assert.Equal(t, auth.RoleUser, claims.Role)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		req  domain.RegisterRequest
	}{
		{name: "empty_name", req: domain.RegisterRequest{Name: "  ", Email: "ada@example.com", Password: "secret1"}},
		{name: "bad_email", req: domain.RegisterRequest{Name: "Ada", Email: "ada.example.com", Password: "secret1"}},
		{name: "short_password", req: domain.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "12345"}},
		{name: "long_password", req: domain.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: string(make([]byte, 73))}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			svc, _, _ := newAuthService(t, staticIdentities{})
			_, err := svc.Register(context.Background(), testCase.req)
			assert.ErrorIs(t, err, auth.ErrValidation)
		})
	}
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	svc, repo, _ := newAuthService(t, staticIdentities{})
	repo.On("CreateUser", mock.Anything, mock.Anything).
		Return(fmt.Errorf("%w: ada@example.com", auth.ErrDuplicateEmail)).Once()

	_, err := svc.Register(context.Background(), domain.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, auth.ErrDuplicateEmail)
}

func TestAuthService_Login(t *testing.T) {
	hash := hashed(t, "secret1")

	tests := []struct {
		name        string
		password    string
		stored      *domain.User
		lookupErr   error
		touch       bool
		expectedErr error
	}{
		{
			name:     "success",
			password: "secret1",
			stored:   &domain.User{ID: 5, Email: "ada@example.com", PasswordHash: hash, Role: auth.RoleUser, IsActive: true},
			touch:    true,
		},
		{
			name:        "unknown_email",
			password:    "secret1",
			lookupErr:   sql.ErrNoRows,
			expectedErr: auth.ErrNotFound,
		},
		{
			name:        "wrong_password",
			password:    "secret2",
			stored:      &domain.User{ID: 5, Email: "ada@example.com", PasswordHash: hash, Role: auth.RoleUser, IsActive: true},
			expectedErr: auth.ErrInvalidCredential,
		},
		{
			name:        "deactivated_with_right_password",
			password:    "secret1",
			stored:      &domain.User{ID: 5, Email: "ada@example.com", PasswordHash: hash, Role: auth.RoleUser, IsActive: false},
			expectedErr: auth.ErrDeactivated,
		},
		{
			name:        "deactivated_with_wrong_password",
			password:    "guess",
			stored:      &domain.User{ID: 5, Email: "ada@example.com", PasswordHash: hash, Role: auth.RoleUser, IsActive: false},
			expectedErr: auth.ErrInvalidCredential,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			svc, repo, _ := newAuthService(t, staticIdentities{})
			repo.On("GetUserByEmail", mock.Anything, "ada@example.com").Return(testCase.stored, testCase.lookupErr).Once()
			if testCase.touch {
				repo.On("TouchLastLogin", mock.Anything, 5, mock.AnythingOfType("time.Time")).Return(nil).Once()
			}

			session, err := svc.Login(context.Background(), domain.LoginRequest{Email: "Ada@Example.com ", Password: testCase.password})
			if testCase.expectedErr != nil {
				assert.ErrorIs(t, err, testCase.expectedErr)
				assert.Nil(t, session)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, session.Token)
			assert.NotNil(t, session.User.LastLogin)
		})
	}
}

func TestAuthService_LoginComparesPasswordForUnknownEmail(t *testing.T) {
	svc, repo, _ := newAuthService(t, staticIdentities{})
	var compared [][]byte
	svc.WithPasswordComparer(func(hash, password []byte) error {
		compared = append(compared, hash)
		assert.Equal(t, []byte("secret1"), password)
		return bcrypt.ErrMismatchedHashAndPassword
	})
	repo.On("GetUserByEmail", mock.Anything, "nobody@example.com").Return(nil, sql.ErrNoRows).Once()

	session, err := svc.Login(context.Background(), domain.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, auth.ErrNotFound)
	assert.Nil(t, session)
	require.Len(t, compared, 1)
	cost, err := bcrypt.Cost(compared[0])
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestAuthService_LoginSurvivesLastLoginFailure(t *testing.T) {
	svc, repo, _ := newAuthService(t, staticIdentities{})
	repo.On("GetUserByEmail", mock.Anything, "ada@example.com").
		Return(&domain.User{ID: 5, PasswordHash: hashed(t, "secret1"), Role: auth.RoleAdmin, IsActive: true}, nil).Once()
	repo.On("TouchLastLogin", mock.Anything, 5, mock.Anything).Return(errors.New("read-only replica")).Once()

	session, err := svc.Login(context.Background(), domain.LoginRequest{Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Nil(t, session.User.LastLogin)
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	svc, repo, _ := newAuthService(t, staticIdentities{})

	var created *domain.User
	repo.On("CreateUser", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*domain.User)
		created.ID = 11
	}).Return(nil).Once()
	repo.On("GetUserByEmail", mock.Anything, "grace@example.com").Return(func(ctx context.Context, email string) (*domain.User, error) {
		return created, nil
	}).Twice()
	repo.On("TouchLastLogin", mock.Anything, 11, mock.Anything).Return(nil).Once()

	_, err := svc.Register(context.Background(), domain.RegisterRequest{Name: "Grace", Email: "grace@example.com", Password: "hopper42"})
	require.NoError(t, err)

	session, err := svc.Login(context.Background(), domain.LoginRequest{Email: "grace@example.com", Password: "hopper42"})
	require.NoError(t, err)
	assert.Equal(t, 11, session.User.ID)

	_, err = svc.Login(context.Background(), domain.LoginRequest{Email: "grace@example.com", Password: "hopper43"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredential)
}

func TestAuthService_Verify(t *testing.T) {
	identities := staticIdentities{
		5: {ID: 5, Role: auth.RoleUser, IsActive: true},
		6: {ID: 6, Role: auth.RoleUser, IsActive: false},
	}
	svc, repo, tokens := newAuthService(t, identities)
	active, _, err := tokens.Issue(5, auth.RoleUser)
	require.NoError(t, err)
	deactivated, _, err := tokens.Issue(6, auth.RoleUser)
	require.NoError(t, err)
	deleted, _, err := tokens.Issue(7, auth.RoleAdmin)
	require.NoError(t, err)

	repo.On("GetUser", mock.Anything, 5).Return(&domain.User{ID: 5, Name: "Ada", Role: auth.RoleUser, IsActive: true}, nil).Once()

	user, err := svc.Verify(context.Background(), active)
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)

	_, err = svc.Verify(context.Background(), deactivated)
	assert.ErrorIs(t, err, auth.ErrDeactivated)

	_, err = svc.Verify(context.Background(), deleted)
	assert.ErrorIs(t, err, auth.ErrInvalidCredential)

	_, err = svc.Verify(context.Background(), "garbage")
	assert.ErrorIs(t, err, auth.ErrInvalidCredential)
}
