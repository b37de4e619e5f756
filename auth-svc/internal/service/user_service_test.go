package service_test

import (
	"context"
	"database/sql"
	"testing"

	"tablehouse/auth"
	"tablehouse/auth-svc/internal/domain"
	"tablehouse/auth-svc/internal/mocks"
	"tablehouse/auth-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserService(t *testing.T) (*service.UserService, *mocks.UserRepository) {
	repo := mocks.NewUserRepository(t)
	return service.NewUserService(repo).WithHashCost(bcrypt.MinCost), repo
}

func TestUserService_List(t *testing.T) {
	svc, repo := newUserService(t)
	repo.On("ListUsers", mock.Anything, domain.UserFilter{Search: "ada", Role: ""}).Return(nil, nil).Once()

	users, err := svc.List(context.Background(), domain.UserFilter{Search: " ada ", Role: "all"})
	require.NoError(t, err)
	assert.NotNil(t, users)

	_, err = svc.List(context.Background(), domain.UserFilter{Role: "chef"})
	assert.ErrorIs(t, err, auth.ErrValidation)
}

func TestUserService_SelfProtection(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.SetRole(ctx, 1, 1, auth.RoleUser)
	assert.ErrorIs(t, err, auth.ErrForbidden)

	_, err = svc.ToggleActive(ctx, 1, 1)
	assert.ErrorIs(t, err, auth.ErrForbidden)

	assert.ErrorIs(t, svc.Delete(ctx, 1, 1), auth.ErrForbidden)
}

func TestUserService_SetRole(t *testing.T) {
	tests := []struct {
		name         string
		role         string
		prepareMocks func(repo *mocks.UserRepository)
		expectedErr  error
	}{
		{
			name: "promote",
			role: auth.RoleAdmin,
			prepareMocks: func(repo *mocks.UserRepository) {
				repo.On("UpdateRole", mock.Anything, 2, auth.RoleAdmin).
					Return(&domain.User{ID: 2, Role: auth.RoleAdmin}, nil).Once()
			},
		},
		{
			name: "unknown_user",
			role: auth.RoleUser,
			prepareMocks: func(repo *mocks.UserRepository) {
				repo.On("UpdateRole", mock.Anything, 2, auth.RoleUser).Return(nil, sql.ErrNoRows).Once()
			},
			expectedErr: auth.ErrNotFound,
		},
		{
			name:         "unknown_role",
			role:         "owner",
			prepareMocks: func(repo *mocks.UserRepository) {},
			expectedErr:  auth.ErrValidation,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			svc, repo := newUserService(t)
			testCase.prepareMocks(repo)

			user, err := svc.SetRole(context.Background(), 1, 2, testCase.role)
			if testCase.expectedErr != nil {
				assert.ErrorIs(t, err, testCase.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.role, user.Role)
		})
	}
}

func TestUserService_ToggleAndDelete(t *testing.T) {
	svc, repo := newUserService(t)
	repo.On("ToggleActive", mock.Anything, 2).Return(&domain.User{ID: 2, IsActive: false}, nil).Once()
	repo.On("ToggleActive", mock.Anything, 3).Return(nil, sql.ErrNoRows).Once()
	repo.On("DeleteUser", mock.Anything, 2).Return(int64(1), nil).Once()
	repo.On("DeleteUser", mock.Anything, 3).Return(int64(0), nil).Once()
	ctx := context.Background()

	user, err := svc.ToggleActive(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, user.IsActive)

	_, err = svc.ToggleActive(ctx, 1, 3)
	assert.ErrorIs(t, err, auth.ErrNotFound)

	assert.NoError(t, svc.Delete(ctx, 1, 2))
	assert.ErrorIs(t, svc.Delete(ctx, 1, 3), auth.ErrNotFound)
}

func TestUserService_EnsureAdmin(t *testing.T) {
	t.Run("creates_missing_admin", func(t *testing.T) {
		svc, repo := newUserService(t)
		repo.On("GetUserByEmail", mock.Anything, "root@example.com").Return(nil, sql.ErrNoRows).Once()
		repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(user *domain.User) bool {
			return user.Role == auth.RoleAdmin && user.IsActive && user.Name == "Administrator"
		})).Return(nil).Once()

		require.NoError(t, svc.EnsureAdmin(context.Background(), "", "Root@Example.com", "changeme"))
	})

	t.Run("promotes_existing_account", func(t *testing.T) {
		svc, repo := newUserService(t)
		repo.On("GetUserByEmail", mock.Anything, "root@example.com").
			Return(&domain.User{ID: 4, Role: auth.RoleUser, IsActive: false}, nil).Once()
		repo.On("PromoteAdmin", mock.Anything, 4).Return(nil).Once()

		require.NoError(t, svc.EnsureAdmin(context.Background(), "Root", "root@example.com", "changeme"))
	})

	t.Run("leaves_active_admin_alone", func(t *testing.T) {
		svc, repo := newUserService(t)
		repo.On("GetUserByEmail", mock.Anything, "root@example.com").
			Return(&domain.User{ID: 4, Role: auth.RoleAdmin, IsActive: true}, nil).Once()

		require.NoError(t, svc.EnsureAdmin(context.Background(), "Root", "root@example.com", "changeme"))
	})

	t.Run("rejects_weak_password", func(t *testing.T) {
		svc, repo := newUserService(t)
		repo.On("GetUserByEmail", mock.Anything, "root@example.com").Return(nil, sql.ErrNoRows).Once()

		err := svc.EnsureAdmin(context.Background(), "Root", "root@example.com", "123")
		assert.ErrorIs(t, err, auth.ErrValidation)
	})
}
