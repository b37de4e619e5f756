package service

import (
	"context"
	"time"

	"tablehouse/auth-svc/internal/domain"
)

// UserRepository returns sql.ErrNoRows for unknown users and auth.ErrDuplicateEmail
// when the email is taken.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id int) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, error)
	UpdateRole(ctx context.Context, id int, role string) (*domain.User, error)
	ToggleActive(ctx context.Context, id int) (*domain.User, error)
	PromoteAdmin(ctx context.Context, id int) error
	DeleteUser(ctx context.Context, id int) (int64, error)
	TouchLastLogin(ctx context.Context, id int, at time.Time) error
}

type AuthServiceInterface interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.Session, error)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.Session, error)
	Verify(ctx context.Context, token string) (*domain.User, error)
}

type UserServiceInterface interface {
	List(ctx context.Context, filter domain.UserFilter) ([]domain.User, error)
	SetRole(ctx context.Context, actorID, id int, role string) (*domain.User, error)
	ToggleActive(ctx context.Context, actorID, id int) (*domain.User, error)
	Delete(ctx context.Context, actorID, id int) error
	EnsureAdmin(ctx context.Context, name, email, password string) error
}

var (
	_ AuthServiceInterface = (*AuthService)(nil)
	_ UserServiceInterface = (*UserService)(nil)
)
