package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"tablehouse/auth"
	"tablehouse/auth-svc/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo     UserRepository
	hashCost int
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo, hashCost: bcrypt.DefaultCost}
}

func (s *UserService) WithHashCost(cost int) *UserService {
	s.hashCost = cost
	return s
}

func (s *UserService) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	if filter.Role == "all" {
		filter.Role = ""
	}
	if filter.Role != "" && !auth.ValidRole(filter.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", auth.ErrValidation, filter.Role)
	}
	users, err := s.repo.ListUsers(ctx, filter)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (s *UserService) SetRole(ctx context.Context, actorID, id int, role string) (*domain.User, error) {
	if !auth.ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", auth.ErrValidation, role)
	}
	if actorID == id {
		return nil, fmt.Errorf("%w: cannot change your own role", auth.ErrForbidden)
	}
	user, err := s.repo.UpdateRole(ctx, id, role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	log.Printf("User %d role set to %s by %d", id, role, actorID)
	return user, nil
}

func (s *UserService) ToggleActive(ctx context.Context, actorID, id int) (*domain.User, error) {
	if actorID == id {
		return nil, fmt.Errorf("%w: cannot deactivate your own account", auth.ErrForbidden)
	}
	user, err := s.repo.ToggleActive(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	log.Printf("User %d active=%t by %d", id, user.IsActive, actorID)
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, actorID, id int) error {
	if actorID == id {
		return fmt.Errorf("%w: cannot delete your own account", auth.ErrForbidden)
	}
	rows, err := s.repo.DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return auth.ErrNotFound
	}
	log.Printf("User %d deleted by %d", id, actorID)
	return nil
}

// EnsureAdmin creates the bootstrap admin, or re-activates and promotes an
// existing account with that email. The stored password is left untouched.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	email = normalizeEmail(email)
	existing, err := s.repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == auth.RoleAdmin && existing.IsActive {
			return nil
		}
		if err := s.repo.PromoteAdmin(ctx, existing.ID); err != nil {
			return err
		}
		log.Printf("Promoted %s to active admin", email)
		return nil
	case !errors.Is(err, sql.ErrNoRows):
		return err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = "Administrator"
	}
	if err := validateRegistration(domain.RegisterRequest{Name: name, Email: email, Password: password}); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         auth.RoleAdmin,
		IsActive:     true,
	}
	if err := s.repo.CreateUser(ctx, admin); err != nil {
		return err
	}
	log.Printf("Created admin account %s", email)
	return nil
}
