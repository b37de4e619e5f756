package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"tablehouse/auth"
	"tablehouse/auth-svc/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash keeps a login for an unknown email as slow as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("tablehouse-unknown-account"), bcrypt.DefaultCost)

type AuthService struct {
	repo     UserRepository
	gate     *auth.Gate
	hashCost int
	compare  func(hash, password []byte) error
	now      func() time.Time
}

func NewAuthService(repo UserRepository, gate *auth.Gate) *AuthService {
	return &AuthService{
		repo:     repo,
		gate:     gate,
		hashCost: bcrypt.DefaultCost,
		compare:  bcrypt.CompareHashAndPassword,
		now:      time.Now,
	}
}

func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.hashCost = cost
	return s
}

func (s *AuthService) WithPasswordComparer(compare func(hash, password []byte) error) *AuthService {
	s.compare = compare
	return s
}

func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Session, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if err := validateRegistration(domain.RegisterRequest{Name: name, Email: email, Password: req.Password}); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         auth.RoleUser,
		IsActive:     true,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("User %d registered", user.ID)
	return s.session(user)
}

// Login checks the password before the active flag, so only the account holder
// learns that the account is deactivated.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.Session, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, sql.ErrNoRows) {
		_ = s.compare(dummyHash, []byte(req.Password))
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.compare([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, auth.ErrInvalidCredential
	}
	if !user.IsActive {
		return nil, auth.ErrDeactivated
	}

	now := s.now()
	if err := s.repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		log.Printf("WARN: update last login for user %d: %v", user.ID, err)
	} else {
		user.LastLogin = &now
	}
	return s.session(user)
}

func (s *AuthService) Verify(ctx context.Context, token string) (*domain.User, error) {
	identity, err := s.gate.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.GetUser(ctx, identity.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: unknown subject", auth.ErrInvalidCredential)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) session(user *domain.User) (*domain.Session, error) {
	token, expiresAt, err := s.gate.Tokens().Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &domain.Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
