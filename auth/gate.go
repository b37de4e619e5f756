// Package auth issues and verifies the signed credential used by every
// service, and gates admin-only routes on the identity stored in Postgres.
package auth

import (
	"context"
	"errors"
	"fmt"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrDeactivated       = errors.New("account is deactivated")
	ErrForbidden         = errors.New("forbidden")
)

type Identity struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// IdentityStore returns ErrNotFound for unknown ids.
type IdentityStore interface {
	FindIdentity(ctx context.Context, id int) (*Identity, error)
}

func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

type Gate struct {
	tokens *Tokens
	store  IdentityStore
}

func NewGate(tokens *Tokens, store IdentityStore) *Gate {
	return &Gate{tokens: tokens, store: store}
}

func (g *Gate) Tokens() *Tokens {
	return g.tokens
}

// Verify resolves a token to the identity currently stored for its subject.
// Role and active flag come from storage, never from the token.
func (g *Gate) Verify(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing token", ErrInvalidCredential)
	}
	userID, _, err := g.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	identity, err := g.store.FindIdentity(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown subject", ErrInvalidCredential)
	}
	if err != nil {
		return nil, err
	}
	if !identity.IsActive {
		return nil, ErrDeactivated
	}
	return identity, nil
}

func (g *Gate) RequireRole(ctx context.Context, token, role string) (*Identity, error) {
	identity, err := g.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	if identity.Role != role {
		return nil, ErrForbidden
	}
	return identity, nil
}
