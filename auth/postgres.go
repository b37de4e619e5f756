package auth

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresIdentityStore reads identities from the users table owned by auth-svc.
type PostgresIdentityStore struct {
	DB *sql.DB
}

func NewPostgresIdentityStore(db *sql.DB) *PostgresIdentityStore {
	return &PostgresIdentityStore{DB: db}
}

func (s *PostgresIdentityStore) FindIdentity(ctx context.Context, id int) (*Identity, error) {
	var identity Identity
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, name, email, role, is_active
		FROM users
		WHERE id = $1`, id).
		Scan(&identity.ID, &identity.Name, &identity.Email, &identity.Role, &identity.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

var _ IdentityStore = (*PostgresIdentityStore)(nil)
