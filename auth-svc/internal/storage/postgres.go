package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tablehouse/auth"
	"tablehouse/auth-svc/internal/domain"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_login TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_role ON users (role)`,
}

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

const userColumns = `id, name, email, password_hash, role, is_active, created_at, last_login`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user      domain.User
		lastLogin sql.NullTime
	)
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.Role, &user.IsActive, &user.CreatedAt, &lastLogin); err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		user.LastLogin = &lastLogin.Time
	}
	return &user, nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, user *domain.User) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		user.Name, user.Email, user.PasswordHash, user.Role, user.IsActive,
	).Scan(&user.ID, &user.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", auth.ErrDuplicateEmail, user.Email)
	}
	return err
}

func (r *PostgresRepository) GetUser(ctx context.Context, id int) (*domain.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func (r *PostgresRepository) ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Search != "" {
		args = append(args, containsPattern(filter.Search))
		where = append(where, fmt.Sprintf(`(name ILIKE $%d ESCAPE '\' OR email ILIKE $%d ESCAPE '\')`, len(args), len(args)))
	}
	if filter.Role != "" {
		args = append(args, filter.Role)
		where = append(where, fmt.Sprintf("role = $%d", len(args)))
	}
	query := `SELECT ` + userColumns + ` FROM users`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *PostgresRepository) UpdateRole(ctx context.Context, id int, role string) (*domain.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		`UPDATE users SET role = $1 WHERE id = $2 RETURNING `+userColumns, role, id))
}

func (r *PostgresRepository) ToggleActive(ctx context.Context, id int) (*domain.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		`UPDATE users SET is_active = NOT is_active WHERE id = $1 RETURNING `+userColumns, id))
}

func (r *PostgresRepository) PromoteAdmin(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET role = 'admin', is_active = TRUE WHERE id = $1`, id)
	return err
}

func (r *PostgresRepository) DeleteUser(ctx context.Context, id int) (int64, error) {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) TouchLastLogin(ctx context.Context, id int, at time.Time) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET last_login = $1 WHERE id = $2", at, id)
	return err
}
