package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Store wraps the Postgres connection. All durable state lives here; the
// application keeps no authoritative in-memory state.
type Store struct {
	DB *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{DB: db}
}

// ------------------------------------------------------------------
// Users
// ------------------------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (string, error) {
	id := uuid.NewString()
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO users (id, email, password)
		VALUES ($1, $2, $3)
	`, id, email, passwordHash)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (id, passwordHash string, err error) {
	err = s.DB.QueryRowContext(ctx, `
		SELECT id, password FROM users WHERE email=$1
	`, email).Scan(&id, &passwordHash)
	return id, passwordHash, err
}

func (s *Store) UserEmail(ctx context.Context, id string) (string, error) {
	var email string
	err := s.DB.QueryRowContext(ctx, `
		SELECT email FROM users WHERE id=$1
	`, id).Scan(&email)
	return email, err
}

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int
	err := s.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM users WHERE email=$1
	`, email).Scan(&count)
	return count > 0, err
}

// ------------------------------------------------------------------
// Profiles
// ------------------------------------------------------------------

func (s *Store) CreateProfile(ctx context.Context, id, fullName, role string) error {
	now := time.Now().UTC()
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO profiles (id, full_name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
	`, id, fullName, role, now)
	return err
}

func (s *Store) Profile(ctx context.Context, id string) (Profile, error) {
	var p Profile
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, COALESCE(full_name,''), role, created_at, updated_at
		FROM profiles
		WHERE id=$1
	`, id).Scan(&p.ID, &p.FullName, &p.Role, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) UpdateRole(ctx context.Context, id, role string) error {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE profiles
		SET role=$1, updated_at=$2
		WHERE id=$3
	`, role, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Operators returns all operator profiles ordered by name, so fuzzy-match
// tie-breaks are deterministic.
func (s *Store) Operators(ctx context.Context) ([]Profile, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, COALESCE(full_name,''), role, created_at, updated_at
		FROM profiles
		WHERE role=$1
		ORDER BY full_name
	`, RoleOperator)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var operators []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.FullName, &p.Role, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		operators = append(operators, p)
	}
	return operators, rows.Err()
}
