package auth

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"hradmin/internal/domain/apperr"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const userColumns = "id, email, role, employee_id, is_active, created_at, last_login_at"

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Role, &u.EmployeeID, &u.IsActive, &u.CreatedAt, &u.LastLoginAt)
	return u, err
}

// FindByEmail returns the user plus its password hash for login checks.
func (s *Store) FindByEmail(ctx context.Context, email string) (User, string, error) {
	var u User
	var hash string
	err := s.DB.QueryRow(ctx, `
    SELECT `+userColumns+`, password_hash
    FROM users
    WHERE lower(email) = lower($1)
  `, email).Scan(&u.ID, &u.Email, &u.Role, &u.EmployeeID, &u.IsActive, &u.CreatedAt, &u.LastLoginAt, &hash)
	if err != nil {
		return User{}, "", apperr.FromStore(err, "user")
	}
	return u, hash, nil
}

func (s *Store) Get(ctx context.Context, userID int64) (User, error) {
	u, err := scanUser(s.DB.QueryRow(ctx, `
    SELECT `+userColumns+`
    FROM users
    WHERE id = $1
  `, userID))
	if err != nil {
		return User{}, apperr.FromStore(err, "user")
	}
	return u, nil
}

func (s *Store) PasswordHash(ctx context.Context, userID int64) (string, error) {
	var hash string
	err := s.DB.QueryRow(ctx, "SELECT password_hash FROM users WHERE id = $1", userID).Scan(&hash)
	if err != nil {
		return "", apperr.FromStore(err, "user")
	}
	return hash, nil
}

func (s *Store) List(ctx context.Context, role string, limit, offset int) ([]User, int, error) {
	query := "SELECT " + userColumns + " FROM users"
	countQuery := "SELECT COUNT(1) FROM users"
	args := []any{}
	if role != "" {
		query += " WHERE role = $1"
		countQuery += " WHERE role = $1"
		args = append(args, role)
	}

	var total int
	if err := s.DB.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += " ORDER BY created_at DESC"
	if role == "" {
		query += " LIMIT $1 OFFSET $2"
	} else {
		query += " LIMIT $2 OFFSET $3"
	}
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (s *Store) Create(ctx context.Context, email, passwordHash, role string, employeeID *int64) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO users (email, password_hash, role, employee_id)
    VALUES ($1, $2, $3, $4)
    RETURNING id
  `, email, passwordHash, role, employeeID).Scan(&id)
	if err != nil {
		return 0, apperr.FromStore(err, "user")
	}
	return id, nil
}

func (s *Store) Update(ctx context.Context, userID int64, email, role string, employeeID *int64) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE users
    SET email = $1, role = $2, employee_id = $3
    WHERE id = $4
  `, email, role, employeeID, userID)
	if err != nil {
		return apperr.FromStore(err, "user")
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("user %d", userID)
	}
	return nil
}

func (s *Store) SetActive(ctx context.Context, userID int64, active bool) error {
	cmd, err := s.DB.Exec(ctx, "UPDATE users SET is_active = $1 WHERE id = $2", active, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("user %d", userID)
	}
	return nil
}

func (s *Store) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	cmd, err := s.DB.Exec(ctx, "UPDATE users SET password_hash = $1 WHERE id = $2", passwordHash, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("user %d", userID)
	}
	return nil
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID int64) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET last_login_at = now() WHERE id = $1", userID)
	return err
}

func (s *Store) Delete(ctx context.Context, userID int64) error {
	cmd, err := s.DB.Exec(ctx, "DELETE FROM users WHERE id = $1", userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("user %d", userID)
	}
	return nil
}

func (s *Store) CountByRole(ctx context.Context) (map[string]int, error) {
	rows, err := s.DB.Query(ctx, "SELECT role, COUNT(1) FROM users GROUP BY role")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var role string
		var count int
		if err := rows.Scan(&role, &count); err != nil {
			return nil, err
		}
		counts[role] = count
	}
	return counts, rows.Err()
}
