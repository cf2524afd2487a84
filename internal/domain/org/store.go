package org

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hradmin/internal/domain/apperr"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const departmentColumns = "id, name, description, created_at, updated_at"

func scanDepartment(row pgx.Row) (Department, error) {
	var d Department
	err := row.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func (s *Store) ListDepartments(ctx context.Context, limit, offset int) ([]Department, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+departmentColumns+`
    FROM departments
    ORDER BY name
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) GetDepartment(ctx context.Context, departmentID int64) (Department, error) {
	d, err := scanDepartment(s.DB.QueryRow(ctx, `
    SELECT `+departmentColumns+` FROM departments WHERE id = $1
  `, departmentID))
	if err != nil {
		return Department{}, apperr.FromStore(err, "department")
	}
	return d, nil
}

func (s *Store) CreateDepartment(ctx context.Context, name string, description string) (Department, error) {
	if name == "" {
		return Department{}, apperr.Validation("department name is required")
	}
	d, err := scanDepartment(s.DB.QueryRow(ctx, `
    INSERT INTO departments (name, description)
    VALUES ($1, $2)
    RETURNING `+departmentColumns, name, description))
	if err != nil {
		return Department{}, apperr.FromStore(err, "department")
	}
	return d, nil
}

func (s *Store) UpdateDepartment(ctx context.Context, departmentID int64, name string, description string) (Department, error) {
	if name == "" {
		return Department{}, apperr.Validation("department name is required")
	}
	d, err := scanDepartment(s.DB.QueryRow(ctx, `
    UPDATE departments
    SET name = $2, description = $3, updated_at = now()
    WHERE id = $1
    RETURNING `+departmentColumns, departmentID, name, description))
	if err != nil {
		return Department{}, apperr.FromStore(err, "department")
	}
	return d, nil
}

func (s *Store) DeleteDepartment(ctx context.Context, departmentID int64) error {
	cmd, err := s.DB.Exec(ctx, "DELETE FROM departments WHERE id = $1", departmentID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("department %d", departmentID)
	}
	return nil
}

const positionColumns = "id, title, description, created_at, updated_at"

func scanPosition(row pgx.Row) (Position, error) {
	var p Position
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) ListPositions(ctx context.Context, limit, offset int) ([]Position, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+positionColumns+`
    FROM positions
    ORDER BY title
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetPosition(ctx context.Context, positionID int64) (Position, error) {
	p, err := scanPosition(s.DB.QueryRow(ctx, `
    SELECT `+positionColumns+` FROM positions WHERE id = $1
  `, positionID))
	if err != nil {
		return Position{}, apperr.FromStore(err, "position")
	}
	return p, nil
}

func (s *Store) CreatePosition(ctx context.Context, title string, description string) (Position, error) {
	if title == "" {
		return Position{}, apperr.Validation("position title is required")
	}
	p, err := scanPosition(s.DB.QueryRow(ctx, `
    INSERT INTO positions (title, description)
    VALUES ($1, $2)
    RETURNING `+positionColumns, title, description))
	if err != nil {
		return Position{}, apperr.FromStore(err, "position")
	}
	return p, nil
}

func (s *Store) UpdatePosition(ctx context.Context, positionID int64, title string, description string) (Position, error) {
	if title == "" {
		return Position{}, apperr.Validation("position title is required")
	}
	p, err := scanPosition(s.DB.QueryRow(ctx, `
    UPDATE positions
    SET title = $2, description = $3, updated_at = now()
    WHERE id = $1
    RETURNING `+positionColumns, positionID, title, description))
	if err != nil {
		return Position{}, apperr.FromStore(err, "position")
	}
	return p, nil
}

func (s *Store) DeletePosition(ctx context.Context, positionID int64) error {
	cmd, err := s.DB.Exec(ctx, "DELETE FROM positions WHERE id = $1", positionID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("position %d", positionID)
	}
	return nil
}
