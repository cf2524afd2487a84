package salary

import (
	"context"
	"errors"
	"time"

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

const salaryColumns = "id, employee_id, base_salary, effective_from, effective_to, created_at"

func scanSalary(row pgx.Row) (Salary, error) {
	var s Salary
	err := row.Scan(&s.ID, &s.EmployeeID, &s.BaseSalary, &s.EffectiveFrom, &s.EffectiveTo, &s.CreatedAt)
	return s, err
}

// lockEmployee takes a row lock on the employee for the duration of
// the transaction so concurrent check-and-insert sequences serialize,
// and returns the hire date for validation.
func lockEmployee(ctx context.Context, tx pgx.Tx, employeeID int64) (*time.Time, error) {
	var hireDate *time.Time
	err := tx.QueryRow(ctx, "SELECT hire_date FROM employees WHERE id = $1 FOR UPDATE", employeeID).Scan(&hireDate)
	if err != nil {
		return nil, apperr.FromStore(err, "employee")
	}
	return hireDate, nil
}

// Create inserts a new salary period after validating the hire-date
// floor and the single-open-row invariant inside one transaction.
func (s *Store) Create(ctx context.Context, employeeID int64, baseSalary float64, from time.Time, to *time.Time) (Salary, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Salary{}, err
	}
	defer tx.Rollback(ctx)

	hireDate, err := lockEmployee(ctx, tx, employeeID)
	if err != nil {
		return Salary{}, err
	}
	if err := ValidateNew(baseSalary, from, to, hireDate); err != nil {
		return Salary{}, err
	}

	var openCount int
	if err := tx.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM salaries
    WHERE employee_id = $1 AND effective_to IS NULL AND effective_from <= $2
  `, employeeID, from).Scan(&openCount); err != nil {
		return Salary{}, err
	}
	if openCount > 0 {
		return Salary{}, apperr.Conflict("employee %d already has an active salary; close it first", employeeID)
	}

	created, err := scanSalary(tx.QueryRow(ctx, `
    INSERT INTO salaries (employee_id, base_salary, effective_from, effective_to)
    VALUES ($1, $2, $3, $4)
    RETURNING `+salaryColumns, employeeID, baseSalary, from, to))
	if err != nil {
		return Salary{}, apperr.FromStore(err, "salary period")
	}

	if err := tx.Commit(ctx); err != nil {
		return Salary{}, err
	}
	return created, nil
}

// Current returns the salary row in effect on asOf. When the invariant
// is somehow violated and several rows match, the most recently
// started one wins.
func (s *Store) Current(ctx context.Context, employeeID int64, asOf time.Time) (Salary, error) {
	row, err := scanSalary(s.DB.QueryRow(ctx, `
    SELECT `+salaryColumns+`
    FROM salaries
    WHERE employee_id = $1
      AND effective_from <= $2
      AND (effective_to IS NULL OR effective_to >= $2)
    ORDER BY effective_from DESC
    LIMIT 1
  `, employeeID, asOf))
	if err != nil {
		return Salary{}, apperr.FromStore(err, "current salary")
	}
	return row, nil
}

// ReplaceCurrent closes the open salary row at from minus one day and
// opens a new row starting at from, atomically.
func (s *Store) ReplaceCurrent(ctx context.Context, employeeID int64, newSalary float64, from time.Time) (Salary, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Salary{}, err
	}
	defer tx.Rollback(ctx)

	hireDate, err := lockEmployee(ctx, tx, employeeID)
	if err != nil {
		return Salary{}, err
	}
	if err := ValidateNew(newSalary, from, nil, hireDate); err != nil {
		return Salary{}, err
	}

	var openID int64
	var openFrom time.Time
	err = tx.QueryRow(ctx, `
    SELECT id, effective_from
    FROM salaries
    WHERE employee_id = $1 AND effective_to IS NULL
    FOR UPDATE
  `, employeeID).Scan(&openID, &openFrom)
	switch {
	case err == nil:
		if !openFrom.Before(from) {
			return Salary{}, apperr.Conflict("new salary must start after the current one (%s)", openFrom.Format("2006-01-02"))
		}
		if _, err := tx.Exec(ctx, "UPDATE salaries SET effective_to = $1 WHERE id = $2", CloseBoundary(from), openID); err != nil {
			return Salary{}, err
		}
	case errors.Is(err, pgx.ErrNoRows):
		// No open row: the new one simply becomes current.
	default:
		return Salary{}, err
	}

	created, err := scanSalary(tx.QueryRow(ctx, `
    INSERT INTO salaries (employee_id, base_salary, effective_from)
    VALUES ($1, $2, $3)
    RETURNING `+salaryColumns, employeeID, newSalary, from))
	if err != nil {
		return Salary{}, apperr.FromStore(err, "salary period")
	}

	if err := tx.Commit(ctx); err != nil {
		return Salary{}, err
	}
	return created, nil
}

// HistoryRows returns every salary period for the employee ordered by
// effective_from ascending.
func (s *Store) HistoryRows(ctx context.Context, employeeID int64) ([]Salary, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+salaryColumns+`
    FROM salaries
    WHERE employee_id = $1
    ORDER BY effective_from ASC
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Salary
	for rows.Next() {
		row, err := scanSalary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// List returns salary rows annotated with employee name and code,
// optionally filtered to one employee.
func (s *Store) List(ctx context.Context, employeeID *int64, limit, offset int) ([]Salary, error) {
	query := `
    SELECT s.id, s.employee_id, s.base_salary, s.effective_from, s.effective_to, s.created_at,
           e.full_name, e.employee_code
    FROM salaries s
    JOIN employees e ON e.id = s.employee_id
  `
	args := []any{}
	if employeeID != nil {
		query += " WHERE s.employee_id = $1 ORDER BY s.effective_from DESC LIMIT $2 OFFSET $3"
		args = append(args, *employeeID, limit, offset)
	} else {
		query += " ORDER BY s.effective_from DESC LIMIT $1 OFFSET $2"
		args = append(args, limit, offset)
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Salary
	for rows.Next() {
		var row Salary
		if err := rows.Scan(&row.ID, &row.EmployeeID, &row.BaseSalary, &row.EffectiveFrom, &row.EffectiveTo, &row.CreatedAt, &row.EmployeeName, &row.EmployeeCode); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Statistics aggregates open salary rows per department. With a
// departmentID it returns at most one entry.
func (s *Store) Statistics(ctx context.Context, departmentID *int64) ([]DepartmentStat, error) {
	query := `
    SELECT d.id, d.name,
           COALESCE(AVG(s.base_salary), 0),
           COALESCE(MIN(s.base_salary), 0),
           COALESCE(MAX(s.base_salary), 0),
           COUNT(DISTINCT e.id)
    FROM departments d
    JOIN employees e ON e.department_id = d.id
    JOIN salaries s ON s.employee_id = e.id AND s.effective_to IS NULL
  `
	args := []any{}
	if departmentID != nil {
		query += " WHERE d.id = $1"
		args = append(args, *departmentID)
	}
	query += " GROUP BY d.id, d.name ORDER BY d.name"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DepartmentStat
	for rows.Next() {
		var stat DepartmentStat
		if err := rows.Scan(&stat.DepartmentID, &stat.DepartmentName, &stat.AverageSalary, &stat.MinSalary, &stat.MaxSalary, &stat.TotalEmployees); err != nil {
			return nil, err
		}
		out = append(out, stat)
	}
	return out, rows.Err()
}

// Delete removes a salary row. Intended for admin corrections only;
// normal rollover never deletes history.
func (s *Store) Delete(ctx context.Context, salaryID int64) error {
	cmd, err := s.DB.Exec(ctx, "DELETE FROM salaries WHERE id = $1", salaryID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("salary %d", salaryID)
	}
	return nil
}
