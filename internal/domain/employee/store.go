package employee

import (
	"context"
	"strconv"
	"strings"
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

const employeeSelect = `
  SELECT e.id, e.employee_code, e.full_name, e.email, e.phone, e.hire_date,
         e.department_id, e.position_id, e.created_at, e.updated_at,
         COALESCE(d.name, ''), COALESCE(p.title, '')
  FROM employees e
  LEFT JOIN departments d ON d.id = e.department_id
  LEFT JOIN positions p ON p.id = e.position_id
`

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.EmployeeCode, &e.FullName, &e.Email, &e.Phone, &e.HireDate,
		&e.DepartmentID, &e.PositionID, &e.CreatedAt, &e.UpdatedAt,
		&e.DepartmentName, &e.PositionTitle)
	return e, err
}

func (s *Store) Get(ctx context.Context, employeeID int64) (Employee, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, employeeSelect+" WHERE e.id = $1", employeeID))
	if err != nil {
		return Employee{}, apperr.FromStore(err, "employee")
	}
	return emp, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (Employee, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, employeeSelect+" WHERE lower(e.email) = lower($1)", email))
	if err != nil {
		return Employee{}, apperr.FromStore(err, "employee")
	}
	return emp, nil
}

func (s *Store) List(ctx context.Context, filter ListFilter, limit, offset int) ([]Employee, error) {
	query := employeeSelect
	var clauses []string
	var args []any
	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		clauses = append(clauses, "e.department_id = $"+strconv.Itoa(len(args)))
	}
	if filter.PositionID != nil {
		args = append(args, *filter.PositionID)
		clauses = append(clauses, "e.position_id = $"+strconv.Itoa(len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	args = append(args, limit, offset)
	query += " ORDER BY e.full_name LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))

	return s.queryEmployees(ctx, query, args...)
}

// Search matches a case-insensitive substring against name, code and
// email.
func (s *Store) Search(ctx context.Context, term string, limit, offset int) ([]Employee, error) {
	pattern := "%" + term + "%"
	return s.queryEmployees(ctx, employeeSelect+`
    WHERE e.full_name ILIKE $1 OR e.employee_code ILIKE $1 OR e.email ILIKE $1
    ORDER BY e.full_name
    LIMIT $2 OFFSET $3
  `, pattern, limit, offset)
}

func (s *Store) queryEmployees(ctx context.Context, query string, args ...any) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

type CreateInput struct {
	EmployeeCode string
	FullName     string
	Email        string
	Phone        string
	HireDate     *time.Time
	DepartmentID *int64
	PositionID   *int64

	// Optional linked login account, created in the same transaction.
	UserPasswordHash string
	UserRole         string
}

const codeRetries = 5

// Create inserts the employee and, when a password hash is supplied,
// its linked user row, atomically. A missing code is generated and
// retried on the rare collision.
func (s *Store) Create(ctx context.Context, in CreateInput) (Employee, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Employee{}, err
	}
	defer tx.Rollback(ctx)

	code := in.EmployeeCode
	for attempt := 0; ; attempt++ {
		if code == "" {
			code = newEmployeeCode()
		}
		var exists bool
		if err := tx.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM employees WHERE employee_code = $1)", code).Scan(&exists); err != nil {
			return Employee{}, err
		}
		if !exists {
			break
		}
		if in.EmployeeCode != "" {
			return Employee{}, apperr.Conflict("employee code %s already exists", code)
		}
		if attempt >= codeRetries {
			return Employee{}, apperr.Conflict("could not allocate a unique employee code")
		}
		code = ""
	}

	var id int64
	err = tx.QueryRow(ctx, `
    INSERT INTO employees (employee_code, full_name, email, phone, hire_date, department_id, position_id)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    RETURNING id
  `, code, in.FullName, in.Email, in.Phone, in.HireDate, in.DepartmentID, in.PositionID).Scan(&id)
	if err != nil {
		return Employee{}, apperr.FromStore(err, "employee")
	}

	if in.UserPasswordHash != "" {
		if _, err := tx.Exec(ctx, `
      INSERT INTO users (email, password_hash, role, employee_id)
      VALUES ($1, $2, $3, $4)
    `, in.Email, in.UserPasswordHash, in.UserRole, id); err != nil {
			return Employee{}, apperr.FromStore(err, "user account")
		}
	}

	created, err := scanEmployee(tx.QueryRow(ctx, employeeSelect+" WHERE e.id = $1", id))
	if err != nil {
		return Employee{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Employee{}, err
	}
	return created, nil
}

type UpdateInput struct {
	FullName     string
	Email        string
	Phone        string
	HireDate     *time.Time
	DepartmentID *int64
	PositionID   *int64
}

func (s *Store) Update(ctx context.Context, employeeID int64, in UpdateInput) (Employee, error) {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET full_name = $1, email = $2, phone = $3, hire_date = $4,
        department_id = $5, position_id = $6, updated_at = now()
    WHERE id = $7
  `, in.FullName, in.Email, in.Phone, in.HireDate, in.DepartmentID, in.PositionID, employeeID)
	if err != nil {
		return Employee{}, apperr.FromStore(err, "employee")
	}
	if cmd.RowsAffected() == 0 {
		return Employee{}, apperr.NotFound("employee %d", employeeID)
	}
	return s.Get(ctx, employeeID)
}

// Delete removes the employee; salaries, attendance, leaves and the
// linked user cascade at the schema level.
func (s *Store) Delete(ctx context.Context, employeeID int64) error {
	cmd, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", employeeID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("employee %d", employeeID)
	}
	return nil
}
