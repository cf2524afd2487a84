package stats

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// Dashboard gathers every headline metric in one pass. today anchors
// the date-based counters so the result is reproducible in tests.
func (s *Store) Dashboard(ctx context.Context, today time.Time) (Dashboard, error) {
	today = today.Truncate(24 * time.Hour)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())

	var d Dashboard
	d.AttendanceToday.Date = today

	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees").Scan(&d.Employees.Total); err != nil {
		return Dashboard{}, err
	}
	d.Employees.Active = d.Employees.Total

	if err := s.DB.QueryRow(ctx,
		"SELECT COUNT(1) FROM employees WHERE hire_date >= $1", monthStart,
	).Scan(&d.Employees.NewThisMonth); err != nil {
		return Dashboard{}, err
	}

	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM leaves
    WHERE status = 'approved' AND $1 BETWEEN start_date AND end_date
  `, today).Scan(&d.Employees.OnLeaveToday); err != nil {
		return Dashboard{}, err
	}
	d.AttendanceToday.OnLeave = d.Employees.OnLeaveToday

	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM departments").Scan(&d.Departments.Total); err != nil {
		return Dashboard{}, err
	}

	largest, err := s.namedCount(ctx, `
    SELECT d.name, COUNT(e.id)
    FROM departments d
    LEFT JOIN employees e ON e.department_id = d.id
    GROUP BY d.id, d.name
    ORDER BY COUNT(e.id) DESC, d.id
    LIMIT 1
  `)
	if err != nil {
		return Dashboard{}, err
	}
	d.Departments.Largest = largest

	smallest, err := s.namedCount(ctx, `
    SELECT d.name, COUNT(e.id)
    FROM departments d
    LEFT JOIN employees e ON e.department_id = d.id
    GROUP BY d.id, d.name
    HAVING COUNT(e.id) > 0
    ORDER BY COUNT(e.id) ASC, d.id
    LIMIT 1
  `)
	if err != nil {
		return Dashboard{}, err
	}
	d.Departments.Smallest = smallest

	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM positions").Scan(&d.Positions.Total); err != nil {
		return Dashboard{}, err
	}

	mostCommon, err := s.namedCount(ctx, `
    SELECT p.title, COUNT(e.id)
    FROM positions p
    LEFT JOIN employees e ON e.position_id = p.id
    GROUP BY p.id, p.title
    ORDER BY COUNT(e.id) DESC, p.id
    LIMIT 1
  `)
	if err != nil {
		return Dashboard{}, err
	}
	d.Positions.MostCommon = mostCommon

	rows, err := s.DB.Query(ctx,
		"SELECT status, COUNT(1) FROM attendances WHERE date = $1 GROUP BY status", today)
	if err != nil {
		return Dashboard{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return Dashboard{}, err
		}
		switch status {
		case "present":
			d.AttendanceToday.Present = count
		case "late":
			d.AttendanceToday.Late = count
		case "absent":
			d.AttendanceToday.Absent = count
		}
	}
	if err := rows.Err(); err != nil {
		return Dashboard{}, err
	}

	if err := s.DB.QueryRow(ctx,
		"SELECT COUNT(1) FROM leaves WHERE status = 'pending'",
	).Scan(&d.Leaves.PendingRequests); err != nil {
		return Dashboard{}, err
	}
	if err := s.DB.QueryRow(ctx,
		"SELECT COUNT(1) FROM leaves WHERE status = 'approved' AND start_date >= $1", monthStart,
	).Scan(&d.Leaves.ApprovedThisMonth); err != nil {
		return Dashboard{}, err
	}

	if err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(base_salary), 0), COALESCE(AVG(base_salary), 0)
    FROM salaries
    WHERE effective_to IS NULL
  `).Scan(&d.Salaries.TotalPayroll, &d.Salaries.AverageSalary); err != nil {
		return Dashboard{}, err
	}

	err = s.DB.QueryRow(ctx, `
    SELECT d.name
    FROM departments d
    JOIN employees e ON e.department_id = d.id
    JOIN salaries s ON s.employee_id = e.id AND s.effective_to IS NULL
    GROUP BY d.id, d.name
    ORDER BY AVG(s.base_salary) DESC
    LIMIT 1
  `).Scan(&d.Salaries.HighestPaidDepartment)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return Dashboard{}, err
	}

	userRows, err := s.DB.Query(ctx, "SELECT role, COUNT(1) FROM users GROUP BY role")
	if err != nil {
		return Dashboard{}, err
	}
	defer userRows.Close()
	for userRows.Next() {
		var role string
		var count int
		if err := userRows.Scan(&role, &count); err != nil {
			return Dashboard{}, err
		}
		d.Users.Total += count
		switch role {
		case "admin":
			d.Users.Admins = count
		case "manager":
			d.Users.Managers = count
		case "employee":
			d.Users.Employees = count
		}
	}
	return d, userRows.Err()
}

func (s *Store) namedCount(ctx context.Context, query string) (*NamedCount, error) {
	var nc NamedCount
	err := s.DB.QueryRow(ctx, query).Scan(&nc.Name, &nc.Count)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &nc, nil
}
