package leave

import (
	"context"
	"strconv"
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

const leaveSelect = `
  SELECT l.id, l.employee_id, l.start_date, l.end_date, l.leave_type,
         l.reason, l.status, l.approved_by, l.created_at, l.updated_at,
         e.full_name, e.employee_code, COALESCE(d.name, '')
  FROM leaves l
  JOIN employees e ON e.id = l.employee_id
  LEFT JOIN departments d ON d.id = e.department_id
`

func scanLeave(row pgx.Row) (Leave, error) {
	var l Leave
	err := row.Scan(&l.ID, &l.EmployeeID, &l.StartDate, &l.EndDate, &l.LeaveType,
		&l.Reason, &l.Status, &l.ApprovedBy, &l.CreatedAt, &l.UpdatedAt,
		&l.EmployeeName, &l.EmployeeCode, &l.DepartmentName)
	return l, err
}

func (s *Store) Get(ctx context.Context, leaveID int64) (Leave, error) {
	l, err := scanLeave(s.DB.QueryRow(ctx, leaveSelect+" WHERE l.id = $1", leaveID))
	if err != nil {
		return Leave{}, apperr.FromStore(err, "leave request")
	}
	return l, nil
}

func lockEmployee(ctx context.Context, tx pgx.Tx, employeeID int64) (*time.Time, error) {
	var hireDate *time.Time
	err := tx.QueryRow(ctx, "SELECT hire_date FROM employees WHERE id = $1 FOR UPDATE", employeeID).Scan(&hireDate)
	if err != nil {
		return nil, apperr.FromStore(err, "employee")
	}
	return hireDate, nil
}

// hasOverlap reports whether the employee has a pending or approved
// request sharing a day with [start,end], excluding excludeID.
func hasOverlap(ctx context.Context, tx pgx.Tx, employeeID int64, start, end time.Time, excludeID int64) (bool, error) {
	var count int
	err := tx.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM leaves
    WHERE employee_id = $1
      AND id <> $4
      AND status IN ('pending', 'approved')
      AND start_date <= $3
      AND end_date >= $2
  `, employeeID, start, end, excludeID).Scan(&count)
	return count > 0, err
}

// Create files a new pending request after the range, hire-date and
// overlap checks pass, all under a lock on the employee row.
func (s *Store) Create(ctx context.Context, employeeID int64, leaveType string, start, end time.Time, reason string) (Leave, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Leave{}, err
	}
	defer tx.Rollback(ctx)

	hireDate, err := lockEmployee(ctx, tx, employeeID)
	if err != nil {
		return Leave{}, err
	}
	if err := ValidateNew(leaveType, start, end, hireDate); err != nil {
		return Leave{}, err
	}
	overlap, err := hasOverlap(ctx, tx, employeeID, start, end, 0)
	if err != nil {
		return Leave{}, err
	}
	if overlap {
		return Leave{}, apperr.Conflict("employee %d already has a leave request in that range", employeeID)
	}

	var id int64
	if err := tx.QueryRow(ctx, `
    INSERT INTO leaves (employee_id, start_date, end_date, leave_type, reason)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id
  `, employeeID, start, end, leaveType, reason).Scan(&id); err != nil {
		return Leave{}, apperr.FromStore(err, "leave request")
	}

	created, err := scanLeave(tx.QueryRow(ctx, leaveSelect+" WHERE l.id = $1", id))
	if err != nil {
		return Leave{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Leave{}, err
	}
	return created, nil
}

// Update rewrites the range, type and reason of a request that is
// still pending.
func (s *Store) Update(ctx context.Context, leaveID int64, leaveType string, start, end time.Time, reason string) (Leave, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Leave{}, err
	}
	defer tx.Rollback(ctx)

	var employeeID int64
	var status string
	err = tx.QueryRow(ctx, "SELECT employee_id, status FROM leaves WHERE id = $1 FOR UPDATE", leaveID).Scan(&employeeID, &status)
	if err != nil {
		return Leave{}, apperr.FromStore(err, "leave request")
	}
	if status != StatusPending {
		return Leave{}, apperr.Validation("only pending requests can be edited, this one is %s", status)
	}

	hireDate, err := lockEmployee(ctx, tx, employeeID)
	if err != nil {
		return Leave{}, err
	}
	if err := ValidateNew(leaveType, start, end, hireDate); err != nil {
		return Leave{}, err
	}
	overlap, err := hasOverlap(ctx, tx, employeeID, start, end, leaveID)
	if err != nil {
		return Leave{}, err
	}
	if overlap {
		return Leave{}, apperr.Conflict("employee %d already has a leave request in that range", employeeID)
	}

	if _, err := tx.Exec(ctx, `
    UPDATE leaves
    SET start_date = $2, end_date = $3, leave_type = $4, reason = $5, updated_at = now()
    WHERE id = $1
  `, leaveID, start, end, leaveType, reason); err != nil {
		return Leave{}, err
	}

	updated, err := scanLeave(tx.QueryRow(ctx, leaveSelect+" WHERE l.id = $1", leaveID))
	if err != nil {
		return Leave{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Leave{}, err
	}
	return updated, nil
}

// Transition moves a request to a new status. approverID is recorded
// for approve and reject.
func (s *Store) Transition(ctx context.Context, leaveID int64, to string, approverID *int64) (Leave, error) {
	if !validStatus(to) {
		return Leave{}, apperr.Validation("unknown leave status %q", to)
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Leave{}, err
	}
	defer tx.Rollback(ctx)

	var current string
	err = tx.QueryRow(ctx, "SELECT status FROM leaves WHERE id = $1 FOR UPDATE", leaveID).Scan(&current)
	if err != nil {
		return Leave{}, apperr.FromStore(err, "leave request")
	}
	if err := CanTransition(current, to); err != nil {
		return Leave{}, err
	}

	if to == StatusApproved || to == StatusRejected {
		_, err = tx.Exec(ctx, "UPDATE leaves SET status = $2, approved_by = $3, updated_at = now() WHERE id = $1", leaveID, to, approverID)
	} else {
		_, err = tx.Exec(ctx, "UPDATE leaves SET status = $2, updated_at = now() WHERE id = $1", leaveID, to)
	}
	if err != nil {
		return Leave{}, err
	}

	updated, err := scanLeave(tx.QueryRow(ctx, leaveSelect+" WHERE l.id = $1", leaveID))
	if err != nil {
		return Leave{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Leave{}, err
	}
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, leaveID int64) error {
	cmd, err := s.DB.Exec(ctx, "DELETE FROM leaves WHERE id = $1", leaveID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("leave request %d", leaveID)
	}
	return nil
}

// List returns requests newest first, narrowed by the filter.
func (s *Store) List(ctx context.Context, f ListFilter, limit, offset int) ([]Leave, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if f.EmployeeID != nil {
		args = append(args, *f.EmployeeID)
		where += " AND l.employee_id = $" + strconv.Itoa(len(args))
	}
	if f.Status != "" {
		if !validStatus(f.Status) {
			return nil, 0, apperr.Validation("unknown leave status %q", f.Status)
		}
		args = append(args, f.Status)
		where += " AND l.status = $" + strconv.Itoa(len(args))
	}
	if f.LeaveType != "" {
		if !validType(f.LeaveType) {
			return nil, 0, apperr.Validation("unknown leave type %q", f.LeaveType)
		}
		args = append(args, f.LeaveType)
		where += " AND l.leave_type = $" + strconv.Itoa(len(args))
	}
	if f.StartDate != nil {
		args = append(args, *f.StartDate)
		where += " AND l.end_date >= $" + strconv.Itoa(len(args))
	}
	if f.EndDate != nil {
		args = append(args, *f.EndDate)
		where += " AND l.start_date <= $" + strconv.Itoa(len(args))
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM leaves l"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit)
	query := leaveSelect + where + " ORDER BY l.created_at DESC LIMIT $" + strconv.Itoa(len(args))
	args = append(args, offset)
	query += " OFFSET $" + strconv.Itoa(len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Leave
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, l)
	}
	return out, total, rows.Err()
}

// Pending returns requests awaiting a decision, oldest first.
func (s *Store) Pending(ctx context.Context, limit, offset int) ([]Leave, error) {
	rows, err := s.DB.Query(ctx, leaveSelect+`
    WHERE l.status = 'pending'
    ORDER BY l.created_at ASC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Leave
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Balance sums the employee's approved and pending days against the
// annual entitlement for one year.
func (s *Store) Balance(ctx context.Context, employeeID int64, year, entitlement int) (Balance, error) {
	var name string
	err := s.DB.QueryRow(ctx, "SELECT full_name FROM employees WHERE id = $1", employeeID).Scan(&name)
	if err != nil {
		return Balance{}, apperr.FromStore(err, "employee")
	}

	balance := Balance{
		EmployeeID:   employeeID,
		EmployeeName: name,
		Year:         year,
		TotalDays:    entitlement,
	}

	rows, err := s.DB.Query(ctx, `
    SELECT status, start_date, end_date
    FROM leaves
    WHERE employee_id = $1
      AND leave_type = 'annual'
      AND status IN ('pending', 'approved')
      AND EXTRACT(YEAR FROM start_date) = $2
  `, employeeID, year)
	if err != nil {
		return Balance{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var start, end time.Time
		if err := rows.Scan(&status, &start, &end); err != nil {
			return Balance{}, err
		}
		days := Days(start, end)
		if status == StatusApproved {
			balance.UsedDays += days
		} else {
			balance.PendingDays += days
		}
	}
	if err := rows.Err(); err != nil {
		return Balance{}, err
	}

	balance.RemainingDays = balance.TotalDays - balance.UsedDays
	return balance, nil
}

// MonthlyStatistics aggregates requests that touch the given month.
func (s *Store) MonthlyStatistics(ctx context.Context, month, year int, departmentID *int64) (MonthlyStatistics, error) {
	if month < 1 || month > 12 {
		return MonthlyStatistics{}, apperr.Validation("month must be 1..12, got %d", month)
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	query := `
    SELECT l.status, l.leave_type, l.start_date, l.end_date
    FROM leaves l
    JOIN employees e ON e.id = l.employee_id
    WHERE l.start_date <= $2 AND l.end_date >= $1
  `
	args := []any{first, last}
	if departmentID != nil {
		args = append(args, *departmentID)
		query += " AND e.department_id = $3"
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return MonthlyStatistics{}, err
	}
	defer rows.Close()

	stats := MonthlyStatistics{
		Month:    month,
		Year:     year,
		ByStatus: map[string]int{},
		ByType:   map[string]int{},
	}
	for rows.Next() {
		var status, leaveType string
		var start, end time.Time
		if err := rows.Scan(&status, &leaveType, &start, &end); err != nil {
			return MonthlyStatistics{}, err
		}
		stats.TotalRequests++
		stats.ByStatus[status]++
		stats.ByType[leaveType]++
		if status == StatusApproved {
			// Only count the days falling inside the month.
			if start.Before(first) {
				start = first
			}
			if end.After(last) {
				end = last
			}
			stats.ApprovedDays += Days(start, end)
		}
	}
	return stats, rows.Err()
}

// Calendar lists who is on approved or pending leave on one date.
func (s *Store) Calendar(ctx context.Context, day time.Time, departmentID *int64) (Calendar, error) {
	day = day.Truncate(24 * time.Hour)

	query := leaveSelect + `
    WHERE l.status IN ('pending', 'approved')
      AND $1 BETWEEN l.start_date AND l.end_date
  `
	args := []any{day}
	if departmentID != nil {
		args = append(args, *departmentID)
		query += " AND e.department_id = $2"
	}
	query += " ORDER BY e.full_name"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return Calendar{}, err
	}
	defer rows.Close()

	cal := Calendar{Date: day, Leaves: []Leave{}}
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return Calendar{}, err
		}
		cal.Leaves = append(cal.Leaves, l)
	}
	cal.TotalOnLeave = len(cal.Leaves)
	return cal, rows.Err()
}
