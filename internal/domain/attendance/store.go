package attendance

import (
	"context"
	"errors"
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

const attendanceSelect = `
  SELECT a.id, a.employee_id, a.date, a.check_in_time, a.check_out_time,
         a.status, a.notes, a.created_at,
         e.full_name, e.employee_code, COALESCE(d.name, '')
  FROM attendances a
  JOIN employees e ON e.id = a.employee_id
  LEFT JOIN departments d ON d.id = e.department_id
`

func scanAttendance(row pgx.Row) (Attendance, error) {
	var a Attendance
	err := row.Scan(&a.ID, &a.EmployeeID, &a.Date, &a.CheckInTime, &a.CheckOutTime,
		&a.Status, &a.Notes, &a.CreatedAt,
		&a.EmployeeName, &a.EmployeeCode, &a.DepartmentName)
	if err != nil {
		return Attendance{}, err
	}
	a.WorkingHours = WorkingHours(a.CheckInTime, a.CheckOutTime)
	return a, nil
}

func (s *Store) Get(ctx context.Context, attendanceID int64) (Attendance, error) {
	a, err := scanAttendance(s.DB.QueryRow(ctx, attendanceSelect+" WHERE a.id = $1", attendanceID))
	if err != nil {
		return Attendance{}, apperr.FromStore(err, "attendance record")
	}
	return a, nil
}

func lockEmployee(ctx context.Context, tx pgx.Tx, employeeID int64) (*time.Time, error) {
	var hireDate *time.Time
	err := tx.QueryRow(ctx, "SELECT hire_date FROM employees WHERE id = $1 FOR UPDATE", employeeID).Scan(&hireDate)
	if err != nil {
		return nil, apperr.FromStore(err, "employee")
	}
	return hireDate, nil
}

// CheckIn records the employee's arrival for at's calendar day. The
// employee row is locked so two concurrent check-ins cannot both pass
// the existence test.
func (s *Store) CheckIn(ctx context.Context, employeeID int64, at time.Time, workdayStartMinutes int) (Attendance, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Attendance{}, err
	}
	defer tx.Rollback(ctx)

	hireDate, err := lockEmployee(ctx, tx, employeeID)
	if err != nil {
		return Attendance{}, err
	}

	day := at.Truncate(24 * time.Hour)
	if err := ValidateDay(day, hireDate); err != nil {
		return Attendance{}, err
	}
	var existing int64
	var checkedIn *time.Time
	err = tx.QueryRow(ctx,
		"SELECT id, check_in_time FROM attendances WHERE employee_id = $1 AND date = $2",
		employeeID, day,
	).Scan(&existing, &checkedIn)
	switch {
	case err == nil:
		if checkedIn != nil {
			return Attendance{}, apperr.Conflict("employee %d already checked in on %s", employeeID, day.Format("2006-01-02"))
		}
		if _, err := tx.Exec(ctx,
			"UPDATE attendances SET check_in_time = $1, status = $2 WHERE id = $3",
			at, DeriveStatus(at, workdayStartMinutes), existing,
		); err != nil {
			return Attendance{}, err
		}
	case errors.Is(err, pgx.ErrNoRows):
		if err := tx.QueryRow(ctx, `
      INSERT INTO attendances (employee_id, date, check_in_time, status)
      VALUES ($1, $2, $3, $4)
      RETURNING id
    `, employeeID, day, at, DeriveStatus(at, workdayStartMinutes)).Scan(&existing); err != nil {
			return Attendance{}, apperr.FromStore(err, "attendance record")
		}
	default:
		return Attendance{}, err
	}

	a, err := scanAttendance(tx.QueryRow(ctx, attendanceSelect+" WHERE a.id = $1", existing))
	if err != nil {
		return Attendance{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Attendance{}, err
	}
	return a, nil
}

// CheckOut completes the day's record. The employee must have checked
// in and not checked out yet.
func (s *Store) CheckOut(ctx context.Context, employeeID int64, at time.Time) (Attendance, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Attendance{}, err
	}
	defer tx.Rollback(ctx)

	if _, err := lockEmployee(ctx, tx, employeeID); err != nil {
		return Attendance{}, err
	}

	day := at.Truncate(24 * time.Hour)
	var id int64
	var checkedIn, checkedOut *time.Time
	err = tx.QueryRow(ctx,
		"SELECT id, check_in_time, check_out_time FROM attendances WHERE employee_id = $1 AND date = $2",
		employeeID, day,
	).Scan(&id, &checkedIn, &checkedOut)
	if errors.Is(err, pgx.ErrNoRows) {
		return Attendance{}, apperr.Validation("employee %d has not checked in on %s", employeeID, day.Format("2006-01-02"))
	}
	if err != nil {
		return Attendance{}, err
	}
	if checkedIn == nil {
		return Attendance{}, apperr.Validation("employee %d has not checked in on %s", employeeID, day.Format("2006-01-02"))
	}
	if checkedOut != nil {
		return Attendance{}, apperr.Conflict("employee %d already checked out on %s", employeeID, day.Format("2006-01-02"))
	}
	if at.Before(*checkedIn) {
		return Attendance{}, apperr.Validation("check-out must not precede check-in")
	}

	if _, err := tx.Exec(ctx, "UPDATE attendances SET check_out_time = $1 WHERE id = $2", at, id); err != nil {
		return Attendance{}, err
	}

	a, err := scanAttendance(tx.QueryRow(ctx, attendanceSelect+" WHERE a.id = $1", id))
	if err != nil {
		return Attendance{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Attendance{}, err
	}
	return a, nil
}

// Create inserts a manual record, typically by an administrator fixing
// history. One row per employee per day, never before the hire date.
func (s *Store) Create(ctx context.Context, employeeID int64, day time.Time, checkIn, checkOut *time.Time, status, notes string) (Attendance, error) {
	if err := validateManual(status, checkIn, checkOut); err != nil {
		return Attendance{}, err
	}
	day = day.Truncate(24 * time.Hour)

	var hireDate *time.Time
	if err := s.DB.QueryRow(ctx, "SELECT hire_date FROM employees WHERE id = $1", employeeID).Scan(&hireDate); err != nil {
		return Attendance{}, apperr.FromStore(err, "employee")
	}
	if err := ValidateDay(day, hireDate); err != nil {
		return Attendance{}, err
	}

	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO attendances (employee_id, date, check_in_time, check_out_time, status, notes)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING id
  `, employeeID, day, checkIn, checkOut, status, notes).Scan(&id)
	if err != nil {
		return Attendance{}, apperr.FromStore(err, "attendance record")
	}
	return s.Get(ctx, id)
}

func (s *Store) Update(ctx context.Context, attendanceID int64, checkIn, checkOut *time.Time, status, notes string) (Attendance, error) {
	if err := validateManual(status, checkIn, checkOut); err != nil {
		return Attendance{}, err
	}
	cmd, err := s.DB.Exec(ctx, `
    UPDATE attendances
    SET check_in_time = $2, check_out_time = $3, status = $4, notes = $5
    WHERE id = $1
  `, attendanceID, checkIn, checkOut, status, notes)
	if err != nil {
		return Attendance{}, apperr.FromStore(err, "attendance record")
	}
	if cmd.RowsAffected() == 0 {
		return Attendance{}, apperr.NotFound("attendance record %d", attendanceID)
	}
	return s.Get(ctx, attendanceID)
}

func (s *Store) Delete(ctx context.Context, attendanceID int64) error {
	cmd, err := s.DB.Exec(ctx, "DELETE FROM attendances WHERE id = $1", attendanceID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("attendance record %d", attendanceID)
	}
	return nil
}

// ByEmployee lists one employee's records, newest first, optionally
// bounded by a date range.
func (s *Store) ByEmployee(ctx context.Context, employeeID int64, r RangeFilter, limit, offset int) ([]Attendance, error) {
	query := attendanceSelect + " WHERE a.employee_id = $1"
	args := []any{employeeID}
	if r.StartDate != nil {
		args = append(args, *r.StartDate)
		query += " AND a.date >= $" + strconv.Itoa(len(args))
	}
	if r.EndDate != nil {
		args = append(args, *r.EndDate)
		query += " AND a.date <= $" + strconv.Itoa(len(args))
	}
	args = append(args, limit)
	query += " ORDER BY a.date DESC LIMIT $" + strconv.Itoa(len(args))
	args = append(args, offset)
	query += " OFFSET $" + strconv.Itoa(len(args))

	return s.queryAttendances(ctx, query, args...)
}

// ByDate lists everyone's record for one date with optional department
// and status filters.
func (s *Store) ByDate(ctx context.Context, day time.Time, departmentID *int64, status string, limit, offset int) ([]Attendance, error) {
	query := attendanceSelect + " WHERE a.date = $1"
	args := []any{day.Truncate(24 * time.Hour)}
	if departmentID != nil {
		args = append(args, *departmentID)
		query += " AND e.department_id = $" + strconv.Itoa(len(args))
	}
	if status != "" {
		if !validStatus(status) {
			return nil, apperr.Validation("unknown attendance status %q", status)
		}
		args = append(args, status)
		query += " AND a.status = $" + strconv.Itoa(len(args))
	}
	args = append(args, limit)
	query += " ORDER BY e.full_name LIMIT $" + strconv.Itoa(len(args))
	args = append(args, offset)
	query += " OFFSET $" + strconv.Itoa(len(args))

	return s.queryAttendances(ctx, query, args...)
}

// List returns all records, newest first.
func (s *Store) List(ctx context.Context, limit, offset int) ([]Attendance, error) {
	return s.queryAttendances(ctx, attendanceSelect+" ORDER BY a.date DESC, e.full_name LIMIT $1 OFFSET $2", limit, offset)
}

func (s *Store) queryAttendances(ctx context.Context, query string, args ...any) ([]Attendance, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// MonthlyReport totals an employee's records within one calendar month.
func (s *Store) MonthlyReport(ctx context.Context, employeeID int64, month, year int) (MonthlyReport, error) {
	if month < 1 || month > 12 {
		return MonthlyReport{}, apperr.Validation("month must be 1..12, got %d", month)
	}

	var name, code string
	err := s.DB.QueryRow(ctx, "SELECT full_name, employee_code FROM employees WHERE id = $1", employeeID).Scan(&name, &code)
	if err != nil {
		return MonthlyReport{}, apperr.FromStore(err, "employee")
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	records, err := s.queryAttendances(ctx,
		attendanceSelect+" WHERE a.employee_id = $1 AND a.date BETWEEN $2 AND $3 ORDER BY a.date",
		employeeID, start, end)
	if err != nil {
		return MonthlyReport{}, err
	}

	report := MonthlyReport{
		EmployeeID:   employeeID,
		EmployeeName: name,
		EmployeeCode: code,
		Month:        month,
		Year:         year,
		TotalDays:    len(records),
		Attendances:  records,
	}
	for _, a := range records {
		switch a.Status {
		case StatusPresent:
			report.PresentDays++
		case StatusLate:
			report.LateDays++
		case StatusAbsent:
			report.AbsentDays++
		case StatusHalfDay:
			report.HalfDays++
		}
		if a.WorkingHours != nil {
			report.WorkingHours += *a.WorkingHours
		}
	}
	return report, nil
}

// DailySummary counts who is present, late, absent, on approved leave
// or simply missing for one date.
func (s *Store) DailySummary(ctx context.Context, day time.Time, departmentID *int64) (DailySummary, error) {
	day = day.Truncate(24 * time.Hour)
	summary := DailySummary{Date: day}

	deptFilter := ""
	args := []any{day}
	if departmentID != nil {
		args = append(args, *departmentID)
		deptFilter = " AND e.department_id = $2"
	}

	totalQuery := "SELECT COUNT(1) FROM employees e"
	var totalArgs []any
	if departmentID != nil {
		totalQuery += " WHERE e.department_id = $1"
		totalArgs = append(totalArgs, *departmentID)
	}
	if err := s.DB.QueryRow(ctx, totalQuery, totalArgs...).Scan(&summary.TotalActive); err != nil {
		return DailySummary{}, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT a.status, COUNT(1)
    FROM attendances a
    JOIN employees e ON e.id = a.employee_id
    WHERE a.date = $1`+deptFilter+`
    GROUP BY a.status
  `, args...)
	if err != nil {
		return DailySummary{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return DailySummary{}, err
		}
		switch status {
		case StatusPresent:
			summary.Present = count
		case StatusLate:
			summary.Late = count
		case StatusAbsent:
			summary.Absent = count
		case StatusHalfDay:
			summary.HalfDay = count
		}
	}
	if err := rows.Err(); err != nil {
		return DailySummary{}, err
	}

	// Employees with an attendance row are already tallied above;
	// counting their leave too would shrink NotCheckedIn.
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(DISTINCT l.employee_id)
    FROM leaves l
    JOIN employees e ON e.id = l.employee_id
    WHERE l.status = 'approved' AND $1 BETWEEN l.start_date AND l.end_date`+deptFilter+`
      AND NOT EXISTS (
        SELECT 1 FROM attendances a
        WHERE a.employee_id = l.employee_id AND a.date = $1
      )`,
		args...).Scan(&summary.OnLeave); err != nil {
		return DailySummary{}, err
	}

	marked := summary.Present + summary.Late + summary.Absent + summary.HalfDay
	summary.NotCheckedIn = unaccounted(summary.TotalActive, marked, summary.OnLeave)
	return summary, nil
}
