package org

import (
	"context"
	"strconv"
	"strings"

	"hradmin/internal/domain/apperr"
)

// ListWithCounts returns departments with their headcount, largest first.
func (s *Store) ListWithCounts(ctx context.Context, limit, offset int) ([]DepartmentWithCount, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT d.id, d.name, COUNT(e.id)
    FROM departments d
    LEFT JOIN employees e ON e.department_id = d.id
    GROUP BY d.id, d.name
    ORDER BY COUNT(e.id) DESC, d.id
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DepartmentWithCount
	for rows.Next() {
		var row DepartmentWithCount
		if err := rows.Scan(&row.ID, &row.Name, &row.EmployeeCount); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

var searchSortColumns = map[string]string{
	"name":           "d.name",
	"employee_count": "COUNT(e.id)",
	"avg_salary":     "COALESCE(AVG(s.base_salary), 0)",
}

// Search filters departments by name and by aggregate thresholds.
// Count and average-salary thresholds go in HAVING since they apply to
// grouped rows.
func (s *Store) Search(ctx context.Context, f SearchFilter) ([]SearchResult, error) {
	var b strings.Builder
	b.WriteString(`
    SELECT d.id, d.name, COUNT(e.id), COALESCE(AVG(s.base_salary), 0)
    FROM departments d
    LEFT JOIN employees e ON e.department_id = d.id
    LEFT JOIN salaries s ON s.employee_id = e.id AND s.effective_to IS NULL
  `)
	args := []any{}

	if f.Name != "" {
		args = append(args, "%"+f.Name+"%")
		b.WriteString(" WHERE d.name ILIKE $" + strconv.Itoa(len(args)))
	}
	b.WriteString(" GROUP BY d.id, d.name")

	var having []string
	if f.MinEmployees != nil {
		args = append(args, *f.MinEmployees)
		having = append(having, "COUNT(e.id) >= $"+strconv.Itoa(len(args)))
	}
	if f.MaxEmployees != nil {
		args = append(args, *f.MaxEmployees)
		having = append(having, "COUNT(e.id) <= $"+strconv.Itoa(len(args)))
	}
	if f.MinAvgSalary != nil {
		args = append(args, *f.MinAvgSalary)
		having = append(having, "AVG(s.base_salary) >= $"+strconv.Itoa(len(args)))
	}
	if f.MaxAvgSalary != nil {
		args = append(args, *f.MaxAvgSalary)
		having = append(having, "AVG(s.base_salary) <= $"+strconv.Itoa(len(args)))
	}
	if len(having) > 0 {
		b.WriteString(" HAVING " + strings.Join(having, " AND "))
	}

	sortCol, ok := searchSortColumns[f.SortBy]
	if !ok {
		sortCol = "d.name"
	}
	direction := "ASC"
	if strings.EqualFold(f.Order, "desc") {
		direction = "DESC"
	}
	b.WriteString(" ORDER BY " + sortCol + " " + direction + ", d.id")

	args = append(args, f.Limit)
	b.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	args = append(args, f.Skip)
	b.WriteString(" OFFSET $" + strconv.Itoa(len(args)))

	rows, err := s.DB.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var row SearchResult
		if err := rows.Scan(&row.ID, &row.Name, &row.EmployeeCount, &row.AvgSalary); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// DepartmentStatistics assembles headcount, per-position breakdown,
// open-salary aggregates and the newest / longest-serving hires for one
// department.
func (s *Store) DepartmentStatistics(ctx context.Context, departmentID int64) (DepartmentStatistics, error) {
	dept, err := s.GetDepartment(ctx, departmentID)
	if err != nil {
		return DepartmentStatistics{}, err
	}

	stats := DepartmentStatistics{
		DepartmentID:   dept.ID,
		DepartmentName: dept.Name,
		ByPosition:     []PositionCount{},
	}

	if err := s.DB.QueryRow(ctx,
		"SELECT COUNT(1) FROM employees WHERE department_id = $1", departmentID,
	).Scan(&stats.TotalEmployees); err != nil {
		return DepartmentStatistics{}, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT p.id, p.title, COUNT(e.id)
    FROM positions p
    JOIN employees e ON e.position_id = p.id AND e.department_id = $1
    GROUP BY p.id, p.title
    ORDER BY COUNT(e.id) DESC, p.title
  `, departmentID)
	if err != nil {
		return DepartmentStatistics{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var pc PositionCount
		if err := rows.Scan(&pc.PositionID, &pc.PositionTitle, &pc.Count); err != nil {
			return DepartmentStatistics{}, err
		}
		stats.ByPosition = append(stats.ByPosition, pc)
	}
	if err := rows.Err(); err != nil {
		return DepartmentStatistics{}, err
	}

	if err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(s.base_salary), 0),
           COALESCE(AVG(s.base_salary), 0),
           COALESCE(MIN(s.base_salary), 0),
           COALESCE(MAX(s.base_salary), 0)
    FROM salaries s
    JOIN employees e ON e.id = s.employee_id
    WHERE e.department_id = $1 AND s.effective_to IS NULL
  `, departmentID).Scan(&stats.Salary.TotalBudget, &stats.Salary.AverageSalary, &stats.Salary.MinSalary, &stats.Salary.MaxSalary); err != nil {
		return DepartmentStatistics{}, err
	}

	newest, err := s.employeeByHireDate(ctx, departmentID, "DESC")
	if err != nil {
		return DepartmentStatistics{}, err
	}
	stats.NewestEmployee = newest

	longest, err := s.employeeByHireDate(ctx, departmentID, "ASC")
	if err != nil {
		return DepartmentStatistics{}, err
	}
	stats.LongestServing = longest

	return stats, nil
}

func (s *Store) employeeByHireDate(ctx context.Context, departmentID int64, direction string) (*EmployeeRef, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, full_name, hire_date
    FROM employees
    WHERE department_id = $1 AND hire_date IS NOT NULL
    ORDER BY hire_date `+direction+`
    LIMIT 1
  `, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	var ref EmployeeRef
	if err := rows.Scan(&ref.ID, &ref.Name, &ref.HireDate); err != nil {
		return nil, err
	}
	return &ref, nil
}

// CompareDepartments loads per-department aggregates for the given ids
// and ranks them by size and by average open salary.
func (s *Store) CompareDepartments(ctx context.Context, departmentIDs []int64) (Comparison, error) {
	if len(departmentIDs) == 0 {
		return Comparison{Departments: []DepartmentComparison{}}, nil
	}

	rows, err := s.DB.Query(ctx, `
    SELECT d.id, d.name,
           COUNT(e.id),
           COALESCE(SUM(s.base_salary), 0),
           COALESCE(AVG(s.base_salary), 0),
           COUNT(DISTINCT e.position_id)
    FROM departments d
    LEFT JOIN employees e ON e.department_id = d.id
    LEFT JOIN salaries s ON s.employee_id = e.id AND s.effective_to IS NULL
    WHERE d.id = ANY($1)
    GROUP BY d.id, d.name
  `, departmentIDs)
	if err != nil {
		return Comparison{}, err
	}
	defer rows.Close()

	var deps []DepartmentComparison
	for rows.Next() {
		var row DepartmentComparison
		if err := rows.Scan(&row.DepartmentID, &row.DepartmentName, &row.TotalEmployees, &row.TotalSalary, &row.AvgSalary, &row.UniquePositions); err != nil {
			return Comparison{}, err
		}
		deps = append(deps, row)
	}
	if err := rows.Err(); err != nil {
		return Comparison{}, err
	}
	if len(deps) == 0 {
		return Comparison{}, apperr.NotFound("no departments matched the requested ids")
	}

	rankComparisons(deps)
	return Comparison{Departments: deps, Summary: summarize(deps)}, nil
}

var employeeSortColumns = map[string]string{
	"name":      "e.full_name",
	"hire_date": "e.hire_date",
	"salary":    "COALESCE(s.base_salary, 0)",
}

// DepartmentEmployees returns one page of a department's roster with
// position title and current salary.
func (s *Store) DepartmentEmployees(ctx context.Context, departmentID int64, page, pageSize int, sortBy, order string, positionID *int64) (DepartmentEmployeesPage, error) {
	dept, err := s.GetDepartment(ctx, departmentID)
	if err != nil {
		return DepartmentEmployeesPage{}, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	where := "WHERE e.department_id = $1"
	args := []any{departmentID}
	if positionID != nil {
		args = append(args, *positionID)
		where += " AND e.position_id = $" + strconv.Itoa(len(args))
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees e "+where, args...).Scan(&total); err != nil {
		return DepartmentEmployeesPage{}, err
	}

	sortCol, ok := employeeSortColumns[sortBy]
	if !ok {
		sortCol = "e.full_name"
	}
	direction := "ASC"
	if strings.EqualFold(order, "desc") {
		direction = "DESC"
	}

	args = append(args, pageSize)
	limitPos := len(args)
	args = append(args, (page-1)*pageSize)
	offsetPos := len(args)

	rows, err := s.DB.Query(ctx, `
    SELECT e.id, e.full_name, e.email, COALESCE(p.title, 'N/A'), e.hire_date, COALESCE(s.base_salary, 0)
    FROM employees e
    LEFT JOIN positions p ON p.id = e.position_id
    LEFT JOIN salaries s ON s.employee_id = e.id AND s.effective_to IS NULL
    `+where+`
    ORDER BY `+sortCol+` `+direction+`, e.id
    LIMIT $`+strconv.Itoa(limitPos)+` OFFSET $`+strconv.Itoa(offsetPos), args...)
	if err != nil {
		return DepartmentEmployeesPage{}, err
	}
	defer rows.Close()

	result := DepartmentEmployeesPage{
		DepartmentID:   dept.ID,
		DepartmentName: dept.Name,
		Pagination: PageInfo{
			Page:         page,
			PageSize:     pageSize,
			TotalRecords: total,
			TotalPages:   totalPages(total, pageSize),
		},
		Employees: []DepartmentEmployee{},
	}
	for rows.Next() {
		var row DepartmentEmployee
		if err := rows.Scan(&row.ID, &row.Name, &row.Email, &row.Position, &row.HireDate, &row.CurrentSalary); err != nil {
			return DepartmentEmployeesPage{}, err
		}
		result.Employees = append(result.Employees, row)
	}
	return result, rows.Err()
}
