package salary

import (
	"context"
	"errors"
	"time"

	"hradmin/internal/domain/apperr"
	"hradmin/internal/domain/employee"
)

type Service struct {
	Store     *Store
	Employees *employee.Store
}

func NewService(store *Store, employees *employee.Store) *Service {
	return &Service{Store: store, Employees: employees}
}

func (s *Service) Create(ctx context.Context, employeeID int64, baseSalary float64, from time.Time, to *time.Time) (Salary, error) {
	return s.Store.Create(ctx, employeeID, baseSalary, from, to)
}

func (s *Service) Current(ctx context.Context, employeeID int64, asOf time.Time) (Salary, error) {
	if _, err := s.Employees.Get(ctx, employeeID); err != nil {
		return Salary{}, err
	}
	return s.Store.Current(ctx, employeeID, asOf)
}

func (s *Service) ReplaceCurrent(ctx context.Context, employeeID int64, newSalary float64, from time.Time) (Salary, error) {
	return s.Store.ReplaceCurrent(ctx, employeeID, newSalary, from)
}

// History returns the full effective-dated record for one employee,
// annotated with the amount currently in effect.
func (s *Service) History(ctx context.Context, employeeID int64, asOf time.Time) (History, error) {
	emp, err := s.Employees.Get(ctx, employeeID)
	if err != nil {
		return History{}, err
	}

	rows, err := s.Store.HistoryRows(ctx, employeeID)
	if err != nil {
		return History{}, err
	}
	for i := range rows {
		rows[i].EmployeeName = emp.FullName
		rows[i].EmployeeCode = emp.EmployeeCode
	}

	history := History{
		EmployeeID:   employeeID,
		EmployeeName: emp.FullName,
		EmployeeCode: emp.EmployeeCode,
		Salaries:     rows,
	}

	current, err := s.Store.Current(ctx, employeeID, asOf)
	switch {
	case err == nil:
		history.CurrentSalary = &current.BaseSalary
	case errors.Is(err, apperr.ErrNotFound):
		// No salary in effect; history still returned.
	default:
		return History{}, err
	}
	return history, nil
}

func (s *Service) List(ctx context.Context, employeeID *int64, limit, offset int) ([]Salary, error) {
	return s.Store.List(ctx, employeeID, limit, offset)
}

func (s *Service) Statistics(ctx context.Context, departmentID *int64) ([]DepartmentStat, error) {
	return s.Store.Statistics(ctx, departmentID)
}

func (s *Service) Delete(ctx context.Context, salaryID int64) error {
	return s.Store.Delete(ctx, salaryID)
}
