package salary

import "time"

// Salary is one effective-dated pay period. A nil EffectiveTo marks
// the open (current) row; history is append-only.
type Salary struct {
	ID            int64      `json:"id"`
	EmployeeID    int64      `json:"employeeId"`
	BaseSalary    float64    `json:"baseSalary"`
	EffectiveFrom time.Time  `json:"effectiveFrom"`
	EffectiveTo   *time.Time `json:"effectiveTo,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`

	EmployeeName string `json:"employeeName,omitempty"`
	EmployeeCode string `json:"employeeCode,omitempty"`
}

type History struct {
	EmployeeID    int64    `json:"employeeId"`
	EmployeeName  string   `json:"employeeName"`
	EmployeeCode  string   `json:"employeeCode"`
	Salaries      []Salary `json:"salaries"`
	CurrentSalary *float64 `json:"currentSalary,omitempty"`
}

type DepartmentStat struct {
	DepartmentID   *int64  `json:"departmentId,omitempty"`
	DepartmentName string  `json:"departmentName,omitempty"`
	AverageSalary  float64 `json:"averageSalary"`
	MinSalary      float64 `json:"minSalary"`
	MaxSalary      float64 `json:"maxSalary"`
	TotalEmployees int     `json:"totalEmployees"`
}
