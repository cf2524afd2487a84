package employee

import "time"

type Employee struct {
	ID           int64      `json:"id"`
	EmployeeCode string     `json:"employeeCode"`
	FullName     string     `json:"fullName"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	HireDate     *time.Time `json:"hireDate,omitempty"`
	DepartmentID *int64     `json:"departmentId,omitempty"`
	PositionID   *int64     `json:"positionId,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	DepartmentName string `json:"departmentName,omitempty"`
	PositionTitle  string `json:"positionTitle,omitempty"`
}

// ListFilter narrows List results; zero values mean no filtering.
type ListFilter struct {
	DepartmentID *int64
	PositionID   *int64
}
