package org

import "time"

type Department struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Position struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type DepartmentWithCount struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	EmployeeCount int    `json:"employeeCount"`
}

// SearchFilter drives the aggregated department search. Thresholds on
// employee count and average salary apply after grouping.
type SearchFilter struct {
	Name         string
	MinEmployees *int
	MaxEmployees *int
	MinAvgSalary *float64
	MaxAvgSalary *float64
	SortBy       string
	Order        string
	Skip         int
	Limit        int
}

type SearchResult struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	EmployeeCount int     `json:"employeeCount"`
	AvgSalary     float64 `json:"avgSalary"`
}

type PositionCount struct {
	PositionID    int64  `json:"positionId"`
	PositionTitle string `json:"positionTitle"`
	Count         int    `json:"count"`
}

type SalaryStats struct {
	TotalBudget   float64 `json:"totalSalaryBudget"`
	AverageSalary float64 `json:"averageSalary"`
	MinSalary     float64 `json:"minSalary"`
	MaxSalary     float64 `json:"maxSalary"`
}

type EmployeeRef struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	HireDate time.Time `json:"hireDate"`
}

type DepartmentStatistics struct {
	DepartmentID    int64           `json:"departmentId"`
	DepartmentName  string          `json:"departmentName"`
	TotalEmployees  int             `json:"totalEmployees"`
	ByPosition      []PositionCount `json:"employeeBreakdownByPosition"`
	Salary          SalaryStats     `json:"salaryStats"`
	NewestEmployee  *EmployeeRef    `json:"newestEmployee"`
	LongestServing  *EmployeeRef    `json:"longestServingEmployee"`
}

// DepartmentComparison is one row of a side-by-side comparison with
// computed ranks.
type DepartmentComparison struct {
	DepartmentID    int64   `json:"departmentId"`
	DepartmentName  string  `json:"departmentName"`
	TotalEmployees  int     `json:"totalEmployees"`
	TotalSalary     float64 `json:"totalSalaryBudget"`
	AvgSalary       float64 `json:"avgSalary"`
	UniquePositions int     `json:"uniquePositions"`
	RankBySize      int     `json:"rankBySize"`
	RankBySalary    int     `json:"rankBySalary"`
}

type ComparisonSummary struct {
	LargestDepartment     string `json:"largestDepartment"`
	HighestPaidDepartment string `json:"highestPaidDepartment"`
	MostDiversePositions  string `json:"mostDiversePositions"`
}

type Comparison struct {
	Departments []DepartmentComparison `json:"comparison"`
	Summary     *ComparisonSummary     `json:"summary,omitempty"`
}

type DepartmentEmployee struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Position      string     `json:"position"`
	HireDate      *time.Time `json:"hireDate"`
	CurrentSalary float64    `json:"currentSalary"`
}

type PageInfo struct {
	Page         int `json:"page"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
	TotalPages   int `json:"totalPages"`
}

type DepartmentEmployeesPage struct {
	DepartmentID   int64                `json:"departmentId"`
	DepartmentName string               `json:"departmentName"`
	Pagination     PageInfo             `json:"pagination"`
	Employees      []DepartmentEmployee `json:"employees"`
}
