package stats

import "time"

type NamedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type EmployeeMetrics struct {
	Total        int `json:"total"`
	Active       int `json:"active"`
	OnLeaveToday int `json:"onLeaveToday"`
	NewThisMonth int `json:"newThisMonth"`
}

type DepartmentMetrics struct {
	Total    int         `json:"total"`
	Largest  *NamedCount `json:"largest"`
	Smallest *NamedCount `json:"smallest"`
}

type PositionMetrics struct {
	Total      int         `json:"total"`
	MostCommon *NamedCount `json:"mostCommon"`
}

type AttendanceTodayMetrics struct {
	Date    time.Time `json:"date"`
	Present int       `json:"present"`
	Late    int       `json:"late"`
	Absent  int       `json:"absent"`
	OnLeave int       `json:"onLeave"`
}

type LeaveMetrics struct {
	PendingRequests   int `json:"pendingRequests"`
	ApprovedThisMonth int `json:"approvedThisMonth"`
}

type SalaryMetrics struct {
	TotalPayroll          float64 `json:"totalPayroll"`
	AverageSalary         float64 `json:"averageSalary"`
	HighestPaidDepartment string  `json:"highestPaidDepartment"`
}

type UserMetrics struct {
	Total     int `json:"total"`
	Admins    int `json:"admins"`
	Managers  int `json:"managers"`
	Employees int `json:"employees"`
}

// Dashboard is the single bundle behind GET /statistics/dashboard.
type Dashboard struct {
	Employees       EmployeeMetrics        `json:"employees"`
	Departments     DepartmentMetrics      `json:"departments"`
	Positions       PositionMetrics        `json:"positions"`
	AttendanceToday AttendanceTodayMetrics `json:"attendanceToday"`
	Leaves          LeaveMetrics           `json:"leaves"`
	Salaries        SalaryMetrics          `json:"salaries"`
	Users           UserMetrics            `json:"users"`
}
