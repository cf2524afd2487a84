package leave

import "time"

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

const (
	TypeAnnual = "annual"
	TypeSick   = "sick"
	TypeUnpaid = "unpaid"
)

type Leave struct {
	ID         int64     `json:"id"`
	EmployeeID int64     `json:"employeeId"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	LeaveType  string    `json:"leaveType"`
	Reason     string    `json:"reason"`
	Status     string    `json:"status"`
	ApprovedBy *int64    `json:"approvedBy"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	EmployeeName   string `json:"employeeName,omitempty"`
	EmployeeCode   string `json:"employeeCode,omitempty"`
	DepartmentName string `json:"departmentName,omitempty"`
}

// Balance is the annual entitlement bookkeeping for one employee.
type Balance struct {
	EmployeeID    int64  `json:"employeeId"`
	EmployeeName  string `json:"employeeName"`
	Year          int    `json:"year"`
	TotalDays     int    `json:"totalDays"`
	UsedDays      int    `json:"usedDays"`
	PendingDays   int    `json:"pendingDays"`
	RemainingDays int    `json:"remainingDays"`
}

type MonthlyStatistics struct {
	Month         int            `json:"month"`
	Year          int            `json:"year"`
	TotalRequests int            `json:"totalRequests"`
	ByStatus      map[string]int `json:"byStatus"`
	ByType        map[string]int `json:"byType"`
	ApprovedDays  int            `json:"approvedDays"`
}

type Calendar struct {
	Date         time.Time `json:"date"`
	TotalOnLeave int       `json:"totalOnLeave"`
	Leaves       []Leave   `json:"leaves"`
}

type ListFilter struct {
	EmployeeID *int64
	Status     string
	LeaveType  string
	StartDate  *time.Time
	EndDate    *time.Time
}

func validType(leaveType string) bool {
	switch leaveType {
	case TypeAnnual, TypeSick, TypeUnpaid:
		return true
	}
	return false
}

func validStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}
