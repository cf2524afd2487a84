package attendance

import "time"

const (
	StatusPresent = "present"
	StatusLate    = "late"
	StatusAbsent  = "absent"
	StatusHalfDay = "half_day"
)

type Attendance struct {
	ID           int64      `json:"id"`
	EmployeeID   int64      `json:"employeeId"`
	Date         time.Time  `json:"date"`
	CheckInTime  *time.Time `json:"checkInTime"`
	CheckOutTime *time.Time `json:"checkOutTime"`
	Status       string     `json:"status"`
	Notes        string     `json:"notes"`
	CreatedAt    time.Time  `json:"createdAt"`

	// Annotations filled by joined queries, not stored on the row.
	EmployeeName   string   `json:"employeeName,omitempty"`
	EmployeeCode   string   `json:"employeeCode,omitempty"`
	DepartmentName string   `json:"departmentName,omitempty"`
	WorkingHours   *float64 `json:"workingHours,omitempty"`
}

// MonthlyReport totals one employee's attendance over a calendar month.
type MonthlyReport struct {
	EmployeeID   int64        `json:"employeeId"`
	EmployeeName string       `json:"employeeName"`
	EmployeeCode string       `json:"employeeCode"`
	Month        int          `json:"month"`
	Year         int          `json:"year"`
	TotalDays    int          `json:"totalDays"`
	PresentDays  int          `json:"presentDays"`
	AbsentDays   int          `json:"absentDays"`
	LateDays     int          `json:"lateDays"`
	HalfDays     int          `json:"halfDays"`
	WorkingHours float64      `json:"workingHours"`
	Attendances  []Attendance `json:"attendances"`
}

// DailySummary counts headcount state for one date. Each employee
// lands in exactly one bucket: OnLeave only counts those without an
// attendance row.
type DailySummary struct {
	Date         time.Time `json:"date"`
	TotalActive  int       `json:"totalActive"`
	Present      int       `json:"present"`
	Late         int       `json:"late"`
	Absent       int       `json:"absent"`
	HalfDay      int       `json:"halfDay"`
	OnLeave      int       `json:"onLeave"`
	NotCheckedIn int       `json:"notCheckedIn"`
}

type RangeFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
}

func validStatus(status string) bool {
	switch status {
	case StatusPresent, StatusLate, StatusAbsent, StatusHalfDay:
		return true
	}
	return false
}
