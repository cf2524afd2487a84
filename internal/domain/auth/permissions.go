package auth

const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

const (
	PermEmployeesRead     = "employees.read"
	PermEmployeesWrite    = "employees.write"
	PermOrgRead           = "org.read"
	PermOrgWrite          = "org.write"
	PermSalariesRead      = "salaries.read"
	PermSalariesWrite     = "salaries.write"
	PermAttendanceRead    = "attendance.read"
	PermAttendanceWrite   = "attendance.write"
	PermAttendanceMarkOwn = "attendance.mark-own"
	PermLeavesRead        = "leaves.read"
	PermLeavesWrite       = "leaves.write"
	PermLeavesApprove     = "leaves.approve"
	PermUsersRead         = "users.read"
	PermUsersWrite        = "users.write"
	PermReportsRead       = "reports.read"
)

// RolePermissions is the static policy table consulted at the request
// boundary. Core services never inspect the caller beyond explicit
// owner parameters.
var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermOrgRead,
		PermSalariesRead,
		PermAttendanceMarkOwn,
		PermAttendanceRead,
		PermLeavesRead,
		PermLeavesWrite,
	},
	RoleManager: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermOrgRead,
		PermSalariesRead,
		PermSalariesWrite,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermAttendanceMarkOwn,
		PermLeavesRead,
		PermLeavesWrite,
		PermLeavesApprove,
		PermReportsRead,
	},
	RoleAdmin: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermOrgRead,
		PermOrgWrite,
		PermSalariesRead,
		PermSalariesWrite,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermAttendanceMarkOwn,
		PermLeavesRead,
		PermLeavesWrite,
		PermLeavesApprove,
		PermUsersRead,
		PermUsersWrite,
		PermReportsRead,
	},
}

// Policy answers role/permission lookups from RolePermissions.
type Policy struct {
	byRole map[string]map[string]bool
}

func NewPolicy() *Policy {
	byRole := make(map[string]map[string]bool, len(RolePermissions))
	for role, perms := range RolePermissions {
		set := make(map[string]bool, len(perms))
		for _, perm := range perms {
			set[perm] = true
		}
		byRole[role] = set
	}
	return &Policy{byRole: byRole}
}

func (p *Policy) Allows(role, permission string) bool {
	return p.byRole[role][permission]
}

func ValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}

// UserContext is the resolved caller identity attached to the request
// context by the auth middleware.
type UserContext struct {
	UserID     int64
	Role       string
	EmployeeID *int64
}

// CanAccessEmployee reports whether the caller may touch records owned
// by employeeID. Admins and managers always may; employees only their
// own linked record.
func CanAccessEmployee(user UserContext, employeeID int64) bool {
	if user.Role == RoleAdmin || user.Role == RoleManager {
		return true
	}
	return user.EmployeeID != nil && *user.EmployeeID == employeeID
}

// IsOwnerOrAdmin reports whether the caller is the employee who owns
// the record, or an admin. Managers do not pass: actions gated on this
// belong to the record's owner alone.
func IsOwnerOrAdmin(user UserContext, employeeID int64) bool {
	if user.Role == RoleAdmin {
		return true
	}
	return user.EmployeeID != nil && *user.EmployeeID == employeeID
}
