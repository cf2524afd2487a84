package auth

import "testing"

func TestPolicyAllows(t *testing.T) {
	policy := NewPolicy()

	tests := []struct {
		role       string
		permission string
		want       bool
	}{
		{RoleAdmin, PermUsersWrite, true},
		{RoleAdmin, PermOrgWrite, true},
		{RoleManager, PermEmployeesWrite, true},
		{RoleManager, PermLeavesApprove, true},
		{RoleManager, PermUsersWrite, false},
		{RoleManager, PermOrgWrite, false},
		{RoleEmployee, PermAttendanceMarkOwn, true},
		{RoleEmployee, PermLeavesWrite, true},
		{RoleEmployee, PermEmployeesWrite, false},
		{RoleEmployee, PermLeavesApprove, false},
		{RoleEmployee, PermReportsRead, false},
		{"unknown", PermOrgRead, false},
	}
	for _, tt := range tests {
		if got := policy.Allows(tt.role, tt.permission); got != tt.want {
			t.Errorf("Allows(%q, %q) = %v, want %v", tt.role, tt.permission, got, tt.want)
		}
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleAdmin, RoleManager, RoleEmployee} {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%q) = false", role)
		}
	}
	if ValidRole("superuser") {
		t.Error(`ValidRole("superuser") = true`)
	}
}

func TestCanAccessEmployee(t *testing.T) {
	own := int64(10)

	tests := []struct {
		name string
		user UserContext
		id   int64
		want bool
	}{
		{"admin any", UserContext{Role: RoleAdmin}, 99, true},
		{"manager any", UserContext{Role: RoleManager}, 99, true},
		{"employee own", UserContext{Role: RoleEmployee, EmployeeID: &own}, 10, true},
		{"employee other", UserContext{Role: RoleEmployee, EmployeeID: &own}, 11, false},
		{"employee unlinked", UserContext{Role: RoleEmployee}, 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAccessEmployee(tt.user, tt.id); got != tt.want {
				t.Errorf("CanAccessEmployee = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsOwnerOrAdmin(t *testing.T) {
	own := int64(10)

	tests := []struct {
		name string
		user UserContext
		id   int64
		want bool
	}{
		{"admin any", UserContext{Role: RoleAdmin}, 99, true},
		{"manager other", UserContext{Role: RoleManager, EmployeeID: &own}, 11, false},
		{"manager own record", UserContext{Role: RoleManager, EmployeeID: &own}, 10, true},
		{"employee own", UserContext{Role: RoleEmployee, EmployeeID: &own}, 10, true},
		{"employee other", UserContext{Role: RoleEmployee, EmployeeID: &own}, 11, false},
		{"manager unlinked", UserContext{Role: RoleManager}, 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOwnerOrAdmin(tt.user, tt.id); got != tt.want {
				t.Errorf("IsOwnerOrAdmin = %v, want %v", got, tt.want)
			}
		})
	}
}
