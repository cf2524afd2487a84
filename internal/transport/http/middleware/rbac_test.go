package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hradmin/internal/domain/auth"
)

func TestRequirePermission(t *testing.T) {
	policy := auth.NewPolicy()
	handler := RequirePermission(auth.PermUsersWrite, policy)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}),
	)

	tests := []struct {
		name string
		user *auth.UserContext
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"employee lacks permission", &auth.UserContext{UserID: 1, Role: auth.RoleEmployee}, http.StatusForbidden},
		{"manager lacks permission", &auth.UserContext{UserID: 2, Role: auth.RoleManager}, http.StatusForbidden},
		{"admin allowed", &auth.UserContext{UserID: 3, Role: auth.RoleAdmin}, http.StatusTeapot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/users", nil)
			if tt.user != nil {
				r = r.WithContext(WithUser(r.Context(), *tt.user))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, r)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestAuthMiddlewareAttachesUser(t *testing.T) {
	secret := "test-secret"
	employeeID := int64(5)
	token, err := auth.GenerateToken(secret, auth.Claims{
		UserID:     9,
		Role:       auth.RoleEmployee,
		EmployeeID: &employeeID,
	}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	var got auth.UserContext
	var found bool
	handler := Auth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = GetUser(r.Context())
	}))

	r := httptest.NewRequest("GET", "/employees/me", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), r)

	if !found {
		t.Fatal("user not attached")
	}
	if got.UserID != 9 || got.Role != auth.RoleEmployee || got.EmployeeID == nil || *got.EmployeeID != 5 {
		t.Fatalf("user = %+v", got)
	}
}

func TestAuthMiddlewareIgnoresBadToken(t *testing.T) {
	handler := Auth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); ok {
			t.Error("user attached from invalid token")
		}
	}))

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer not-a-token")
	handler.ServeHTTP(httptest.NewRecorder(), r)
}
