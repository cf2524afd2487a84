package employee

import (
	"regexp"
	"testing"
)

func TestNewEmployeeCodeFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^EMP\d{6}$`)
	for i := 0; i < 100; i++ {
		code := newEmployeeCode()
		if !pattern.MatchString(code) {
			t.Fatalf("code %q does not match EMP followed by six digits", code)
		}
	}
}
