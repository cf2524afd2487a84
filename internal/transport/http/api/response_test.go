package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hradmin/internal/domain/apperr"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return env
}

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, map[string]string{"hello": "world"}, "req-1")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q", ct)
	}
	env := decode(t, rec)
	if !env.Success || env.RequestID != "req-1" || env.Error != nil {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestFromErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", apperr.NotFound("employee 9"), http.StatusNotFound, "not_found"},
		{"validation", apperr.Validation("end before start"), http.StatusBadRequest, "validation_error"},
		{"conflict", apperr.Conflict("overlapping leave"), http.StatusConflict, "conflict"},
		{"forbidden", apperr.Forbidden("not yours"), http.StatusForbidden, "forbidden"},
		{"unknown", errors.New("connection refused"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			FromError(rec, tt.err, "req-2")

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			env := decode(t, rec)
			if env.Success || env.Error == nil || env.Error.Code != tt.wantCode {
				t.Fatalf("envelope = %+v", env)
			}
		})
	}
}

func TestFromErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	FromError(rec, errors.New("pq: password authentication failed"), "req-3")

	env := decode(t, rec)
	if env.Error.Message != "internal server error" {
		t.Fatalf("message leaked: %q", env.Error.Message)
	}
}
