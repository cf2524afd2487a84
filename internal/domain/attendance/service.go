package attendance

import (
	"context"
	"time"
)

// Service applies the configured workday start and defaults timestamps
// to the current time; the store does the rest.
type Service struct {
	Store               *Store
	WorkdayStartMinutes int
}

func NewService(store *Store, workdayStartMinutes int) *Service {
	return &Service{Store: store, WorkdayStartMinutes: workdayStartMinutes}
}

func (s *Service) CheckIn(ctx context.Context, employeeID int64, at *time.Time) (Attendance, error) {
	when := time.Now()
	if at != nil {
		when = *at
	}
	return s.Store.CheckIn(ctx, employeeID, when, s.WorkdayStartMinutes)
}

func (s *Service) CheckOut(ctx context.Context, employeeID int64, at *time.Time) (Attendance, error) {
	when := time.Now()
	if at != nil {
		when = *at
	}
	return s.Store.CheckOut(ctx, employeeID, when)
}
