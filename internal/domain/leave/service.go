package leave

import (
	"context"
	"time"
)

// Service carries the configured annual entitlement; everything else
// is delegated to the store.
type Service struct {
	Store           *Store
	AnnualLeaveDays int
}

func NewService(store *Store, annualLeaveDays int) *Service {
	return &Service{Store: store, AnnualLeaveDays: annualLeaveDays}
}

func (s *Service) Balance(ctx context.Context, employeeID int64, year int) (Balance, error) {
	if year == 0 {
		year = time.Now().Year()
	}
	return s.Store.Balance(ctx, employeeID, year, s.AnnualLeaveDays)
}

func (s *Service) Approve(ctx context.Context, leaveID, approverID int64) (Leave, error) {
	return s.Store.Transition(ctx, leaveID, StatusApproved, &approverID)
}

func (s *Service) Reject(ctx context.Context, leaveID, approverID int64) (Leave, error) {
	return s.Store.Transition(ctx, leaveID, StatusRejected, &approverID)
}

func (s *Service) Cancel(ctx context.Context, leaveID int64) (Leave, error) {
	return s.Store.Transition(ctx, leaveID, StatusCancelled, nil)
}
