package queries

import (
	"context"

	"github.com/google/uuid"
)

type ReconcileQueries interface {
	// CountDrift lists slots whose booked_count disagrees with the number
	// of live bookings targeting them. Read-only; repair is a staff action.
	CountDrift(ctx context.Context, branchID uuid.UUID) ([]*CountDriftView, error)
}

type ReconcileReadStore interface {
	FindCountDrift(ctx context.Context, branchID uuid.UUID) ([]*CountDriftView, error)
}

type reconcileQueriesImpl struct {
	readStore ReconcileReadStore
}

func NewReconcileQueries(readStore ReconcileReadStore) ReconcileQueries {
	return &reconcileQueriesImpl{readStore: readStore}
}

func (q *reconcileQueriesImpl) CountDrift(ctx context.Context, branchID uuid.UUID) ([]*CountDriftView, error) {
	return q.readStore.FindCountDrift(ctx, branchID)
}
