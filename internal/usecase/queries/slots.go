package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type SlotQueries interface {
	// ListSlots returns active slots for a branch on one date, spots_left
	// computed, sorted by start time.
	ListSlots(ctx context.Context, branchID uuid.UUID, date time.Time, filters SlotFilters) ([]*SlotView, error)
}

type SlotReadStore interface {
	FindActiveByBranchDate(ctx context.Context, branchID uuid.UUID, date time.Time, filters SlotFilters) ([]*SlotView, error)
}

type slotQueriesImpl struct {
	readStore SlotReadStore
}

func NewSlotQueries(readStore SlotReadStore) SlotQueries {
	return &slotQueriesImpl{readStore: readStore}
}

func (q *slotQueriesImpl) ListSlots(ctx context.Context, branchID uuid.UUID, date time.Time, filters SlotFilters) ([]*SlotView, error) {
	return q.readStore.FindActiveByBranchDate(ctx, branchID, date, filters)
}
