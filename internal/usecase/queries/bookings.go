package queries

import (
	"context"

	"github.com/google/uuid"
)

const defaultHistoryLimit = 50

type BookingQueries interface {
	ListByMember(ctx context.Context, memberID uuid.UUID, limit int) ([]*BookingListItem, error)
	CreditBalances(ctx context.Context, memberID uuid.UUID) ([]*CreditBalanceView, error)
	LiveFeed(ctx context.Context, branchID uuid.UUID, limit int) ([]*FeedEventView, error)
}

type BookingReadStore interface {
	FindByMemberID(ctx context.Context, memberID uuid.UUID, limit int32) ([]*BookingListItem, error)
	CreditBalancesByMember(ctx context.Context, memberID uuid.UUID) ([]*CreditBalanceView, error)
	RecentEventsByBranch(ctx context.Context, branchID uuid.UUID, limit int32) ([]*FeedEventView, error)
}

type bookingQueriesImpl struct {
	readStore BookingReadStore
}

func NewBookingQueries(readStore BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{readStore: readStore}
}

func (q *bookingQueriesImpl) ListByMember(ctx context.Context, memberID uuid.UUID, limit int) ([]*BookingListItem, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return q.readStore.FindByMemberID(ctx, memberID, int32(limit))
}

func (q *bookingQueriesImpl) CreditBalances(ctx context.Context, memberID uuid.UUID) ([]*CreditBalanceView, error) {
	return q.readStore.CreditBalancesByMember(ctx, memberID)
}

func (q *bookingQueriesImpl) LiveFeed(ctx context.Context, branchID uuid.UUID, limit int) ([]*FeedEventView, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return q.readStore.RecentEventsByBranch(ctx, branchID, int32(limit))
}
