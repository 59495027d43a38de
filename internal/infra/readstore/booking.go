package readstore

import (
	"context"

	"fitbook/internal/infra"
	"fitbook/internal/infra/db"
	"fitbook/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

// FindByMemberID returns booking history newest-first, labelled from the
// slot's facility or the class title.
func (r *BookingReadStore) FindByMemberID(ctx context.Context, memberID uuid.UUID, limit int32) ([]*queries.BookingListItem, error) {
	const q = `
		SELECT b.id, b.target_kind, COALESCE(b.slot_id, b.class_id),
		       CASE b.target_kind
		           WHEN 'slot' THEN COALESCE(f.name, '')
		           ELSE COALESCE(c.title, '')
		       END AS target_label,
		       b.status,
		       CASE b.target_kind
		           WHEN 'slot' THEN s.start_at
		           ELSE c.scheduled_at
		       END AS start_at,
		       b.cancel_reason, b.created_at, b.cancelled_at
		FROM bookings b
		LEFT JOIN benefit_slots s ON s.id = b.slot_id
		LEFT JOIN facilities f ON f.id = s.facility_id
		LEFT JOIN classes c ON c.id = b.class_id
		WHERE b.member_id = $1
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, q, memberID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list member bookings", err)
	}
	defer rows.Close()

	var result []*queries.BookingListItem
	for rows.Next() {
		var item queries.BookingListItem
		if err := rows.Scan(
			&item.ID, &item.TargetKind, &item.TargetID, &item.TargetLabel,
			&item.Status, &item.StartAt,
			&item.CancelReason, &item.CreatedAt, &item.CancelledAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking history row", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking history rows", err)
	}
	return result, nil
}

// CreditBalancesByMember aggregates unexpired grants per benefit type.
func (r *BookingReadStore) CreditBalancesByMember(ctx context.Context, memberID uuid.UUID) ([]*queries.CreditBalanceView, error) {
	const q = `
		SELECT benefit_type, sum(credits_remaining)::int, min(expires_at)
		FROM member_benefit_credits
		WHERE member_id = $1 AND credits_remaining > 0 AND expires_at > now()
		GROUP BY benefit_type
		ORDER BY benefit_type`

	rows, err := r.db.Query(ctx, q, memberID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query credit balances", err)
	}
	defer rows.Close()

	var result []*queries.CreditBalanceView
	for rows.Next() {
		var v queries.CreditBalanceView
		if err := rows.Scan(&v.BenefitType, &v.Remaining, &v.NextExpiry); err != nil {
			return nil, infra.WrapRepoErr("failed to scan credit balance row", err)
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate credit balance rows", err)
	}
	return result, nil
}

// RecentEventsByBranch feeds the live activity displays.
func (r *BookingReadStore) RecentEventsByBranch(ctx context.Context, branchID uuid.UUID, limit int32) ([]*queries.FeedEventView, error) {
	const q = `
		SELECT e.id, e.booking_id, COALESCE(m.full_name, ''), e.event_type,
		       e.payload, e.occurred_at
		FROM booking_events e
		LEFT JOIN members m ON m.id = e.member_id
		WHERE e.branch_id = $1
		ORDER BY e.occurred_at DESC, e.id DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, q, branchID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query booking events", err)
	}
	defer rows.Close()

	var result []*queries.FeedEventView
	for rows.Next() {
		var v queries.FeedEventView
		if err := rows.Scan(&v.ID, &v.BookingID, &v.MemberName, &v.EventType, &v.Payload, &v.OccurredAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking event row", err)
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking event rows", err)
	}
	return result, nil
}
