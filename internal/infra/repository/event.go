package repository

import (
	"context"

	"fitbook/internal/infra"
	"fitbook/internal/infra/db"
	"fitbook/internal/usecase/shared"

	"github.com/google/uuid"
)

// EventRepository is the audit sink: every booking transition leaves a row
// in the same transaction that performed it.
type EventRepository struct {
	db db.DBTX
}

func NewEventRepository(dbtx db.DBTX) *EventRepository {
	return &EventRepository{db: dbtx}
}

func (r *EventRepository) Append(ctx context.Context, ev shared.AuditEvent) error {
	const q = `
		INSERT INTO booking_events (branch_id, booking_id, member_id, event_type, payload)
		VALUES ($1, $2, $3, $4, $5)`

	payload := ev.Payload
	if payload == nil {
		payload = []byte("{}")
	}

	// Slot-level events carry no booking; NULL keeps the FK honest.
	var bookingID *uuid.UUID
	if ev.BookingID != uuid.Nil {
		bookingID = &ev.BookingID
	}

	_, err := r.db.Exec(ctx, q, ev.BranchID, bookingID, ev.MemberID, ev.EventType, payload)
	if err != nil {
		return infra.WrapRepoErr("failed to append booking event", err)
	}
	return nil
}
