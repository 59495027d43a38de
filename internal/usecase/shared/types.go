package shared

import (
	"time"

	"fitbook/internal/domain/member"

	"github.com/google/uuid"
)

// Minimal snapshots for command-side reads; the query façade has its own
// richer views.

type MembershipSnapshot struct {
	ID       uuid.UUID
	MemberID uuid.UUID
	Status   string
	StartsOn time.Time
	EndsOn   *time.Time
}

const MembershipStatusActive = "active"

// CoversBookingAt reports whether the membership gates a booking at now.
func (m MembershipSnapshot) CoversBookingAt(now time.Time) bool {
	if m.Status != MembershipStatusActive {
		return false
	}
	if now.Before(m.StartsOn) {
		return false
	}
	if m.EndsOn != nil && now.After(*m.EndsOn) {
		return false
	}
	return true
}

type MemberSnapshot struct {
	ID       uuid.UUID
	BranchID uuid.UUID
	Gender   member.Gender
	IsActive bool
}

type BranchSnapshot struct {
	ID       uuid.UUID
	Name     string
	TimeZone string
}

// AuditEvent is the in-transaction audit record; the live feed reads it
// back, the asynq dispatcher fans it out best-effort after commit.
type AuditEvent struct {
	BranchID  uuid.UUID
	BookingID uuid.UUID
	MemberID  uuid.UUID
	EventType string
	Payload   []byte
}

const (
	EventBookingCreated   = "booking_created"
	EventBookingConfirmed = "booking_confirmed"
	EventBookingCancelled = "booking_cancelled"
	EventBookingAttended  = "booking_attended"
	EventBookingNoShow    = "booking_no_show"
	EventPenaltyCharged   = "penalty_charged"
	EventSlotDeactivated  = "slot_deactivated"
)
