package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus     = errors.New("invalid booking status")
	ErrInvalidTransition = errors.New("invalid booking status transition")
	ErrNotCancellable    = errors.New("booking is not cancellable")
	ErrMissingTarget     = errors.New("booking must target a slot or a class")
)

// Booking is the aggregate the state machine operates on. All status
// mutations go through the transition table; persistence only records the
// outcome.
type Booking struct {
	id           uuid.UUID
	memberID     uuid.UUID
	membershipID uuid.UUID
	targetKind   TargetKind
	slotID       *uuid.UUID
	classID      *uuid.UUID
	status       Status
	creditID     *uuid.UUID
	createdAt    time.Time
	cancelledAt  *time.Time
	cancelReason *string
}

// NewSlotBooking creates a booking in the initial booked state against a
// facility slot. creditID records which entitlement record was debited so
// cancellation can restore that exact record.
func NewSlotBooking(memberID, membershipID, slotID uuid.UUID, creditID *uuid.UUID) *Booking {
	id := slotID
	return &Booking{
		id:           uuid.New(),
		memberID:     memberID,
		membershipID: membershipID,
		targetKind:   TargetSlot,
		slotID:       &id,
		status:       StatusBooked,
		creditID:     creditID,
	}
}

func NewClassBooking(memberID, membershipID, classID uuid.UUID, creditID *uuid.UUID) *Booking {
	id := classID
	return &Booking{
		id:           uuid.New(),
		memberID:     memberID,
		membershipID: membershipID,
		targetKind:   TargetClass,
		classID:      &id,
		status:       StatusBooked,
		creditID:     creditID,
	}
}

func Reconstruct(
	id, memberID, membershipID uuid.UUID,
	targetKind TargetKind,
	slotID, classID *uuid.UUID,
	status Status,
	creditID *uuid.UUID,
	createdAt time.Time,
	cancelledAt *time.Time,
	cancelReason *string,
) (*Booking, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if slotID == nil && classID == nil {
		return nil, ErrMissingTarget
	}
	return &Booking{
		id:           id,
		memberID:     memberID,
		membershipID: membershipID,
		targetKind:   targetKind,
		slotID:       slotID,
		classID:      classID,
		status:       status,
		creditID:     creditID,
		createdAt:    createdAt,
		cancelledAt:  cancelledAt,
		cancelReason: cancelReason,
	}, nil
}

// Cancel moves the booking to cancelled. Only booked and confirmed
// bookings can be cancelled; terminal states report ErrNotCancellable.
func (b *Booking) Cancel(now time.Time, reason string) error {
	if !b.status.CanTransitionTo(StatusCancelled) {
		return ErrNotCancellable
	}
	b.status = StatusCancelled
	b.cancelledAt = &now
	if reason != "" {
		b.cancelReason = &reason
	}
	return nil
}

// Confirm moves booked to confirmed (staff check-in).
func (b *Booking) Confirm() error {
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return ErrInvalidTransition
	}
	b.status = StatusConfirmed
	return nil
}

// MarkAttendance resolves the booking to attended or no_show.
func (b *Booking) MarkAttendance(attended bool) error {
	target := StatusAttended
	if !attended {
		target = StatusNoShow
	}
	if !b.status.CanTransitionTo(target) {
		return ErrInvalidTransition
	}
	b.status = target
	return nil
}

// Occupies reports whether the booking currently holds a spot.
func (b *Booking) Occupies() bool {
	return !b.status.IsTerminal()
}

func (b *Booking) ID() uuid.UUID           { return b.id }
func (b *Booking) MemberID() uuid.UUID     { return b.memberID }
func (b *Booking) MembershipID() uuid.UUID { return b.membershipID }
func (b *Booking) TargetKind() TargetKind  { return b.targetKind }
func (b *Booking) SlotID() *uuid.UUID      { return b.slotID }
func (b *Booking) ClassID() *uuid.UUID     { return b.classID }
func (b *Booking) Status() Status          { return b.status }
func (b *Booking) CreditID() *uuid.UUID    { return b.creditID }
func (b *Booking) CreatedAt() time.Time    { return b.createdAt }
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }
func (b *Booking) CancelReason() *string   { return b.cancelReason }

// TargetID returns the slot or class the booking points at.
func (b *Booking) TargetID() uuid.UUID {
	if b.targetKind == TargetSlot && b.slotID != nil {
		return *b.slotID
	}
	if b.classID != nil {
		return *b.classID
	}
	return uuid.Nil
}
