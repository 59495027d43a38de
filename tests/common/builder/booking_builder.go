//go:build unit || e2e

package builder

import (
	"time"

	dombooking "fitbook/internal/domain/booking"
	reqdto "fitbook/internal/handler/dto/request"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ID           uuid.UUID
	MemberID     uuid.UUID
	MembershipID uuid.UUID
	TargetKind   dombooking.TargetKind
	SlotID       uuid.UUID
	ClassID      uuid.UUID
	Status       dombooking.Status
	CreditID     *uuid.UUID
	CreatedAt    time.Time
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		ID:           uuid.New(),
		MemberID:     uuid.New(),
		MembershipID: uuid.New(),
		TargetKind:   dombooking.TargetSlot,
		SlotID:       uuid.New(),
		ClassID:      uuid.New(),
		Status:       dombooking.StatusBooked,
		CreatedAt:    time.Now(),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) WithStatus(s dombooking.Status) *BookingBuilder {
	b.Status = s
	return b
}

func (b *BookingBuilder) WithCredit(creditID uuid.UUID) *BookingBuilder {
	b.CreditID = &creditID
	return b
}

func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	var slotID, classID *uuid.UUID
	if b.TargetKind == dombooking.TargetSlot {
		slotID = &b.SlotID
	} else {
		classID = &b.ClassID
	}
	return dombooking.Reconstruct(
		b.ID, b.MemberID, b.MembershipID,
		b.TargetKind, slotID, classID,
		b.Status, b.CreditID, b.CreatedAt, nil, nil,
	)
}

func (b *BookingBuilder) BuildBookSlotRequestDTO() reqdto.BookSlotRequest {
	return reqdto.BookSlotRequest{
		SlotID:       b.SlotID,
		MembershipID: b.MembershipID,
	}
}

func (b *BookingBuilder) BuildBookClassRequestDTO() reqdto.BookClassRequest {
	return reqdto.BookClassRequest{
		ClassID:      b.ClassID,
		MembershipID: b.MembershipID,
	}
}
