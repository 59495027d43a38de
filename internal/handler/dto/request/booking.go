package request

import "github.com/google/uuid"

type BookSlotRequest struct {
	SlotID       uuid.UUID `json:"slot_id" binding:"required"`
	MembershipID uuid.UUID `json:"membership_id" binding:"required"`
}

type BookClassRequest struct {
	ClassID      uuid.UUID `json:"class_id" binding:"required"`
	MembershipID uuid.UUID `json:"membership_id" binding:"required"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type MarkAttendanceRequest struct {
	Attended *bool `json:"attended" binding:"required"`
}
