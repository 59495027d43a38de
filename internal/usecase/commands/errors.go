package commands

import (
	"fitbook/internal/pkg/errs"
)

// Sentinel messages double as the wire-visible error strings. The member
// UI string-matches some of them ("Benefit limit reached" drives the
// credit upsell), so the wording is frozen; handlers attach the stable
// typed code alongside.
var (
	ErrMembershipInactive  = errs.New("Membership is not active")
	ErrDuplicateBooking    = errs.New("Already booked")
	ErrSlotFull            = errs.New("Slot is full")
	ErrBenefitLimitReached = errs.New("Benefit limit reached")
	ErrNoCreditsAvailable  = errs.New("No credits available")
	ErrNotCancellable      = errs.New("Booking cannot be cancelled")
	ErrBookingNotFound     = errs.New("Booking not found")
	ErrSlotNotFound        = errs.New("Slot not found")
	ErrClassNotFound       = errs.New("Class not found")
	ErrMemberNotFound      = errs.New("Member not found")
	ErrInvalidTransition   = errs.New("Invalid booking state")
)

// Typed codes promoted from the old string-matching contract.
const (
	CodeMembershipInactive  = "MEMBERSHIP_INACTIVE"
	CodeDuplicateBooking    = "DUPLICATE_BOOKING"
	CodeSlotFull            = "SLOT_FULL"
	CodeBenefitLimitReached = "BENEFIT_LIMIT_REACHED"
	CodeNoCreditsAvailable  = "NO_CREDITS_AVAILABLE"
	CodeNotCancellable      = "NOT_CANCELLABLE"
	CodeNotFound            = "NOT_FOUND"
	CodeInvalidTransition   = "INVALID_TRANSITION"
)
