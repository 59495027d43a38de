package queries

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

type SlotView struct {
	ID           uuid.UUID `json:"id"`
	FacilityID   uuid.UUID `json:"facility_id"`
	FacilityName string    `json:"facility_name"`
	BenefitType  string    `json:"benefit_type"`
	GenderAccess string    `json:"gender_access"`
	SlotDate     time.Time `json:"slot_date"`
	StartAt      time.Time `json:"start_at"`
	EndAt        time.Time `json:"end_at"`
	Capacity     int32     `json:"capacity"`
	BookedCount  int32     `json:"booked_count"`
	SpotsLeft    int32     `json:"spots_left"`
}

type SlotFilters struct {
	BenefitType *string
	FacilityID  *uuid.UUID
	IncludeFull bool
}

const (
	AgendaKindSlot  = "slot"
	AgendaKindClass = "class"
)

// AgendaItem is one row of the unified slot/class agenda. Title and
// TrainerName carry fallback labels when the source rows are incomplete.
type AgendaItem struct {
	Kind         string    `json:"kind"`
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	TrainerName  string    `json:"trainer_name,omitempty"`
	BenefitType  *string   `json:"benefit_type,omitempty"`
	GenderAccess string    `json:"gender_access,omitempty"`
	StartAt      time.Time `json:"start_at"`
	EndAt        time.Time `json:"end_at"`
	Capacity     int32     `json:"capacity"`
	SpotsLeft    int32     `json:"spots_left"`
	IsBooked     bool      `json:"is_booked"`
}

type BookingListItem struct {
	ID           uuid.UUID  `json:"id"`
	TargetKind   string     `json:"target_kind"`
	TargetID     uuid.UUID  `json:"target_id"`
	TargetLabel  string     `json:"target_label"`
	Status       string     `json:"status"`
	StartAt      time.Time  `json:"start_at"`
	CancelReason *string    `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
}

// CreditBalanceView aggregates a member's remaining credits per benefit
// type across their unexpired grant records.
type CreditBalanceView struct {
	BenefitType string     `json:"benefit_type"`
	Remaining   int32      `json:"remaining"`
	NextExpiry  *time.Time `json:"next_expiry,omitempty"`
}

type FeedEventView struct {
	ID         uuid.UUID       `json:"id"`
	BookingID  *uuid.UUID      `json:"booking_id,omitempty"`
	MemberName string          `json:"member_name"`
	EventType  string          `json:"event_type"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// CountDriftView is one reconciliation finding: a slot whose denormalized
// booked_count disagrees with its live booking rows.
type CountDriftView struct {
	SlotID       uuid.UUID `json:"slot_id"`
	FacilityName string    `json:"facility_name"`
	StartAt      time.Time `json:"start_at"`
	BookedCount  int32     `json:"booked_count"`
	ActiveCount  int32     `json:"active_count"`
	Drift        int32     `json:"drift"`
}

type AuthorizedMemberView struct {
	ID       uuid.UUID `json:"id"`
	BranchID uuid.UUID `json:"branch_id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Gender   string    `json:"gender"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
}
