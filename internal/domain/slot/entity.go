package slot

import (
	"errors"
	"time"

	"fitbook/internal/domain/benefit"
	"fitbook/internal/domain/member"

	"github.com/google/uuid"
)

var (
	ErrInvalidCapacity = errors.New("capacity must be positive")
	ErrSlotFull        = errors.New("slot is full")
	ErrSlotInactive    = errors.New("slot is inactive")
	ErrSlotInPast      = errors.New("slot has already started")
	ErrCountUnderflow  = errors.New("booked count cannot go negative")
)

// Slot is a scheduled, capacity-bounded time window for a benefit facility.
// booked_count is a denormalized cache of the join aggregate; it is only
// mutated through booking transitions.
type Slot struct {
	id          uuid.UUID
	branchID    uuid.UUID
	facilityID  uuid.UUID
	benefitType benefit.Type
	slotDate    time.Time
	startAt     time.Time
	endAt       time.Time
	capacity    int32
	bookedCount int32
	isActive    bool
}

func New(branchID, facilityID uuid.UUID, benefitType benefit.Type, slotDate, startAt, endAt time.Time, capacity int32) (*Slot, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &Slot{
		id:          uuid.New(),
		branchID:    branchID,
		facilityID:  facilityID,
		benefitType: benefitType,
		slotDate:    slotDate,
		startAt:     startAt,
		endAt:       endAt,
		capacity:    capacity,
		isActive:    true,
	}, nil
}

func Reconstruct(id, branchID, facilityID uuid.UUID, benefitType benefit.Type, slotDate, startAt, endAt time.Time, capacity, bookedCount int32, isActive bool) *Slot {
	return &Slot{
		id:          id,
		branchID:    branchID,
		facilityID:  facilityID,
		benefitType: benefitType,
		slotDate:    slotDate,
		startAt:     startAt,
		endAt:       endAt,
		capacity:    capacity,
		bookedCount: bookedCount,
		isActive:    isActive,
	}
}

// CheckBookable is the capacity/liveness gate evaluated under the row lock.
func (s *Slot) CheckBookable(now time.Time) error {
	if !s.isActive {
		return ErrSlotInactive
	}
	if !now.Before(s.startAt) {
		return ErrSlotInPast
	}
	if s.bookedCount >= s.capacity {
		return ErrSlotFull
	}
	return nil
}

// TakeSpot increments the occupancy cache after a successful booking insert.
func (s *Slot) TakeSpot() error {
	if s.bookedCount >= s.capacity {
		return ErrSlotFull
	}
	s.bookedCount++
	return nil
}

// ReleaseSpot decrements the occupancy cache on cancellation.
func (s *Slot) ReleaseSpot() error {
	if s.bookedCount <= 0 {
		return ErrCountUnderflow
	}
	s.bookedCount--
	return nil
}

// Deactivate hides the slot from availability; slots are never deleted.
func (s *Slot) Deactivate() {
	s.isActive = false
}

func (s *Slot) SpotsLeft() int32 {
	left := s.capacity - s.bookedCount
	if left < 0 {
		return 0
	}
	return left
}

func (s *Slot) ID() uuid.UUID             { return s.id }
func (s *Slot) BranchID() uuid.UUID       { return s.branchID }
func (s *Slot) FacilityID() uuid.UUID     { return s.facilityID }
func (s *Slot) BenefitType() benefit.Type { return s.benefitType }
func (s *Slot) SlotDate() time.Time       { return s.slotDate }
func (s *Slot) StartAt() time.Time        { return s.startAt }
func (s *Slot) EndAt() time.Time          { return s.endAt }
func (s *Slot) Capacity() int32           { return s.capacity }
func (s *Slot) BookedCount() int32        { return s.bookedCount }
func (s *Slot) IsActive() bool            { return s.isActive }

// FacilityConfig is the active facility configuration slots are generated
// from.
type FacilityConfig struct {
	ID              uuid.UUID
	BranchID        uuid.UUID
	Name            string
	BenefitType     benefit.Type
	GenderAccess    member.GenderAccess
	DefaultCapacity int32
	SlotMinutes     int32
	OpenTime        time.Duration // offset from midnight, branch-local
	CloseTime       time.Duration
}

// GenerateDay materializes the bookable windows for one date. Generation
// is deterministic so concurrent runs produce identical natural keys for
// the upsert to collapse.
func (f FacilityConfig) GenerateDay(date time.Time) ([]*Slot, error) {
	if f.SlotMinutes <= 0 || f.DefaultCapacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	step := time.Duration(f.SlotMinutes) * time.Minute

	var slots []*Slot
	for start := f.OpenTime; start+step <= f.CloseTime; start += step {
		s, err := New(f.BranchID, f.ID, f.BenefitType, day, day.Add(start), day.Add(start+step), f.DefaultCapacity)
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, nil
}
