package class

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidCapacity = errors.New("capacity must be positive")
	ErrClassFull       = errors.New("class is full")
	ErrClassInactive   = errors.New("class is inactive")
	ErrClassStarted    = errors.New("class has already started")
)

// Class is a trainer-led session. Unlike slots there is no denormalized
// counter; occupancy is counted from linked bookings under the class row
// lock.
type Class struct {
	id              uuid.UUID
	branchID        uuid.UUID
	trainerID       *uuid.UUID
	title           string
	scheduledAt     time.Time
	durationMinutes int32
	capacity        int32
	isActive        bool
}

func New(branchID uuid.UUID, trainerID *uuid.UUID, title string, scheduledAt time.Time, durationMinutes, capacity int32) (*Class, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &Class{
		id:              uuid.New(),
		branchID:        branchID,
		trainerID:       trainerID,
		title:           title,
		scheduledAt:     scheduledAt,
		durationMinutes: durationMinutes,
		capacity:        capacity,
		isActive:        true,
	}, nil
}

func Reconstruct(id, branchID uuid.UUID, trainerID *uuid.UUID, title string, scheduledAt time.Time, durationMinutes, capacity int32, isActive bool) *Class {
	return &Class{
		id:              id,
		branchID:        branchID,
		trainerID:       trainerID,
		title:           title,
		scheduledAt:     scheduledAt,
		durationMinutes: durationMinutes,
		capacity:        capacity,
		isActive:        isActive,
	}
}

// CheckBookable gates a booking attempt given the current non-terminal
// booking count, evaluated under the class row lock.
func (c *Class) CheckBookable(now time.Time, activeBookings int64) error {
	if !c.isActive {
		return ErrClassInactive
	}
	if !now.Before(c.scheduledAt) {
		return ErrClassStarted
	}
	if activeBookings >= int64(c.capacity) {
		return ErrClassFull
	}
	return nil
}

func (c *Class) EndsAt() time.Time {
	return c.scheduledAt.Add(time.Duration(c.durationMinutes) * time.Minute)
}

func (c *Class) ID() uuid.UUID          { return c.id }
func (c *Class) BranchID() uuid.UUID    { return c.branchID }
func (c *Class) TrainerID() *uuid.UUID  { return c.trainerID }
func (c *Class) Title() string          { return c.title }
func (c *Class) ScheduledAt() time.Time { return c.scheduledAt }
func (c *Class) DurationMinutes() int32 { return c.durationMinutes }
func (c *Class) Capacity() int32        { return c.capacity }
func (c *Class) IsActive() bool         { return c.isActive }
