package shared

import (
	"context"
	"time"

	"fitbook/internal/domain/benefit"
	"fitbook/internal/domain/booking"
	"fitbook/internal/domain/class"
	"fitbook/internal/domain/credit"
	"fitbook/internal/domain/slot"
	"fitbook/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full transaction for write operations with retry on
	// serialization failure / deadlock.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: read-only transaction for multi-table consistent reads.
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// CommandReads: non-locking reads outside a transaction.
	CommandReads() CommandReads
}

// Tx exposes the write repositories bound to one transaction.
type Tx interface {
	Bookings() BookingRepository
	Slots() SlotRepository
	Classes() ClassRepository
	Credits() CreditRepository
	Events() EventRepository
	Reads() CommandReads
	DB() db.DBTX
}

// CommandReads are the validation reads the state machine needs; inside a
// transaction they run on the transaction's connection.
type CommandReads interface {
	MembershipByID(ctx context.Context, id uuid.UUID) (*MembershipSnapshot, error)
	MemberByID(ctx context.Context, id uuid.UUID) (*MemberSnapshot, error)
	PolicyFor(ctx context.Context, branchID uuid.UUID, benefitType benefit.Type) (*benefit.Policy, error)
	FacilityConfigs(ctx context.Context, branchID uuid.UUID) ([]slot.FacilityConfig, error)
	Branches(ctx context.Context) ([]BranchSnapshot, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) (uuid.UUID, error)
	// UpdateStatus persists a status transition already validated by the
	// aggregate.
	UpdateStatus(ctx context.Context, b *booking.Booking) error
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	HasActiveForSlot(ctx context.Context, memberID, slotID uuid.UUID) (bool, error)
	HasActiveForClass(ctx context.Context, memberID, classID uuid.UUID) (bool, error)
	CountActiveForClass(ctx context.Context, classID uuid.UUID) (int64, error)
	FindActiveBySlot(ctx context.Context, slotID uuid.UUID) ([]*booking.Booking, error)
}

type SlotRepository interface {
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*slot.Slot, error)
	// UpdateOccupancy persists booked_count and is_active.
	UpdateOccupancy(ctx context.Context, s *slot.Slot) error
	// InsertMissing upserts generated slots keyed by
	// (facility_id, slot_date, start_time); duplicates are ignored.
	InsertMissing(ctx context.Context, slots []*slot.Slot) (int64, error)
}

type ClassRepository interface {
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*class.Class, error)
}

type CreditRepository interface {
	// FindUsableForUpdate locks the earliest-expiring unexpired record with
	// credits remaining.
	FindUsableForUpdate(ctx context.Context, memberID uuid.UUID, benefitType benefit.Type, now time.Time) (*credit.Credit, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*credit.Credit, error)
	UpdateRemaining(ctx context.Context, c *credit.Credit) error
}

type EventRepository interface {
	Append(ctx context.Context, ev AuditEvent) error
}
