package repository

import (
	"context"
	"time"

	"fitbook/internal/domain/booking"
	"fitbook/internal/infra"
	"fitbook/internal/infra/db"

	"github.com/google/uuid"
)

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) (uuid.UUID, error) {
	const q = `
		INSERT INTO bookings (id, member_id, membership_id, target_kind, slot_id, class_id, status, credit_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	var id uuid.UUID
	err := r.db.QueryRow(ctx, q,
		b.ID(), b.MemberID(), b.MembershipID(), string(b.TargetKind()),
		b.SlotID(), b.ClassID(), b.Status().String(), b.CreditID(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create booking", err)
	}
	return id, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, b *booking.Booking) error {
	const q = `
		UPDATE bookings
		SET status = $2, cancelled_at = $3, cancel_reason = $4
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, q, b.ID(), b.Status().String(), b.CancelledAt(), b.CancelReason())
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	const q = `
		SELECT id, member_id, membership_id, target_kind, slot_id, class_id,
		       status, credit_id, created_at, cancelled_at, cancel_reason
		FROM bookings
		WHERE id = $1
		FOR UPDATE`

	row := r.db.QueryRow(ctx, q, id)

	var (
		bID, memberID, membershipID uuid.UUID
		targetKind, status          string
		slotID, classID, creditID   *uuid.UUID
		createdAt                   time.Time
		cancelledAt                 *time.Time
		cancelReason                *string
	)
	err := row.Scan(&bID, &memberID, &membershipID, &targetKind, &slotID, &classID, &status, &creditID, &createdAt, &cancelledAt, &cancelReason)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find booking for update", err)
	}

	return booking.Reconstruct(
		bID, memberID, membershipID,
		booking.TargetKind(targetKind),
		slotID, classID,
		booking.Status(status),
		creditID,
		createdAt,
		cancelledAt,
		cancelReason,
	)
}

func (r *BookingRepository) HasActiveForSlot(ctx context.Context, memberID, slotID uuid.UUID) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE member_id = $1 AND slot_id = $2 AND status IN ('booked', 'confirmed')
		)`
	return r.exists(ctx, q, memberID, slotID)
}

func (r *BookingRepository) HasActiveForClass(ctx context.Context, memberID, classID uuid.UUID) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE member_id = $1 AND class_id = $2 AND status IN ('booked', 'confirmed')
		)`
	return r.exists(ctx, q, memberID, classID)
}

func (r *BookingRepository) exists(ctx context.Context, q string, args ...any) (bool, error) {
	var found bool
	if err := r.db.QueryRow(ctx, q, args...).Scan(&found); err != nil {
		return false, infra.WrapRepoErr("failed to check existing booking", err)
	}
	return found, nil
}

func (r *BookingRepository) CountActiveForClass(ctx context.Context, classID uuid.UUID) (int64, error) {
	const q = `
		SELECT count(*) FROM bookings
		WHERE class_id = $1 AND status IN ('booked', 'confirmed')`

	var count int64
	if err := r.db.QueryRow(ctx, q, classID).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count class bookings", err)
	}
	return count, nil
}

func (r *BookingRepository) FindActiveBySlot(ctx context.Context, slotID uuid.UUID) ([]*booking.Booking, error) {
	const q = `
		SELECT id, member_id, membership_id, target_kind, slot_id, class_id,
		       status, credit_id, created_at, cancelled_at, cancel_reason
		FROM bookings
		WHERE slot_id = $1 AND status IN ('booked', 'confirmed')
		ORDER BY created_at
		FOR UPDATE`

	rows, err := r.db.Query(ctx, q, slotID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find active bookings for slot", err)
	}
	defer rows.Close()

	var result []*booking.Booking
	for rows.Next() {
		var (
			bID, memberID, membershipID uuid.UUID
			targetKind, status          string
			sID, classID, creditID      *uuid.UUID
			createdAt                   time.Time
			cancelledAt                 *time.Time
			cancelReason                *string
		)
		if err := rows.Scan(&bID, &memberID, &membershipID, &targetKind, &sID, &classID, &status, &creditID, &createdAt, &cancelledAt, &cancelReason); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}
		b, err := booking.Reconstruct(
			bID, memberID, membershipID,
			booking.TargetKind(targetKind),
			sID, classID,
			booking.Status(status),
			creditID,
			createdAt,
			cancelledAt,
			cancelReason,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to reconstruct booking", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking rows", err)
	}
	return result, nil
}
