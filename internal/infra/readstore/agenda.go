package readstore

import (
	"context"
	"time"

	"fitbook/internal/infra"
	"fitbook/internal/infra/db"
	"fitbook/internal/usecase/queries"

	"github.com/google/uuid"
)

type AgendaReadStore struct {
	db db.DBTX
}

func NewAgendaReadStore(dbtx db.DBTX) *AgendaReadStore {
	return &AgendaReadStore{db: dbtx}
}

// SlotItems returns active benefit slots in [from, to) with is_booked
// resolved against the viewer's live bookings. Missing facility rows
// surface as empty labels; the facade substitutes fallbacks.
func (r *AgendaReadStore) SlotItems(ctx context.Context, memberID, branchID uuid.UUID, from, to time.Time) ([]*queries.AgendaItem, error) {
	const q = `
		SELECT s.id, COALESCE(f.name, ''), s.benefit_type,
		       COALESCE(f.gender_access, 'any'),
		       s.start_at, s.end_at, s.capacity, s.capacity - s.booked_count,
		       EXISTS (
		           SELECT 1 FROM bookings b
		           WHERE b.member_id = $1 AND b.slot_id = s.id
		             AND b.status IN ('booked', 'confirmed')
		       ) AS is_booked
		FROM benefit_slots s
		LEFT JOIN facilities f ON f.id = s.facility_id
		WHERE s.branch_id = $2 AND s.is_active
		  AND s.start_at >= $3 AND s.start_at < $4
		ORDER BY s.start_at`

	rows, err := r.db.Query(ctx, q, memberID, branchID, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query agenda slots", err)
	}
	defer rows.Close()

	var result []*queries.AgendaItem
	for rows.Next() {
		item := &queries.AgendaItem{Kind: queries.AgendaKindSlot}
		var benefitType string
		if err := rows.Scan(
			&item.ID, &item.Title, &benefitType, &item.GenderAccess,
			&item.StartAt, &item.EndAt, &item.Capacity, &item.SpotsLeft,
			&item.IsBooked,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan agenda slot row", err)
		}
		item.BenefitType = &benefitType
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate agenda slot rows", err)
	}
	return result, nil
}

// ClassItems counts occupancy from the booking rows; classes carry no
// denormalized counter.
func (r *AgendaReadStore) ClassItems(ctx context.Context, memberID, branchID uuid.UUID, from, to time.Time) ([]*queries.AgendaItem, error) {
	const q = `
		SELECT c.id, COALESCE(c.title, ''), COALESCE(t.full_name, ''),
		       c.scheduled_at,
		       c.scheduled_at + make_interval(mins => c.duration_minutes),
		       c.capacity,
		       c.capacity - (
		           SELECT count(*) FROM bookings b
		           WHERE b.class_id = c.id AND b.status IN ('booked', 'confirmed')
		       ),
		       EXISTS (
		           SELECT 1 FROM bookings b
		           WHERE b.member_id = $1 AND b.class_id = c.id
		             AND b.status IN ('booked', 'confirmed')
		       ) AS is_booked
		FROM classes c
		LEFT JOIN trainers t ON t.id = c.trainer_id
		WHERE c.branch_id = $2 AND c.is_active
		  AND c.scheduled_at >= $3 AND c.scheduled_at < $4
		ORDER BY c.scheduled_at`

	rows, err := r.db.Query(ctx, q, memberID, branchID, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query agenda classes", err)
	}
	defer rows.Close()

	var result []*queries.AgendaItem
	for rows.Next() {
		item := &queries.AgendaItem{Kind: queries.AgendaKindClass}
		var spotsLeft int64
		if err := rows.Scan(
			&item.ID, &item.Title, &item.TrainerName,
			&item.StartAt, &item.EndAt, &item.Capacity, &spotsLeft,
			&item.IsBooked,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan agenda class row", err)
		}
		item.SpotsLeft = int32(spotsLeft)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate agenda class rows", err)
	}
	return result, nil
}
