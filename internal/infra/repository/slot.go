package repository

import (
	"context"
	"time"

	"fitbook/internal/domain/benefit"
	"fitbook/internal/domain/slot"
	"fitbook/internal/infra"
	"fitbook/internal/infra/db"

	"github.com/google/uuid"
)

type SlotRepository struct {
	db db.DBTX
}

func NewSlotRepository(dbtx db.DBTX) *SlotRepository {
	return &SlotRepository{db: dbtx}
}

// FindByIDForUpdate locks the slot row; the capacity re-check happens under
// this lock so two members racing for the last spot serialize here.
func (r *SlotRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*slot.Slot, error) {
	const q = `
		SELECT id, branch_id, facility_id, benefit_type, slot_date,
		       start_at, end_at, capacity, booked_count, is_active
		FROM benefit_slots
		WHERE id = $1
		FOR UPDATE`

	var (
		sID, branchID, facilityID uuid.UUID
		benefitType               string
		slotDate, startAt, endAt  time.Time
		capacity, bookedCount     int32
		isActive                  bool
	)
	err := r.db.QueryRow(ctx, q, id).Scan(&sID, &branchID, &facilityID, &benefitType, &slotDate, &startAt, &endAt, &capacity, &bookedCount, &isActive)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find slot for update", err)
	}

	return slot.Reconstruct(sID, branchID, facilityID, benefit.Type(benefitType), slotDate, startAt, endAt, capacity, bookedCount, isActive), nil
}

func (r *SlotRepository) UpdateOccupancy(ctx context.Context, s *slot.Slot) error {
	const q = `
		UPDATE benefit_slots
		SET booked_count = $2, is_active = $3
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, q, s.ID(), s.BookedCount(), s.IsActive())
	if err != nil {
		return infra.WrapRepoErr("failed to update slot occupancy", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("slot not found", nil, infra.KindNotFound)
	}
	return nil
}

// InsertMissing relies on the (facility_id, slot_date, start_at) natural key;
// concurrent generation runs collapse on ON CONFLICT DO NOTHING.
func (r *SlotRepository) InsertMissing(ctx context.Context, slots []*slot.Slot) (int64, error) {
	const q = `
		INSERT INTO benefit_slots
			(id, branch_id, facility_id, benefit_type, slot_date, start_at, end_at, capacity, booked_count, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, true)
		ON CONFLICT (facility_id, slot_date, start_at) DO NOTHING`

	var inserted int64
	for _, s := range slots {
		tag, err := r.db.Exec(ctx, q,
			s.ID(), s.BranchID(), s.FacilityID(), s.BenefitType().String(),
			s.SlotDate(), s.StartAt(), s.EndAt(), s.Capacity(),
		)
		if err != nil {
			return inserted, infra.WrapRepoErr("failed to insert slot", err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}
