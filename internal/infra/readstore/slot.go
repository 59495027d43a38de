package readstore

import (
	"context"
	"fmt"
	"time"

	"fitbook/internal/infra"
	"fitbook/internal/infra/db"
	"fitbook/internal/usecase/queries"

	"github.com/google/uuid"
)

type SlotReadStore struct {
	db db.DBTX
}

func NewSlotReadStore(dbtx db.DBTX) *SlotReadStore {
	return &SlotReadStore{db: dbtx}
}

// FindActiveByBranchDate lists active slots with spots_left computed in SQL.
// A LEFT JOIN keeps slots whose facility row is missing; the facade fills
// fallback labels.
func (r *SlotReadStore) FindActiveByBranchDate(ctx context.Context, branchID uuid.UUID, date time.Time, filters queries.SlotFilters) ([]*queries.SlotView, error) {
	q := `
		SELECT s.id, s.facility_id, COALESCE(f.name, ''), s.benefit_type,
		       COALESCE(f.gender_access, 'any'), s.slot_date, s.start_at, s.end_at,
		       s.capacity, s.booked_count, s.capacity - s.booked_count AS spots_left
		FROM benefit_slots s
		LEFT JOIN facilities f ON f.id = s.facility_id
		WHERE s.branch_id = $1 AND s.slot_date = $2 AND s.is_active`
	args := []any{branchID, date}

	if filters.BenefitType != nil {
		args = append(args, *filters.BenefitType)
		q += fmt.Sprintf(` AND s.benefit_type = $%d`, len(args))
	}
	if filters.FacilityID != nil {
		args = append(args, *filters.FacilityID)
		q += fmt.Sprintf(` AND s.facility_id = $%d`, len(args))
	}
	if !filters.IncludeFull {
		q += ` AND s.booked_count < s.capacity`
	}
	q += ` ORDER BY s.start_at, s.facility_id`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list slots", err)
	}
	defer rows.Close()

	var result []*queries.SlotView
	for rows.Next() {
		var v queries.SlotView
		if err := rows.Scan(
			&v.ID, &v.FacilityID, &v.FacilityName, &v.BenefitType,
			&v.GenderAccess, &v.SlotDate, &v.StartAt, &v.EndAt,
			&v.Capacity, &v.BookedCount, &v.SpotsLeft,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan slot row", err)
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate slot rows", err)
	}
	return result, nil
}
