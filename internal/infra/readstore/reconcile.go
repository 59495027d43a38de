package readstore

import (
	"context"

	"fitbook/internal/infra"
	"fitbook/internal/infra/db"
	"fitbook/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReconcileReadStore struct {
	db db.DBTX
}

func NewReconcileReadStore(dbtx db.DBTX) *ReconcileReadStore {
	return &ReconcileReadStore{db: dbtx}
}

// FindCountDrift compares each slot's booked_count with its live booking
// rows. Drift should always be zero; any row here points at a bug or a
// manual data fix gone wrong.
func (r *ReconcileReadStore) FindCountDrift(ctx context.Context, branchID uuid.UUID) ([]*queries.CountDriftView, error) {
	const q = `
		SELECT s.id, COALESCE(f.name, ''), s.start_at, s.booked_count,
		       count(b.id) FILTER (WHERE b.status IN ('booked', 'confirmed'))::int AS active_count
		FROM benefit_slots s
		LEFT JOIN facilities f ON f.id = s.facility_id
		LEFT JOIN bookings b ON b.slot_id = s.id
		WHERE s.branch_id = $1
		GROUP BY s.id, f.name
		HAVING s.booked_count <> count(b.id) FILTER (WHERE b.status IN ('booked', 'confirmed'))
		ORDER BY s.start_at`

	rows, err := r.db.Query(ctx, q, branchID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query count drift", err)
	}
	defer rows.Close()

	var result []*queries.CountDriftView
	for rows.Next() {
		var v queries.CountDriftView
		if err := rows.Scan(&v.SlotID, &v.FacilityName, &v.StartAt, &v.BookedCount, &v.ActiveCount); err != nil {
			return nil, infra.WrapRepoErr("failed to scan count drift row", err)
		}
		v.Drift = v.BookedCount - v.ActiveCount
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate count drift rows", err)
	}
	return result, nil
}
