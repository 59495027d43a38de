package repository

import (
	"context"
	"time"

	"fitbook/internal/domain/class"
	"fitbook/internal/infra"
	"fitbook/internal/infra/db"

	"github.com/google/uuid"
)

type ClassRepository struct {
	db db.DBTX
}

func NewClassRepository(dbtx db.DBTX) *ClassRepository {
	return &ClassRepository{db: dbtx}
}

// FindByIDForUpdate locks the class row. Classes have no denormalized
// counter, so the lock plus a count over bookings forms the capacity gate.
func (r *ClassRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*class.Class, error) {
	const q = `
		SELECT id, branch_id, trainer_id, title, scheduled_at, duration_minutes, capacity, is_active
		FROM classes
		WHERE id = $1
		FOR UPDATE`

	var (
		cID, branchID             uuid.UUID
		trainerID                 *uuid.UUID
		title                     string
		scheduledAt               time.Time
		durationMinutes, capacity int32
		isActive                  bool
	)
	err := r.db.QueryRow(ctx, q, id).Scan(&cID, &branchID, &trainerID, &title, &scheduledAt, &durationMinutes, &capacity, &isActive)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find class for update", err)
	}

	return class.Reconstruct(cID, branchID, trainerID, title, scheduledAt, durationMinutes, capacity, isActive), nil
}
