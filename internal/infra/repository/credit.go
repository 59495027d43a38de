package repository

import (
	"context"
	"time"

	"fitbook/internal/domain/benefit"
	"fitbook/internal/domain/credit"
	"fitbook/internal/infra"
	"fitbook/internal/infra/db"

	"github.com/google/uuid"
)

type CreditRepository struct {
	db db.DBTX
}

func NewCreditRepository(dbtx db.DBTX) *CreditRepository {
	return &CreditRepository{db: dbtx}
}

// FindUsableForUpdate picks the earliest-expiring unexpired record with
// credits remaining and locks it. SKIP LOCKED is deliberately not used:
// two bookings by the same member must serialize on the same record.
func (r *CreditRepository) FindUsableForUpdate(ctx context.Context, memberID uuid.UUID, benefitType benefit.Type, now time.Time) (*credit.Credit, error) {
	const q = `
		SELECT id, member_id, benefit_type, credits_remaining, granted, expires_at
		FROM member_benefit_credits
		WHERE member_id = $1 AND benefit_type = $2 AND credits_remaining > 0 AND expires_at > $3
		ORDER BY expires_at
		LIMIT 1
		FOR UPDATE`

	return r.scanOne(r.db.QueryRow(ctx, q, memberID, benefitType.String(), now), "failed to find usable credit")
}

func (r *CreditRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*credit.Credit, error) {
	const q = `
		SELECT id, member_id, benefit_type, credits_remaining, granted, expires_at
		FROM member_benefit_credits
		WHERE id = $1
		FOR UPDATE`

	return r.scanOne(r.db.QueryRow(ctx, q, id), "failed to find credit for update")
}

func (r *CreditRepository) UpdateRemaining(ctx context.Context, c *credit.Credit) error {
	const q = `
		UPDATE member_benefit_credits
		SET credits_remaining = $2
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, q, c.ID(), c.CreditsRemaining())
	if err != nil {
		return infra.WrapRepoErr("failed to update credit balance", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("credit record not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CreditRepository) scanOne(row interface{ Scan(dest ...any) error }, msg string) (*credit.Credit, error) {
	var (
		id, memberID      uuid.UUID
		benefitType       string
		remaining, grant  int32
		expiresAt         time.Time
	)
	if err := row.Scan(&id, &memberID, &benefitType, &remaining, &grant, &expiresAt); err != nil {
		return nil, infra.WrapRepoErr(msg, err)
	}
	return credit.Reconstruct(id, memberID, benefit.Type(benefitType), remaining, grant, expiresAt), nil
}
