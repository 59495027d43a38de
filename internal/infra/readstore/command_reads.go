package readstore

import (
	"context"
	"errors"
	"time"

	"fitbook/internal/domain/benefit"
	"fitbook/internal/domain/member"
	"fitbook/internal/domain/slot"
	"fitbook/internal/infra"
	"fitbook/internal/infra/db"
	"fitbook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CommandReadStore serves the command side's validation reads. It carries
// no locks; anything that guards an invariant is read FOR UPDATE by the
// write repositories instead.
type CommandReadStore struct {
	db db.DBTX
}

func NewCommandReadStore(dbtx db.DBTX) *CommandReadStore {
	return &CommandReadStore{db: dbtx}
}

func (r *CommandReadStore) MembershipByID(ctx context.Context, id uuid.UUID) (*shared.MembershipSnapshot, error) {
	const q = `
		SELECT id, member_id, status, starts_on, ends_on
		FROM memberships
		WHERE id = $1`

	var snap shared.MembershipSnapshot
	err := r.db.QueryRow(ctx, q, id).Scan(&snap.ID, &snap.MemberID, &snap.Status, &snap.StartsOn, &snap.EndsOn)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find membership", err)
	}
	return &snap, nil
}

func (r *CommandReadStore) MemberByID(ctx context.Context, id uuid.UUID) (*shared.MemberSnapshot, error) {
	const q = `
		SELECT id, branch_id, gender, is_active
		FROM members
		WHERE id = $1`

	var (
		snap   shared.MemberSnapshot
		gender string
	)
	err := r.db.QueryRow(ctx, q, id).Scan(&snap.ID, &snap.BranchID, &gender, &snap.IsActive)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find member", err)
	}
	snap.Gender = member.Gender(gender)
	return &snap, nil
}

// PolicyFor returns nil when no policy row exists; the caller falls back to
// the configured default.
func (r *CommandReadStore) PolicyFor(ctx context.Context, branchID uuid.UUID, benefitType benefit.Type) (*benefit.Policy, error) {
	const q = `
		SELECT branch_id, benefit_type, credit_gated, cancel_cutoff_minutes, no_show_policy
		FROM benefit_policies
		WHERE branch_id = $1 AND benefit_type = $2`

	var (
		bID           uuid.UUID
		bType         string
		creditGated   bool
		cutoffMinutes int32
		noShow        string
	)
	err := r.db.QueryRow(ctx, q, branchID, benefitType.String()).Scan(&bID, &bType, &creditGated, &cutoffMinutes, &noShow)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to find benefit policy", err)
	}

	policy := &benefit.Policy{
		BranchID:     bID.String(),
		Type:         benefit.Type(bType),
		CreditGated:  creditGated,
		CancelCutoff: time.Duration(cutoffMinutes) * time.Minute,
		NoShow:       benefit.NoShowPolicy(noShow),
	}
	return policy, nil
}

func (r *CommandReadStore) FacilityConfigs(ctx context.Context, branchID uuid.UUID) ([]slot.FacilityConfig, error) {
	const q = `
		SELECT id, branch_id, name, benefit_type, gender_access,
		       default_capacity, slot_minutes, open_minute, close_minute
		FROM facilities
		WHERE branch_id = $1 AND is_active = true
		ORDER BY name`

	rows, err := r.db.Query(ctx, q, branchID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list facility configs", err)
	}
	defer rows.Close()

	var configs []slot.FacilityConfig
	for rows.Next() {
		var (
			cfg                     slot.FacilityConfig
			benefitType, access     string
			openMinute, closeMinute int32
		)
		if err := rows.Scan(&cfg.ID, &cfg.BranchID, &cfg.Name, &benefitType, &access, &cfg.DefaultCapacity, &cfg.SlotMinutes, &openMinute, &closeMinute); err != nil {
			return nil, infra.WrapRepoErr("failed to scan facility config", err)
		}
		cfg.BenefitType = benefit.Type(benefitType)
		cfg.GenderAccess = member.GenderAccess(access)
		cfg.OpenTime = time.Duration(openMinute) * time.Minute
		cfg.CloseTime = time.Duration(closeMinute) * time.Minute
		configs = append(configs, cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate facility configs", err)
	}
	return configs, nil
}

func (r *CommandReadStore) Branches(ctx context.Context) ([]shared.BranchSnapshot, error) {
	const q = `SELECT id, name, timezone FROM branches ORDER BY name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list branches", err)
	}
	defer rows.Close()

	var branches []shared.BranchSnapshot
	for rows.Next() {
		var b shared.BranchSnapshot
		if err := rows.Scan(&b.ID, &b.Name, &b.TimeZone); err != nil {
			return nil, infra.WrapRepoErr("failed to scan branch", err)
		}
		branches = append(branches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate branches", err)
	}
	return branches, nil
}
