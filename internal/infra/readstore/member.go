package readstore

import (
	"context"

	"fitbook/internal/infra"
	"fitbook/internal/infra/db"
	"fitbook/internal/usecase/queries"

	"github.com/google/uuid"
)

type MemberReadStore struct {
	db db.DBTX
}

func NewMemberReadStore(dbtx db.DBTX) *MemberReadStore {
	return &MemberReadStore{db: dbtx}
}

func (r *MemberReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedMemberView, error) {
	const q = `
		SELECT id, branch_id, email, full_name, gender, role, is_active
		FROM members
		WHERE id = $1`

	var view queries.AuthorizedMemberView
	err := r.db.QueryRow(ctx, q, id).Scan(
		&view.ID, &view.BranchID, &view.Email, &view.FullName,
		&view.Gender, &view.Role, &view.IsActive,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find member by id", err)
	}
	return &view, nil
}

func (r *MemberReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedMemberView, string, error) {
	const q = `
		SELECT id, branch_id, email, full_name, gender, role, is_active, password_hash
		FROM members
		WHERE email = $1`

	var (
		view queries.AuthorizedMemberView
		hash string
	)
	err := r.db.QueryRow(ctx, q, email).Scan(
		&view.ID, &view.BranchID, &view.Email, &view.FullName,
		&view.Gender, &view.Role, &view.IsActive, &hash,
	)
	if err != nil {
		return nil, "", infra.WrapRepoErr("failed to find member by email", err)
	}
	return &view, hash, nil
}
