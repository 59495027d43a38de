package queries

import (
	"context"

	"github.com/google/uuid"

	"fitbook/internal/infra"
	"fitbook/internal/pkg/errs"
)

var (
	ErrMemberNotFound = errs.New("member not found")
	ErrMemberInactive = errs.New("member inactive")
)

type MemberQueries interface {
	GetCurrentMember(ctx context.Context, memberID uuid.UUID) (*AuthorizedMemberView, error)
}

type MemberReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AuthorizedMemberView, error)
	// FindByEmail also returns the stored password hash for login.
	FindByEmail(ctx context.Context, email string) (*AuthorizedMemberView, string, error)
}

type memberQueriesImpl struct {
	readStore MemberReadStore
}

func NewMemberQueries(readStore MemberReadStore) MemberQueries {
	return &memberQueriesImpl{
		readStore: readStore,
	}
}

func (q *memberQueriesImpl) GetCurrentMember(ctx context.Context, memberID uuid.UUID) (*AuthorizedMemberView, error) {
	m, err := q.readStore.FindByID(ctx, memberID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	if !m.IsActive {
		return nil, ErrMemberInactive
	}

	return m, nil
}
