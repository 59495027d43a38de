//go:build unit || e2e

package builder

import (
	"fitbook/internal/usecase/queries"

	"github.com/google/uuid"
)

type MemberBuilder struct {
	ID       uuid.UUID
	BranchID uuid.UUID
	Email    string
	FullName string
	Gender   string
	Role     string
	IsActive bool
}

func NewMemberBuilder() *MemberBuilder {
	return &MemberBuilder{
		ID:       uuid.New(),
		BranchID: uuid.New(),
		Email:    "member@example.com",
		FullName: "Test Member",
		Gender:   "female",
		Role:     "member",
		IsActive: true,
	}
}

func (b *MemberBuilder) With(mutate func(*MemberBuilder)) *MemberBuilder {
	mutate(b)
	return b
}

func (b *MemberBuilder) BuildReadModel() *queries.AuthorizedMemberView {
	return &queries.AuthorizedMemberView{
		ID:       b.ID,
		BranchID: b.BranchID,
		Email:    b.Email,
		FullName: b.FullName,
		Gender:   b.Gender,
		Role:     b.Role,
		IsActive: b.IsActive,
	}
}
