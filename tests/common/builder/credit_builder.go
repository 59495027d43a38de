//go:build unit || e2e

package builder

import (
	"time"

	"fitbook/internal/domain/benefit"
	domcredit "fitbook/internal/domain/credit"

	"github.com/google/uuid"
)

type CreditBuilder struct {
	ID          uuid.UUID
	MemberID    uuid.UUID
	BenefitType benefit.Type
	Remaining   int32
	Granted     int32
	ExpiresAt   time.Time
}

func NewCreditBuilder() *CreditBuilder {
	return &CreditBuilder{
		ID:          uuid.New(),
		MemberID:    uuid.New(),
		BenefitType: benefit.TypeSauna,
		Remaining:   4,
		Granted:     4,
		ExpiresAt:   time.Now().Add(30 * 24 * time.Hour),
	}
}

func (c *CreditBuilder) With(mutate func(*CreditBuilder)) *CreditBuilder {
	mutate(c)
	return c
}

func (c *CreditBuilder) WithRemaining(n int32) *CreditBuilder {
	c.Remaining = n
	return c
}

func (c *CreditBuilder) WithExpiry(t time.Time) *CreditBuilder {
	c.ExpiresAt = t
	return c
}

func (c *CreditBuilder) BuildDomain() *domcredit.Credit {
	return domcredit.Reconstruct(c.ID, c.MemberID, c.BenefitType, c.Remaining, c.Granted, c.ExpiresAt)
}
