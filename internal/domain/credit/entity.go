package credit

import (
	"errors"
	"time"

	"fitbook/internal/domain/benefit"

	"github.com/google/uuid"
)

var (
	ErrNoCreditsRemaining = errors.New("no credits remaining")
	ErrCreditExpired      = errors.New("credit record expired")
	ErrInvalidGrant       = errors.New("granted credits must be positive")
)

// Credit is one entitlement record: a consumable allowance for a benefit
// type with an expiry. Expiry is a read-time filter only; expired records
// are never swept, just excluded from consumption.
type Credit struct {
	id               uuid.UUID
	memberID         uuid.UUID
	benefitType      benefit.Type
	creditsRemaining int32
	granted          int32
	expiresAt        time.Time
}

func Grant(memberID uuid.UUID, benefitType benefit.Type, amount int32, expiresAt time.Time) (*Credit, error) {
	if amount <= 0 {
		return nil, ErrInvalidGrant
	}
	return &Credit{
		id:               uuid.New(),
		memberID:         memberID,
		benefitType:      benefitType,
		creditsRemaining: amount,
		granted:          amount,
		expiresAt:        expiresAt,
	}, nil
}

func Reconstruct(id, memberID uuid.UUID, benefitType benefit.Type, creditsRemaining, granted int32, expiresAt time.Time) *Credit {
	return &Credit{
		id:               id,
		memberID:         memberID,
		benefitType:      benefitType,
		creditsRemaining: creditsRemaining,
		granted:          granted,
		expiresAt:        expiresAt,
	}
}

// Usable reports whether the record can be consumed at now.
func (c *Credit) Usable(now time.Time) bool {
	return c.creditsRemaining > 0 && now.Before(c.expiresAt)
}

// Consume debits one credit; callers select the earliest-expiring usable
// record first.
func (c *Credit) Consume(now time.Time) error {
	if !now.Before(c.expiresAt) {
		return ErrCreditExpired
	}
	if c.creditsRemaining <= 0 {
		return ErrNoCreditsRemaining
	}
	c.creditsRemaining--
	return nil
}

// Restore returns one credit to this exact record. Restoration is allowed
// past expiry; the record simply becomes unusable for new bookings.
func (c *Credit) Restore() {
	c.creditsRemaining++
}

func (c *Credit) ID() uuid.UUID              { return c.id }
func (c *Credit) MemberID() uuid.UUID        { return c.memberID }
func (c *Credit) BenefitType() benefit.Type  { return c.benefitType }
func (c *Credit) CreditsRemaining() int32    { return c.creditsRemaining }
func (c *Credit) Granted() int32             { return c.granted }
func (c *Credit) ExpiresAt() time.Time       { return c.expiresAt }
