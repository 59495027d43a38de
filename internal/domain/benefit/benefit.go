package benefit

import (
	"errors"
	"time"
)

var ErrInvalidNoShowPolicy = errors.New("invalid no-show policy")

// Type is a bookable amenity category.
type Type string

const (
	TypeSauna   Type = "sauna"
	TypeSteam   Type = "steam"
	TypeIceBath Type = "ice_bath"
	TypePool    Type = "pool"
	TypeClass   Type = "class"
)

func (t Type) String() string {
	return string(t)
}

// NoShowPolicy is the per-branch strategy applied when a member misses a
// booking. Enforcement is pluggable; these are the configured variants.
type NoShowPolicy string

const (
	NoShowMarkUsed        NoShowPolicy = "mark_used"
	NoShowAllowReschedule NoShowPolicy = "allow_reschedule"
	NoShowChargePenalty   NoShowPolicy = "charge_penalty"
)

func NewNoShowPolicy(s string) (NoShowPolicy, error) {
	p := NoShowPolicy(s)
	switch p {
	case NoShowMarkUsed, NoShowAllowReschedule, NoShowChargePenalty:
		return p, nil
	default:
		return "", ErrInvalidNoShowPolicy
	}
}

// Policy is the branch-scoped booking policy for one benefit type.
type Policy struct {
	BranchID     string
	Type         Type
	CreditGated  bool
	CancelCutoff time.Duration
	NoShow       NoShowPolicy
}

// RestoresCreditAt reports whether a cancellation at now still qualifies
// for credit restoration. Cancelling after the cutoff forfeits the credit;
// source systems left this ambiguous, forfeiture is the documented default.
func (p Policy) RestoresCreditAt(now, slotStart time.Time) bool {
	if !p.CreditGated {
		return false
	}
	return !now.After(slotStart.Add(-p.CancelCutoff))
}

// DefaultPolicy is used when no policy row exists for a (branch, type) pair.
func DefaultPolicy(t Type, cancelCutoff time.Duration) Policy {
	return Policy{
		Type:         t,
		CreditGated:  false,
		CancelCutoff: cancelCutoff,
		NoShow:       NoShowMarkUsed,
	}
}
