package booking

import (
	"fitbook/internal/domain/benefit"
)

// NoShowOutcome is what the state machine must do after a booking resolves
// to no_show under the branch's configured policy.
type NoShowOutcome struct {
	// RestoreCredit returns the consumed credit so the member can rebook.
	RestoreCredit bool
	// RecordPenalty emits a penalty audit event for downstream billing.
	RecordPenalty bool
}

// ApplyNoShowPolicy maps the configured policy variant to its outcome.
// mark_used keeps the consumed credit, allow_reschedule restores it,
// charge_penalty keeps it and records a penalty.
func ApplyNoShowPolicy(policy benefit.NoShowPolicy, b *Booking) NoShowOutcome {
	if b.CreditID() == nil {
		// Nothing was consumed; only the penalty variant has an effect.
		return NoShowOutcome{RecordPenalty: policy == benefit.NoShowChargePenalty}
	}

	switch policy {
	case benefit.NoShowAllowReschedule:
		return NoShowOutcome{RestoreCredit: true}
	case benefit.NoShowChargePenalty:
		return NoShowOutcome{RecordPenalty: true}
	default: // mark_used
		return NoShowOutcome{}
	}
}
