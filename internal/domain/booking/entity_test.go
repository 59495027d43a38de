//go:build unit

package booking_test

import (
	"testing"
	"time"

	"fitbook/internal/domain/benefit"
	"fitbook/internal/domain/booking"
	"fitbook/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBooking(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, booking.StatusBooked, actual.Status())
		assert.Equal(t, booking.TargetSlot, actual.TargetKind())
		assert.True(t, actual.Occupies())
	})

	t.Run("new slot booking assigns identity and initial state", func(t *testing.T) {
		memberID := uuid.New()
		slotID := uuid.New()
		creditID := uuid.New()

		b := booking.NewSlotBooking(memberID, uuid.New(), slotID, &creditID)

		assert.NotEqual(t, uuid.Nil, b.ID())
		assert.Equal(t, booking.StatusBooked, b.Status())
		assert.Equal(t, slotID, b.TargetID())
		require.NotNil(t, b.CreditID())
		assert.Equal(t, creditID, *b.CreditID())
	})

	t.Run("reconstruct rejects invalid state", func(t *testing.T) {
		_, err := booking.Reconstruct(
			uuid.New(), uuid.New(), uuid.New(),
			booking.TargetSlot, nil, nil,
			booking.StatusBooked, nil, time.Now(), nil, nil,
		)
		require.ErrorIs(t, err, booking.ErrMissingTarget)

		slotID := uuid.New()
		_, err = booking.Reconstruct(
			uuid.New(), uuid.New(), uuid.New(),
			booking.TargetSlot, &slotID, nil,
			booking.Status("unknown"), nil, time.Now(), nil, nil,
		)
		require.ErrorIs(t, err, booking.ErrInvalidStatus)
	})
}

func TestBookingTransitions(t *testing.T) {
	now := time.Now()

	t.Run("cancel", func(t *testing.T) {
		cases := []struct {
			name  string
			from  booking.Status
			errIs error
		}{
			{name: "booked can cancel", from: booking.StatusBooked},
			{name: "confirmed can cancel", from: booking.StatusConfirmed},
			{name: "attended cannot cancel", from: booking.StatusAttended, errIs: booking.ErrNotCancellable},
			{name: "no_show cannot cancel", from: booking.StatusNoShow, errIs: booking.ErrNotCancellable},
			{name: "cancelled cannot cancel again", from: booking.StatusCancelled, errIs: booking.ErrNotCancellable},
		}

		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				b, err := builder.NewBookingBuilder().WithStatus(c.from).BuildDomain()
				require.NoError(t, err)

				err = b.Cancel(now, "change of plans")
				if c.errIs == nil {
					require.NoError(t, err)
					assert.Equal(t, booking.StatusCancelled, b.Status())
					require.NotNil(t, b.CancelledAt())
					require.NotNil(t, b.CancelReason())
					assert.Equal(t, "change of plans", *b.CancelReason())
				} else {
					require.ErrorIs(t, err, c.errIs)
					assert.Equal(t, c.from, b.Status())
				}
			})
		}
	})

	t.Run("cancel without reason leaves reason empty", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, b.Cancel(now, ""))
		assert.Nil(t, b.CancelReason())
	})

	t.Run("confirm", func(t *testing.T) {
		cases := []struct {
			name  string
			from  booking.Status
			errIs error
		}{
			{name: "booked can confirm", from: booking.StatusBooked},
			{name: "confirmed cannot confirm again", from: booking.StatusConfirmed, errIs: booking.ErrInvalidTransition},
			{name: "cancelled cannot confirm", from: booking.StatusCancelled, errIs: booking.ErrInvalidTransition},
		}

		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				b, err := builder.NewBookingBuilder().WithStatus(c.from).BuildDomain()
				require.NoError(t, err)

				err = b.Confirm()
				if c.errIs == nil {
					require.NoError(t, err)
					assert.Equal(t, booking.StatusConfirmed, b.Status())
				} else {
					require.ErrorIs(t, err, c.errIs)
				}
			})
		}
	})

	t.Run("attendance", func(t *testing.T) {
		cases := []struct {
			name     string
			from     booking.Status
			attended bool
			want     booking.Status
			errIs    error
		}{
			{name: "booked to attended", from: booking.StatusBooked, attended: true, want: booking.StatusAttended},
			{name: "booked to no_show", from: booking.StatusBooked, attended: false, want: booking.StatusNoShow},
			{name: "confirmed to attended", from: booking.StatusConfirmed, attended: true, want: booking.StatusAttended},
			{name: "confirmed to no_show", from: booking.StatusConfirmed, attended: false, want: booking.StatusNoShow},
			{name: "cancelled cannot resolve", from: booking.StatusCancelled, attended: true, errIs: booking.ErrInvalidTransition},
			{name: "attended cannot resolve again", from: booking.StatusAttended, attended: false, errIs: booking.ErrInvalidTransition},
		}

		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				b, err := builder.NewBookingBuilder().WithStatus(c.from).BuildDomain()
				require.NoError(t, err)

				err = b.MarkAttendance(c.attended)
				if c.errIs == nil {
					require.NoError(t, err)
					assert.Equal(t, c.want, b.Status())
					assert.False(t, b.Occupies())
				} else {
					require.ErrorIs(t, err, c.errIs)
				}
			})
		}
	})
}

func TestStatus(t *testing.T) {
	t.Run("terminal states have no outgoing edges", func(t *testing.T) {
		for _, s := range []booking.Status{booking.StatusAttended, booking.StatusNoShow, booking.StatusCancelled} {
			assert.True(t, s.IsTerminal(), s.String())
			for _, target := range []booking.Status{booking.StatusBooked, booking.StatusConfirmed, booking.StatusAttended, booking.StatusNoShow, booking.StatusCancelled} {
				assert.False(t, s.CanTransitionTo(target), "%s -> %s", s, target)
			}
		}
	})

	t.Run("non-terminal statuses occupy capacity", func(t *testing.T) {
		assert.Equal(t, []booking.Status{booking.StatusBooked, booking.StatusConfirmed}, booking.NonTerminalStatuses())
	})

	t.Run("unknown status is invalid", func(t *testing.T) {
		assert.False(t, booking.Status("pending").IsValid())
	})
}

func TestApplyNoShowPolicy(t *testing.T) {
	creditID := uuid.New()

	cases := []struct {
		name       string
		policy     benefit.NoShowPolicy
		withCredit bool
		want       booking.NoShowOutcome
	}{
		{name: "mark_used keeps the credit", policy: benefit.NoShowMarkUsed, withCredit: true, want: booking.NoShowOutcome{}},
		{name: "allow_reschedule restores the credit", policy: benefit.NoShowAllowReschedule, withCredit: true, want: booking.NoShowOutcome{RestoreCredit: true}},
		{name: "charge_penalty records a penalty", policy: benefit.NoShowChargePenalty, withCredit: true, want: booking.NoShowOutcome{RecordPenalty: true}},
		{name: "no credit consumed, nothing to restore", policy: benefit.NoShowAllowReschedule, withCredit: false, want: booking.NoShowOutcome{}},
		{name: "no credit consumed, penalty still applies", policy: benefit.NoShowChargePenalty, withCredit: false, want: booking.NoShowOutcome{RecordPenalty: true}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			bb := builder.NewBookingBuilder()
			if c.withCredit {
				bb.WithCredit(creditID)
			}
			b, err := bb.BuildDomain()
			require.NoError(t, err)

			assert.Equal(t, c.want, booking.ApplyNoShowPolicy(c.policy, b))
		})
	}
}
