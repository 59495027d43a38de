//go:build unit

package credit_test

import (
	"testing"
	"time"

	"fitbook/internal/domain/benefit"
	"fitbook/internal/domain/credit"
	"fitbook/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrant(t *testing.T) {
	expiry := time.Now().Add(30 * 24 * time.Hour)

	t.Run("grants a usable record", func(t *testing.T) {
		c, err := credit.Grant(uuid.New(), benefit.TypeSauna, 8, expiry)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, c.ID())
		assert.Equal(t, int32(8), c.CreditsRemaining())
		assert.Equal(t, int32(8), c.Granted())
		assert.True(t, c.Usable(time.Now()))
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		_, err := credit.Grant(uuid.New(), benefit.TypeSauna, 0, expiry)
		require.ErrorIs(t, err, credit.ErrInvalidGrant)

		_, err = credit.Grant(uuid.New(), benefit.TypeSauna, -1, expiry)
		require.ErrorIs(t, err, credit.ErrInvalidGrant)
	})
}

func TestConsume(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		mutate func(*builder.CreditBuilder)
		errIs  error
	}{
		{
			name:   "consumes one credit",
			mutate: func(b *builder.CreditBuilder) { b.WithRemaining(2).WithExpiry(now.Add(time.Hour)) },
		},
		{
			name:   "last credit",
			mutate: func(b *builder.CreditBuilder) { b.WithRemaining(1).WithExpiry(now.Add(time.Hour)) },
		},
		{
			name:   "exhausted record",
			mutate: func(b *builder.CreditBuilder) { b.WithRemaining(0).WithExpiry(now.Add(time.Hour)) },
			errIs:  credit.ErrNoCreditsRemaining,
		},
		{
			name:   "expired record",
			mutate: func(b *builder.CreditBuilder) { b.WithRemaining(2).WithExpiry(now.Add(-time.Minute)) },
			errIs:  credit.ErrCreditExpired,
		},
		{
			name:   "expiring exactly now",
			mutate: func(b *builder.CreditBuilder) { b.WithRemaining(2).WithExpiry(now) },
			errIs:  credit.ErrCreditExpired,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cr := builder.NewCreditBuilder().With(c.mutate).BuildDomain()
			before := cr.CreditsRemaining()

			err := cr.Consume(now)
			if c.errIs == nil {
				require.NoError(t, err)
				assert.Equal(t, before-1, cr.CreditsRemaining())
			} else {
				require.ErrorIs(t, err, c.errIs)
				assert.Equal(t, before, cr.CreditsRemaining())
			}
		})
	}
}

func TestRestore(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	t.Run("restore returns the debited credit", func(t *testing.T) {
		cr := builder.NewCreditBuilder().WithRemaining(3).WithExpiry(now.Add(time.Hour)).BuildDomain()

		require.NoError(t, cr.Consume(now))
		cr.Restore()
		assert.Equal(t, int32(3), cr.CreditsRemaining())
	})

	t.Run("restore works past expiry", func(t *testing.T) {
		cr := builder.NewCreditBuilder().WithRemaining(0).WithExpiry(now.Add(-time.Hour)).BuildDomain()

		cr.Restore()
		assert.Equal(t, int32(1), cr.CreditsRemaining())
		// The restored record is still not consumable for new bookings.
		assert.False(t, cr.Usable(now))
	})
}
