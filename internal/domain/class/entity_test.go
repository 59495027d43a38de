//go:build unit

package class_test

import (
	"testing"
	"time"

	"fitbook/internal/domain/class"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildClass(t *testing.T, scheduledAt time.Time, capacity int32, active bool) *class.Class {
	t.Helper()
	return class.Reconstruct(uuid.New(), uuid.New(), nil, "Morning Yoga", scheduledAt, 45, capacity, active)
}

func TestClassCheckBookable(t *testing.T) {
	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		schedule time.Time
		capacity int32
		active   bool
		booked   int64
		errIs    error
	}{
		{name: "open future class", schedule: now.Add(time.Hour), capacity: 10, active: true, booked: 3},
		{name: "inactive class", schedule: now.Add(time.Hour), capacity: 10, active: false, errIs: class.ErrClassInactive},
		{name: "class already started", schedule: now.Add(-time.Minute), capacity: 10, active: true, errIs: class.ErrClassStarted},
		{name: "class starting exactly now", schedule: now, capacity: 10, active: true, errIs: class.ErrClassStarted},
		{name: "class at capacity", schedule: now.Add(time.Hour), capacity: 3, active: true, booked: 3, errIs: class.ErrClassFull},
		{name: "last spot", schedule: now.Add(time.Hour), capacity: 3, active: true, booked: 2},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cl := buildClass(t, c.schedule, c.capacity, c.active)

			err := cl.CheckBookable(now, c.booked)
			if c.errIs == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}

func TestClassEndsAt(t *testing.T) {
	start := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	cl := buildClass(t, start, 10, true)

	assert.Equal(t, start.Add(45*time.Minute), cl.EndsAt())
}

func TestNewClass(t *testing.T) {
	t.Run("rejects non-positive capacity", func(t *testing.T) {
		_, err := class.New(uuid.New(), nil, "Spin", time.Now().Add(time.Hour), 45, 0)
		require.ErrorIs(t, err, class.ErrInvalidCapacity)
	})
}
