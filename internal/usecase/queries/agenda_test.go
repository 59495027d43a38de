//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"fitbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAgendaReadStore struct {
	slots   []*queries.AgendaItem
	classes []*queries.AgendaItem
}

func (s *stubAgendaReadStore) SlotItems(context.Context, uuid.UUID, uuid.UUID, time.Time, time.Time) ([]*queries.AgendaItem, error) {
	return s.slots, nil
}

func (s *stubAgendaReadStore) ClassItems(context.Context, uuid.UUID, uuid.UUID, time.Time, time.Time) ([]*queries.AgendaItem, error) {
	return s.classes, nil
}

type stubMemberReadStore struct {
	view *queries.AuthorizedMemberView
}

func (s *stubMemberReadStore) FindByID(context.Context, uuid.UUID) (*queries.AuthorizedMemberView, error) {
	return s.view, nil
}

func (s *stubMemberReadStore) FindByEmail(context.Context, string) (*queries.AuthorizedMemberView, string, error) {
	return s.view, "", nil
}

func slotItem(title, access string, startAt time.Time) *queries.AgendaItem {
	return &queries.AgendaItem{
		Kind:         queries.AgendaKindSlot,
		ID:           uuid.New(),
		Title:        title,
		GenderAccess: access,
		StartAt:      startAt,
		EndAt:        startAt.Add(30 * time.Minute),
		Capacity:     4,
		SpotsLeft:    2,
	}
}

func classItem(title, trainer string, startAt time.Time) *queries.AgendaItem {
	return &queries.AgendaItem{
		Kind:        queries.AgendaKindClass,
		ID:          uuid.New(),
		Title:       title,
		TrainerName: trainer,
		StartAt:     startAt,
		EndAt:       startAt.Add(45 * time.Minute),
		Capacity:    12,
		SpotsLeft:   5,
	}
}

func TestAgenda(t *testing.T) {
	base := time.Date(2026, 8, 28, 6, 0, 0, 0, time.UTC)
	from, to := base, base.Add(24*time.Hour)
	memberID, branchID := uuid.New(), uuid.New()

	femaleViewer := &queries.AuthorizedMemberView{ID: memberID, BranchID: branchID, Gender: "female", IsActive: true}

	t.Run("merges slots and classes chronologically", func(t *testing.T) {
		store := &stubAgendaReadStore{
			slots: []*queries.AgendaItem{
				slotItem("Sauna 1", "any", base.Add(3*time.Hour)),
				slotItem("Pool", "any", base.Add(time.Hour)),
			},
			classes: []*queries.AgendaItem{
				classItem("Morning Yoga", "Alex", base.Add(2*time.Hour)),
			},
		}

		q := queries.NewAgendaQueries(store, &stubMemberReadStore{view: femaleViewer})
		items, err := q.Agenda(t.Context(), memberID, branchID, from, to)
		require.NoError(t, err)

		require.Len(t, items, 3)
		assert.Equal(t, "Pool", items[0].Title)
		assert.Equal(t, "Morning Yoga", items[1].Title)
		assert.Equal(t, "Sauna 1", items[2].Title)
	})

	t.Run("class sorts before slot on equal start time", func(t *testing.T) {
		store := &stubAgendaReadStore{
			slots:   []*queries.AgendaItem{slotItem("Sauna 1", "any", base)},
			classes: []*queries.AgendaItem{classItem("Spin", "Alex", base)},
		}

		q := queries.NewAgendaQueries(store, &stubMemberReadStore{view: femaleViewer})
		items, err := q.Agenda(t.Context(), memberID, branchID, from, to)
		require.NoError(t, err)

		require.Len(t, items, 2)
		assert.Equal(t, queries.AgendaKindClass, items[0].Kind)
		assert.Equal(t, queries.AgendaKindSlot, items[1].Kind)
	})

	t.Run("hides facilities the viewer's gender cannot access", func(t *testing.T) {
		store := &stubAgendaReadStore{
			slots: []*queries.AgendaItem{
				slotItem("Ladies Sauna", "female", base.Add(time.Hour)),
				slotItem("Mens Sauna", "male", base.Add(time.Hour)),
				slotItem("Mixed Pool", "any", base.Add(2*time.Hour)),
			},
		}

		q := queries.NewAgendaQueries(store, &stubMemberReadStore{view: femaleViewer})
		items, err := q.Agenda(t.Context(), memberID, branchID, from, to)
		require.NoError(t, err)

		require.Len(t, items, 2)
		assert.Equal(t, "Ladies Sauna", items[0].Title)
		assert.Equal(t, "Mixed Pool", items[1].Title)
	})

	t.Run("classes are never gender filtered", func(t *testing.T) {
		store := &stubAgendaReadStore{
			classes: []*queries.AgendaItem{classItem("Boxing", "Sam", base)},
		}

		q := queries.NewAgendaQueries(store, &stubMemberReadStore{view: femaleViewer})
		items, err := q.Agenda(t.Context(), memberID, branchID, from, to)
		require.NoError(t, err)
		require.Len(t, items, 1)
	})

	t.Run("fills fallback labels for missing joins", func(t *testing.T) {
		store := &stubAgendaReadStore{
			slots:   []*queries.AgendaItem{slotItem("", "any", base)},
			classes: []*queries.AgendaItem{classItem("", "", base.Add(time.Hour))},
		}

		q := queries.NewAgendaQueries(store, &stubMemberReadStore{view: femaleViewer})
		items, err := q.Agenda(t.Context(), memberID, branchID, from, to)
		require.NoError(t, err)

		require.Len(t, items, 2)
		assert.Equal(t, "Facility", items[0].Title)
		assert.Equal(t, "Class", items[1].Title)
		assert.Equal(t, "Unassigned trainer", items[1].TrainerName)
	})

	t.Run("empty ranges return an empty agenda", func(t *testing.T) {
		q := queries.NewAgendaQueries(&stubAgendaReadStore{}, &stubMemberReadStore{view: femaleViewer})
		items, err := q.Agenda(t.Context(), memberID, branchID, from, to)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}
