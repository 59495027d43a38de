package queries

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"fitbook/internal/domain/member"
)

// Fallback labels for rows with missing joins.
const (
	fallbackFacilityLabel = "Facility"
	fallbackClassLabel    = "Class"
	fallbackTrainerLabel  = "Unassigned trainer"
)

type AgendaQueries interface {
	// Agenda merges slots and classes into one chronological view for the
	// member, marking the entries they already hold a live booking on and
	// hiding facilities their gender cannot access.
	Agenda(ctx context.Context, memberID, branchID uuid.UUID, from, to time.Time) ([]*AgendaItem, error)
}

type AgendaReadStore interface {
	SlotItems(ctx context.Context, memberID, branchID uuid.UUID, from, to time.Time) ([]*AgendaItem, error)
	ClassItems(ctx context.Context, memberID, branchID uuid.UUID, from, to time.Time) ([]*AgendaItem, error)
}

type agendaQueriesImpl struct {
	readStore AgendaReadStore
	members   MemberReadStore
}

func NewAgendaQueries(readStore AgendaReadStore, members MemberReadStore) AgendaQueries {
	return &agendaQueriesImpl{
		readStore: readStore,
		members:   members,
	}
}

func (q *agendaQueriesImpl) Agenda(ctx context.Context, memberID, branchID uuid.UUID, from, to time.Time) ([]*AgendaItem, error) {
	viewer, err := q.members.FindByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	slots, err := q.readStore.SlotItems(ctx, memberID, branchID, from, to)
	if err != nil {
		return nil, err
	}

	classes, err := q.readStore.ClassItems(ctx, memberID, branchID, from, to)
	if err != nil {
		return nil, err
	}

	items := make([]*AgendaItem, 0, len(slots)+len(classes))
	gender := member.Gender(viewer.Gender)
	for _, item := range slots {
		if !member.GenderAccess(item.GenderAccess).Admits(gender) {
			continue
		}
		if item.Title == "" {
			item.Title = fallbackFacilityLabel
		}
		items = append(items, item)
	}
	for _, item := range classes {
		if item.Title == "" {
			item.Title = fallbackClassLabel
		}
		if item.TrainerName == "" {
			item.TrainerName = fallbackTrainerLabel
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].StartAt.Equal(items[j].StartAt) {
			return items[i].Kind < items[j].Kind
		}
		return items[i].StartAt.Before(items[j].StartAt)
	})

	return items, nil
}
