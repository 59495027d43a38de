package commands

import (
	"context"
	"encoding/json"
	"time"

	"fitbook/internal/infra"
	"fitbook/internal/pkg/clock"
	"fitbook/internal/pkg/errs"
	"fitbook/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrForbidden = errs.New("Forbidden")

type SlotCommands interface {
	// EnsureSlots materializes missing slots for every active facility in
	// the date range. Idempotent; concurrent runs collapse on the
	// (facility, date, start) natural key.
	EnsureSlots(ctx context.Context, branchID uuid.UUID, from, to time.Time) (int64, error)
	// DeactivateSlot withdraws a slot from booking and cancels its live
	// bookings with unconditional credit restoration.
	DeactivateSlot(ctx context.Context, actor Actor, slotID uuid.UUID, reason string) error
}

type slotUseCaseImpl struct {
	uow      shared.UnitOfWork
	notifier EventNotifier
	clock    clock.Clock
}

func NewSlotUseCase(uow shared.UnitOfWork, notifier EventNotifier, clk clock.Clock) SlotCommands {
	return &slotUseCaseImpl{
		uow:      uow,
		notifier: notifier,
		clock:    clk,
	}
}

func (u *slotUseCaseImpl) EnsureSlots(ctx context.Context, branchID uuid.UUID, from, to time.Time) (int64, error) {
	var inserted int64

	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		configs, err := tx.Reads().FacilityConfigs(ctx, branchID)
		if err != nil {
			return err
		}

		for date := truncateDate(from); !date.After(truncateDate(to)); date = date.AddDate(0, 0, 1) {
			for _, cfg := range configs {
				slots, err := cfg.GenerateDay(date)
				if err != nil {
					return err
				}
				n, err := tx.Slots().InsertMissing(ctx, slots)
				if err != nil {
					return err
				}
				inserted += n
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

func (u *slotUseCaseImpl) DeactivateSlot(ctx context.Context, actor Actor, slotID uuid.UUID, reason string) error {
	if !actor.CanManageBranch() {
		return ErrForbidden
	}

	var events []shared.AuditEvent

	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		events = events[:0]
		now := u.clock.Now()

		s, err := tx.Slots().FindByIDForUpdate(ctx, slotID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrSlotNotFound
			}
			return err
		}

		live, err := tx.Bookings().FindActiveBySlot(ctx, slotID)
		if err != nil {
			return err
		}

		for _, b := range live {
			if err := b.Cancel(now, reason); err != nil {
				return err
			}
			if err := s.ReleaseSpot(); err != nil {
				return err
			}
			// The club cancelled, not the member: the credit comes back
			// regardless of the cutoff.
			if b.CreditID() != nil {
				c, err := tx.Credits().FindByIDForUpdate(ctx, *b.CreditID())
				if err != nil {
					return err
				}
				c.Restore()
				if err := tx.Credits().UpdateRemaining(ctx, c); err != nil {
					return err
				}
			}
			if err := tx.Bookings().UpdateStatus(ctx, b); err != nil {
				return err
			}

			payload, _ := json.Marshal(map[string]any{"reason": reason, "credit_restored": b.CreditID() != nil})
			ev := shared.AuditEvent{
				BranchID:  s.BranchID(),
				BookingID: b.ID(),
				MemberID:  b.MemberID(),
				EventType: shared.EventBookingCancelled,
				Payload:   payload,
			}
			if err := tx.Events().Append(ctx, ev); err != nil {
				return err
			}
			events = append(events, ev)
		}

		s.Deactivate()
		if err := tx.Slots().UpdateOccupancy(ctx, s); err != nil {
			return err
		}

		payload, _ := json.Marshal(map[string]any{"slot_id": slotID, "reason": reason})
		ev := shared.AuditEvent{
			BranchID:  s.BranchID(),
			MemberID:  actor.ID,
			EventType: shared.EventSlotDeactivated,
			Payload:   payload,
		}
		if err := tx.Events().Append(ctx, ev); err != nil {
			return err
		}
		events = append(events, ev)
		return nil
	})
	if err != nil {
		return err
	}

	for _, ev := range events {
		u.notify(ctx, ev)
	}
	return nil
}

func (u *slotUseCaseImpl) notify(ctx context.Context, ev shared.AuditEvent) {
	publishEvent(ctx, u.notifier, ev)
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
