package commands

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"fitbook/internal/domain/benefit"
	"fitbook/internal/domain/booking"
	"fitbook/internal/domain/class"
	"fitbook/internal/domain/credit"
	"fitbook/internal/domain/slot"
	"fitbook/internal/infra"
	"fitbook/internal/pkg/clock"
	"fitbook/internal/pkg/config"
	"fitbook/internal/pkg/errs"
	"fitbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingCommands interface {
	BookSlot(ctx context.Context, actor Actor, slotID, membershipID uuid.UUID) (uuid.UUID, error)
	BookClass(ctx context.Context, actor Actor, classID, membershipID uuid.UUID) (uuid.UUID, error)
	CancelBooking(ctx context.Context, actor Actor, bookingID uuid.UUID, reason string) error
	ConfirmBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) error
	MarkAttendance(ctx context.Context, actor Actor, bookingID uuid.UUID, attended bool) error
}

type bookingUseCaseImpl struct {
	uow      shared.UnitOfWork
	notifier EventNotifier
	clock    clock.Clock
	cfg      config.BookingConfig
}

func NewBookingUseCase(uow shared.UnitOfWork, notifier EventNotifier, clk clock.Clock, cfg config.BookingConfig) BookingCommands {
	return &bookingUseCaseImpl{
		uow:      uow,
		notifier: notifier,
		clock:    clk,
		cfg:      cfg,
	}
}

// BookSlot runs the whole admission sequence under one transaction with the
// slot row locked, so two members racing for the last spot serialize and
// the loser sees ErrSlotFull.
func (u *bookingUseCaseImpl) BookSlot(ctx context.Context, actor Actor, slotID, membershipID uuid.UUID) (uuid.UUID, error) {
	var (
		bookingID uuid.UUID
		event     shared.AuditEvent
	)

	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := u.clock.Now()

		if err := u.checkMembership(ctx, tx, actor.ID, membershipID, now); err != nil {
			return err
		}

		dup, err := tx.Bookings().HasActiveForSlot(ctx, actor.ID, slotID)
		if err != nil {
			return err
		}
		if dup {
			return ErrDuplicateBooking
		}

		s, err := tx.Slots().FindByIDForUpdate(ctx, slotID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrSlotNotFound
			}
			return err
		}
		if err := s.CheckBookable(now); err != nil {
			return mapSlotBookable(err)
		}

		policy, err := u.policyFor(ctx, tx, s.BranchID(), s.BenefitType())
		if err != nil {
			return err
		}

		var creditID *uuid.UUID
		if policy.CreditGated {
			c, err := u.consumeCredit(ctx, tx, actor.ID, s.BenefitType(), now)
			if err != nil {
				return err
			}
			id := c.ID()
			creditID = &id
		}

		if err := s.TakeSpot(); err != nil {
			return errs.Mark(err, ErrSlotFull)
		}
		if err := tx.Slots().UpdateOccupancy(ctx, s); err != nil {
			return err
		}

		b := booking.NewSlotBooking(actor.ID, membershipID, slotID, creditID)
		if _, err := tx.Bookings().Create(ctx, b); err != nil {
			// Partial unique index backstop for the duplicate check above.
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrDuplicateBooking
			}
			return err
		}
		bookingID = b.ID()

		event = u.newEvent(s.BranchID(), b, shared.EventBookingCreated, map[string]any{
			"target_kind": string(booking.TargetSlot),
			"slot_id":     slotID,
		})
		return tx.Events().Append(ctx, event)
	})
	if err != nil {
		return uuid.Nil, err
	}

	u.notify(ctx, event)
	return bookingID, nil
}

// BookClass is the same admission sequence against a class, with occupancy
// counted from the booking rows under the locked class row instead of a
// denormalized counter.
func (u *bookingUseCaseImpl) BookClass(ctx context.Context, actor Actor, classID, membershipID uuid.UUID) (uuid.UUID, error) {
	var (
		bookingID uuid.UUID
		event     shared.AuditEvent
	)

	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := u.clock.Now()

		if err := u.checkMembership(ctx, tx, actor.ID, membershipID, now); err != nil {
			return err
		}

		dup, err := tx.Bookings().HasActiveForClass(ctx, actor.ID, classID)
		if err != nil {
			return err
		}
		if dup {
			return ErrDuplicateBooking
		}

		c, err := tx.Classes().FindByIDForUpdate(ctx, classID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrClassNotFound
			}
			return err
		}
		active, err := tx.Bookings().CountActiveForClass(ctx, classID)
		if err != nil {
			return err
		}
		if err := c.CheckBookable(now, active); err != nil {
			return mapClassBookable(err)
		}

		policy, err := u.policyFor(ctx, tx, c.BranchID(), benefit.TypeClass)
		if err != nil {
			return err
		}

		var creditID *uuid.UUID
		if policy.CreditGated {
			cr, err := u.consumeCredit(ctx, tx, actor.ID, benefit.TypeClass, now)
			if err != nil {
				return err
			}
			id := cr.ID()
			creditID = &id
		}

		b := booking.NewClassBooking(actor.ID, membershipID, classID, creditID)
		if _, err := tx.Bookings().Create(ctx, b); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrDuplicateBooking
			}
			return err
		}
		bookingID = b.ID()

		event = u.newEvent(c.BranchID(), b, shared.EventBookingCreated, map[string]any{
			"target_kind": string(booking.TargetClass),
			"class_id":    classID,
		})
		return tx.Events().Append(ctx, event)
	})
	if err != nil {
		return uuid.Nil, err
	}

	u.notify(ctx, event)
	return bookingID, nil
}

// CancelBooking releases occupancy and restores the consumed credit when
// the cancellation lands before the policy cutoff; after the cutoff the
// credit is forfeited.
func (u *bookingUseCaseImpl) CancelBooking(ctx context.Context, actor Actor, bookingID uuid.UUID, reason string) error {
	var event shared.AuditEvent

	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := u.clock.Now()

		b, err := u.findOwnedBooking(ctx, tx, actor, bookingID)
		if err != nil {
			return err
		}

		target, err := u.lockTarget(ctx, tx, b)
		if err != nil {
			return err
		}

		wasOccupying := b.Occupies()
		if err := b.Cancel(now, reason); err != nil {
			return errs.Mark(err, ErrNotCancellable)
		}

		if wasOccupying && target.slot != nil {
			if err := target.slot.ReleaseSpot(); err != nil {
				return err
			}
			if err := tx.Slots().UpdateOccupancy(ctx, target.slot); err != nil {
				return err
			}
		}

		restored := false
		if b.CreditID() != nil {
			policy, err := u.policyFor(ctx, tx, target.branchID, target.benefitType)
			if err != nil {
				return err
			}
			if policy.RestoresCreditAt(now, target.startAt) {
				if err := u.restoreCredit(ctx, tx, *b.CreditID()); err != nil {
					return err
				}
				restored = true
			}
		}

		if err := tx.Bookings().UpdateStatus(ctx, b); err != nil {
			return err
		}

		event = u.newEvent(target.branchID, b, shared.EventBookingCancelled, map[string]any{
			"reason":          reason,
			"credit_restored": restored,
		})
		return tx.Events().Append(ctx, event)
	})
	if err != nil {
		return err
	}

	u.notify(ctx, event)
	return nil
}

func (u *bookingUseCaseImpl) ConfirmBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) error {
	var event shared.AuditEvent

	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := u.findOwnedBooking(ctx, tx, actor, bookingID)
		if err != nil {
			return err
		}
		target, err := u.lockTarget(ctx, tx, b)
		if err != nil {
			return err
		}

		if err := b.Confirm(); err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}
		if err := tx.Bookings().UpdateStatus(ctx, b); err != nil {
			return err
		}

		event = u.newEvent(target.branchID, b, shared.EventBookingConfirmed, nil)
		return tx.Events().Append(ctx, event)
	})
	if err != nil {
		return err
	}

	u.notify(ctx, event)
	return nil
}

// MarkAttendance resolves a live booking to attended or no_show. No-show
// consequences follow the branch policy: keep the credit, restore it, or
// record a penalty for downstream billing.
func (u *bookingUseCaseImpl) MarkAttendance(ctx context.Context, actor Actor, bookingID uuid.UUID, attended bool) error {
	if !actor.CanManageBranch() {
		return ErrBookingNotFound
	}

	var events []shared.AuditEvent

	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		events = events[:0]

		b, err := tx.Bookings().FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		target, err := u.lockTarget(ctx, tx, b)
		if err != nil {
			return err
		}

		wasOccupying := b.Occupies()
		if err := b.MarkAttendance(attended); err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}

		// Terminal transitions free the spot so booked_count keeps agreeing
		// with the live booking rows.
		if wasOccupying && target.slot != nil {
			if err := target.slot.ReleaseSpot(); err != nil {
				return err
			}
			if err := tx.Slots().UpdateOccupancy(ctx, target.slot); err != nil {
				return err
			}
		}

		eventType := shared.EventBookingAttended
		payload := map[string]any{}
		if !attended {
			eventType = shared.EventBookingNoShow

			policy, err := u.policyFor(ctx, tx, target.branchID, target.benefitType)
			if err != nil {
				return err
			}
			outcome := booking.ApplyNoShowPolicy(policy.NoShow, b)
			payload["policy"] = string(policy.NoShow)

			if outcome.RestoreCredit {
				if err := u.restoreCredit(ctx, tx, *b.CreditID()); err != nil {
					return err
				}
				payload["credit_restored"] = true
			}
			if outcome.RecordPenalty {
				penalty := u.newEvent(target.branchID, b, shared.EventPenaltyCharged, nil)
				if err := tx.Events().Append(ctx, penalty); err != nil {
					return err
				}
				events = append(events, penalty)
			}
		}

		if err := tx.Bookings().UpdateStatus(ctx, b); err != nil {
			return err
		}

		ev := u.newEvent(target.branchID, b, eventType, payload)
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

func (u *bookingUseCaseImpl) checkMembership(ctx context.Context, tx shared.Tx, memberID, membershipID uuid.UUID, now time.Time) error {
	m, err := tx.Reads().MembershipByID(ctx, membershipID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrMembershipInactive
		}
		return err
	}
	if m.MemberID != memberID || !m.CoversBookingAt(now) {
		return ErrMembershipInactive
	}
	return nil
}

// consumeCredit debits the earliest-expiring usable record and remembers
// which one, so cancellation restores exactly that record.
func (u *bookingUseCaseImpl) consumeCredit(ctx context.Context, tx shared.Tx, memberID uuid.UUID, benefitType benefit.Type, now time.Time) (*credit.Credit, error) {
	c, err := tx.Credits().FindUsableForUpdate(ctx, memberID, benefitType, now)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBenefitLimitReached
		}
		return nil, err
	}
	if err := c.Consume(now); err != nil {
		return nil, errs.Mark(err, ErrBenefitLimitReached)
	}
	if err := tx.Credits().UpdateRemaining(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (u *bookingUseCaseImpl) restoreCredit(ctx context.Context, tx shared.Tx, creditID uuid.UUID) error {
	c, err := tx.Credits().FindByIDForUpdate(ctx, creditID)
	if err != nil {
		return err
	}
	c.Restore()
	return tx.Credits().UpdateRemaining(ctx, c)
}

func (u *bookingUseCaseImpl) policyFor(ctx context.Context, tx shared.Tx, branchID uuid.UUID, benefitType benefit.Type) (benefit.Policy, error) {
	p, err := tx.Reads().PolicyFor(ctx, branchID, benefitType)
	if err != nil {
		return benefit.Policy{}, err
	}
	if p == nil {
		return benefit.DefaultPolicy(benefitType, u.cfg.DefaultCancelCutoff), nil
	}
	return *p, nil
}

func (u *bookingUseCaseImpl) findOwnedBooking(ctx context.Context, tx shared.Tx, actor Actor, bookingID uuid.UUID) (*booking.Booking, error) {
	b, err := tx.Bookings().FindByIDForUpdate(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	// Members never learn whether someone else's booking exists.
	if !actor.CanManageBranch() && b.MemberID() != actor.ID {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

// lockedTarget carries what the state machine needs about the slot or class
// a booking points at, with the slot row locked when there is one.
type lockedTarget struct {
	branchID    uuid.UUID
	benefitType benefit.Type
	startAt     time.Time
	slot        *slot.Slot
}

func (u *bookingUseCaseImpl) lockTarget(ctx context.Context, tx shared.Tx, b *booking.Booking) (*lockedTarget, error) {
	switch b.TargetKind() {
	case booking.TargetSlot:
		s, err := tx.Slots().FindByIDForUpdate(ctx, *b.SlotID())
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, ErrSlotNotFound
			}
			return nil, err
		}
		return &lockedTarget{
			branchID:    s.BranchID(),
			benefitType: s.BenefitType(),
			startAt:     s.StartAt(),
			slot:        s,
		}, nil
	default:
		c, err := tx.Classes().FindByIDForUpdate(ctx, *b.ClassID())
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, ErrClassNotFound
			}
			return nil, err
		}
		return &lockedTarget{
			branchID:    c.BranchID(),
			benefitType: benefit.TypeClass,
			startAt:     c.ScheduledAt(),
		}, nil
	}
}

func (u *bookingUseCaseImpl) newEvent(branchID uuid.UUID, b *booking.Booking, eventType string, payload map[string]any) shared.AuditEvent {
	var raw []byte
	if len(payload) > 0 {
		raw, _ = json.Marshal(payload)
	}
	return shared.AuditEvent{
		BranchID:  branchID,
		BookingID: b.ID(),
		MemberID:  b.MemberID(),
		EventType: eventType,
		Payload:   raw,
	}
}

func (u *bookingUseCaseImpl) notify(ctx context.Context, ev shared.AuditEvent) {
	publishEvent(ctx, u.notifier, ev)
}

// publishEvent is fire-and-forget: the durable audit row already committed,
// so a broker hiccup only delays the live feed.
func publishEvent(ctx context.Context, n EventNotifier, ev shared.AuditEvent) {
	if ev.EventType == "" {
		return
	}
	if err := n.Publish(ctx, ev); err != nil {
		slog.Warn("failed to publish booking event", "event_type", ev.EventType, "error", err.Error())
	}
}

func mapSlotBookable(err error) error {
	switch {
	case errors.Is(err, slot.ErrSlotFull):
		return errs.Mark(err, ErrSlotFull)
	case errors.Is(err, slot.ErrSlotInactive), errors.Is(err, slot.ErrSlotInPast):
		return errs.Mark(err, ErrSlotNotFound)
	default:
		return err
	}
}

func mapClassBookable(err error) error {
	switch {
	case errors.Is(err, class.ErrClassFull):
		return errs.Mark(err, ErrSlotFull)
	case errors.Is(err, class.ErrClassInactive), errors.Is(err, class.ErrClassStarted):
		return errs.Mark(err, ErrClassNotFound)
	default:
		return err
	}
}
