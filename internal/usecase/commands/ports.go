package commands

import (
	"context"

	"fitbook/internal/domain/member"
	"fitbook/internal/usecase/shared"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of a command. Members may only touch
// their own bookings; staff and admins act branch-wide.
type Actor struct {
	ID       uuid.UUID
	BranchID uuid.UUID
	Role     member.Role
}

func (a Actor) CanManageBranch() bool {
	return a.Role == member.RoleStaff || a.Role == member.RoleAdmin
}

// EventNotifier fans audit events out to the live feed after commit.
// Delivery is best-effort; the durable record is the booking_events row
// written inside the transaction.
type EventNotifier interface {
	Publish(ctx context.Context, ev shared.AuditEvent) error
}

// NopNotifier is used where no broker is configured (tests, one-off tools).
type NopNotifier struct{}

func (NopNotifier) Publish(context.Context, shared.AuditEvent) error { return nil }
