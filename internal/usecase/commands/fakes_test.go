//go:build unit

package commands_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fitbook/internal/domain/benefit"
	"fitbook/internal/domain/booking"
	"fitbook/internal/domain/class"
	"fitbook/internal/domain/credit"
	"fitbook/internal/domain/slot"
	"fitbook/internal/infra"
	"fitbook/internal/infra/db"
	"fitbook/internal/usecase/shared"

	"github.com/google/uuid"
)

// fakeStore is an in-memory stand-in for the transactional repositories.
// It keeps just enough behavior for the state machine flows: not-found and
// duplicate-key reporting match the repository error kinds the use cases
// branch on.
type fakeStore struct {
	memberships map[uuid.UUID]*shared.MembershipSnapshot
	policies    map[string]*benefit.Policy
	facilities  []slot.FacilityConfig
	branches    []shared.BranchSnapshot
	slots       map[uuid.UUID]*slot.Slot
	classes     map[uuid.UUID]*class.Class
	bookings    map[uuid.UUID]*booking.Booking
	credits     map[uuid.UUID]*credit.Credit
	events      []shared.AuditEvent
	slotKeys    map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		memberships: map[uuid.UUID]*shared.MembershipSnapshot{},
		policies:    map[string]*benefit.Policy{},
		slots:       map[uuid.UUID]*slot.Slot{},
		classes:     map[uuid.UUID]*class.Class{},
		bookings:    map[uuid.UUID]*booking.Booking{},
		credits:     map[uuid.UUID]*credit.Credit{},
		slotKeys:    map[string]bool{},
	}
}

func policyKey(branchID uuid.UUID, t benefit.Type) string {
	return branchID.String() + "/" + t.String()
}

func (s *fakeStore) addPolicy(branchID uuid.UUID, p benefit.Policy) {
	s.policies[policyKey(branchID, p.Type)] = &p
}

func (s *fakeStore) eventTypes() []string {
	var types []string
	for _, ev := range s.events {
		types = append(types, ev.EventType)
	}
	return types
}

func notFound(what string) error {
	return infra.WrapRepoErr(what+" not found", nil, infra.KindNotFound)
}

// fakeUoW executes the closure directly against the shared store; there is
// no rollback, tests only inspect state after successful commits.
type fakeUoW struct {
	store *fakeStore
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &fakeTx{store: u.store})
}

func (u *fakeUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) CommandReads() shared.CommandReads {
	return &fakeReads{store: u.store}
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) Bookings() shared.BookingRepository { return &fakeBookings{store: t.store} }
func (t *fakeTx) Slots() shared.SlotRepository       { return &fakeSlots{store: t.store} }
func (t *fakeTx) Classes() shared.ClassRepository    { return &fakeClasses{store: t.store} }
func (t *fakeTx) Credits() shared.CreditRepository   { return &fakeCredits{store: t.store} }
func (t *fakeTx) Events() shared.EventRepository     { return &fakeEvents{store: t.store} }
func (t *fakeTx) Reads() shared.CommandReads         { return &fakeReads{store: t.store} }
func (t *fakeTx) DB() db.DBTX                        { return nil }

type fakeReads struct {
	store *fakeStore
}

func (r *fakeReads) MembershipByID(_ context.Context, id uuid.UUID) (*shared.MembershipSnapshot, error) {
	m, ok := r.store.memberships[id]
	if !ok {
		return nil, notFound("membership")
	}
	return m, nil
}

func (r *fakeReads) MemberByID(_ context.Context, id uuid.UUID) (*shared.MemberSnapshot, error) {
	return nil, notFound("member")
}

func (r *fakeReads) PolicyFor(_ context.Context, branchID uuid.UUID, benefitType benefit.Type) (*benefit.Policy, error) {
	return r.store.policies[policyKey(branchID, benefitType)], nil
}

func (r *fakeReads) FacilityConfigs(_ context.Context, branchID uuid.UUID) ([]slot.FacilityConfig, error) {
	var configs []slot.FacilityConfig
	for _, cfg := range r.store.facilities {
		if cfg.BranchID == branchID {
			configs = append(configs, cfg)
		}
	}
	return configs, nil
}

func (r *fakeReads) Branches(_ context.Context) ([]shared.BranchSnapshot, error) {
	return r.store.branches, nil
}

type fakeBookings struct {
	store *fakeStore
}

func (f *fakeBookings) Create(_ context.Context, b *booking.Booking) (uuid.UUID, error) {
	// Emulate the partial unique index on live bookings.
	for _, existing := range f.store.bookings {
		if existing.MemberID() == b.MemberID() &&
			existing.TargetID() == b.TargetID() &&
			existing.Occupies() {
			return uuid.Nil, infra.WrapRepoErr("duplicate booking", nil, infra.KindDuplicateKey)
		}
	}
	f.store.bookings[b.ID()] = b
	return b.ID(), nil
}

func (f *fakeBookings) UpdateStatus(_ context.Context, b *booking.Booking) error {
	if _, ok := f.store.bookings[b.ID()]; !ok {
		return notFound("booking")
	}
	f.store.bookings[b.ID()] = b
	return nil
}

func (f *fakeBookings) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, ok := f.store.bookings[id]
	if !ok {
		return nil, notFound("booking")
	}
	return b, nil
}

func (f *fakeBookings) HasActiveForSlot(_ context.Context, memberID, slotID uuid.UUID) (bool, error) {
	for _, b := range f.store.bookings {
		if b.MemberID() == memberID && b.SlotID() != nil && *b.SlotID() == slotID && b.Occupies() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookings) HasActiveForClass(_ context.Context, memberID, classID uuid.UUID) (bool, error) {
	for _, b := range f.store.bookings {
		if b.MemberID() == memberID && b.ClassID() != nil && *b.ClassID() == classID && b.Occupies() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookings) CountActiveForClass(_ context.Context, classID uuid.UUID) (int64, error) {
	var n int64
	for _, b := range f.store.bookings {
		if b.ClassID() != nil && *b.ClassID() == classID && b.Occupies() {
			n++
		}
	}
	return n, nil
}

func (f *fakeBookings) FindActiveBySlot(_ context.Context, slotID uuid.UUID) ([]*booking.Booking, error) {
	var out []*booking.Booking
	for _, b := range f.store.bookings {
		if b.SlotID() != nil && *b.SlotID() == slotID && b.Occupies() {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeSlots struct {
	store *fakeStore
}

func (f *fakeSlots) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*slot.Slot, error) {
	s, ok := f.store.slots[id]
	if !ok {
		return nil, notFound("slot")
	}
	return s, nil
}

func (f *fakeSlots) UpdateOccupancy(_ context.Context, s *slot.Slot) error {
	if _, ok := f.store.slots[s.ID()]; !ok {
		return notFound("slot")
	}
	f.store.slots[s.ID()] = s
	return nil
}

func (f *fakeSlots) InsertMissing(_ context.Context, slots []*slot.Slot) (int64, error) {
	var inserted int64
	for _, s := range slots {
		key := fmt.Sprintf("%s/%s/%s", s.FacilityID(), s.SlotDate().Format("2006-01-02"), s.StartAt().Format(time.RFC3339))
		if f.store.slotKeys[key] {
			continue
		}
		f.store.slotKeys[key] = true
		f.store.slots[s.ID()] = s
		inserted++
	}
	return inserted, nil
}

type fakeClasses struct {
	store *fakeStore
}

func (f *fakeClasses) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*class.Class, error) {
	c, ok := f.store.classes[id]
	if !ok {
		return nil, notFound("class")
	}
	return c, nil
}

type fakeCredits struct {
	store *fakeStore
}

func (f *fakeCredits) FindUsableForUpdate(_ context.Context, memberID uuid.UUID, benefitType benefit.Type, now time.Time) (*credit.Credit, error) {
	var best *credit.Credit
	for _, c := range f.store.credits {
		if c.MemberID() != memberID || c.BenefitType() != benefitType || !c.Usable(now) {
			continue
		}
		if best == nil || c.ExpiresAt().Before(best.ExpiresAt()) {
			best = c
		}
	}
	if best == nil {
		return nil, notFound("credit")
	}
	return best, nil
}

func (f *fakeCredits) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*credit.Credit, error) {
	c, ok := f.store.credits[id]
	if !ok {
		return nil, notFound("credit")
	}
	return c, nil
}

func (f *fakeCredits) UpdateRemaining(_ context.Context, c *credit.Credit) error {
	if _, ok := f.store.credits[c.ID()]; !ok {
		return notFound("credit")
	}
	f.store.credits[c.ID()] = c
	return nil
}

type fakeEvents struct {
	store *fakeStore
}

func (f *fakeEvents) Append(_ context.Context, ev shared.AuditEvent) error {
	f.store.events = append(f.store.events, ev)
	return nil
}

// recordingNotifier captures post-commit fan-out for assertions.
type recordingNotifier struct {
	mu        sync.Mutex
	published []shared.AuditEvent
}

func (n *recordingNotifier) Publish(_ context.Context, ev shared.AuditEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.published = append(n.published, ev)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.published)
}
