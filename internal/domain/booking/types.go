package booking

type Status string

const (
	StatusBooked    Status = "booked"
	StatusConfirmed Status = "confirmed"
	StatusAttended  Status = "attended"
	StatusNoShow    Status = "no_show"
	StatusCancelled Status = "cancelled"
)

// transitions is the explicit transition table; everything not listed is
// rejected. Terminal states have no outgoing edges.
var transitions = map[Status][]Status{
	StatusBooked:    {StatusConfirmed, StatusAttended, StatusNoShow, StatusCancelled},
	StatusConfirmed: {StatusAttended, StatusNoShow, StatusCancelled},
	StatusAttended:  {},
	StatusNoShow:    {},
	StatusCancelled: {},
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) IsTerminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo consults the transition table.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// NonTerminalStatuses are the states that occupy capacity and block
// duplicate bookings.
func NonTerminalStatuses() []Status {
	return []Status{StatusBooked, StatusConfirmed}
}

// TargetKind distinguishes facility-slot bookings from class bookings.
type TargetKind string

const (
	TargetSlot  TargetKind = "slot"
	TargetClass TargetKind = "class"
)
