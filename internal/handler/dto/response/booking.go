package response

import (
	"github.com/google/uuid"

	"fitbook/internal/usecase/queries"
)

// The success envelope mirrors the error envelope of httperr.Response.

type BookingCreatedResponse struct {
	Success   bool      `json:"success"`
	BookingID uuid.UUID `json:"booking_id"`
}

type OKResponse struct {
	Success bool `json:"success"`
}

type BookingListResponse struct {
	Bookings []*queries.BookingListItem `json:"bookings"`
}

type CreditBalancesResponse struct {
	Balances []*queries.CreditBalanceView `json:"balances"`
}

type SlotListResponse struct {
	Slots []*queries.SlotView `json:"slots"`
}

type AgendaResponse struct {
	Items []*queries.AgendaItem `json:"items"`
}

type LiveFeedResponse struct {
	Events []*queries.FeedEventView `json:"events"`
}

type EnsureSlotsResponse struct {
	Success  bool  `json:"success"`
	Inserted int64 `json:"inserted"`
}

type CountDriftResponse struct {
	Drift []*queries.CountDriftView `json:"drift"`
}
