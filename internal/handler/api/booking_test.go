//go:build unit

package api_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"fitbook/internal/domain/member"
	"fitbook/internal/handler/api"
	resdto "fitbook/internal/handler/dto/response"
	"fitbook/internal/usecase/commands"
	"fitbook/internal/usecase/queries"
	"fitbook/tests/common/builder"
	"fitbook/tests/common/httptest"
	"fitbook/tests/common/testutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type stubBookingCommands struct {
	bookSlotFn       func(ctx context.Context, actor commands.Actor, slotID, membershipID uuid.UUID) (uuid.UUID, error)
	bookClassFn      func(ctx context.Context, actor commands.Actor, classID, membershipID uuid.UUID) (uuid.UUID, error)
	cancelFn         func(ctx context.Context, actor commands.Actor, bookingID uuid.UUID, reason string) error
	confirmFn        func(ctx context.Context, actor commands.Actor, bookingID uuid.UUID) error
	markAttendanceFn func(ctx context.Context, actor commands.Actor, bookingID uuid.UUID, attended bool) error
}

func (s *stubBookingCommands) BookSlot(ctx context.Context, actor commands.Actor, slotID, membershipID uuid.UUID) (uuid.UUID, error) {
	return s.bookSlotFn(ctx, actor, slotID, membershipID)
}

func (s *stubBookingCommands) BookClass(ctx context.Context, actor commands.Actor, classID, membershipID uuid.UUID) (uuid.UUID, error) {
	return s.bookClassFn(ctx, actor, classID, membershipID)
}

func (s *stubBookingCommands) CancelBooking(ctx context.Context, actor commands.Actor, bookingID uuid.UUID, reason string) error {
	return s.cancelFn(ctx, actor, bookingID, reason)
}

func (s *stubBookingCommands) ConfirmBooking(ctx context.Context, actor commands.Actor, bookingID uuid.UUID) error {
	return s.confirmFn(ctx, actor, bookingID)
}

func (s *stubBookingCommands) MarkAttendance(ctx context.Context, actor commands.Actor, bookingID uuid.UUID, attended bool) error {
	return s.markAttendanceFn(ctx, actor, bookingID, attended)
}

type stubBookingQueries struct {
	listFn     func(ctx context.Context, memberID uuid.UUID, limit int) ([]*queries.BookingListItem, error)
	balancesFn func(ctx context.Context, memberID uuid.UUID) ([]*queries.CreditBalanceView, error)
	feedFn     func(ctx context.Context, branchID uuid.UUID, limit int) ([]*queries.FeedEventView, error)
}

func (s *stubBookingQueries) ListByMember(ctx context.Context, memberID uuid.UUID, limit int) ([]*queries.BookingListItem, error) {
	return s.listFn(ctx, memberID, limit)
}

func (s *stubBookingQueries) CreditBalances(ctx context.Context, memberID uuid.UUID) ([]*queries.CreditBalanceView, error) {
	return s.balancesFn(ctx, memberID)
}

func (s *stubBookingQueries) LiveFeed(ctx context.Context, branchID uuid.UUID, limit int) ([]*queries.FeedEventView, error) {
	return s.feedFn(ctx, branchID, limit)
}

type BookingHandlerTestSuite struct {
	suite.Suite
	router  *gin.Engine
	cmds    *stubBookingCommands
	queries *stubBookingQueries
	handler *api.BookingHandler
	actor   commands.Actor
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.actor = commands.Actor{
		ID:       uuid.New(),
		BranchID: uuid.New(),
		Role:     member.RoleMember,
	}

	s.cmds = &stubBookingCommands{}
	s.queries = &stubBookingQueries{}
	s.handler = api.NewBookingHandler(s.cmds, s.queries)

	// Mock middleware behavior: inject the actor the same way RequireAuth does.
	authed := s.router.Group("", func(c *gin.Context) {
		c.Set("member_id", s.actor.ID)
		c.Set("branch_id", s.actor.BranchID)
		c.Set("member_role", s.actor.Role)
	})
	authed.POST("/bookings/slots", s.handler.BookSlot)
	authed.POST("/bookings/classes", s.handler.BookClass)
	authed.POST("/bookings/:id/cancel", s.handler.CancelBooking)
	authed.POST("/bookings/:id/confirm", s.handler.ConfirmBooking)
	authed.POST("/bookings/:id/attendance", s.handler.MarkAttendance)
	authed.GET("/bookings", s.handler.ListMyBookings)
	authed.GET("/credits", s.handler.CreditBalances)
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) TestBookSlot() {
	url := "/bookings/slots"

	reqBody := builder.NewBookingBuilder().BuildBookSlotRequestDTO()
	bookingID := uuid.New()

	s.Run("success: returns 201 with the booking ID", func() {
		s.cmds.bookSlotFn = func(_ context.Context, actor commands.Actor, slotID, membershipID uuid.UUID) (uuid.UUID, error) {
			s.Equal(s.actor.ID, actor.ID)
			s.Equal(reqBody.SlotID, slotID)
			s.Equal(reqBody.MembershipID, membershipID)
			return bookingID, nil
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "token")

		var response resdto.BookingCreatedResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.True(response.Success)
		s.Equal(bookingID, response.BookingID)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: slot_id (required)", mutate: testutil.Field("slot_id", nil)},
			{name: "missing field: membership_id (required)", mutate: testutil.Field("membership_id", nil)},
			{name: "malformed slot_id", mutate: testutil.Field("slot_id", "not-a-uuid")},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
			})
		}
	})

	s.Run("error: maps command errors to statuses and codes", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedCode   string
		}{
			{name: "membership inactive", commandsError: commands.ErrMembershipInactive, expectedStatus: http.StatusUnprocessableEntity, expectedCode: commands.CodeMembershipInactive},
			{name: "duplicate booking", commandsError: commands.ErrDuplicateBooking, expectedStatus: http.StatusConflict, expectedCode: commands.CodeDuplicateBooking},
			{name: "slot full", commandsError: commands.ErrSlotFull, expectedStatus: http.StatusConflict, expectedCode: commands.CodeSlotFull},
			{name: "benefit limit reached", commandsError: commands.ErrBenefitLimitReached, expectedStatus: http.StatusUnprocessableEntity, expectedCode: commands.CodeBenefitLimitReached},
			{name: "no credits available", commandsError: commands.ErrNoCreditsAvailable, expectedStatus: http.StatusUnprocessableEntity, expectedCode: commands.CodeNoCreditsAvailable},
			{name: "slot not found", commandsError: commands.ErrSlotNotFound, expectedStatus: http.StatusNotFound, expectedCode: commands.CodeNotFound},
			{name: "internal error", commandsError: errors.New("database error"), expectedStatus: http.StatusInternalServerError, expectedCode: ""},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.cmds.bookSlotFn = func(context.Context, commands.Actor, uuid.UUID, uuid.UUID) (uuid.UUID, error) {
					return uuid.Nil, tc.commandsError
				}

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "token")
				httptest.AssertErrorCode(s.T(), rec, tc.expectedStatus, tc.expectedCode)
			})
		}
	})

	s.Run("error: frozen wire strings are preserved", func() {
		s.cmds.bookSlotFn = func(context.Context, commands.Actor, uuid.UUID, uuid.UUID) (uuid.UUID, error) {
			return uuid.Nil, commands.ErrBenefitLimitReached
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "Benefit limit reached")
	})
}

func (s *BookingHandlerTestSuite) TestBookClass() {
	url := "/bookings/classes"

	reqBody := builder.NewBookingBuilder().BuildBookClassRequestDTO()
	bookingID := uuid.New()

	s.Run("success: returns 201 with the booking ID", func() {
		s.cmds.bookClassFn = func(_ context.Context, actor commands.Actor, classID, membershipID uuid.UUID) (uuid.UUID, error) {
			s.Equal(s.actor.ID, actor.ID)
			s.Equal(reqBody.ClassID, classID)
			return bookingID, nil
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "token")

		var response resdto.BookingCreatedResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(bookingID, response.BookingID)
	})

	s.Run("error: 404 for an unknown class", func() {
		s.cmds.bookClassFn = func(context.Context, commands.Actor, uuid.UUID, uuid.UUID) (uuid.UUID, error) {
			return uuid.Nil, commands.ErrClassNotFound
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Class not found")
	})
}

func (s *BookingHandlerTestSuite) TestCancelBooking() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String() + "/cancel"

	s.Run("success: forwards the reason from the body", func() {
		s.cmds.cancelFn = func(_ context.Context, actor commands.Actor, id uuid.UUID, reason string) error {
			s.Equal(s.actor.ID, actor.ID)
			s.Equal(bookingID, id)
			s.Equal("schedule conflict", reason)
			return nil
		}

		body := map[string]any{"reason": "schedule conflict"}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "token")

		var response resdto.OKResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.True(response.Success)
	})

	s.Run("success: empty body cancels without a reason", func() {
		s.cmds.cancelFn = func(_ context.Context, _ commands.Actor, _ uuid.UUID, reason string) error {
			s.Empty(reason)
			return nil
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 for a malformed booking ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/not-a-uuid/cancel", nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid booking ID format")
	})

	s.Run("error: 409 when the booking is no longer cancellable", func() {
		s.cmds.cancelFn = func(context.Context, commands.Actor, uuid.UUID, string) error {
			return commands.ErrNotCancellable
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusConflict, commands.CodeNotCancellable)
	})

	s.Run("error: 404 for someone else's booking", func() {
		s.cmds.cancelFn = func(context.Context, commands.Actor, uuid.UUID, string) error {
			return commands.ErrBookingNotFound
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Booking not found")
	})
}

func (s *BookingHandlerTestSuite) TestConfirmBooking() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String() + "/confirm"

	s.Run("success: returns 200 OK", func() {
		s.cmds.confirmFn = func(_ context.Context, _ commands.Actor, id uuid.UUID) error {
			s.Equal(bookingID, id)
			return nil
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 409 on an invalid transition", func() {
		s.cmds.confirmFn = func(context.Context, commands.Actor, uuid.UUID) error {
			return commands.ErrInvalidTransition
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusConflict, commands.CodeInvalidTransition)
	})
}

func (s *BookingHandlerTestSuite) TestMarkAttendance() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String() + "/attendance"

	s.Run("success: forwards the attendance flag", func() {
		s.cmds.markAttendanceFn = func(_ context.Context, _ commands.Actor, id uuid.UUID, attended bool) error {
			s.Equal(bookingID, id)
			s.False(attended)
			return nil
		}

		body := map[string]any{"attended": false}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 when the attended flag is missing", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error: 403 for a non-staff caller", func() {
		s.cmds.markAttendanceFn = func(context.Context, commands.Actor, uuid.UUID, bool) error {
			return commands.ErrForbidden
		}

		body := map[string]any{"attended": true}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Forbidden")
	})
}

func (s *BookingHandlerTestSuite) TestListMyBookings() {
	url := "/bookings"

	s.Run("success: returns the caller's bookings", func() {
		items := []*queries.BookingListItem{
			{
				ID:          uuid.New(),
				TargetKind:  "slot",
				TargetID:    uuid.New(),
				TargetLabel: "Sauna 1",
				Status:      "booked",
				StartAt:     time.Now().Add(4 * time.Hour).UTC().Truncate(time.Second),
				CreatedAt:   time.Now().UTC().Truncate(time.Second),
			},
		}
		s.queries.listFn = func(_ context.Context, memberID uuid.UUID, limit int) ([]*queries.BookingListItem, error) {
			s.Equal(s.actor.ID, memberID)
			s.Equal(25, limit)
			return items, nil
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?limit=25", nil, "token")

		var response resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response.Bookings, 1)
		s.Equal("Sauna 1", response.Bookings[0].TargetLabel)
	})

	s.Run("error: 500 when the read store fails", func() {
		s.queries.listFn = func(context.Context, uuid.UUID, int) ([]*queries.BookingListItem, error) {
			return nil, errors.New("connection refused")
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}

func (s *BookingHandlerTestSuite) TestCreditBalances() {
	url := "/credits"

	s.Run("success: returns per-type balances", func() {
		expiry := time.Now().Add(30 * 24 * time.Hour).UTC().Truncate(time.Second)
		s.queries.balancesFn = func(_ context.Context, memberID uuid.UUID) ([]*queries.CreditBalanceView, error) {
			s.Equal(s.actor.ID, memberID)
			return []*queries.CreditBalanceView{
				{BenefitType: "sauna", Remaining: 3, NextExpiry: &expiry},
				{BenefitType: "ice_bath", Remaining: 1},
			}, nil
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")

		var response resdto.CreditBalancesResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response.Balances, 2)
		s.Equal("sauna", response.Balances[0].BenefitType)
		s.EqualValues(3, response.Balances[0].Remaining)
	})
}
