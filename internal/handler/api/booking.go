package api

import (
	"net/http"
	"strconv"

	reqdto "fitbook/internal/handler/dto/request"
	resdto "fitbook/internal/handler/dto/response"
	"fitbook/internal/handler/middleware"
	"fitbook/internal/usecase/commands"
	"fitbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Book a facility slot
// @Description Book one spot in a benefit slot
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.BookSlotRequest true "Slot booking request"
// @Success 201 {object} resdto.BookingCreatedResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /bookings/slots [post]
func (h *BookingHandler) BookSlot(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		internalError(c)
		return
	}

	var req reqdto.BookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	bookingID, err := h.bookingCommands.BookSlot(c.Request.Context(), actor, req.SlotID, req.MembershipID)
	if err != nil {
		respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.BookingCreatedResponse{Success: true, BookingID: bookingID})
}

// @Summary Book a class
// @Description Book one spot in a trainer-led class
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.BookClassRequest true "Class booking request"
// @Success 201 {object} resdto.BookingCreatedResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /bookings/classes [post]
func (h *BookingHandler) BookClass(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		internalError(c)
		return
	}

	var req reqdto.BookClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	bookingID, err := h.bookingCommands.BookClass(c.Request.Context(), actor, req.ClassID, req.MembershipID)
	if err != nil {
		respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.BookingCreatedResponse{Success: true, BookingID: bookingID})
}

// @Summary Cancel a booking
// @Description Cancel a live booking; credits restore inside the policy window
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.CancelBookingRequest false "Cancellation reason"
// @Success 200 {object} resdto.OKResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		internalError(c)
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid booking ID format")
		return
	}

	var req reqdto.CancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request format")
			return
		}
	}

	if err := h.bookingCommands.CancelBooking(c.Request.Context(), actor, bookingID, req.Reason); err != nil {
		respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.OKResponse{Success: true})
}

// @Summary Confirm a booking
// @Description Move a booking from booked to confirmed
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.OKResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/confirm [post]
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		internalError(c)
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid booking ID format")
		return
	}

	if err := h.bookingCommands.ConfirmBooking(c.Request.Context(), actor, bookingID); err != nil {
		respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.OKResponse{Success: true})
}

// @Summary Mark attendance
// @Description Resolve a booking to attended or no-show (staff only)
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.MarkAttendanceRequest true "Attendance result"
// @Success 200 {object} resdto.OKResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/attendance [post]
func (h *BookingHandler) MarkAttendance(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		internalError(c)
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid booking ID format")
		return
	}

	var req reqdto.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Attended == nil {
		badRequest(c, "Invalid request format")
		return
	}

	if err := h.bookingCommands.MarkAttendance(c.Request.Context(), actor, bookingID, *req.Attended); err != nil {
		respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.OKResponse{Success: true})
}

// @Summary Member booking history
// @Description List the caller's bookings, newest first
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max rows (default 50)"
// @Success 200 {object} resdto.BookingListResponse
// @Router /bookings [get]
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	memberID, ok := middleware.GetMemberID(c)
	if !ok {
		internalError(c)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	items, err := h.bookingQueries.ListByMember(c.Request.Context(), memberID, limit)
	if err != nil {
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, resdto.BookingListResponse{Bookings: items})
}

// @Summary Credit balances
// @Description Remaining benefit credits per type for the caller
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.CreditBalancesResponse
// @Router /credits [get]
func (h *BookingHandler) CreditBalances(c *gin.Context) {
	memberID, ok := middleware.GetMemberID(c)
	if !ok {
		internalError(c)
		return
	}

	balances, err := h.bookingQueries.CreditBalances(c.Request.Context(), memberID)
	if err != nil {
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, resdto.CreditBalancesResponse{Balances: balances})
}
