package api

import (
	"net/http"
	"strconv"
	"time"

	reqdto "fitbook/internal/handler/dto/request"
	resdto "fitbook/internal/handler/dto/response"
	"fitbook/internal/handler/middleware"
	"fitbook/internal/usecase/commands"
	"fitbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler collects the staff-side operations: slot lifecycle, the
// live feed, and the counter reconciliation report.
type AdminHandler struct {
	slotCommands     commands.SlotCommands
	bookingQueries   queries.BookingQueries
	reconcileQueries queries.ReconcileQueries
}

func NewAdminHandler(slotCommands commands.SlotCommands, bookingQueries queries.BookingQueries, reconcileQueries queries.ReconcileQueries) *AdminHandler {
	return &AdminHandler{
		slotCommands:     slotCommands,
		bookingQueries:   bookingQueries,
		reconcileQueries: reconcileQueries,
	}
}

// @Summary Generate slots
// @Description Materialize missing slots for the branch in a date range
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.EnsureSlotsRequest true "Date range"
// @Success 200 {object} resdto.EnsureSlotsResponse
// @Failure 400 {object} map[string]string
// @Router /admin/slots/generate [post]
func (h *AdminHandler) EnsureSlots(c *gin.Context) {
	branchID, ok := middleware.GetBranchID(c)
	if !ok {
		internalError(c)
		return
	}

	var req reqdto.EnsureSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	from, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		badRequest(c, "Invalid from date")
		return
	}
	to, err := time.Parse("2006-01-02", req.To)
	if err != nil || to.Before(from) {
		badRequest(c, "Invalid to date")
		return
	}

	inserted, err := h.slotCommands.EnsureSlots(c.Request.Context(), branchID, from, to)
	if err != nil {
		respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.EnsureSlotsResponse{Success: true, Inserted: inserted})
}

// @Summary Deactivate a slot
// @Description Withdraw a slot and cancel its live bookings with credit restoration
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Param request body reqdto.DeactivateSlotRequest true "Reason"
// @Success 200 {object} resdto.OKResponse
// @Failure 404 {object} httperr.Response
// @Router /admin/slots/{id}/deactivate [post]
func (h *AdminHandler) DeactivateSlot(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		internalError(c)
		return
	}

	slotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid slot ID format")
		return
	}

	var req reqdto.DeactivateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	if err := h.slotCommands.DeactivateSlot(c.Request.Context(), actor, slotID, req.Reason); err != nil {
		respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.OKResponse{Success: true})
}

// @Summary Live booking feed
// @Description Recent booking events for the branch
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max rows (default 50)"
// @Success 200 {object} resdto.LiveFeedResponse
// @Router /admin/feed [get]
func (h *AdminHandler) LiveFeed(c *gin.Context) {
	branchID, ok := middleware.GetBranchID(c)
	if !ok {
		internalError(c)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	events, err := h.bookingQueries.LiveFeed(c.Request.Context(), branchID, limit)
	if err != nil {
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, resdto.LiveFeedResponse{Events: events})
}

// @Summary Reconcile counters
// @Description Slots whose booked_count disagrees with live booking rows
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.CountDriftResponse
// @Router /admin/reconcile [get]
func (h *AdminHandler) ReconcileCounts(c *gin.Context) {
	branchID, ok := middleware.GetBranchID(c)
	if !ok {
		internalError(c)
		return
	}

	drift, err := h.reconcileQueries.CountDrift(c.Request.Context(), branchID)
	if err != nil {
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, resdto.CountDriftResponse{Drift: drift})
}
