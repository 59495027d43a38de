package api

import (
	"net/http"

	reqdto "fitbook/internal/handler/dto/request"
	resdto "fitbook/internal/handler/dto/response"
	"fitbook/internal/handler/middleware"
	"fitbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SlotHandler struct {
	slotQueries   queries.SlotQueries
	agendaQueries queries.AgendaQueries
}

func NewSlotHandler(slotQueries queries.SlotQueries, agendaQueries queries.AgendaQueries) *SlotHandler {
	return &SlotHandler{
		slotQueries:   slotQueries,
		agendaQueries: agendaQueries,
	}
}

// @Summary List slots
// @Description Active slots for the caller's branch on one date with spots_left
// @Tags slots
// @Produce json
// @Security BearerAuth
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param benefit_type query string false "Filter by benefit type"
// @Param facility_id query string false "Filter by facility"
// @Param include_full query bool false "Include fully booked slots"
// @Success 200 {object} resdto.SlotListResponse
// @Failure 400 {object} map[string]string
// @Router /slots [get]
func (h *SlotHandler) ListSlots(c *gin.Context) {
	branchID, ok := middleware.GetBranchID(c)
	if !ok {
		internalError(c)
		return
	}

	var q reqdto.ListSlotsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query parameters")
		return
	}

	filters := queries.SlotFilters{
		BenefitType: q.BenefitType,
		IncludeFull: q.IncludeFull,
	}
	if q.FacilityID != nil {
		facilityID, err := uuid.Parse(*q.FacilityID)
		if err != nil {
			badRequest(c, "Invalid facility ID format")
			return
		}
		filters.FacilityID = &facilityID
	}

	slots, err := h.slotQueries.ListSlots(c.Request.Context(), branchID, q.Date, filters)
	if err != nil {
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, resdto.SlotListResponse{Slots: slots})
}

// @Summary Member agenda
// @Description Chronological merge of slots and classes with is_booked
// @Tags slots
// @Produce json
// @Security BearerAuth
// @Param from query string true "Range start (YYYY-MM-DD)"
// @Param to query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} resdto.AgendaResponse
// @Failure 400 {object} map[string]string
// @Router /agenda [get]
func (h *SlotHandler) Agenda(c *gin.Context) {
	memberID, ok := middleware.GetMemberID(c)
	if !ok {
		internalError(c)
		return
	}
	branchID, ok := middleware.GetBranchID(c)
	if !ok {
		internalError(c)
		return
	}

	var q reqdto.AgendaQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query parameters")
		return
	}
	// "to" is inclusive as a calendar day.
	to := q.To.AddDate(0, 0, 1)

	items, err := h.agendaQueries.Agenda(c.Request.Context(), memberID, branchID, q.From, to)
	if err != nil {
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, resdto.AgendaResponse{Items: items})
}
