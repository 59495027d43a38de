package request

import "time"

// ListSlotsQuery binds the availability query string. Date is the branch-local
// calendar day being browsed.
type ListSlotsQuery struct {
	Date        time.Time `form:"date" time_format:"2006-01-02" binding:"required"`
	BenefitType *string   `form:"benefit_type"`
	FacilityID  *string   `form:"facility_id"`
	IncludeFull bool      `form:"include_full"`
}

type AgendaQuery struct {
	From time.Time `form:"from" time_format:"2006-01-02" binding:"required"`
	To   time.Time `form:"to" time_format:"2006-01-02" binding:"required"`
}

type EnsureSlotsRequest struct {
	From string `json:"from" binding:"required,datetime=2006-01-02"`
	To   string `json:"to" binding:"required,datetime=2006-01-02"`
}

type DeactivateSlotRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}
