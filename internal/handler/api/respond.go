package api

import (
	"errors"
	"net/http"

	"fitbook/internal/handler/httperr"
	"fitbook/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// respondCommandError maps state-machine sentinels to HTTP statuses. The
// response keeps the frozen legacy string in "error" and the stable code
// in "code"; clients should migrate to the latter.
func respondCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrMembershipInactive):
		abort(c, http.StatusUnprocessableEntity, err, commands.ErrMembershipInactive, commands.CodeMembershipInactive)
	case errors.Is(err, commands.ErrDuplicateBooking):
		abort(c, http.StatusConflict, err, commands.ErrDuplicateBooking, commands.CodeDuplicateBooking)
	case errors.Is(err, commands.ErrSlotFull):
		abort(c, http.StatusConflict, err, commands.ErrSlotFull, commands.CodeSlotFull)
	case errors.Is(err, commands.ErrBenefitLimitReached):
		abort(c, http.StatusUnprocessableEntity, err, commands.ErrBenefitLimitReached, commands.CodeBenefitLimitReached)
	case errors.Is(err, commands.ErrNoCreditsAvailable):
		abort(c, http.StatusUnprocessableEntity, err, commands.ErrNoCreditsAvailable, commands.CodeNoCreditsAvailable)
	case errors.Is(err, commands.ErrNotCancellable):
		abort(c, http.StatusConflict, err, commands.ErrNotCancellable, commands.CodeNotCancellable)
	case errors.Is(err, commands.ErrInvalidTransition):
		abort(c, http.StatusConflict, err, commands.ErrInvalidTransition, commands.CodeInvalidTransition)
	case errors.Is(err, commands.ErrBookingNotFound):
		abort(c, http.StatusNotFound, err, commands.ErrBookingNotFound, commands.CodeNotFound)
	case errors.Is(err, commands.ErrSlotNotFound):
		abort(c, http.StatusNotFound, err, commands.ErrSlotNotFound, commands.CodeNotFound)
	case errors.Is(err, commands.ErrClassNotFound):
		abort(c, http.StatusNotFound, err, commands.ErrClassNotFound, commands.CodeNotFound)
	case errors.Is(err, commands.ErrMemberNotFound):
		abort(c, http.StatusNotFound, err, commands.ErrMemberNotFound, commands.CodeNotFound)
	case errors.Is(err, commands.ErrForbidden):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Forbidden", "")
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", "")
	}
}

func abort(c *gin.Context, status int, err, sentinel error, code string) {
	httperr.AbortWithError(c, status, err, sentinel.Error(), code)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   msg,
	})
}

func internalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   "Internal server error",
	})
}
