package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pos-terminal/apperr"
	"pos-terminal/models"
)

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusUnprocessableEntity
	case apperr.KindBusy:
		return http.StatusConflict
	case apperr.KindSubmission:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as an ErrorResponse. Engine errors keep their kind,
// code and operator message; anything else is an internal error.
func respondError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "INTERNAL_ERROR",
			Message: "Unexpected error",
			Details: err.Error(),
		})
		return
	}

	resp := models.ErrorResponse{
		Error:   appErr.Kind.String(),
		Code:    appErr.Code,
		Message: appErr.Message,
	}
	if appErr.Err != nil {
		resp.Details = appErr.Err.Error()
	}
	c.JSON(statusFor(appErr.Kind), resp)
}

func invalidInput(c *gin.Context, message string, err error) {
	resp := models.ErrorResponse{
		Error:   "INVALID_INPUT",
		Message: message,
	}
	if err != nil {
		resp.Details = err.Error()
	}
	c.JSON(http.StatusBadRequest, resp)
}
