package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xuefei993/renewables/internal/analysis"
	"github.com/xuefei993/renewables/internal/api/models"
	"github.com/xuefei993/renewables/internal/data"
	"github.com/xuefei993/renewables/internal/store"
	"github.com/xuefei993/renewables/internal/subsidy"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// respondDomainError maps store, analysis and subsidy errors to HTTP responses.
func respondDomainError(c *gin.Context, err error) {
	var se *data.ServiceError
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(c, http.StatusNotFound, "CONFIGURATION_NOT_FOUND", err.Error())
	case errors.Is(err, store.ErrLastConfiguration):
		respondError(c, http.StatusConflict, "LAST_CONFIGURATION", err.Error())
	case errors.Is(err, store.ErrCategoryNotRequested):
		respondError(c, http.StatusBadRequest, "CATEGORY_NOT_REQUESTED", err.Error())
	case errors.Is(err, store.ErrUnknownEquipment):
		respondError(c, http.StatusBadRequest, "UNKNOWN_EQUIPMENT", err.Error())
	case errors.Is(err, analysis.ErrUnknownMetric):
		respondError(c, http.StatusBadRequest, "UNKNOWN_METRIC", err.Error())
	case errors.Is(err, subsidy.ErrNotEligible):
		respondError(c, http.StatusUnprocessableEntity, "SUBSIDY_NOT_ELIGIBLE", err.Error())
	case errors.Is(err, subsidy.ErrInvalid):
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	case errors.As(err, &se):
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    se.Code,
				Message: se.Message,
				Details: map[string]interface{}{"upstream_status": se.StatusCode},
			},
		})
	case data.IsUnavailable(err):
		respondError(c, http.StatusBadGateway, "UNAVAILABLE", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}
