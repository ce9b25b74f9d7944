package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prmhq/prm-backend/internal/common"
	"github.com/prmhq/prm-backend/pkg/logger"
)

// respondError maps a service error onto the response envelope.
// Unknown errors are logged and reported without internal detail.
func respondError(c *gin.Context, err error) {
	var verr *common.ValidationError
	switch {
	case errors.As(err, &verr):
		if verr.Field != "" {
			common.FieldErrorResponse(c, verr.Field, verr.Message)
			return
		}
		common.ErrorResponse(c, http.StatusBadRequest, verr.Message, nil)
	case errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrInactiveAccount),
		errors.Is(err, common.ErrAlreadyActive):
		common.ErrorResponse(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, common.ErrUnauthorized):
		common.ErrorResponse(c, http.StatusUnauthorized, "Invalid token", nil)
	case errors.Is(err, common.ErrForbidden):
		common.ErrorResponse(c, http.StatusForbidden, "You do not have permission to perform this action", nil)
	case errors.Is(err, common.ErrNotFound):
		common.ErrorResponse(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, common.ErrConflict):
		common.ErrorResponse(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, common.ErrStorageUnavailable):
		common.ErrorResponse(c, http.StatusServiceUnavailable, err.Error(), nil)
	default:
		_ = c.Error(err)
		logger.Ctx(c.Request.Context()).Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("unhandled error")
		common.ErrorResponse(c, http.StatusInternalServerError, "Internal server error", nil)
	}
}
