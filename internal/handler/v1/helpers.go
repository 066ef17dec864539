package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clinrx/clinrx-api/internal/service"
	"github.com/clinrx/clinrx-api/internal/storage"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationErrorResponse struct {
	Error  string               `json:"error"`
	Fields []service.FieldError `json:"fields"`
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Validation failures, id mismatches and unresolved foreign keys are caller
// errors; a missing row is 404; a lost optimistic-concurrency race surfaces
// as a server error (storage has already turned conflict-on-deleted-row into
// not-found); anything else is an unexpected storage fault.
func respondServiceError(c *gin.Context, log *zap.Logger, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "validation failed",
			Fields: verr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrBadRequest):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case errors.Is(err, storage.ErrConstraintViolation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, storage.ErrConflict):
		respondInternal(c, err)

	default:
		log.Error("unhandled service error",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		respondInternal(c, err)
	}
}

// respondInternal hides error detail in release mode and exposes it
// otherwise.
func respondInternal(c *gin.Context, err error) {
	if gin.Mode() == gin.ReleaseMode {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return false
	}
	return true
}

func parseID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id: must be a positive integer"})
		return 0, false
	}
	return uint(id), true
}
