package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chaloride/internal/repository"
	"chaloride/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrMissingLocations),
		errors.Is(err, service.ErrInvalidVehicle),
		errors.Is(err, service.ErrInvalidPassengerCount),
		errors.Is(err, service.ErrUnknownPaymentMethod),
		errors.Is(err, service.ErrInvalidCancelReason),
		errors.Is(err, service.ErrNoCancelReason),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrNoOffer):
		return http.StatusBadRequest

	// Conflict errors - action does not fit the current lifecycle state
	case errors.Is(err, service.ErrNotIdle),
		errors.Is(err, service.ErrNotConfirmed),
		errors.Is(err, service.ErrPaymentInFlight),
		errors.Is(err, service.ErrWalletNotOpen),
		errors.Is(err, service.ErrCancelStep):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}
