package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"chaloride/internal/repository"
	"chaloride/internal/service"
)

// HistoryHandler handles HTTP requests for the ride history.
type HistoryHandler struct {
	historyRepo repository.HistoryRepository
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(historyRepo repository.HistoryRepository) *HistoryHandler {
	return &HistoryHandler{historyRepo: historyRepo}
}

// CompletedRideResponse is the JSON shape of a history entry.
type CompletedRideResponse struct {
	ID          string `json:"id"`
	Pickup      string `json:"pickup"`
	Destination string `json:"destination"`
	DriverName  string `json:"driver_name"`
	Vehicle     string `json:"vehicle_model"`
	Fare        string `json:"fare"`
	Date        string `json:"date"`
	Rating      int    `json:"rating,omitempty"`
}

// List handles GET /v1/history
func (h *HistoryHandler) List(c *gin.Context) {
	rides, err := h.historyRepo.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]CompletedRideResponse, 0, len(rides))
	for _, ride := range rides {
		resp = append(resp, CompletedRideResponse{
			ID:          ride.ID,
			Pickup:      ride.Pickup,
			Destination: ride.Destination,
			DriverName:  ride.Offer.DriverName,
			Vehicle:     ride.Offer.VehicleModel,
			Fare:        ride.Offer.Fare,
			Date:        ride.Date.Format(time.RFC3339),
			Rating:      ride.Rating,
		})
	}
	respondJSON(c, http.StatusOK, resp)
}

// Get handles GET /v1/history/:id
func (h *HistoryHandler) Get(c *gin.Context) {
	ride, err := h.historyRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, CompletedRideResponse{
		ID:          ride.ID,
		Pickup:      ride.Pickup,
		Destination: ride.Destination,
		DriverName:  ride.Offer.DriverName,
		Vehicle:     ride.Offer.VehicleModel,
		Fare:        ride.Offer.Fare,
		Date:        ride.Date.Format(time.RFC3339),
		Rating:      ride.Rating,
	})
}

// RateBody is the HTTP request body for rating a completed ride.
type RateBody struct {
	Rating int `json:"rating"`
}

// Rate handles POST /v1/history/:id/rating
func (h *HistoryHandler) Rate(c *gin.Context) {
	var body RateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondJSON(c, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if body.Rating < 1 || body.Rating > 5 {
		respondError(c, service.ErrInvalidRating)
		return
	}

	if err := h.historyRepo.UpdateRating(c.Request.Context(), c.Param("id"), body.Rating); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"id": c.Param("id"), "rating": body.Rating})
}
