package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"chaloride/internal/domain"
	"chaloride/internal/service"
)

// RideHandler handles HTTP requests for the ride lifecycle.
type RideHandler struct {
	lifecycle    *service.LifecycleService
	shareService *service.ShareService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(lifecycle *service.LifecycleService, shareService *service.ShareService) *RideHandler {
	return &RideHandler{
		lifecycle:    lifecycle,
		shareService: shareService,
	}
}

// UpdateRequestBody is the HTTP request body for editing the ride request.
// Omitted fields are left untouched.
type UpdateRequestBody struct {
	Pickup         *string `json:"pickup,omitempty"`
	Destination    *string `json:"destination,omitempty"`
	Vehicle        *string `json:"vehicle,omitempty"`
	PassengerCount *int    `json:"passenger_count,omitempty"`
}

// OfferResponse is the JSON shape of a ride offer.
type OfferResponse struct {
	DriverName     string `json:"driver_name"`
	DriverPhotoURL string `json:"driver_photo_url,omitempty"`
	DriverBio      string `json:"driver_bio,omitempty"`
	VehicleModel   string `json:"vehicle_model"`
	LicensePlate   string `json:"license_plate"`
	ETA            string `json:"eta"`
	Fare           string `json:"fare"`
}

// PositionResponse is the JSON shape of the simulated driver position.
type PositionResponse struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

// RideStateResponse is the read-only snapshot returned for rendering.
type RideStateResponse struct {
	Status             string            `json:"status"`
	Pickup             string            `json:"pickup"`
	Destination        string            `json:"destination"`
	Vehicle            string            `json:"vehicle"`
	PassengerCount     int               `json:"passenger_count"`
	EstimatedFare      string            `json:"estimated_fare,omitempty"`
	Estimating         bool              `json:"estimating,omitempty"`
	SearchingMessage   string            `json:"searching_message,omitempty"`
	Offer              *OfferResponse    `json:"offer,omitempty"`
	Position           *PositionResponse `json:"position,omitempty"`
	DynamicEtaMinutes  *int              `json:"dynamic_eta_minutes,omitempty"`
	TrackingLink       string            `json:"tracking_link,omitempty"`
	ErrorMessage       string            `json:"error_message,omitempty"`
	CancellationStep   string            `json:"cancellation_step"`
	CancellationReason string            `json:"cancellation_reason,omitempty"`
	PayingMethodID     string            `json:"paying_method_id,omitempty"`
	WalletOpen         bool              `json:"wallet_open,omitempty"`
	WalletProcessing   bool              `json:"wallet_processing,omitempty"`
}

// GetState handles GET /v1/ride
func (h *RideHandler) GetState(c *gin.Context) {
	respondJSON(c, http.StatusOK, toStateResponse(h.lifecycle.Snapshot()))
}

// UpdateRequest handles PUT /v1/ride/request
func (h *RideHandler) UpdateRequest(c *gin.Context) {
	var body UpdateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondJSON(c, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	update := service.RequestUpdate{
		Pickup:         body.Pickup,
		Destination:    body.Destination,
		PassengerCount: body.PassengerCount,
	}
	if body.Vehicle != nil {
		v := domain.VehicleType(*body.Vehicle)
		update.Vehicle = &v
	}

	if _, err := h.lifecycle.UpdateRequest(update); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toStateResponse(h.lifecycle.Snapshot()))
}

// FindRide handles POST /v1/ride/search
func (h *RideHandler) FindRide(c *gin.Context) {
	if err := h.lifecycle.FindRide(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusAccepted, toStateResponse(h.lifecycle.Snapshot()))
}

// Reset handles POST /v1/ride/reset
func (h *RideHandler) Reset(c *gin.Context) {
	h.lifecycle.Reset()
	respondJSON(c, http.StatusOK, toStateResponse(h.lifecycle.Snapshot()))
}

// ShareResponse is the HTTP response for a share request.
type ShareResponse struct {
	Title        string `json:"title"`
	Text         string `json:"text"`
	Link         string `json:"link"`
	SharedNative bool   `json:"shared_native"`
}

// Share handles POST /v1/ride/share
func (h *RideHandler) Share(c *gin.Context) {
	snap := h.lifecycle.Snapshot()

	etaText := ""
	if snap.Offer != nil {
		etaText = snap.Offer.ETA
	}
	if snap.DynamicEta != nil {
		etaText = fmt.Sprintf("%d min", *snap.DynamicEta)
	}

	payload, native, err := h.shareService.ShareRide(c.Request.Context(), snap.Offer, snap.TrackingLink, etaText)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, ShareResponse{
		Title:        payload.Title,
		Text:         payload.Text,
		Link:         payload.Link,
		SharedNative: native,
	})
}

// CancellationReasonsResponse lists the fixed cancellation reasons.
type CancellationReasonsResponse struct {
	Reasons []string `json:"reasons"`
}

// CancelReasons handles GET /v1/ride/cancel/reasons
func (h *RideHandler) CancelReasons(c *gin.Context) {
	respondJSON(c, http.StatusOK, CancellationReasonsResponse{Reasons: domain.CancellationReasons})
}

// CancelOpen handles POST /v1/ride/cancel/open
func (h *RideHandler) CancelOpen(c *gin.Context) {
	if err := h.lifecycle.OpenCancellation(); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toStateResponse(h.lifecycle.Snapshot()))
}

// CancelConfirm handles POST /v1/ride/cancel/confirm
func (h *RideHandler) CancelConfirm(c *gin.Context) {
	if err := h.lifecycle.ConfirmCancellation(); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toStateResponse(h.lifecycle.Snapshot()))
}

// CancelReasonBody is the HTTP request body for selecting a reason.
type CancelReasonBody struct {
	Reason string `json:"reason"`
}

// CancelReason handles POST /v1/ride/cancel/reason
func (h *RideHandler) CancelReason(c *gin.Context) {
	var body CancelReasonBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondJSON(c, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if err := h.lifecycle.SelectCancellationReason(body.Reason); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toStateResponse(h.lifecycle.Snapshot()))
}

// CancelCommit handles POST /v1/ride/cancel/commit
func (h *RideHandler) CancelCommit(c *gin.Context) {
	if err := h.lifecycle.CommitCancellation(); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toStateResponse(h.lifecycle.Snapshot()))
}

// CancelDismiss handles POST /v1/ride/cancel/dismiss
func (h *RideHandler) CancelDismiss(c *gin.Context) {
	h.lifecycle.DismissCancellation()
	respondJSON(c, http.StatusOK, toStateResponse(h.lifecycle.Snapshot()))
}

func toStateResponse(snap service.Snapshot) RideStateResponse {
	resp := RideStateResponse{
		Status:             string(snap.Status),
		Pickup:             snap.Request.Pickup,
		Destination:        snap.Request.Destination,
		Vehicle:            string(snap.Request.Vehicle),
		PassengerCount:     snap.Request.PassengerCount,
		Estimating:         snap.Estimating,
		SearchingMessage:   snap.SearchingMessage,
		DynamicEtaMinutes:  snap.DynamicEta,
		TrackingLink:       snap.TrackingLink,
		ErrorMessage:       snap.ErrorMessage,
		CancellationStep:   string(snap.Cancellation.Step),
		CancellationReason: snap.Cancellation.Reason,
		PayingMethodID:     snap.PayingMethodID,
		WalletOpen:         snap.WalletOpen,
		WalletProcessing:   snap.WalletProcessing,
	}
	if snap.Estimate != nil {
		resp.EstimatedFare = snap.Estimate.EstimatedFare
	}
	if snap.Offer != nil {
		resp.Offer = &OfferResponse{
			DriverName:     snap.Offer.DriverName,
			DriverPhotoURL: snap.Offer.DriverPhotoURL,
			DriverBio:      snap.Offer.DriverBio,
			VehicleModel:   snap.Offer.VehicleModel,
			LicensePlate:   snap.Offer.LicensePlate,
			ETA:            snap.Offer.ETA,
			Fare:           snap.Offer.Fare,
		}
	}
	if snap.Position != nil {
		resp.Position = &PositionResponse{Top: snap.Position.Top, Left: snap.Position.Left}
	}
	return resp
}
