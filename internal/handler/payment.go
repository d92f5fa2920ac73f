package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chaloride/internal/service"
)

// PaymentHandler handles HTTP requests for the payment flow.
type PaymentHandler struct {
	lifecycle *service.LifecycleService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(lifecycle *service.LifecycleService) *PaymentHandler {
	return &PaymentHandler{lifecycle: lifecycle}
}

// PaymentMethodResponse is the JSON shape of an available payment method.
type PaymentMethodResponse struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Brand string `json:"brand,omitempty"`
	Last4 string `json:"last4,omitempty"`
}

// ListMethods handles GET /v1/payments/methods
func (h *PaymentHandler) ListMethods(c *gin.Context) {
	methods := h.lifecycle.PaymentMethods()
	resp := make([]PaymentMethodResponse, 0, len(methods))
	for _, m := range methods {
		resp = append(resp, PaymentMethodResponse{
			ID:    m.ID,
			Type:  string(m.Type),
			Brand: m.Brand,
			Last4: m.Last4,
		})
	}
	respondJSON(c, http.StatusOK, resp)
}

// SelectPaymentBody is the HTTP request body for starting a payment.
type SelectPaymentBody struct {
	MethodID string `json:"method_id"`
}

// SelectMethod handles POST /v1/payments
func (h *PaymentHandler) SelectMethod(c *gin.Context) {
	var body SelectPaymentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondJSON(c, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if err := h.lifecycle.SelectPayment(body.MethodID); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusAccepted, toStateResponse(h.lifecycle.Snapshot()))
}

// WalletConfirm handles POST /v1/payments/wallet/confirm
func (h *PaymentHandler) WalletConfirm(c *gin.Context) {
	if err := h.lifecycle.ConfirmWallet(); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusAccepted, toStateResponse(h.lifecycle.Snapshot()))
}

// WalletCancel handles POST /v1/payments/wallet/cancel
func (h *PaymentHandler) WalletCancel(c *gin.Context) {
	if err := h.lifecycle.CancelWallet(); err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toStateResponse(h.lifecycle.Snapshot()))
}
