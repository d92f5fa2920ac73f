package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chaloride/internal/domain"
	"chaloride/internal/repository"
	"chaloride/internal/service"
)

// SuggestionHandler handles HTTP requests for idle-screen suggestions.
type SuggestionHandler struct {
	suggestions *service.SuggestionService
	lifecycle   *service.LifecycleService
	historyRepo repository.HistoryRepository
}

// NewSuggestionHandler creates a new SuggestionHandler.
func NewSuggestionHandler(
	suggestions *service.SuggestionService,
	lifecycle *service.LifecycleService,
	historyRepo repository.HistoryRepository,
) *SuggestionHandler {
	return &SuggestionHandler{
		suggestions: suggestions,
		lifecycle:   lifecycle,
		historyRepo: historyRepo,
	}
}

// SuggestionResponse is the JSON shape of one suggestion.
type SuggestionResponse struct {
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Destination string `json:"destination,omitempty"`
	Query       string `json:"query,omitempty"`
}

// Get handles GET /v1/suggestions. The set is refreshed from the current
// (status, user, history) inputs; failures degrade to an empty list.
func (h *SuggestionHandler) Get(c *gin.Context) {
	userName := c.DefaultQuery("user", "rider")

	history, err := h.historyRepo.List(c.Request.Context())
	if err != nil {
		// Best-effort: suggestions without history are still suggestions.
		history = nil
	}

	suggestions := h.suggestions.Refresh(c.Request.Context(), h.lifecycle.Status(), userName, history)

	resp := make([]SuggestionResponse, 0, len(suggestions))
	for _, s := range suggestions {
		resp = append(resp, SuggestionResponse{
			Kind:        string(s.Kind),
			Title:       s.Title,
			Destination: s.Destination,
			Query:       s.Query,
		})
	}
	respondJSON(c, http.StatusOK, resp)
}

// DispatchBody is the HTTP request body for a suggestion click.
type DispatchBody struct {
	Kind        string `json:"kind"`
	Destination string `json:"destination,omitempty"`
	Query       string `json:"query,omitempty"`
}

// DispatchResponse reports the effect of the click.
type DispatchResponse struct {
	// Query is returned for EXPLORE suggestions so the caller can hand it
	// to the external search view.
	Query string             `json:"query,omitempty"`
	State *RideStateResponse `json:"state,omitempty"`
}

// Dispatch handles POST /v1/suggestions/dispatch
func (h *SuggestionHandler) Dispatch(c *gin.Context) {
	var body DispatchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondJSON(c, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result := service.Dispatch(domain.Suggestion{
		Kind:        domain.SuggestionKind(body.Kind),
		Destination: body.Destination,
		Query:       body.Query,
	})

	if result.Destination != "" {
		if _, err := h.lifecycle.UpdateRequest(service.RequestUpdate{Destination: &result.Destination}); err != nil {
			respondError(c, err)
			return
		}
		state := toStateResponse(h.lifecycle.Snapshot())
		respondJSON(c, http.StatusOK, DispatchResponse{State: &state})
		return
	}

	respondJSON(c, http.StatusOK, DispatchResponse{Query: result.Query})
}
