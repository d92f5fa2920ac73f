package tests

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"chaloride/internal/domain"
	"chaloride/internal/genai"
)

// ──────────────────────────────────────────────
// 2. AI SERVICE CLIENT
// ──────────────────────────────────────────────

func newTestClient(baseURL string) *genai.Client {
	retry := genai.Retryer{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		JitterMax:   time.Millisecond,
	}
	return genai.NewClient(baseURL, "test-key", 2*time.Second, retry)
}

func TestClient_GenerateOffer_RetriesThrough503(t *testing.T) {
	t.Parallel()

	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"driver_name": "Ravi Kumar",
			"vehicle_model": "Maruti Swift",
			"license_plate": "KA-01-AB-1234",
			"eta": "8 min",
			"fare": "245.50"
		}`))
	}))
	defer server.Close()

	offer, err := newTestClient(server.URL).GenerateOffer(context.Background(), genai.GenerateRequest{
		Pickup:         "MG Road",
		Destination:    "Majestic Bus Stand",
		Vehicle:        domain.VehicleCar,
		PassengerCount: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := atomic.LoadInt32(&hits); got != 3 {
		t.Errorf("expected 3 requests, got %d", got)
	}
	if offer.DriverName != "Ravi Kumar" {
		t.Errorf("expected driver name to be decoded, got %q", offer.DriverName)
	}
	if offer.ETA != "8 min" {
		t.Errorf("expected ETA %q, got %q", "8 min", offer.ETA)
	}
}

func TestClient_GenerateOffer_MissingFields_Malformed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"driver_name": "Ravi Kumar"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GenerateOffer(context.Background(), genai.GenerateRequest{
		Pickup:      "MG Road",
		Destination: "Airport",
	})
	if !errors.Is(err, genai.ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}
}

func TestClient_GenerateOffer_BadRequest_NoRetry(t *testing.T) {
	t.Parallel()

	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GenerateOffer(context.Background(), genai.GenerateRequest{
		Pickup:      "MG Road",
		Destination: "Airport",
	})
	if err == nil {
		t.Fatal("expected an error for a 400 response")
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("expected 1 request for a non-transient failure, got %d", got)
	}
}

func TestClient_SuggestShortcuts_DropsUnknownKinds(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"kind": "BOOK_RIDE", "title": "Back to the office", "destination": "MG Road"},
			{"kind": "WEATHER", "title": "Rain expected"},
			{"kind": "EXPLORE", "title": "Cafes near you", "query": "cafes nearby"}
		]`))
	}))
	defer server.Close()

	suggestions, err := newTestClient(server.URL).SuggestShortcuts(context.Background(), "rider", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions) != 2 {
		t.Fatalf("expected 2 suggestions after filtering, got %d", len(suggestions))
	}
	if suggestions[0].Kind != domain.SuggestionBookRide {
		t.Errorf("expected first suggestion kind BOOK_RIDE, got %q", suggestions[0].Kind)
	}
	if suggestions[1].Query != "cafes nearby" {
		t.Errorf("expected explore query to survive, got %q", suggestions[1].Query)
	}
}
