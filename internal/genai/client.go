package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"chaloride/internal/domain"
)

// ErrMalformedPayload is returned when the service responds with a body
// that cannot be parsed into the expected shape.
var ErrMalformedPayload = errors.New("malformed response payload")

// GenerateRequest is the request contract for offer and estimate calls.
type GenerateRequest struct {
	Pickup         string             `json:"pickup"`
	Destination    string             `json:"destination"`
	Vehicle        domain.VehicleType `json:"vehicle"`
	PassengerCount int                `json:"passenger_count"`
}

// RideGenerator is the outbound contract to the AI ride-generation service.
// Every implementation must route calls through the retry policy.
type RideGenerator interface {
	GenerateOffer(ctx context.Context, req GenerateRequest) (*domain.RideOffer, error)
	EstimateFare(ctx context.Context, req GenerateRequest) (*domain.FareEstimate, error)
	SuggestShortcuts(ctx context.Context, userName string, history []domain.CompletedRide) ([]domain.Suggestion, error)
}

// Client is the HTTP implementation of RideGenerator.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	retry   Retryer
}

// Ensure Client implements RideGenerator.
var _ RideGenerator = (*Client)(nil)

// NewClient creates a new AI-service client.
func NewClient(baseURL, apiKey string, timeout time.Duration, retry Retryer) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		retry:   retry,
	}
}

type offerPayload struct {
	DriverName     string `json:"driver_name"`
	DriverPhotoURL string `json:"driver_photo_url"`
	DriverBio      string `json:"driver_bio"`
	VehicleModel   string `json:"vehicle_model"`
	LicensePlate   string `json:"license_plate"`
	ETA            string `json:"eta"`
	Fare           string `json:"fare"`
}

type estimatePayload struct {
	EstimatedFare string `json:"estimated_fare"`
}

type suggestionsRequest struct {
	UserName string        `json:"user_name"`
	History  []historyItem `json:"history"`
}

type historyItem struct {
	Destination string `json:"destination"`
	Date        string `json:"date"`
}

type suggestionPayload struct {
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Destination string `json:"destination,omitempty"`
	Query       string `json:"query,omitempty"`
}

// GenerateOffer requests a concrete ride offer. A response that does not
// carry the required fields is a hard failure.
func (c *Client) GenerateOffer(ctx context.Context, req GenerateRequest) (*domain.RideOffer, error) {
	var payload offerPayload
	err := c.retry.Do(ctx, func(ctx context.Context) error {
		return c.post(ctx, "/v1/ride-offer", req, &payload)
	})
	if err != nil {
		return nil, err
	}

	if payload.DriverName == "" || payload.ETA == "" || payload.Fare == "" {
		return nil, ErrMalformedPayload
	}

	return &domain.RideOffer{
		DriverName:     payload.DriverName,
		DriverPhotoURL: payload.DriverPhotoURL,
		DriverBio:      payload.DriverBio,
		VehicleModel:   payload.VehicleModel,
		LicensePlate:   payload.LicensePlate,
		ETA:            payload.ETA,
		Fare:           payload.Fare,
	}, nil
}

// EstimateFare requests a lightweight fare estimate.
func (c *Client) EstimateFare(ctx context.Context, req GenerateRequest) (*domain.FareEstimate, error) {
	var payload estimatePayload
	err := c.retry.Do(ctx, func(ctx context.Context) error {
		return c.post(ctx, "/v1/fare-estimate", req, &payload)
	})
	if err != nil {
		return nil, err
	}
	if payload.EstimatedFare == "" {
		return nil, ErrMalformedPayload
	}
	return &domain.FareEstimate{EstimatedFare: payload.EstimatedFare}, nil
}

// SuggestShortcuts requests personalized suggestions for the idle screen.
func (c *Client) SuggestShortcuts(ctx context.Context, userName string, history []domain.CompletedRide) ([]domain.Suggestion, error) {
	req := suggestionsRequest{UserName: userName}
	for _, h := range history {
		req.History = append(req.History, historyItem{
			Destination: h.Destination,
			Date:        h.Date.Format(time.RFC3339),
		})
	}

	var payload []suggestionPayload
	err := c.retry.Do(ctx, func(ctx context.Context) error {
		return c.post(ctx, "/v1/suggestions", req, &payload)
	})
	if err != nil {
		return nil, err
	}

	suggestions := make([]domain.Suggestion, 0, len(payload))
	for _, p := range payload {
		kind := domain.SuggestionKind(p.Kind)
		if kind != domain.SuggestionBookRide && kind != domain.SuggestionExplore {
			continue
		}
		suggestions = append(suggestions, domain.Suggestion{
			Kind:        kind,
			Title:       p.Title,
			Destination: p.Destination,
			Query:       p.Query,
		})
	}
	return suggestions, nil
}

// post issues one attempt against the service and decodes the JSON body.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("genai: %s returned %d %s: %s",
			path, resp.StatusCode, http.StatusText(resp.StatusCode), bytes.TrimSpace(msg))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return nil
}
