package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"meetspot_server/models"
)

// VenueDirectory supplies candidate venues near a point. Implementations may
// fail transiently; callers are responsible for retry policy.
type VenueDirectory interface {
	Search(ctx context.Context, center models.Coordinates, category string, window *models.TimeWindow) ([]models.Venue, error)
}

// PlacesVenueDirectory queries an external places-search API over HTTP
type PlacesVenueDirectory struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewPlacesVenueDirectoryFromEnv builds a directory client from
// PLACES_API_BASE_URL and PLACES_API_KEY
func NewPlacesVenueDirectoryFromEnv() *PlacesVenueDirectory {
	return &PlacesVenueDirectory{
		BaseURL:    os.Getenv("PLACES_API_BASE_URL"),
		APIKey:     os.Getenv("PLACES_API_KEY"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Search fetches venues of the given category near center. When a time
// window is supplied, the API filters to venues open at its start.
func (d *PlacesVenueDirectory) Search(ctx context.Context, center models.Coordinates, category string, window *models.TimeWindow) ([]models.Venue, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(center.Latitude, 'f', -1, 64))
	query.Set("lng", strconv.FormatFloat(center.Longitude, 'f', -1, 64))
	query.Set("category", category)
	if window != nil {
		query.Set("openAt", window.StartTime.UTC().Format(time.RFC3339))
	}

	endpoint := fmt.Sprintf("%s/venues/search?%s", d.BaseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build venue search request: %w", err)
	}
	if d.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+d.APIKey)
	}

	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("venue search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("venue search returned status %d", resp.StatusCode)
	}

	var payload struct {
		Venues []models.Venue `json:"venues"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode venue search response: %w", err)
	}

	return payload.Venues, nil
}
