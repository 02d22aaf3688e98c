// Package geocoding resolves free-text addresses to coordinates through the
// OpenCage API, optionally behind a Redis cache.
package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/ports"
)

const (
	DefaultBaseURL = "https://api.opencagedata.com/geocode/v1/json"
	DefaultTimeout = 5 * time.Second
)

var ErrAPIKeyIsRequired = errors.New("opencage api key is required")

// OpenCageGeocoder calls the OpenCage forward geocoding endpoint and uses the
// best ranked result.
type OpenCageGeocoder struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

var _ ports.Geocoder = (*OpenCageGeocoder)(nil)

// NewOpenCageGeocoder creates a client. An empty baseURL selects the public
// endpoint and a nil client gets DefaultTimeout.
func NewOpenCageGeocoder(apiKey, baseURL string, client *http.Client) (*OpenCageGeocoder, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrAPIKeyIsRequired
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	return &OpenCageGeocoder{
		client:  client,
		baseURL: baseURL,
		apiKey:  apiKey,
	}, nil
}

type openCageResponse struct {
	Status struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"status"`
	Results []struct {
		Geometry struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"geometry"`
	} `json:"results"`
}

// Resolve returns ports.ErrAddressNotResolved when OpenCage answers without
// results. Quota, authentication and transport failures are returned as errors
// of their own.
func (g *OpenCageGeocoder) Resolve(ctx context.Context, address string) (kernel.GeoPoint, error) {
	if strings.TrimSpace(address) == "" {
		return kernel.GeoPoint{}, ports.ErrAddressNotResolved
	}

	query := url.Values{}
	query.Set("q", address)
	query.Set("key", g.apiKey)
	query.Set("limit", "1")
	query.Set("no_annotations", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return kernel.GeoPoint{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		// *url.Error carries the request URL, and with it the API key.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return kernel.GeoPoint{}, fmt.Errorf("opencage request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("opencage response: %w", err)
	}

	var decoded openCageResponse
	if err = json.Unmarshal(body, &decoded); err != nil {
		if resp.StatusCode != http.StatusOK {
			return kernel.GeoPoint{}, fmt.Errorf("opencage returned status %d", resp.StatusCode)
		}
		return kernel.GeoPoint{}, fmt.Errorf("opencage response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return kernel.GeoPoint{}, fmt.Errorf("opencage returned status %d: %s", resp.StatusCode, decoded.Status.Message)
	}
	if len(decoded.Results) == 0 {
		return kernel.GeoPoint{}, ports.ErrAddressNotResolved
	}

	best := decoded.Results[0].Geometry
	point, err := kernel.NewGeoPoint(best.Lat, best.Lng)
	if err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("%w: %w", ports.ErrAddressNotResolved, err)
	}
	return point, nil
}
