package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"
)

// ErrGeocodeNoResult 表示地理编码服务没有找到地址。
var ErrGeocodeNoResult = errors.New("address could not be geocoded")

// Coordinates is a resolved latitude/longitude pair.
type Coordinates struct {
	Latitude    float64
	Longitude   float64
	DisplayName string
}

// Geocoder resolves a free-form address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (Coordinates, error)
}

// NominatimGeocoder queries an OpenStreetMap Nominatim compatible endpoint.
type NominatimGeocoder struct {
	baseURL   string
	userAgent string
	http      httpDoer
	retry     retryPolicy
	logger    *zap.Logger
}

// NewNominatimGeocoder creates a geocoder for baseURL.
func NewNominatimGeocoder(baseURL, userAgent string, logger *zap.Logger) *NominatimGeocoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = "ticsite-api/1.0"
	}
	return &NominatimGeocoder{
		baseURL:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		userAgent: userAgent,
		http:      &http.Client{Timeout: 10 * time.Second},
		retry:     defaultRetryPolicy,
		logger:    logger,
	}
}

// SetHTTPClient overrides the transport, mostly for tests.
func (g *NominatimGeocoder) SetHTTPClient(client httpDoer) {
	if client == nil {
		g.http = &http.Client{Timeout: 10 * time.Second}
		return
	}
	g.http = client
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode returns the best match for query.
func (g *NominatimGeocoder) Geocode(ctx context.Context, query string) (Coordinates, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Coordinates{}, ErrGeocodeNoResult
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("q", query)
	endpoint := g.baseURL + "/search?" + params.Encode()

	var results []nominatimResult
	err := g.retry.run(ctx, g.logger, "geocoder", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", g.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := g.http.Do(req)
		if err != nil {
			return fmt.Errorf("request geocoder: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return fmt.Errorf("read geocoder response: %w", err)
		}
		if resp.StatusCode >= http.StatusBadRequest {
			return statusError("geocoder", resp, strings.TrimSpace(string(body)))
		}

		results = nil
		if err := json.Unmarshal(body, &results); err != nil {
			return backoff.Permanent(fmt.Errorf("decode geocoder response: %w", err))
		}
		return nil
	})
	if err != nil {
		return Coordinates{}, err
	}

	if len(results) == 0 {
		return Coordinates{}, ErrGeocodeNoResult
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("parse latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("parse longitude %q: %w", results[0].Lon, err)
	}

	return Coordinates{Latitude: lat, Longitude: lon, DisplayName: results[0].DisplayName}, nil
}
