package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"nearby/config"
	"nearby/pkg/location"
	"nearby/pkg/proximity"

	"github.com/gin-gonic/gin"
)

func TestLocationErrorResponse(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{location.NewError(location.KindPermissionDenied), http.StatusForbidden},
		{location.NewError(location.KindPositionUnavailable), http.StatusServiceUnavailable},
		{location.NewError(location.KindTimeout), http.StatusGatewayTimeout},
		{location.NewError(location.KindUnsupported), http.StatusNotImplemented},
		{fmt.Errorf("wrapped: %w", location.NewError(location.KindTimeout)), http.StatusGatewayTimeout},
		{context.Canceled, http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got, _ := locationErrorResponse(tt.err); got != tt.want {
			t.Errorf("locationErrorResponse(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

type stubDirectory struct {
	users []proximity.TrackedUser
}

func (d stubDirectory) Candidates(ctx context.Context, center location.Coordinate, radiusKm float64) ([]proximity.TrackedUser, error) {
	return d.users, nil
}

func TestSearchParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewNearbyHandler(proximity.NewFinder(stubDirectory{}), nil, &config.LocationConfig{DefaultRadiusKm: 10, MaxRadiusKm: 25})

	tests := []struct {
		query      string
		wantRadius float64
		wantErr    bool
	}{
		{"lat=1&lng=2", 10, false},
		{"lat=1&lng=2&radius_km=5", 5, false},
		{"lat=1&lng=2&radius_km=-3", 10, false},
		{"lat=1&lng=2&radius_km=100", 25, false},
		{"lat=1", 0, true},
		{"lat=95&lng=2", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/nearby?"+tt.query, nil)
		_, radius, err := h.searchParams(c)
		if (err != nil) != tt.wantErr {
			t.Errorf("%q: err = %v, wantErr %v", tt.query, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && radius != tt.wantRadius {
			t.Errorf("%q: radius = %v, want %v", tt.query, radius, tt.wantRadius)
		}
	}
}

func TestLookupPresentsResults(t *testing.T) {
	dir := stubDirectory{users: []proximity.TrackedUser{
		{UserID: "far", DisplayName: "Far", Coordinate: location.Coordinate{Latitude: 40.75, Longitude: -74.006}},
		{UserID: "near", DisplayName: "Near", Coordinate: location.Coordinate{Latitude: 40.7129, Longitude: -74.006}},
		{UserID: "out", DisplayName: "Out", Coordinate: location.Coordinate{Latitude: 41.5, Longitude: -74.006}},
	}}
	h := NewNearbyHandler(proximity.NewFinder(dir), nil, &config.LocationConfig{DefaultRadiusKm: 10, MaxRadiusKm: 25})

	got, err := h.Lookup(context.Background(), location.Coordinate{Latitude: 40.7128, Longitude: -74.006})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	results := got.([]nearbyResult)
	if len(results) != 2 || results[0].ID != "near" || results[1].ID != "far" {
		t.Fatalf("results = %+v", results)
	}
	if results[0].ProximityLabel != "Very Close" || results[0].DistanceLabel != "11 m away" {
		t.Fatalf("nearest = %+v", results[0])
	}
	if results[1].DistanceLabel != "4.1 km away" {
		t.Fatalf("far label = %q", results[1].DistanceLabel)
	}
}
