package handler

import (
	"context"
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"

	"nearby/config"
	"nearby/internal/middleware"
	"nearby/pkg/cloudinary"
	"nearby/pkg/location"
	"nearby/pkg/proximity"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var errNoCenter = errors.New("lat and lng are required until the device reports a location")

// mapCellMeters is the grid other users' points are snapped to on export.
const mapCellMeters = 100

// nearbyResult is one row of the nearby list. Other users' exact coordinates
// are never exposed; the GeoJSON export snaps them to a coarse grid.
type nearbyResult struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	PhotoURL          string  `json:"photo_url,omitempty"`
	DistanceKm        float64 `json:"distance_km"`
	DistanceLabel     string  `json:"distance_label"`
	ProximityProgress float64 `json:"proximity_progress"`
	ProximityLabel    string  `json:"proximity_label,omitempty"`
}

// NearbyHandler lists users around a center.
type NearbyHandler struct {
	finder *proximity.Finder
	photos *cloudinary.Resolver
	cfg    *config.LocationConfig
}

func NewNearbyHandler(finder *proximity.Finder, photos *cloudinary.Resolver, cfg *config.LocationConfig) *NearbyHandler {
	return &NearbyHandler{finder: finder, photos: photos, cfg: cfg}
}

// Lookup runs a search with the default radius. The location stream calls it on every fix.
func (h *NearbyHandler) Lookup(ctx context.Context, center location.Coordinate) (interface{}, error) {
	found, err := h.finder.Find(ctx, center, h.cfg.DefaultRadiusKm)
	if err != nil {
		return nil, err
	}
	return h.present(found, h.cfg.DefaultRadiusKm), nil
}

func (h *NearbyHandler) present(found []proximity.Nearby, radiusKm float64) []nearbyResult {
	out := make([]nearbyResult, 0, len(found))
	for _, n := range found {
		progress := proximity.Progress(n.DistanceKm, radiusKm)
		out = append(out, nearbyResult{
			ID:                n.UserID,
			Name:              n.DisplayName,
			PhotoURL:          h.photos.URL(n.PhotoRef, cloudinary.CardWidth),
			DistanceKm:        math.Round(n.DistanceKm*1000) / 1000,
			DistanceLabel:     proximity.FormatDistance(n.DistanceKm, true),
			ProximityProgress: math.Round(progress*10) / 10,
			ProximityLabel:    proximity.Label(progress),
		})
	}
	return out
}

// Nearby returns users within radius_km of lat/lng, or of the session's last fix.
func (h *NearbyHandler) Nearby(c *gin.Context) {
	center, radiusKm, err := h.searchParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	found, err := h.finder.Find(c.Request.Context(), center, radiusKm)
	if err != nil {
		log.Printf("[nearby] find: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load nearby users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"center":    center,
		"radius_km": radiusKm,
		"count":     len(found),
		"results":   h.present(found, radiusKm),
	})
}

// GeoJSON returns the same search as a FeatureCollection: the center first,
// then one point per user snapped to a mapCellMeters grid.
func (h *NearbyHandler) GeoJSON(c *gin.Context) {
	center, radiusKm, err := h.searchParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	found, err := h.finder.Find(c.Request.Context(), center, radiusKm)
	if err != nil {
		log.Printf("[nearby] find: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load nearby users"})
		return
	}

	fc := geojson.NewFeatureCollection()
	self := geojson.NewFeature(orb.Point{center.Longitude, center.Latitude})
	self.Properties["role"] = "self"
	self.Properties["radius_km"] = radiusKm
	fc.Append(self)
	results := h.present(found, radiusKm)
	for i, n := range found {
		r := results[i]
		p := n.Coordinate.Snap(mapCellMeters)
		f := geojson.NewFeature(orb.Point{p.Longitude, p.Latitude})
		f.Properties["role"] = "user"
		f.Properties["id"] = r.ID
		f.Properties["name"] = r.Name
		f.Properties["distance_km"] = r.DistanceKm
		f.Properties["distance_label"] = r.DistanceLabel
		f.Properties["proximity_label"] = r.ProximityLabel
		if r.PhotoURL != "" {
			f.Properties["photo_url"] = r.PhotoURL
		}
		fc.Append(f)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "encode geojson failed"})
		return
	}
	c.Data(http.StatusOK, "application/geo+json", data)
}

// searchParams resolves the search center and radius. The radius falls back to
// the default when missing or non-positive and is capped at the configured maximum.
func (h *NearbyHandler) searchParams(c *gin.Context) (location.Coordinate, float64, error) {
	radiusKm, _ := strconv.ParseFloat(c.Query("radius_km"), 64)
	if radiusKm <= 0 || math.IsNaN(radiusKm) {
		radiusKm = h.cfg.DefaultRadiusKm
	}
	if radiusKm > h.cfg.MaxRadiusKm {
		radiusKm = h.cfg.MaxRadiusKm
	}

	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr == "" && lngStr == "" {
		if s := middleware.GetSession(c); s != nil {
			if fix, ok := s.Location(); ok {
				return fix, radiusKm, nil
			}
		}
		return location.Coordinate{}, 0, errNoCenter
	}
	lat, errLat := strconv.ParseFloat(latStr, 64)
	lng, errLng := strconv.ParseFloat(lngStr, 64)
	center := location.Coordinate{Latitude: lat, Longitude: lng}
	if errLat != nil || errLng != nil || !center.Valid() {
		return location.Coordinate{}, 0, errors.New("invalid lat or lng")
	}
	return center, radiusKm, nil
}
