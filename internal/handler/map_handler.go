package handler

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"strconv"

	"nearby/config"
	"nearby/internal/middleware"
	"nearby/internal/session"
	"nearby/pkg/canvas"
	"nearby/pkg/cloudinary"
	"nearby/pkg/proximity"

	"github.com/gin-gonic/gin"
)

type markerResponse struct {
	UserID   string  `json:"user_id"`
	Name     string  `json:"name"`
	PhotoURL string  `json:"photo_url,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// MapHandler lays out nearby users on the demo map and resolves taps on it.
// The last layout drawn for a session is cached on the session so hit-tests
// match what the user sees.
type MapHandler struct {
	finder    *proximity.Finder
	projector *canvas.Projector
	photos    *cloudinary.Resolver
	mapCfg    *config.MapConfig
	locCfg    *config.LocationConfig
}

func NewMapHandler(finder *proximity.Finder, projector *canvas.Projector, photos *cloudinary.Resolver, mapCfg *config.MapConfig, locCfg *config.LocationConfig) *MapHandler {
	return &MapHandler{finder: finder, projector: projector, photos: photos, mapCfg: mapCfg, locCfg: locCfg}
}

// layout projects the session's nearby users onto a width x height canvas and caches the result.
func (h *MapHandler) layout(ctx context.Context, s *session.Session, width, height int) ([]canvas.Marker, map[string]proximity.TrackedUser, error) {
	var users []proximity.TrackedUser
	if center, ok := s.Location(); ok {
		found, err := h.finder.Find(ctx, center, h.locCfg.DefaultRadiusKm)
		if err != nil {
			return nil, nil, err
		}
		users = proximity.Users(found)
	}
	markers := h.projector.Project(users, float64(width), float64(height))
	byID := make(map[string]proximity.TrackedUser, len(users))
	for _, u := range users {
		byID[u.UserID] = u
	}
	s.SetLayout(markers)
	return markers, byID, nil
}

func validSize(width, height int) bool {
	return width > 0 && height > 0 && width <= canvas.MaxSide && height <= canvas.MaxSide
}

// Layout returns marker positions for a client-drawn map.
func (h *MapHandler) Layout(c *gin.Context) {
	var req struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validSize(req.Width, req.Height) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "width and height must be between 1 and " + strconv.Itoa(canvas.MaxSide)})
		return
	}
	markers, users, err := h.layout(c.Request.Context(), middleware.GetSession(c), req.Width, req.Height)
	if err != nil {
		log.Printf("[map] layout: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load nearby users"})
		return
	}
	out := make([]markerResponse, 0, len(markers))
	for _, m := range markers {
		u := users[m.UserID]
		out = append(out, markerResponse{
			UserID:   m.UserID,
			Name:     u.DisplayName,
			PhotoURL: h.photos.URL(u.PhotoRef, cloudinary.MarkerWidth),
			X:        m.X,
			Y:        m.Y,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"width":   req.Width,
		"height":  req.Height,
		"markers": out,
	})
}

// Hit resolves a tap at (x, y) against the last layout. user_id is null on a miss.
func (h *MapHandler) Hit(c *gin.Context) {
	var req struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.X == nil || req.Y == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "x and y are required"})
		return
	}
	markers := middleware.GetSession(c).Layout()
	id, ok := canvas.HitTest(canvas.Point{X: *req.X, Y: *req.Y}, markers, h.mapCfg.HitRadiusPx)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"user_id": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": id})
}

// Image renders the demo map as PNG and caches its layout for hit-testing.
func (h *MapHandler) Image(c *gin.Context) {
	width, height := h.mapCfg.DefaultWidth, h.mapCfg.DefaultHeight
	if v := c.Query("width"); v != "" {
		width, _ = strconv.Atoi(v)
	}
	if v := c.Query("height"); v != "" {
		height, _ = strconv.Atoi(v)
	}
	if !validSize(width, height) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "width and height must be between 1 and " + strconv.Itoa(canvas.MaxSide)})
		return
	}
	markers, users, err := h.layout(c.Request.Context(), middleware.GetSession(c), width, height)
	if err != nil {
		log.Printf("[map] layout: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load nearby users"})
		return
	}
	labels := make(map[string]string, len(users))
	for id, u := range users {
		labels[id] = u.DisplayName
	}
	var buf bytes.Buffer
	if err := canvas.Render(&buf, canvas.Scene{Width: width, Height: height, Markers: markers, Labels: labels}); err != nil {
		log.Printf("[map] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
