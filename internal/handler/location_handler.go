package handler

import (
	"context"
	"errors"
	"net/http"

	"nearby/internal/middleware"
	"nearby/pkg/location"

	"github.com/gin-gonic/gin"
)

// LocationHandler is the one-shot report path for devices that do not keep a
// websocket open. Fixes land in the same session feed the stream reads.
type LocationHandler struct{}

func NewLocationHandler() *LocationHandler {
	return &LocationHandler{}
}

// UpdateLocation accepts either a fix or a provider error such as
// {"error":"PERMISSION_DENIED"}.
func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	var req struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
		Accuracy  float64  `json:"accuracy"`
		Timestamp int64    `json:"timestamp"`
		Error     string   `json:"error"`
		Message   string   `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := middleware.GetSession(c)
	if req.Error != "" {
		e := location.NewError(location.ParseErrorKind(req.Error))
		if req.Message != "" {
			e.Message = req.Message
		}
		s.Feed.Fail(e)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "latitude and longitude are required"})
		return
	}
	fix := location.Coordinate{
		Latitude:       *req.Latitude,
		Longitude:      *req.Longitude,
		AccuracyMeters: req.Accuracy,
		TimestampMs:    req.Timestamp,
	}
	if !fix.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coordinate out of range"})
		return
	}
	s.Feed.Push(fix)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetMyLocation returns the session's current fix, waiting up to the fix
// timeout for the first one.
func (h *LocationHandler) GetMyLocation(c *gin.Context) {
	fix, err := middleware.GetSession(c).Feed.Current(c.Request.Context())
	if err != nil {
		status, body := locationErrorResponse(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, fix)
}

func locationErrorResponse(err error) (int, gin.H) {
	var le *location.Error
	if !errors.As(err, &le) {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout, gin.H{"error": "request canceled", "code": string(location.KindTimeout)}
		}
		return http.StatusInternalServerError, gin.H{"error": "location lookup failed"}
	}
	status := http.StatusServiceUnavailable
	switch le.Kind {
	case location.KindPermissionDenied:
		status = http.StatusForbidden
	case location.KindTimeout:
		status = http.StatusGatewayTimeout
	case location.KindUnsupported:
		status = http.StatusNotImplemented
	}
	return status, gin.H{"error": le.Error(), "code": string(le.Kind)}
}
