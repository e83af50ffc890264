package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"nearby/config"
	"nearby/internal/auth"
	"nearby/internal/models"
	"nearby/internal/session"
	"nearby/pkg/cloudinary"

	"github.com/gin-gonic/gin"
)

// telegramUser is the user object from Telegram WebApp initDataUnsafe.
type telegramUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	PhotoURL  string `json:"photo_url"`
}

type SessionHandler struct {
	cfg      *config.SessionConfig
	registry *session.Registry
	photos   *cloudinary.Resolver
}

func NewSessionHandler(cfg *config.SessionConfig, registry *session.Registry, photos *cloudinary.Resolver) *SessionHandler {
	return &SessionHandler{cfg: cfg, registry: registry, photos: photos}
}

// Create opens a session for the WebView. Without a Telegram user the
// development user is used, so the Mini-App also runs in a plain browser.
func (h *SessionHandler) Create(c *gin.Context) {
	var req struct {
		User *telegramUser `json:"user"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	profile := session.DevProfile()
	if u := req.User; u != nil && u.ID != 0 {
		profile = models.Profile{
			UserID:    strconv.FormatInt(u.ID, 10),
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Username:  u.Username,
			PhotoRef:  u.PhotoURL,
		}
	}
	s := h.registry.Create(profile)
	token, err := auth.GenerateSessionToken(h.cfg, s.ID, profile.UserID)
	if err != nil {
		h.registry.Remove(s.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue session token"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"token":      token,
		"session_id": s.ID,
		"expires_in": int(h.cfg.Expiry.Seconds()),
		"user":       newProfileResponse(&profile, h.photos),
	})
}
