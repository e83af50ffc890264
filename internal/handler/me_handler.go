package handler

import (
	"net/http"

	"nearby/internal/middleware"
	"nearby/internal/models"
	"nearby/pkg/cloudinary"

	"github.com/gin-gonic/gin"
)

// profileResponse is the profile as the Mini-App renders it.
type profileResponse struct {
	ID                  string   `json:"id"`
	FirstName           string   `json:"first_name"`
	LastName            string   `json:"last_name,omitempty"`
	Username            string   `json:"username,omitempty"`
	DisplayName         string   `json:"display_name"`
	PhotoURL            string   `json:"photo_url,omitempty"`
	Bio                 string   `json:"bio,omitempty"`
	Interests           []string `json:"interests"`
	Height              int      `json:"height,omitempty"`
	Weight              int      `json:"weight,omitempty"`
	BodyType            string   `json:"body_type,omitempty"`
	Sexuality           string   `json:"sexuality,omitempty"`
	Position            string   `json:"position,omitempty"`
	Tribe               string   `json:"tribe,omitempty"`
	HasCompletedProfile bool     `json:"has_completed_profile"`
}

func newProfileResponse(p *models.Profile, photos *cloudinary.Resolver) profileResponse {
	return profileResponse{
		ID:                  p.UserID,
		FirstName:           p.FirstName,
		LastName:            p.LastName,
		Username:            p.Username,
		DisplayName:         p.DisplayName(),
		PhotoURL:            photos.URL(p.PhotoRef, cloudinary.CardWidth),
		Bio:                 p.Bio,
		Interests:           p.InterestList(),
		Height:              p.HeightCm,
		Weight:              p.WeightKg,
		BodyType:            p.BodyType,
		Sexuality:           p.Sexuality,
		Position:            p.Position,
		Tribe:               p.Tribe,
		HasCompletedProfile: p.HasCompletedProfile(),
	}
}

// MeHandler serves the session's own profile.
type MeHandler struct {
	photos *cloudinary.Resolver
}

func NewMeHandler(photos *cloudinary.Resolver) *MeHandler {
	return &MeHandler{photos: photos}
}

func (h *MeHandler) GetProfile(c *gin.Context) {
	p := middleware.GetSession(c).Profile()
	c.JSON(http.StatusOK, newProfileResponse(&p, h.photos))
}

// UpdateProfile applies the profile form. Validation failures leave the profile unchanged.
func (h *MeHandler) UpdateProfile(c *gin.Context) {
	var req models.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := middleware.GetSession(c).UpdateProfile(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, newProfileResponse(&p, h.photos))
}
