package handler

import (
	"errors"
	"log"
	"net/http"

	"nearby/internal/repository"
	"nearby/pkg/cloudinary"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the profile card opened from the list or the map.
type UserHandler struct {
	dir    repository.Directory
	photos *cloudinary.Resolver
}

func NewUserHandler(dir repository.Directory, photos *cloudinary.Resolver) *UserHandler {
	return &UserHandler{dir: dir, photos: photos}
}

func (h *UserHandler) GetUser(c *gin.Context) {
	p, err := h.dir.GetProfile(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		log.Printf("[directory] get profile %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load user"})
		return
	}
	c.JSON(http.StatusOK, newProfileResponse(p, h.photos))
}
