package repository

import (
	"context"
	"errors"

	"nearby/internal/models"
	"nearby/pkg/proximity"
)

var ErrNotFound = errors.New("not found")

// Directory is the candidate lookup behind the nearby list and the map,
// plus profile lookups for the cards.
type Directory interface {
	proximity.Directory
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
}

func toTrackedUser(p *models.Profile, loc *models.UserLocation) proximity.TrackedUser {
	u := proximity.TrackedUser{
		UserID:      p.UserID,
		DisplayName: p.FirstName,
		PhotoRef:    p.PhotoRef,
	}
	if loc != nil {
		u.Coordinate = loc.Coordinate()
	}
	return u
}
