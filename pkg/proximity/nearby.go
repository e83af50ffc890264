package proximity

import (
	"context"
	"fmt"
	"sort"

	"nearby/pkg/location"
)

// DefaultRadiusKm is the search radius used when the caller passes none.
const DefaultRadiusKm = 10.0

// TrackedUser is a candidate for proximity display.
type TrackedUser struct {
	UserID      string              `json:"user_id"`
	Coordinate  location.Coordinate `json:"-"`
	DisplayName string              `json:"display_name"`
	PhotoRef    string              `json:"photo_ref,omitempty"`
}

// Nearby is a TrackedUser with its distance from the search center.
type Nearby struct {
	TrackedUser
	DistanceKm float64 `json:"distance_km"`
}

// Directory supplies candidate users around a center. Implementations may
// over-return; FindNearby does the exact filtering.
type Directory interface {
	Candidates(ctx context.Context, center location.Coordinate, radiusKm float64) ([]TrackedUser, error)
}

// FindNearby returns the candidates within radiusKm of center, nearest first.
// Equal distances keep their input order. A non-positive radius means DefaultRadiusKm.
func FindNearby(center location.Coordinate, candidates []TrackedUser, radiusKm float64) []Nearby {
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	out := make([]Nearby, 0, len(candidates))
	for _, u := range candidates {
		d := center.DistanceKm(u.Coordinate)
		if d <= radiusKm {
			out = append(out, Nearby{TrackedUser: u, DistanceKm: d})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceKm < out[j].DistanceKm
	})
	return out
}

// Finder runs FindNearby over candidates fetched from a Directory.
type Finder struct {
	dir Directory
}

func NewFinder(dir Directory) *Finder {
	return &Finder{dir: dir}
}

// Find looks up candidates and filters them. Directory errors are returned wrapped.
func (f *Finder) Find(ctx context.Context, center location.Coordinate, radiusKm float64) ([]Nearby, error) {
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	candidates, err := f.dir.Candidates(ctx, center, radiusKm)
	if err != nil {
		return nil, fmt.Errorf("find nearby: %w", err)
	}
	return FindNearby(center, candidates, radiusKm), nil
}

// Users strips distances, keeping order. Used to feed the marker projector.
func Users(results []Nearby) []TrackedUser {
	users := make([]TrackedUser, len(results))
	for i, r := range results {
		users[i] = r.TrackedUser
	}
	return users
}
