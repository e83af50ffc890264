package repository

import (
	"context"
	"sync"
	"time"

	"nearby/internal/models"
	"nearby/pkg/location"
	"nearby/pkg/proximity"
)

// MemoryDirectory serves a fixed set of users from memory. It stands in for a
// backend directory in development and tests.
type MemoryDirectory struct {
	mu        sync.RWMutex
	order     []string
	profiles  map[string]*models.Profile
	locations map[string]*models.UserLocation
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		profiles:  make(map[string]*models.Profile),
		locations: make(map[string]*models.UserLocation),
	}
}

// Put adds or replaces a user. A nil loc means the user has not shared a location.
func (d *MemoryDirectory) Put(p models.Profile, loc *models.UserLocation) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.profiles[p.UserID]; !ok {
		d.order = append(d.order, p.UserID)
	}
	d.profiles[p.UserID] = &p
	if loc == nil {
		delete(d.locations, p.UserID)
		return
	}
	l := *loc
	l.UserID = p.UserID
	d.locations[p.UserID] = &l
}

// Candidates returns every user with a visible location inside the radius bounding box,
// in insertion order.
func (d *MemoryDirectory) Candidates(ctx context.Context, center location.Coordinate, radiusKm float64) ([]proximity.TrackedUser, error) {
	latMin, latMax, lngMin, lngMax := location.BoundingBox(center.Latitude, center.Longitude, radiusKm)
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]proximity.TrackedUser, 0, len(d.order))
	for _, id := range d.order {
		loc := d.locations[id]
		if loc == nil || !loc.IsLocationVisible {
			continue
		}
		if loc.Latitude < latMin || loc.Latitude > latMax || loc.Longitude < lngMin || loc.Longitude > lngMax {
			continue
		}
		out = append(out, toTrackedUser(d.profiles[id], loc))
	}
	return out, nil
}

func (d *MemoryDirectory) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// NewDemoDirectory returns the demo users around lower Manhattan. Emma has not
// shared a location and only shows up in profile lookups.
func NewDemoDirectory(now time.Time) *MemoryDirectory {
	d := NewMemoryDirectory()
	seen := func(ago time.Duration, lat, lng, acc float64) *models.UserLocation {
		return &models.UserLocation{
			Latitude:          lat,
			Longitude:         lng,
			AccuracyMeters:    acc,
			IsLocationVisible: true,
			LastUpdatedAt:     now.Add(-ago),
		}
	}
	d.Put(models.Profile{
		UserID:    "user1",
		FirstName: "Alex",
		LastName:  "Miller",
		PhotoRef:  "https://i.pravatar.cc/150?img=1",
		Bio:       "Tech enthusiast and coffee addict. Love hiking on weekends.",
		Interests: "Technology,Hiking,Coffee",
		HeightCm:  180,
		WeightKg:  75,
		BodyType:  "fit",
		Sexuality: "bi",
		Position:  "versatil",
		Tribe:     "jock",
	}, seen(time.Minute, 40.7128, -74.006, 10))
	d.Put(models.Profile{
		UserID:    "user2",
		FirstName: "Sophia",
		LastName:  "Garcia",
		PhotoRef:  "https://i.pravatar.cc/150?img=5",
		Bio:       "Digital artist and music lover. Looking for concert buddies.",
		Interests: "Art,Music",
		HeightCm:  165,
		WeightKg:  60,
		BodyType:  "promedio",
		Sexuality: "hetero",
		Position:  "activo",
		Tribe:     "twink",
	}, seen(3*time.Minute, 40.7138, -74.008, 15))
	d.Put(models.Profile{
		UserID:    "user3",
		FirstName: "James",
		LastName:  "Wong",
		PhotoRef:  "https://i.pravatar.cc/150?img=3",
		Bio:       "Foodie exploring the best restaurants in town. Amateur chef.",
		Interests: "Food,Cooking",
		HeightCm:  175,
		WeightKg:  80,
		BodyType:  "musculoso",
		Sexuality: "homosexual",
		Position:  "versatil_pas",
		Tribe:     "wolf",
	}, seen(5*time.Minute, 40.7118, -74.002, 8))
	d.Put(models.Profile{
		UserID:    "user4",
		FirstName: "Emma",
		LastName:  "Taylor",
		PhotoRef:  "https://i.pravatar.cc/150?img=9",
		Bio:       "Fitness trainer and yoga instructor. Love outdoor activities.",
		Interests: "Fitness,Yoga,Nature",
		HeightCm:  170,
		WeightKg:  65,
		BodyType:  "fit",
		Sexuality: "bi",
		Position:  "pasivo",
		Tribe:     "otter",
	}, nil)
	return d
}
