// Package canvas lays nearby users out on the demo map and resolves pointer hits.
//
// The layout is a heuristic ring around the viewer, not a geographic projection:
// the demo map has no tiles, so true lat/lng ratios are discarded and users are
// spread evenly by angle with a random radius.
package canvas

import (
	"hash/fnv"
	"math"
	"math/rand"

	"nearby/pkg/proximity"
)

const (
	DefaultBaseRadiusPx  = 50.0
	DefaultJitterRangePx = 50.0
)

// Marker is a user's position on the canvas for one render.
type Marker struct {
	UserID string  `json:"user_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Point is a pixel coordinate in canvas space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RandSource yields values in [0, 1). *rand.Rand satisfies it.
type RandSource interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// Projector places users on a ring around the canvas center.
type Projector struct {
	BaseRadiusPx  float64
	JitterRangePx float64
	// Stable derives each user's jitter from its id so positions survive redraws.
	Stable bool
	Rand   RandSource
}

// NewProjector returns a projector with default radii and an unseeded random source.
func NewProjector() *Projector {
	return &Projector{
		BaseRadiusPx:  DefaultBaseRadiusPx,
		JitterRangePx: DefaultJitterRangePx,
		Rand:          globalRand{},
	}
}

// Project returns one marker per user, in input order. User i of n sits at angle
// i/n*2π and distance base+jitter from the center.
func (p *Projector) Project(users []proximity.TrackedUser, width, height float64) []Marker {
	markers := make([]Marker, 0, len(users))
	if len(users) == 0 {
		return markers
	}
	cx, cy := width/2, height/2
	n := float64(len(users))
	for i, u := range users {
		angle := float64(i) / n * 2 * math.Pi
		distance := p.BaseRadiusPx + p.jitter(u.UserID)*p.JitterRangePx
		markers = append(markers, Marker{
			UserID: u.UserID,
			X:      cx + math.Cos(angle)*distance,
			Y:      cy + math.Sin(angle)*distance,
		})
	}
	return markers
}

func (p *Projector) jitter(userID string) float64 {
	if p.Stable {
		h := fnv.New64a()
		h.Write([]byte(userID))
		return rand.New(rand.NewSource(int64(h.Sum64()))).Float64()
	}
	if p.Rand == nil {
		return rand.Float64()
	}
	return p.Rand.Float64()
}
