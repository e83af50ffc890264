package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"nearby/internal/models"
	"nearby/pkg/location"
	"nearby/pkg/proximity"
)

var demoCenter = location.Coordinate{Latitude: 40.7128, Longitude: -74.006}

func TestDemoDirectoryCandidates(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	dir := NewDemoDirectory(now)

	got, err := dir.Candidates(context.Background(), demoCenter, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"user1", "user2", "user3"}
	if len(got) != len(want) {
		t.Fatalf("len(candidates) = %d, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].UserID != id {
			t.Errorf("candidates[%d] = %q, want %q", i, got[i].UserID, id)
		}
	}
	if got[1].DisplayName != "Sophia" {
		t.Errorf("DisplayName = %q, want Sophia", got[1].DisplayName)
	}
	if got[0].Coordinate.TimestampMs != now.Add(-time.Minute).UnixMilli() {
		t.Errorf("TimestampMs = %d", got[0].Coordinate.TimestampMs)
	}
}

func TestDemoDirectoryWithFinder(t *testing.T) {
	dir := NewDemoDirectory(time.Now())
	results, err := proximity.NewFinder(dir).Find(context.Background(), demoCenter, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	if results[0].UserID != "user1" || results[0].DistanceKm != 0 {
		t.Errorf("nearest = %+v, want user1 at 0km", results[0])
	}
	for i := 1; i < len(results); i++ {
		if results[i].DistanceKm < results[i-1].DistanceKm {
			t.Errorf("results not sorted at %d", i)
		}
	}
}

func TestMemoryDirectoryOutsideBoxAndHidden(t *testing.T) {
	dir := NewMemoryDirectory()
	dir.Put(models.Profile{UserID: "far", FirstName: "Far"}, &models.UserLocation{Latitude: 51.5, Longitude: -0.12, IsLocationVisible: true})
	dir.Put(models.Profile{UserID: "hidden", FirstName: "Hidden"}, &models.UserLocation{Latitude: 40.7128, Longitude: -74.006})
	dir.Put(models.Profile{UserID: "near", FirstName: "Near"}, &models.UserLocation{Latitude: 40.713, Longitude: -74.006, IsLocationVisible: true})

	got, _ := dir.Candidates(context.Background(), demoCenter, 10)
	if len(got) != 1 || got[0].UserID != "near" {
		t.Fatalf("candidates = %+v, want [near]", got)
	}
}

func TestMemoryDirectoryGetProfile(t *testing.T) {
	dir := NewDemoDirectory(time.Now())
	p, err := dir.GetProfile(context.Background(), "user4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.FirstName != "Emma" {
		t.Errorf("FirstName = %q, want Emma", p.FirstName)
	}
	p.FirstName = "changed"
	again, _ := dir.GetProfile(context.Background(), "user4")
	if again.FirstName != "Emma" {
		t.Errorf("GetProfile returned shared state")
	}

	if _, err := dir.GetProfile(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRowToTrackedUser(t *testing.T) {
	at := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	u := rowToTrackedUser(candidateRow{
		UserID: "42", FirstName: "Ana", PhotoRef: "avatars/ana",
		Latitude: 1.5, Longitude: 2.5, AccuracyMeters: 12, LastUpdatedAt: at,
	})
	if u.UserID != "42" || u.DisplayName != "Ana" || u.PhotoRef != "avatars/ana" {
		t.Errorf("identity fields = %+v", u)
	}
	if u.Coordinate.Latitude != 1.5 || u.Coordinate.Longitude != 2.5 || u.Coordinate.AccuracyMeters != 12 {
		t.Errorf("coordinate = %+v", u.Coordinate)
	}
	if u.Coordinate.TimestampMs != at.UnixMilli() {
		t.Errorf("TimestampMs = %d, want %d", u.Coordinate.TimestampMs, at.UnixMilli())
	}
}
