package models

import (
	"errors"
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestProfileApply(t *testing.T) {
	p := &Profile{UserID: "1", FirstName: "Alex"}
	if p.HasCompletedProfile() {
		t.Fatalf("empty profile reported as completed")
	}

	height := 180
	err := p.Apply(ProfileUpdate{
		Bio:       strPtr("  Coffee and hiking  "),
		Interests: []string{"Hiking", " Music ", ""},
		HeightCm:  &height,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Bio != "Coffee and hiking" {
		t.Errorf("Bio = %q", p.Bio)
	}
	if got := strings.Join(p.InterestList(), "|"); got != "Hiking|Music" {
		t.Errorf("interests = %q, want Hiking|Music", got)
	}
	if p.HeightCm != 180 {
		t.Errorf("HeightCm = %d, want 180", p.HeightCm)
	}
	if !p.HasCompletedProfile() {
		t.Errorf("profile with bio and interests should be completed")
	}
}

func TestProfileApplyRejects(t *testing.T) {
	tooMany := make([]string, MaxInterests+1)
	for i := range tooMany {
		tooMany[i] = strings.Repeat("x", i+1)
	}
	cases := []struct {
		name string
		u    ProfileUpdate
		want error
	}{
		{"blank bio", ProfileUpdate{Bio: strPtr("   ")}, ErrBioRequired},
		{"long bio", ProfileUpdate{Bio: strPtr(strings.Repeat("a", MaxBioLength+1))}, ErrBioTooLong},
		{"duplicate", ProfileUpdate{Interests: []string{"Art", "Art"}}, ErrDuplicateInterest},
		{"too many", ProfileUpdate{Interests: tooMany}, ErrTooManyInterests},
		{"no interests", ProfileUpdate{Interests: []string{}}, ErrInterestsRequired},
		{"blank interests", ProfileUpdate{Interests: []string{" ", ""}}, ErrInterestsRequired},
	}
	for _, c := range cases {
		p := &Profile{FirstName: "Alex", Bio: "kept", Interests: "Art"}
		if err := p.Apply(c.u); !errors.Is(err, c.want) {
			t.Errorf("%s: err = %v, want %v", c.name, err, c.want)
		}
		if p.Bio != "kept" || p.Interests != "Art" {
			t.Errorf("%s: profile modified on error", c.name)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := (&Profile{FirstName: "Emma", LastName: "Taylor"}).DisplayName(); got != "Emma Taylor" {
		t.Errorf("DisplayName = %q", got)
	}
	if got := (&Profile{FirstName: "Emma"}).DisplayName(); got != "Emma" {
		t.Errorf("DisplayName = %q", got)
	}
}
