package models

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	MaxBioLength = 200
	MaxInterests = 10
)

var (
	ErrBioRequired       = errors.New("please add a short bio about yourself")
	ErrBioTooLong        = errors.New("bio must be at most 200 characters")
	ErrTooManyInterests  = errors.New("you can add up to 10 interests")
	ErrInterestsRequired = errors.New("please add at least one interest")
	ErrDuplicateInterest = errors.New("this interest is already added")
)

// Profile is a Mini-App user as shown on cards and the map. Telegram supplies the
// identity fields; the rest comes from the profile forms.
type Profile struct {
	ID        uint           `gorm:"primaryKey" json:"-"`
	UserID    string         `gorm:"uniqueIndex;size:64;not null" json:"id"` // Telegram user id
	FirstName string         `gorm:"size:100;not null" json:"first_name"`
	LastName  string         `gorm:"size:100" json:"last_name,omitempty"`
	Username  string         `gorm:"size:64" json:"username,omitempty"`
	PhotoRef  string         `gorm:"size:512" json:"photo_ref,omitempty"` // absolute URL or Cloudinary public id
	Bio       string         `gorm:"size:200" json:"bio,omitempty"`
	Interests string         `gorm:"type:text" json:"-"` // comma-separated
	HeightCm  int            `json:"height,omitempty"`
	WeightKg  int            `json:"weight,omitempty"`
	BodyType  string         `gorm:"size:32" json:"body_type,omitempty"`
	Sexuality string         `gorm:"size:32" json:"sexuality,omitempty"`
	Position  string         `gorm:"size:32" json:"position,omitempty"`
	Tribe     string         `gorm:"size:32" json:"tribe,omitempty"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Location *UserLocation `gorm:"foreignKey:UserID;references:UserID" json:"-"`
}

func (Profile) TableName() string {
	return "user_profiles"
}

// DisplayName is the name drawn on the map and cards.
func (p *Profile) DisplayName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// InterestList splits the stored interests.
func (p *Profile) InterestList() []string {
	if p.Interests == "" {
		return []string{}
	}
	return strings.Split(p.Interests, ",")
}

// HasCompletedProfile reports whether the user added a bio and at least one interest.
func (p *Profile) HasCompletedProfile() bool {
	return strings.TrimSpace(p.Bio) != "" && len(p.InterestList()) > 0
}

// ProfileUpdate carries the editable profile fields. Nil means unchanged.
type ProfileUpdate struct {
	Bio       *string  `json:"bio"`
	Interests []string `json:"interests"`
	HeightCm  *int     `json:"height" binding:"omitempty,min=100,max=250"`
	WeightKg  *int     `json:"weight" binding:"omitempty,min=30,max=300"`
	BodyType  *string  `json:"body_type"`
	Sexuality *string  `json:"sexuality"`
	Position  *string  `json:"position"`
	Tribe     *string  `json:"tribe"`
}

// Apply validates u and copies it onto p. p is left untouched on error.
func (p *Profile) Apply(u ProfileUpdate) error {
	next := *p
	if u.Bio != nil {
		bio := strings.TrimSpace(*u.Bio)
		if bio == "" {
			return ErrBioRequired
		}
		if len([]rune(bio)) > MaxBioLength {
			return ErrBioTooLong
		}
		next.Bio = bio
	}
	if u.Interests != nil {
		interests, err := normalizeInterests(u.Interests)
		if err != nil {
			return err
		}
		next.Interests = strings.Join(interests, ",")
	}
	if u.HeightCm != nil {
		next.HeightCm = *u.HeightCm
	}
	if u.WeightKg != nil {
		next.WeightKg = *u.WeightKg
	}
	if u.BodyType != nil {
		next.BodyType = *u.BodyType
	}
	if u.Sexuality != nil {
		next.Sexuality = *u.Sexuality
	}
	if u.Position != nil {
		next.Position = *u.Position
	}
	if u.Tribe != nil {
		next.Tribe = *u.Tribe
	}
	*p = next
	return nil
}

func normalizeInterests(in []string) ([]string, error) {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(strings.ReplaceAll(s, ",", " "))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			return nil, ErrDuplicateInterest
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, ErrInterestsRequired
	}
	if len(out) > MaxInterests {
		return nil, ErrTooManyInterests
	}
	return out, nil
}
