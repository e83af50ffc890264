package cloudinary

import (
	"fmt"
	"strings"

	cld "github.com/cloudinary/cloudinary-go/v2"
)

// Avatar sizes served to the Mini-App.
const (
	CardWidth   = 150
	MarkerWidth = 48
)

// Resolver turns a profile PhotoRef into a URL the WebView can load.
// Absolute URLs pass through; anything else is treated as a Cloudinary public id.
type Resolver struct {
	cloudName string
	cld       *cld.Cloudinary
}

// NewResolver builds a Resolver. With an empty cloud name only absolute URLs resolve.
func NewResolver(cloudName, apiKey, apiSecret string) (*Resolver, error) {
	r := &Resolver{cloudName: cloudName}
	if cloudName == "" {
		return r, nil
	}
	c, err := cld.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	r.cld = c
	return r, nil
}

// URL returns a delivery URL for ref at the given width, or "" when ref cannot be resolved.
func (r *Resolver) URL(ref string, width int) string {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return ""
	case strings.HasPrefix(ref, "https://"), strings.HasPrefix(ref, "http://"):
		return ref
	case r == nil || r.cld == nil:
		return ""
	}
	img, err := r.cld.Image(ref)
	if err != nil {
		return BuildOptimizedImageURL(r.cloudName, ref, width)
	}
	img.Transformation = avatarTransformation(width)
	u, err := img.String()
	if err != nil {
		return BuildOptimizedImageURL(r.cloudName, ref, width)
	}
	return u
}

func avatarTransformation(width int) string {
	if width <= 0 {
		width = CardWidth
	}
	return fmt.Sprintf("q_auto,f_auto,w_%d,h_%d,c_fill,g_face", width, width)
}

// BuildOptimizedImageURL returns a Cloudinary URL with the avatar transformation applied.
func BuildOptimizedImageURL(cloudName, publicID string, width int) string {
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/%s/%s",
		cloudName, avatarTransformation(width), publicID)
}
