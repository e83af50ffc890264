package cloudinary

import (
	"strings"
	"testing"
)

func TestResolverPassesAbsoluteURLs(t *testing.T) {
	r, err := NewResolver("", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	const avatar = "https://i.pravatar.cc/150?img=1"
	if got := r.URL(avatar, CardWidth); got != avatar {
		t.Errorf("URL = %q, want %q", got, avatar)
	}
	if got := r.URL("avatars/alex", CardWidth); got != "" {
		t.Errorf("unconfigured public id resolved to %q", got)
	}
	if got := r.URL("   ", CardWidth); got != "" {
		t.Errorf("blank ref resolved to %q", got)
	}
}

func TestResolverPublicID(t *testing.T) {
	r, err := NewResolver("demo", "key", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := r.URL("avatars/alex", MarkerWidth)
	if !strings.Contains(got, "res.cloudinary.com/demo/image/upload/") {
		t.Errorf("URL = %q, missing cloud path", got)
	}
	if !strings.Contains(got, "w_48") || !strings.Contains(got, "avatars/alex") {
		t.Errorf("URL = %q, missing width or public id", got)
	}
}

func TestBuildOptimizedImageURL(t *testing.T) {
	got := BuildOptimizedImageURL("demo", "a/b", 0)
	want := "https://res.cloudinary.com/demo/image/upload/q_auto,f_auto,w_150,h_150,c_fill,g_face/a/b"
	if got != want {
		t.Errorf("URL = %q, want %q", got, want)
	}
}
