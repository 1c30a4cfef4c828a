package youtube

import (
	"fmt"
	"net/url"
	"strings"
)

// watchURLPrefix is the canonical form every video URL normalizes to.
const watchURLPrefix = "https://www.youtube.com/watch?v="

// NormalizeVideoURL returns the canonical watch URL for a video reference.
// It recognizes watch pages (?v=ID), /embed/ID paths and youtu.be/ID short
// links. Anything it does not recognize is returned unchanged, so the result
// is only a join key, not proof of a valid video.
func NormalizeVideoURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	var id string
	switch strings.ToLower(u.Host) {
	case "www.youtube.com", "youtube.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/embed/"):
			id = pathSegment(u.Path, 1)
		}
	case "youtu.be":
		id = pathSegment(u.Path, 0)
	}

	if id == "" {
		return raw
	}
	return WatchURL(id)
}

// WatchURL builds the canonical URL for a video ID.
func WatchURL(videoID string) string {
	return watchURLPrefix + url.QueryEscape(videoID)
}

// VideoIDFromURL extracts the video ID from a video URL, normalizing first.
func VideoIDFromURL(raw string) (string, error) {
	canonical := NormalizeVideoURL(raw)
	if !strings.HasPrefix(canonical, watchURLPrefix) {
		return "", fmt.Errorf("%w: no video ID in %q", ErrInvalidURL, raw)
	}
	u, err := url.Parse(canonical)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidURL, raw, err)
	}
	id := u.Query().Get("v")
	if id == "" {
		return "", fmt.Errorf("%w: no video ID in %q", ErrInvalidURL, raw)
	}
	return id, nil
}

// PlaylistIDFromURL returns the list= parameter of a youtube.com URL.
// A URL without one yields ErrNoPlaylistID; an unparseable one ErrInvalidURL.
func PlaylistIDFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidURL, raw, err)
	}
	if !strings.Contains(strings.ToLower(u.Host), "youtube.com") {
		return "", fmt.Errorf("%w: %q", ErrNoPlaylistID, raw)
	}
	id := u.Query().Get("list")
	if id == "" {
		return "", fmt.Errorf("%w: %q", ErrNoPlaylistID, raw)
	}
	return id, nil
}

// pathSegment returns the n-th non-leading segment of p ("/a/b" -> a, b).
func pathSegment(p string, n int) string {
	parts := strings.Split(strings.TrimPrefix(p, "/"), "/")
	if n >= len(parts) {
		return ""
	}
	return parts[n]
}
