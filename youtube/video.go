package youtube

import (
	"strings"
	"time"
)

// Video is a playlist member as reported by the platform.
type Video struct {
	// URL is the canonical watch URL.
	URL         string
	PublishedAt time.Time
	Title       string
	// Description has newlines and carriage returns flattened to spaces.
	Description string
}

var descriptionReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// SanitizeDescription flattens line breaks so the description fits on one line.
func SanitizeDescription(s string) string {
	return descriptionReplacer.Replace(s)
}
