// Package youtube talks to YouTube: playlist listing through the Data API v3,
// transcripts through the timedtext endpoint, and video URL canonicalization.
package youtube

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

// Sentinel errors for YouTube operations.
var (
	ErrInvalidURL            = errors.New("youtube: invalid URL")
	ErrNoPlaylistID          = errors.New("youtube: no playlist ID in URL")
	ErrPlaylistNotFound      = errors.New("youtube: playlist not found")
	ErrQuotaExceeded         = errors.New("youtube: API quota exceeded")
	ErrUnauthorized          = errors.New("youtube: API request not authorized")
	ErrTranscriptUnavailable = errors.New("youtube: transcript unavailable")
)

// APIError wraps a Data API failure with the call that produced it.
// Use errors.As() to get the status and response body:
//
//	var apiErr *youtube.APIError
//	if errors.As(err, &apiErr) {
//		fmt.Println(apiErr.StatusCode(), apiErr.Body())
//	}
type APIError struct {
	// Op is the API method ("playlistItems.list", "videos.list").
	Op string
	// PlaylistID is the playlist being fetched.
	PlaylistID string
	// Err is the underlying error, usually a *googleapi.Error.
	Err error
}

func (e *APIError) Error() string {
	var gerr *googleapi.Error
	if errors.As(e.Err, &gerr) {
		body := strings.TrimSpace(gerr.Body)
		if body == "" {
			body = gerr.Message
		}
		return fmt.Sprintf("youtube: %s for playlist %s: status %d: %s", e.Op, e.PlaylistID, gerr.Code, body)
	}
	return fmt.Sprintf("youtube: %s for playlist %s: %v", e.Op, e.PlaylistID, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status of the failed call, or 0 when the
// failure happened before a response arrived.
func (e *APIError) StatusCode() int {
	var gerr *googleapi.Error
	if errors.As(e.Err, &gerr) {
		return gerr.Code
	}
	return 0
}

// Body returns the raw response body of the failed call.
func (e *APIError) Body() string {
	var gerr *googleapi.Error
	if errors.As(e.Err, &gerr) {
		return gerr.Body
	}
	return ""
}

// Is maps API responses onto the package sentinels so callers can tell
// quota and auth failures apart from a missing playlist.
func (e *APIError) Is(target error) bool {
	var gerr *googleapi.Error
	if !errors.As(e.Err, &gerr) {
		return false
	}
	switch target {
	case ErrQuotaExceeded:
		return hasReason(gerr, "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded", "userRateLimitExceeded")
	case ErrUnauthorized:
		if gerr.Code == http.StatusUnauthorized {
			return true
		}
		if hasReason(gerr, "keyInvalid", "keyExpired", "forbidden", "accessNotConfigured") {
			return true
		}
		return gerr.Code == http.StatusForbidden && !hasReason(gerr, "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded", "userRateLimitExceeded")
	case ErrPlaylistNotFound:
		return gerr.Code == http.StatusNotFound
	}
	return false
}

func hasReason(gerr *googleapi.Error, reasons ...string) bool {
	for _, item := range gerr.Errors {
		for _, r := range reasons {
			if item.Reason == r {
				return true
			}
		}
	}
	return false
}
