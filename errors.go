package mindfultube

import (
	"mindfultube/internal/config"
	"mindfultube/internal/retry"
	"mindfultube/internal/service"
	"mindfultube/internal/storage"
	"mindfultube/youtube"
)

// Type aliases for convenient error handling.
type (
	// APIError wraps a failed YouTube Data API call.
	APIError = youtube.APIError
	// AnalysisError carries model output that could not be parsed.
	AnalysisError = service.AnalysisError
	// StorageError wraps errors during state file operations.
	StorageError = storage.StorageError
	// RetryableError wraps errors that outlived every retry.
	RetryableError = retry.RetryableError
)

// Sentinel errors exported from sub-packages.
var (
	// ErrInvalidURL indicates a URL could not be parsed or has no video ID.
	ErrInvalidURL = youtube.ErrInvalidURL
	// ErrNoPlaylistID indicates a URL without a list parameter.
	ErrNoPlaylistID = youtube.ErrNoPlaylistID
	// ErrPlaylistNotFound indicates the platform does not know the playlist.
	ErrPlaylistNotFound = youtube.ErrPlaylistNotFound
	// ErrQuotaExceeded indicates the Data API quota is exhausted.
	ErrQuotaExceeded = youtube.ErrQuotaExceeded
	// ErrUnauthorized indicates the API key was rejected.
	ErrUnauthorized = youtube.ErrUnauthorized
	// ErrTranscriptUnavailable indicates no usable caption track.
	ErrTranscriptUnavailable = youtube.ErrTranscriptUnavailable

	ErrAlreadyTracked    = service.ErrAlreadyTracked
	ErrNotTracked        = service.ErrNotTracked
	ErrEmptyPlaylist     = service.ErrEmptyPlaylist
	ErrVideoNotFound     = service.ErrVideoNotFound
	ErrMalformedAnalysis = service.ErrMalformedAnalysis

	// Storage errors
	// ErrStorageCorrupt indicates the state file could not be decoded.
	ErrStorageCorrupt = storage.ErrStorageCorrupt
	// ErrLockTimeout indicates another process holds the state file.
	ErrLockTimeout = storage.ErrLockTimeout

	// ErrMissingAPIKey indicates a command needs an unconfigured key.
	ErrMissingAPIKey = config.ErrMissingAPIKey
	// ErrInvalidConfig indicates configuration failed to load or validate.
	ErrInvalidConfig = config.ErrInvalidConfig
)

// IsRetryable determines if an error should be retried.
// It returns false for context cancellation and permanent errors.
func IsRetryable(err error) bool {
	return retry.IsRetryable(err)
}
