// Package mindfultube is a personal YouTube playlist triage tool.
//
// It tracks playlists, pulls their videos through the YouTube Data API,
// optionally rates each video with a language model, and releases a small
// number of unwatched videos per day, best rated first.
//
// Overview
//
// The command line tool in the cli directory drives everything through one
// state file:
//
//	mindfultube add https://www.youtube.com/playlist?list=PLxxxx
//	mindfultube sync https://www.youtube.com/playlist?list=PLxxxx
//	mindfultube auto_analyze https://youtu.be/dQw4w9WgXcQ
//	mindfultube next
//
// Packages
//
//   - youtube: URL canonicalization, Data API playlist client, transcripts
//   - llm: Gemini text generation
//   - http: shared rate-limited HTTP client
//   - internal/storage: the JSON state document, atomic writes, file lock
//   - internal/service: add, sync, analysis and the daily feed
//   - internal/config: YAML, .env and environment configuration
//
// Error Handling
//
// Errors are sentinel values wrapped with context. This package re-exports
// them so callers can match with errors.Is and errors.As:
//
//	if errors.Is(err, mindfultube.ErrVideoNotFound) {
//		fmt.Println("track the playlist first")
//	}
//
//	var apiErr *mindfultube.APIError
//	if errors.As(err, &apiErr) {
//		fmt.Println(apiErr.StatusCode(), apiErr.Body())
//	}
package mindfultube
