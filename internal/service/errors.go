// Package service implements the mindfultube commands on top of the state
// document: playlist add and sync, video analysis, and the daily feed.
//
// Services mutate the *storage.Document they are given and never touch the
// filesystem. The caller saves the document when an operation reports a change.
package service

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyTracked    = errors.New("service: playlist already tracked")
	ErrNotTracked        = errors.New("service: playlist not tracked")
	ErrEmptyPlaylist     = errors.New("service: playlist has no videos")
	ErrVideoNotFound     = errors.New("service: video not found in any tracked playlist")
	ErrMalformedAnalysis = errors.New("service: malformed analysis response")
)

// AnalysisError carries the raw model output that could not be applied.
type AnalysisError struct {
	URL    string
	Output string
	Err    error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analyze %s: %v\nmodel output: %s", e.URL, e.Err, e.Output)
}

func (e *AnalysisError) Unwrap() error { return e.Err }
