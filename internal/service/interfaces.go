package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"mindfultube/youtube"
)

type PlaylistSource interface {
	FetchPlaylistVideos(ctx context.Context, playlistID string) ([]youtube.Video, error)
}

type TranscriptSource interface {
	Transcript(ctx context.Context, videoID string) (string, error)
}

type Analyzer interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
