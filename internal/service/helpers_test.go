package service

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
	"time"

	"mindfultube/internal/storage"
	"mindfultube/youtube"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr(s string) *string { return &s }

func remoteVideo(id, title, published string) youtube.Video {
	return youtube.Video{
		URL:         youtube.WatchURL(id),
		PublishedAt: date(published),
		Title:       title,
		Description: "about " + title,
	}
}

func record(id string, published string, rating *string) *storage.VideoRecord {
	return &storage.VideoRecord{
		URL:              youtube.WatchURL(id),
		PublishedAt:      date(published),
		Title:            "Video " + id,
		UsefulnessRating: rating,
	}
}

func docWith(playlists map[string][]*storage.VideoRecord) *storage.Document {
	doc := storage.NewDocument()
	for id, videos := range playlists {
		doc.AddPlaylist(id, &storage.PlaylistRecord{
			URL:       "https://www.youtube.com/playlist?list=" + id,
			Videos:    videos,
			AddedDate: date("2024-01-01"),
		})
	}
	return doc
}

func encoded(t *testing.T, doc *storage.Document) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, storage.Encode(&buf, doc))
	return buf.Bytes()
}
