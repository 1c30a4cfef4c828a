package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mindfultube/internal/storage"
	"mindfultube/youtube"
)

type SyncService struct {
	doc    *storage.Document
	source PlaylistSource
	logger *slog.Logger
	now    func() time.Time
}

func NewSyncService(doc *storage.Document, source PlaylistSource, logger *slog.Logger, now func() time.Time) *SyncService {
	if now == nil {
		now = time.Now
	}
	return &SyncService{
		doc:    doc,
		source: source,
		logger: logger,
		now:    now,
	}
}

type AddResult struct {
	PlaylistID string
	Added      int
}

type SyncResult struct {
	PlaylistID string
	New        int
	Updated    int
	Dropped    int
	Total      int
}

// PlaylistSummary is one line of the tracked playlist listing.
type PlaylistSummary struct {
	ID        string
	URL       string
	Total     int
	Fed       int
	Unfed     int
	AddedDate time.Time
}

// Add starts tracking a playlist and stores its current videos unfed.
func (s *SyncService) Add(ctx context.Context, playlistURL string) (*AddResult, error) {
	playlistID, err := youtube.PlaylistIDFromURL(playlistURL)
	if err != nil {
		return nil, err
	}
	if _, ok := s.doc.Playlists[playlistID]; ok {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyTracked, playlistID)
	}

	s.logger.Info("adding playlist", "playlist_id", playlistID)

	remote, err := s.source.FetchPlaylistVideos(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("fetch playlist %s: %w", playlistID, err)
	}
	if len(remote) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyPlaylist, playlistID)
	}

	videos := make([]*storage.VideoRecord, 0, len(remote))
	for _, v := range remote {
		videos = append(videos, newRecord(v))
	}

	s.doc.AddPlaylist(playlistID, &storage.PlaylistRecord{
		URL:       playlistURL,
		Videos:    videos,
		AddedDate: s.now(),
	})

	s.logger.Info("playlist added", "playlist_id", playlistID, "videos", len(videos))
	return &AddResult{PlaylistID: playlistID, Added: len(videos)}, nil
}

// Sync reconciles a tracked playlist with the platform. Known videos keep
// their fed flag and analysis; new ones arrive unfed; vanished ones are dropped.
func (s *SyncService) Sync(ctx context.Context, playlistURL string) (*SyncResult, error) {
	playlistID, err := youtube.PlaylistIDFromURL(playlistURL)
	if err != nil {
		return nil, err
	}
	rec, ok := s.doc.Playlists[playlistID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotTracked, playlistID)
	}

	s.logger.Info("syncing playlist", "playlist_id", playlistID, "local", len(rec.Videos))

	remote, err := s.source.FetchPlaylistVideos(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("fetch playlist %s: %w", playlistID, err)
	}

	merged, stats := mergeVideos(rec.Videos, remote)
	stats.PlaylistID = playlistID
	s.doc.ReplaceVideos(playlistID, merged)

	s.logger.Info("playlist synced",
		"playlist_id", playlistID,
		"new", stats.New,
		"updated", stats.Updated,
		"dropped", stats.Dropped,
		"total", stats.Total)

	return stats, nil
}

// List summarizes every tracked playlist in ID order.
func (s *SyncService) List() []PlaylistSummary {
	ids := s.doc.PlaylistIDs()
	out := make([]PlaylistSummary, 0, len(ids))
	for _, id := range ids {
		rec := s.doc.Playlists[id]
		sum := PlaylistSummary{
			ID:        id,
			URL:       rec.URL,
			Total:     len(rec.Videos),
			AddedDate: rec.AddedDate,
		}
		for _, v := range rec.Videos {
			if v.Fed {
				sum.Fed++
			}
		}
		sum.Unfed = sum.Total - sum.Fed
		out = append(out, sum)
	}
	return out
}

// mergeVideos builds the new video list in remote order.
func mergeVideos(local []*storage.VideoRecord, remote []youtube.Video) ([]*storage.VideoRecord, *SyncResult) {
	existing := make(map[string]*storage.VideoRecord, len(local))
	for _, v := range local {
		key := youtube.NormalizeVideoURL(v.URL)
		if _, dup := existing[key]; !dup {
			existing[key] = v
		}
	}

	stats := &SyncResult{}
	merged := make([]*storage.VideoRecord, 0, len(remote))
	kept := make(map[string]struct{}, len(remote))
	for _, rv := range remote {
		key := youtube.NormalizeVideoURL(rv.URL)
		if _, seen := kept[key]; seen {
			continue
		}
		kept[key] = struct{}{}

		if v, ok := existing[key]; ok {
			v.URL = key
			v.PublishedAt = rv.PublishedAt
			v.Title = rv.Title
			v.Description = rv.Description
			merged = append(merged, v)
			stats.Updated++
			continue
		}

		merged = append(merged, newRecord(rv))
		stats.New++
	}

	stats.Dropped = len(existing) - stats.Updated
	stats.Total = len(merged)
	return merged, stats
}

func newRecord(v youtube.Video) *storage.VideoRecord {
	return &storage.VideoRecord{
		URL:         youtube.NormalizeVideoURL(v.URL),
		PublishedAt: v.PublishedAt,
		Title:       v.Title,
		Description: v.Description,
	}
}
