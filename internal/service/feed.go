package service

import (
	"fmt"
	"log/slog"
	"time"

	"mindfultube/internal/storage"
	"mindfultube/youtube"

	"cloud.google.com/go/civil"
)

// DefaultDailyLimit is the number of videos one feed releases.
const DefaultDailyLimit = 2

type FeedStatus int

const (
	// FeedDelivered means the selector ran and stamped today.
	FeedDelivered FeedStatus = iota
	// FeedCapReached means today's feed already happened.
	FeedCapReached
	// FeedEmpty means no unfed video exists anywhere.
	FeedEmpty
)

func (s FeedStatus) String() string {
	switch s {
	case FeedDelivered:
		return "delivered"
	case FeedCapReached:
		return "cap_reached"
	case FeedEmpty:
		return "empty"
	}
	return fmt.Sprintf("FeedStatus(%d)", int(s))
}

// FedVideo is a video released by the feed.
type FedVideo struct {
	PlaylistURL      string
	Title            string
	URL              string
	Summary          *string
	Rating           *string
	ActionablePoints []string
}

type FeedResult struct {
	Status FeedStatus
	Date   civil.Date
	Limit  int
	Videos []FedVideo
}

// Changed reports whether the document must be saved.
func (r *FeedResult) Changed() bool { return r.Status == FeedDelivered }

type FeedService struct {
	doc        *storage.Document
	dailyLimit int
	logger     *slog.Logger
}

func NewFeedService(doc *storage.Document, dailyLimit int, logger *slog.Logger) *FeedService {
	if dailyLimit < 1 {
		dailyLimit = DefaultDailyLimit
	}
	return &FeedService{
		doc:        doc,
		dailyLimit: dailyLimit,
		logger:     logger,
	}
}

// Next releases up to the daily limit of unfed videos, best rated and newest
// first, at most once per calendar day of now.
func (s *FeedService) Next(now time.Time) *FeedResult {
	today := civil.DateOf(now)
	result := &FeedResult{Date: today, Limit: s.dailyLimit}

	if last := s.doc.LastFedDate; last != nil && *last == today {
		s.logger.Info("daily feed already delivered", "date", today.String())
		result.Status = FeedCapReached
		return result
	}

	var candidates []storage.VideoCopy
	for _, id := range s.doc.PlaylistIDs() {
		for _, v := range s.doc.Playlists[id].Videos {
			if !v.Fed {
				candidates = append(candidates, storage.VideoCopy{PlaylistID: id, Video: v})
			}
		}
	}
	if len(candidates) == 0 {
		s.logger.Info("no unfed videos")
		result.Status = FeedEmpty
		return result
	}

	sortByPriority(candidates)

	for _, c := range candidates {
		if len(result.Videos) >= s.dailyLimit {
			break
		}
		// Feeding a video marks every copy of its URL, so a later
		// candidate may already be fed.
		v := c.Video
		if v.Fed {
			continue
		}
		s.markCopies(v.URL)
		result.Videos = append(result.Videos, FedVideo{
			PlaylistURL:      s.doc.Playlists[c.PlaylistID].URL,
			Title:            v.Title,
			URL:              v.URL,
			Summary:          v.Summary,
			Rating:           v.UsefulnessRating,
			ActionablePoints: v.ActionablePoints,
		})
	}

	s.doc.LastFedDate = &today
	result.Status = FeedDelivered

	s.logger.Info("daily feed delivered",
		"date", today.String(),
		"fed", len(result.Videos),
		"candidates", len(candidates),
		"limit", s.dailyLimit)
	return result
}

// Watch marks a video consumed outside the daily feed.
func (s *FeedService) Watch(videoURL string) (*storage.VideoRecord, error) {
	return s.markFed(videoURL, "watched")
}

// Skip marks a video as not worth feeding. The effect equals Watch.
func (s *FeedService) Skip(videoURL string) (*storage.VideoRecord, error) {
	return s.markFed(videoURL, "skipped")
}

func (s *FeedService) markFed(videoURL, action string) (*storage.VideoRecord, error) {
	canonical := youtube.NormalizeVideoURL(videoURL)
	_, v, ok := s.doc.FindVideo(canonical)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrVideoNotFound, canonical)
	}
	marked := s.markCopies(canonical)
	s.logger.Info("video marked fed", "url", canonical, "action", action, "copies", marked)
	return v, nil
}

// markCopies sets fed on every record stored under url and returns how many
// were still unfed.
func (s *FeedService) markCopies(url string) int {
	marked := 0
	for _, c := range s.doc.Copies(url) {
		if !c.Video.Fed {
			c.Video.Fed = true
			marked++
		}
	}
	return marked
}
