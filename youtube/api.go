package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"mindfultube/internal/retry"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	// maxPageSize is the largest page playlistItems.list will return.
	maxPageSize = 50
	// maxBatchSize is the most IDs videos.list accepts per call.
	maxBatchSize = 50
)

// PlaylistClient lists playlist members through the YouTube Data API v3.
type PlaylistClient struct {
	service *youtube.Service
	retry   retry.Config
	logger  *slog.Logger

	// quotaUsed counts estimated quota units spent by this client.
	quotaUsed int
}

// PlaylistClientConfig configures NewPlaylistClient.
type PlaylistClientConfig struct {
	APIKey string
	// HTTPClient, when set, carries every request. The API key is attached
	// to each request since the SDK ignores WithAPIKey next to a custom client.
	HTTPClient *http.Client
	Retry      retry.Config
	Logger     *slog.Logger
	// Options are appended last; tests use option.WithEndpoint.
	Options []option.ClientOption
}

// NewPlaylistClient creates a Data API client.
func NewPlaylistClient(ctx context.Context, cfg PlaylistClientConfig) (*PlaylistClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("youtube: api key required")
	}

	var opts []option.ClientOption
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(withAPIKey(cfg.HTTPClient, cfg.APIKey)))
	} else {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	opts = append(opts, cfg.Options...)

	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &PlaylistClient{
		service: service,
		retry:   cfg.Retry,
		logger:  logger,
	}, nil
}

// FetchPlaylistVideos returns every video in the playlist in platform order.
// Entries without a video ID are skipped; repeated IDs are kept once.
// Private or deleted videos that videos.list does not return are absent.
func (c *PlaylistClient) FetchPlaylistVideos(ctx context.Context, playlistID string) ([]Video, error) {
	ids, err := c.listMemberIDs(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	videos := make([]Video, 0, len(ids))
	for start := 0; start < len(ids); start += maxBatchSize {
		end := min(start+maxBatchSize, len(ids))
		batch, err := c.lookupVideos(ctx, playlistID, ids[start:end])
		if err != nil {
			return nil, err
		}
		videos = append(videos, batch...)
	}

	c.logger.Debug("fetched playlist",
		"playlist_id", playlistID,
		"members", len(ids),
		"videos", len(videos),
		"quota_units", c.quotaUsed)

	return videos, nil
}

// QuotaUsed returns the estimated quota units spent so far.
func (c *PlaylistClient) QuotaUsed() int { return c.quotaUsed }

// listMemberIDs pages through playlistItems.list until the token runs out.
func (c *PlaylistClient) listMemberIDs(ctx context.Context, playlistID string) ([]string, error) {
	var ids []string
	seen := make(map[string]struct{})

	pageToken := ""
	for {
		var resp *youtube.PlaylistItemListResponse
		err := retry.Do(ctx, c.retry, apiErrorClassifier, func(ctx context.Context) error {
			call := c.service.PlaylistItems.List([]string{"contentDetails"}).
				PlaylistId(playlistID).
				MaxResults(maxPageSize).
				Context(ctx)
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}

			var err error
			resp, err = call.Do()
			return err
		})
		if err != nil {
			return nil, &APIError{Op: "playlistItems.list", PlaylistID: playlistID, Err: err}
		}
		c.quotaUsed++

		for _, item := range resp.Items {
			if item.ContentDetails == nil || item.ContentDetails.VideoId == "" {
				c.logger.Warn("skipping playlist entry without video id",
					"playlist_id", playlistID,
					"item_id", item.Id)
				continue
			}
			id := item.ContentDetails.VideoId
			if _, dup := seen[id]; dup {
				c.logger.Debug("skipping repeated playlist entry", "playlist_id", playlistID, "video_id", id)
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			return ids, nil
		}
	}
}

// lookupVideos resolves up to maxBatchSize IDs to their snippets.
func (c *PlaylistClient) lookupVideos(ctx context.Context, playlistID string, ids []string) ([]Video, error) {
	var resp *youtube.VideoListResponse
	err := retry.Do(ctx, c.retry, apiErrorClassifier, func(ctx context.Context) error {
		var err error
		resp, err = c.service.Videos.List([]string{"snippet"}).
			Id(ids...).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return nil, &APIError{Op: "videos.list", PlaylistID: playlistID, Err: err}
	}
	c.quotaUsed++

	videos := make([]Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		v := Video{URL: WatchURL(item.Id)}
		if item.Snippet != nil {
			v.Title = item.Snippet.Title
			v.Description = SanitizeDescription(item.Snippet.Description)
			if t, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
				v.PublishedAt = t
			} else {
				c.logger.Warn("unparseable publish time",
					"video_id", item.Id,
					"published_at", item.Snippet.PublishedAt)
			}
		}
		videos = append(videos, v)
	}
	return videos, nil
}

// apiErrorClassifier retries server failures and per-user rate limits.
// Daily quota exhaustion, auth failures and 4xx responses are final.
func apiErrorClassifier(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if gerr.Code >= 500 {
			return true
		}
		return hasReason(gerr, "rateLimitExceeded", "userRateLimitExceeded")
	}

	// Transport-level failures.
	return true
}

// apiKeyTransport appends the key parameter the way option.WithAPIKey does.
type apiKeyTransport struct {
	key  string
	next http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	q := clone.URL.Query()
	q.Set("key", t.key)
	clone.URL.RawQuery = q.Encode()
	return t.next.RoundTrip(clone)
}

func withAPIKey(base *http.Client, key string) *http.Client {
	next := base.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	wrapped := *base
	wrapped.Transport = &apiKeyTransport{key: key, next: next}
	return &wrapped
}
