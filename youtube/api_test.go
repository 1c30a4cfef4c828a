package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"mindfultube/internal/retry"

	"google.golang.org/api/option"
)

// fakeDataAPI serves playlistItems.list and videos.list from memory.
type fakeDataAPI struct {
	mu sync.Mutex

	// pages are playlistItems pages; each entry is a video ID, "" for an
	// entry without contentDetails.videoId.
	pages [][]string
	// missing IDs are omitted from videos.list, like private videos.
	missing map[string]bool

	batches   [][]string
	keys      []string
	failWith  int
	failBody  string
	failCount int
}

func (f *fakeDataAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.keys = append(f.keys, r.URL.Query().Get("key"))
	if f.failWith != 0 && f.failCount != 0 {
		f.failCount--
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.failWith)
		fmt.Fprint(w, f.failBody)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/youtube/v3/playlistItems":
		f.servePlaylistItems(w, r)
	case "/youtube/v3/videos":
		f.serveVideos(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeDataAPI) servePlaylistItems(w http.ResponseWriter, r *http.Request) {
	page := 0
	if tok := r.URL.Query().Get("pageToken"); tok != "" {
		fmt.Sscanf(tok, "page-%d", &page)
	}

	type details struct {
		VideoID string `json:"videoId,omitempty"`
	}
	type item struct {
		ID             string   `json:"id"`
		ContentDetails *details `json:"contentDetails,omitempty"`
	}
	resp := struct {
		Items         []item `json:"items"`
		NextPageToken string `json:"nextPageToken,omitempty"`
	}{}

	if page < len(f.pages) {
		for i, id := range f.pages[page] {
			it := item{ID: fmt.Sprintf("item-%d-%d", page, i)}
			if id != "" {
				it.ContentDetails = &details{VideoID: id}
			}
			resp.Items = append(resp.Items, it)
		}
	}
	if page+1 < len(f.pages) {
		resp.NextPageToken = fmt.Sprintf("page-%d", page+1)
	}
	json.NewEncoder(w).Encode(resp)
}

func (f *fakeDataAPI) serveVideos(w http.ResponseWriter, r *http.Request) {
	var ids []string
	for _, v := range r.URL.Query()["id"] {
		ids = append(ids, strings.Split(v, ",")...)
	}
	f.batches = append(f.batches, ids)

	type snippet struct {
		PublishedAt string `json:"publishedAt"`
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	type item struct {
		ID      string  `json:"id"`
		Snippet snippet `json:"snippet"`
	}
	resp := struct {
		Items []item `json:"items"`
	}{}
	for _, id := range ids {
		if f.missing[id] {
			continue
		}
		resp.Items = append(resp.Items, item{
			ID: id,
			Snippet: snippet{
				PublishedAt: "2024-01-02T03:04:05Z",
				Title:       "Title " + id,
				Description: "first line\nsecond line",
			},
		})
	}
	json.NewEncoder(w).Encode(resp)
}

func newTestPlaylistClient(t *testing.T, fake *fakeDataAPI, rc retry.Config) *PlaylistClient {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := NewPlaylistClient(context.Background(), PlaylistClientConfig{
		APIKey:     "test-key",
		HTTPClient: srv.Client(),
		Retry:      rc,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Options:    []option.ClientOption{option.WithEndpoint(srv.URL + "/")},
	})
	if err != nil {
		t.Fatalf("NewPlaylistClient: %v", err)
	}
	return client
}

func TestNewPlaylistClientRequiresKey(t *testing.T) {
	if _, err := NewPlaylistClient(context.Background(), PlaylistClientConfig{}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestFetchPlaylistVideos(t *testing.T) {
	fake := &fakeDataAPI{
		pages: [][]string{
			{"a", "", "b"},
			{"c", "a"},
		},
		missing: map[string]bool{"b": true},
	}
	client := newTestPlaylistClient(t, fake, retry.DefaultConfig())

	videos, err := client.FetchPlaylistVideos(context.Background(), "PL1")
	if err != nil {
		t.Fatalf("FetchPlaylistVideos: %v", err)
	}

	var urls []string
	for _, v := range videos {
		urls = append(urls, v.URL)
	}
	want := []string{
		"https://www.youtube.com/watch?v=a",
		"https://www.youtube.com/watch?v=c",
	}
	if strings.Join(urls, " ") != strings.Join(want, " ") {
		t.Errorf("urls = %v, want %v", urls, want)
	}

	first := videos[0]
	if first.Title != "Title a" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Description != "first line second line" {
		t.Errorf("description = %q", first.Description)
	}
	if first.PublishedAt.Year() != 2024 || first.PublishedAt.Hour() != 3 {
		t.Errorf("publishedAt = %v", first.PublishedAt)
	}

	// One batch with the de-duplicated, non-empty IDs.
	if len(fake.batches) != 1 || strings.Join(fake.batches[0], ",") != "a,b,c" {
		t.Errorf("batches = %v", fake.batches)
	}
	for _, k := range fake.keys {
		if k != "test-key" {
			t.Fatalf("request sent key %q", k)
		}
	}
	if client.QuotaUsed() != 3 {
		t.Errorf("QuotaUsed = %d, want 3", client.QuotaUsed())
	}
}

func TestFetchPlaylistVideosBatchesLookups(t *testing.T) {
	var pages [][]string
	n := 0
	for _, size := range []int{50, 50, 20} {
		var page []string
		for i := 0; i < size; i++ {
			page = append(page, fmt.Sprintf("v%03d", n))
			n++
		}
		pages = append(pages, page)
	}
	fake := &fakeDataAPI{pages: pages}
	client := newTestPlaylistClient(t, fake, retry.DefaultConfig())

	videos, err := client.FetchPlaylistVideos(context.Background(), "PL1")
	if err != nil {
		t.Fatalf("FetchPlaylistVideos: %v", err)
	}
	if len(videos) != 120 {
		t.Fatalf("got %d videos, want 120", len(videos))
	}
	if videos[0].URL != WatchURL("v000") || videos[119].URL != WatchURL("v119") {
		t.Errorf("order not preserved: first %s last %s", videos[0].URL, videos[119].URL)
	}

	var sizes []int
	for _, b := range fake.batches {
		sizes = append(sizes, len(b))
	}
	if fmt.Sprint(sizes) != "[50 50 20]" {
		t.Errorf("batch sizes = %v, want [50 50 20]", sizes)
	}
}

func TestFetchPlaylistVideosEmptyPlaylist(t *testing.T) {
	client := newTestPlaylistClient(t, &fakeDataAPI{}, retry.DefaultConfig())

	videos, err := client.FetchPlaylistVideos(context.Background(), "PL1")
	if err != nil {
		t.Fatalf("FetchPlaylistVideos: %v", err)
	}
	if len(videos) != 0 {
		t.Errorf("got %d videos, want 0", len(videos))
	}
}

func TestFetchPlaylistVideosErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		reason   string
		sentinel error
	}{
		{"quota", http.StatusForbidden, "quotaExceeded", ErrQuotaExceeded},
		{"bad key", http.StatusBadRequest, "keyInvalid", ErrUnauthorized},
		{"forbidden", http.StatusForbidden, "forbidden", ErrUnauthorized},
		{"not found", http.StatusNotFound, "playlistNotFound", ErrPlaylistNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := fmt.Sprintf(`{"error":{"code":%d,"message":"%s","errors":[{"reason":"%s","message":"%s"}]}}`,
				tt.status, tt.reason, tt.reason, tt.reason)
			fake := &fakeDataAPI{pages: [][]string{{"a"}}, failWith: tt.status, failBody: body, failCount: -1}
			client := newTestPlaylistClient(t, fake, retry.DefaultConfig())

			_, err := client.FetchPlaylistVideos(context.Background(), "PL1")
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("err = %v, want %v", err, tt.sentinel)
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T", err)
			}
			if apiErr.Op != "playlistItems.list" || apiErr.PlaylistID != "PL1" {
				t.Errorf("APIError = %+v", apiErr)
			}
			if apiErr.StatusCode() != tt.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode(), tt.status)
			}
			if !strings.Contains(apiErr.Body(), tt.reason) {
				t.Errorf("Body = %q", apiErr.Body())
			}
			if !strings.Contains(err.Error(), fmt.Sprint(tt.status)) {
				t.Errorf("Error() = %q lacks status", err.Error())
			}
			if len(fake.keys) != 1 {
				t.Errorf("made %d requests, want 1", len(fake.keys))
			}
		})
	}
}

func TestFetchPlaylistVideosRetriesServerErrors(t *testing.T) {
	fake := &fakeDataAPI{
		pages:     [][]string{{"a"}},
		failWith:  http.StatusServiceUnavailable,
		failBody:  `{"error":{"code":503,"message":"backend"}}`,
		failCount: 1,
	}
	rc := retry.Config{MaxRetries: 2, InitialBackoff: 1, MaxBackoff: 1, Multiplier: 1}
	client := newTestPlaylistClient(t, fake, rc)

	videos, err := client.FetchPlaylistVideos(context.Background(), "PL1")
	if err != nil {
		t.Fatalf("FetchPlaylistVideos: %v", err)
	}
	if len(videos) != 1 {
		t.Errorf("got %d videos, want 1", len(videos))
	}
}

func TestAPIErrorClassifier(t *testing.T) {
	if apiErrorClassifier(nil) {
		t.Error("nil should not be retryable")
	}
	if apiErrorClassifier(context.Canceled) {
		t.Error("context.Canceled should not be retryable")
	}
	if !apiErrorClassifier(errors.New("connection reset")) {
		t.Error("transport errors should be retryable")
	}
}
