package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	httpclient "mindfultube/http"
	"mindfultube/internal/config"
	"mindfultube/internal/service"
	"mindfultube/internal/storage"
	"mindfultube/llm"
	"mindfultube/youtube"
)

// browserUserAgent is sent to the timedtext endpoint; the SDKs set their own.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

type app struct {
	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer
	now    func() time.Time
}

type command struct {
	name string
	args []string
	help string
	run  func(ctx context.Context, a *app, args []string) error
}

func (c command) usage() string {
	parts := []string{c.name}
	for _, arg := range c.args {
		parts = append(parts, "<"+arg+">")
	}
	return strings.Join(parts, " ")
}

var commands = []command{
	{"add", []string{"playlist_url"}, "Start tracking a playlist", cmdAdd},
	{"list", nil, "List tracked playlists", cmdList},
	{"sync", []string{"playlist_url"}, "Fetch new videos for a tracked playlist", cmdSync},
	{"analyze", []string{"video_url", "summary", "rating", "points"}, "Store a manual analysis (points separated by ';')", cmdAnalyze},
	{"auto_analyze", []string{"video_url"}, "Analyze a video with the language model", cmdAutoAnalyze},
	{"watch", []string{"video_url"}, "Mark a video as watched", cmdWatch},
	{"skip", []string{"video_url"}, "Skip a video", cmdSkip},
	{"next", nil, "Show today's videos", cmdNext},
}

func findCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// withStore runs fn under the state file lock and saves when fn reports a
// change. Nothing is written when fn fails.
func (a *app) withStore(fn func(doc *storage.Document) (changed bool, err error)) error {
	store, err := storage.NewJSONStore(a.cfg.DataFile, a.cfg.LockTimeout)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			a.logger.Warn("release state file lock", "path", store.Path(), "error", err)
		}
	}()

	changed, err := fn(store.Document())
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	if err := store.Save(); err != nil {
		return err
	}
	a.logger.Debug("state saved", "path", store.Path())
	return nil
}

func (a *app) httpClient() *httpclient.Client {
	return httpclient.New(&httpclient.Config{
		Timeout:     a.cfg.RequestTimeout,
		Retry:       a.cfg.Retry(),
		UserAgent:   browserUserAgent,
		RateLimiter: httpclient.DefaultRateLimiterConfig(),
	})
}

func (a *app) playlistSource(ctx context.Context, hc *httpclient.Client) (*youtube.PlaylistClient, error) {
	if err := a.cfg.RequireYouTubeKey(); err != nil {
		return nil, err
	}
	return youtube.NewPlaylistClient(ctx, youtube.PlaylistClientConfig{
		APIKey:     a.cfg.YouTubeAPIKey,
		HTTPClient: hc.HTTPClient(),
		Retry:      a.cfg.Retry(),
		Logger:     a.logger,
	})
}

func cmdAdd(ctx context.Context, a *app, args []string) error {
	// A malformed URL is reported before the API key is looked at.
	if _, err := youtube.PlaylistIDFromURL(args[0]); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.RequestTimeout)
	defer cancel()

	hc := a.httpClient()
	defer hc.Close()
	source, err := a.playlistSource(ctx, hc)
	if err != nil {
		return err
	}

	return a.withStore(func(doc *storage.Document) (bool, error) {
		res, err := service.NewSyncService(doc, source, a.logger, a.now).Add(ctx, args[0])
		if err != nil {
			return false, err
		}
		fmt.Fprintf(a.out, "Playlist %s added with %d videos.\n", res.PlaylistID, res.Added)
		return true, nil
	})
}

func cmdSync(ctx context.Context, a *app, args []string) error {
	if _, err := youtube.PlaylistIDFromURL(args[0]); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.RequestTimeout)
	defer cancel()

	hc := a.httpClient()
	defer hc.Close()
	source, err := a.playlistSource(ctx, hc)
	if err != nil {
		return err
	}

	return a.withStore(func(doc *storage.Document) (bool, error) {
		res, err := service.NewSyncService(doc, source, a.logger, a.now).Sync(ctx, args[0])
		if err != nil {
			return false, err
		}
		fmt.Fprintf(a.out, "Playlist %s synced. Found %d new videos.\n", res.PlaylistID, res.New)
		return true, nil
	})
}

func cmdList(_ context.Context, a *app, _ []string) error {
	return a.withStore(func(doc *storage.Document) (bool, error) {
		playlists := service.NewSyncService(doc, nil, a.logger, a.now).List()
		if len(playlists) == 0 {
			fmt.Fprintln(a.out, "No playlists are currently being tracked.")
			return false, nil
		}

		fmt.Fprintln(a.out, "--- Tracked Playlists ---")
		for _, p := range playlists {
			fmt.Fprintf(a.out, "URL: %s\n", p.URL)
			fmt.Fprintf(a.out, "  Videos: %d (Fed: %d, Unfed: %d)\n", p.Total, p.Fed, p.Unfed)
			fmt.Fprintf(a.out, "  Added: %s\n", p.AddedDate.Format(time.DateOnly))
			fmt.Fprintln(a.out, strings.Repeat("-", 25))
		}
		return false, nil
	})
}

func cmdAnalyze(_ context.Context, a *app, args []string) error {
	return a.withStore(func(doc *storage.Document) (bool, error) {
		res, err := service.NewAnalysisService(doc, nil, nil, a.logger).Analyze(args[0], args[1], args[2], args[3])
		if err != nil {
			return false, err
		}
		fmt.Fprintf(a.out, "Analysis for %s updated.\n", res.URL)
		return true, nil
	})
}

func cmdAutoAnalyze(ctx context.Context, a *app, args []string) error {
	if err := a.cfg.RequireGeminiKey(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.RequestTimeout)
	defer cancel()

	hc := a.httpClient()
	defer hc.Close()
	model, err := llm.NewGemini(ctx, llm.GeminiConfig{
		APIKey:     a.cfg.GeminiAPIKey,
		Model:      a.cfg.GeminiModel,
		HTTPClient: hc.HTTPClient(),
	})
	if err != nil {
		return err
	}
	transcripts := youtube.NewTranscriptClient(hc, "", a.cfg.TranscriptLanguages)

	return a.withStore(func(doc *storage.Document) (bool, error) {
		res, err := service.NewAnalysisService(doc, transcripts, model, a.logger).AutoAnalyze(ctx, args[0])
		if err != nil {
			return false, err
		}
		fmt.Fprintf(a.out, "Successfully auto-analyzed %s.\n", res.URL)
		fmt.Fprintf(a.out, "Summary: %s\n", res.Summary)
		fmt.Fprintf(a.out, "Usefulness: %s\n", res.Rating)
		printPoints(a.out, res.ActionablePoints)
		return true, nil
	})
}

func cmdWatch(_ context.Context, a *app, args []string) error {
	return a.withStore(func(doc *storage.Document) (bool, error) {
		v, err := service.NewFeedService(doc, a.cfg.DailyLimit, a.logger).Watch(args[0])
		if err != nil {
			return false, err
		}
		fmt.Fprintf(a.out, "Video %s marked as watched.\n", v.URL)
		return true, nil
	})
}

func cmdSkip(_ context.Context, a *app, args []string) error {
	return a.withStore(func(doc *storage.Document) (bool, error) {
		v, err := service.NewFeedService(doc, a.cfg.DailyLimit, a.logger).Skip(args[0])
		if err != nil {
			return false, err
		}
		fmt.Fprintf(a.out, "Video %s skipped.\n", v.URL)
		return true, nil
	})
}

func cmdNext(_ context.Context, a *app, _ []string) error {
	return a.withStore(func(doc *storage.Document) (bool, error) {
		res := service.NewFeedService(doc, a.cfg.DailyLimit, a.logger).Next(a.now())

		switch res.Status {
		case service.FeedCapReached:
			fmt.Fprintf(a.out, "You've already been fed %d video(s) today. Come back tomorrow!\n", res.Limit)
			return false, nil
		case service.FeedEmpty:
			printNothingToFeed(a.out)
			return false, nil
		}

		if len(res.Videos) == 0 {
			printNothingToFeed(a.out)
		}
		for _, v := range res.Videos {
			fmt.Fprintf(a.out, "Here's your next mindful video from %s:\n", v.PlaylistURL)
			fmt.Fprintf(a.out, "Title: %s\n", v.Title)
			fmt.Fprintf(a.out, "URL: %s\n", v.URL)
			if v.Summary != nil {
				fmt.Fprintf(a.out, "Summary: %s\n", *v.Summary)
			}
			if v.Rating != nil {
				fmt.Fprintf(a.out, "Usefulness: %s\n", *v.Rating)
			}
			printPoints(a.out, v.ActionablePoints)
			fmt.Fprintln(a.out)
		}
		return res.Changed(), nil
	})
}

func printNothingToFeed(w io.Writer) {
	fmt.Fprintln(w, "No new unfed videos available across all tracked playlists. Add more playlists or sync existing ones!")
}

func printPoints(w io.Writer, points []string) {
	if len(points) == 0 {
		return
	}
	fmt.Fprintln(w, "Actionable Points:")
	for _, p := range points {
		fmt.Fprintf(w, "  - %s\n", p)
	}
}
