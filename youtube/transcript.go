package youtube

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	httpclient "mindfultube/http"

	"golang.org/x/text/language"
)

// DefaultTimedtextURL is YouTube's caption endpoint.
const DefaultTimedtextURL = "https://www.youtube.com/api/timedtext"

// DefaultTranscriptLanguages are tried in order when none are configured.
var DefaultTranscriptLanguages = []string{"en", "en-US"}

// Track is one caption track published for a video.
type Track struct {
	LangCode string `xml:"lang_code,attr"`
	Name     string `xml:"name,attr"`
	// LangOriginal is the language's display name ("English").
	LangOriginal string `xml:"lang_original,attr"`
	Default      bool   `xml:"lang_default,attr"`
}

type trackList struct {
	Tracks []Track `xml:"track"`
}

// TimedtextResponse is the json3 caption payload.
type TimedtextResponse struct {
	Events []TimedtextEvent `json:"events"`
}

// TimedtextEvent is one timed caption cue.
type TimedtextEvent struct {
	TStartMs    int64              `json:"tStartMs"`
	DDurationMs int64              `json:"dDurationMs"`
	Segs        []TimedtextSegment `json:"segs,omitempty"`
}

// TimedtextSegment is a run of text inside a cue.
type TimedtextSegment struct {
	UTF8 string `json:"utf8"`
}

// TranscriptClient fetches caption text from the timedtext endpoint.
type TranscriptClient struct {
	httpClient *httpclient.Client
	baseURL    string
	preferred  []language.Tag
}

// NewTranscriptClient creates a transcript client. Languages are BCP 47 tags
// in preference order; invalid tags are ignored and an empty list falls back
// to DefaultTranscriptLanguages.
func NewTranscriptClient(client *httpclient.Client, baseURL string, languages []string) *TranscriptClient {
	if client == nil {
		client = httpclient.New(nil)
	}
	if baseURL == "" {
		baseURL = DefaultTimedtextURL
	}

	preferred := parseTags(languages)
	if len(preferred) == 0 {
		preferred = parseTags(DefaultTranscriptLanguages)
	}

	return &TranscriptClient{
		httpClient: client,
		baseURL:    baseURL,
		preferred:  preferred,
	}
}

// Transcript returns the full text of the best English track for videoID.
// ErrTranscriptUnavailable is returned when no matching track exists.
func (tc *TranscriptClient) Transcript(ctx context.Context, videoID string) (string, error) {
	tracks, err := tc.ListTracks(ctx, videoID)
	if err != nil {
		return "", err
	}

	track, ok := tc.SelectTrack(tracks)
	if !ok {
		return "", fmt.Errorf("%w: no track for %v among %d for video %s",
			ErrTranscriptUnavailable, tc.preferred, len(tracks), videoID)
	}

	return tc.FetchText(ctx, videoID, track)
}

// ListTracks returns the caption tracks published for videoID.
func (tc *TranscriptClient) ListTracks(ctx context.Context, videoID string) ([]Track, error) {
	if videoID == "" {
		return nil, fmt.Errorf("video ID is required")
	}

	params := url.Values{}
	params.Set("type", "list")
	params.Set("v", videoID)

	resp, err := tc.get(ctx, videoID, params)
	if err != nil {
		return nil, fmt.Errorf("list caption tracks: %w", err)
	}

	var list trackList
	if len(strings.TrimSpace(string(resp.Body))) == 0 {
		return nil, nil
	}
	if err := xml.Unmarshal(resp.Body, &list); err != nil {
		return nil, fmt.Errorf("parse caption track list: %w", err)
	}
	return list.Tracks, nil
}

// SelectTrack picks the track closest to the preferred languages.
func (tc *TranscriptClient) SelectTrack(tracks []Track) (Track, bool) {
	var (
		supported []language.Tag
		candidate []Track
	)
	for _, t := range tracks {
		tag, err := language.Parse(t.LangCode)
		if err != nil {
			continue
		}
		supported = append(supported, tag)
		candidate = append(candidate, t)
	}
	if len(supported) == 0 {
		return Track{}, false
	}

	matcher := language.NewMatcher(supported)
	_, index, confidence := matcher.Match(tc.preferred...)
	if confidence == language.No {
		return Track{}, false
	}
	return candidate[index], true
}

// FetchText downloads a track and joins its cues with single spaces.
func (tc *TranscriptClient) FetchText(ctx context.Context, videoID string, track Track) (string, error) {
	params := url.Values{}
	params.Set("v", videoID)
	params.Set("lang", track.LangCode)
	if track.Name != "" {
		params.Set("name", track.Name)
	}
	params.Set("fmt", "json3")

	resp, err := tc.get(ctx, videoID, params)
	if err != nil {
		return "", fmt.Errorf("fetch captions: %w", err)
	}

	text, err := parseTimedtext(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse timedtext response: %w", err)
	}
	if text == "" {
		return "", fmt.Errorf("%w: empty %s track for video %s", ErrTranscriptUnavailable, track.LangCode, videoID)
	}
	return text, nil
}

func (tc *TranscriptClient) get(ctx context.Context, videoID string, params url.Values) (*httpclient.Response, error) {
	resp, err := tc.httpClient.Get(ctx, tc.baseURL+"?"+params.Encode())
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: video %s: %w", ErrTranscriptUnavailable, videoID, err)
		}
		return nil, err
	}
	return resp, nil
}

func parseTimedtext(data []byte) (string, error) {
	var resp TimedtextResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("unmarshal timedtext JSON: %w", err)
	}

	var cues []string
	for _, event := range resp.Events {
		var text strings.Builder
		for _, seg := range event.Segs {
			text.WriteString(seg.UTF8)
		}
		cue := strings.Join(strings.Fields(text.String()), " ")
		if cue != "" {
			cues = append(cues, cue)
		}
	}
	return strings.Join(cues, " "), nil
}

func parseTags(codes []string) []language.Tag {
	tags := make([]language.Tag, 0, len(codes))
	for _, code := range codes {
		tag, err := language.Parse(strings.TrimSpace(code))
		if err != nil {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}
