package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/civil"
)

// Document is the root of the persisted state.
type Document struct {
	Playlists map[string]*PlaylistRecord `json:"playlists"`
	// LastFedDate is the last calendar day the daily feed ran past its gate.
	// It is nil until the first feed.
	LastFedDate *civil.Date `json:"last_fed_date"`

	index map[string][]videoRef // canonical url -> every location, PlaylistIDs order
}

// PlaylistRecord is a tracked playlist and its known videos.
type PlaylistRecord struct {
	URL       string         `json:"url"`        // URL as supplied by the user
	Videos    []*VideoRecord `json:"videos"`     // platform order
	AddedDate time.Time      `json:"added_date"` // first tracked
}

// naiveISOLayout matches timestamps written without a UTC offset, such as
// 2025-06-01T10:11:12.123456. They are read as local time.
const naiveISOLayout = "2006-01-02T15:04:05.999999999"

// UnmarshalJSON accepts added_date as RFC 3339 or as an offset-less ISO 8601
// timestamp.
func (p *PlaylistRecord) UnmarshalJSON(data []byte) error {
	type plain PlaylistRecord
	aux := struct {
		*plain
		AddedDate *string `json:"added_date"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	p.AddedDate = time.Time{}
	if aux.AddedDate == nil || *aux.AddedDate == "" {
		return nil
	}
	t, err := parseAddedDate(*aux.AddedDate)
	if err != nil {
		return err
	}
	p.AddedDate = t
	return nil
}

func parseAddedDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(naiveISOLayout, s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("added_date %q is not an ISO 8601 timestamp", s)
}

// VideoRecord is a single video. Its URL is the canonical watch URL and is
// unique across the whole document.
type VideoRecord struct {
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Fed         bool      `json:"fed"`

	// Analysis fields; nil until the video is analyzed.
	Summary          *string  `json:"summary,omitempty"`
	UsefulnessRating *string  `json:"usefulness_rating,omitempty"`
	ActionablePoints []string `json:"actionable_points,omitempty"`
}

// SetAnalysis overwrites all analysis fields.
func (v *VideoRecord) SetAnalysis(summary, rating string, points []string) {
	v.Summary = &summary
	v.UsefulnessRating = &rating
	if points == nil {
		points = []string{}
	}
	v.ActionablePoints = points
}

type videoRef struct {
	playlistID string
	position   int
}

// VideoCopy is one stored record of a video and the playlist holding it.
type VideoCopy struct {
	PlaylistID string
	Video      *VideoRecord
}

// NewDocument returns an empty document, equivalent to a missing state file.
func NewDocument() *Document {
	d := &Document{Playlists: make(map[string]*PlaylistRecord)}
	d.Reindex()
	return d
}

// PlaylistIDs returns the tracked playlist IDs in sorted order. Every
// whole-document scan walks playlists in this order.
func (d *Document) PlaylistIDs() []string {
	ids := make([]string, 0, len(d.Playlists))
	for id := range d.Playlists {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AddPlaylist stores a new playlist record under id and reindexes.
func (d *Document) AddPlaylist(id string, rec *PlaylistRecord) {
	d.Playlists[id] = rec
	d.Reindex()
}

// ReplaceVideos swaps the video list of a tracked playlist and reindexes.
func (d *Document) ReplaceVideos(id string, videos []*VideoRecord) {
	rec, ok := d.Playlists[id]
	if !ok {
		return
	}
	rec.Videos = videos
	d.Reindex()
}

// FindVideo looks up a video by its canonical URL. When the same URL appears
// in more than one playlist the first one in PlaylistIDs order wins.
func (d *Document) FindVideo(canonicalURL string) (string, *VideoRecord, bool) {
	copies := d.Copies(canonicalURL)
	if len(copies) == 0 {
		return "", nil, false
	}
	return copies[0].PlaylistID, copies[0].Video, true
}

// Copies returns every record stored under canonicalURL in PlaylistIDs order.
func (d *Document) Copies(canonicalURL string) []VideoCopy {
	if d.index == nil {
		d.Reindex()
	}
	refs := d.index[canonicalURL]
	out := make([]VideoCopy, 0, len(refs))
	for _, ref := range refs {
		out = append(out, VideoCopy{
			PlaylistID: ref.playlistID,
			Video:      d.Playlists[ref.playlistID].Videos[ref.position],
		})
	}
	return out
}

// Reindex rebuilds the URL index from the playlists.
func (d *Document) Reindex() {
	d.index = make(map[string][]videoRef)
	for _, id := range d.PlaylistIDs() {
		for pos, v := range d.Playlists[id].Videos {
			d.index[v.URL] = append(d.index[v.URL], videoRef{playlistID: id, position: pos})
		}
	}
}
