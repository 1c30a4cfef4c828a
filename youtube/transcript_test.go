package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpclient "mindfultube/http"
)

const trackListXML = `<?xml version="1.0" encoding="utf-8" ?>
<transcript_list docid="123">
<track id="0" name="" lang_code="fr" lang_original="Français" lang_translated="French"/>
<track id="1" name="CC" lang_code="en" lang_original="English" lang_translated="English" lang_default="true"/>
</transcript_list>`

const captionsJSON = `{"events":[
{"tStartMs":0,"dDurationMs":1000,"segs":[{"utf8":"hello"},{"utf8":" world"}]},
{"tStartMs":1000,"dDurationMs":10},
{"tStartMs":1200,"dDurationMs":900,"segs":[{"utf8":"\n"}]},
{"tStartMs":2000,"dDurationMs":1000,"segs":[{"utf8":"second\nline"}]}
]}`

func newTestTranscriptClient(t *testing.T, handler http.HandlerFunc, langs ...string) *TranscriptClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := httpclient.New(&httpclient.Config{Timeout: 5 * time.Second})
	return NewTranscriptClient(client, srv.URL+"/api/timedtext", langs)
}

func TestTranscript(t *testing.T) {
	var fetched []string
	tc := newTestTranscriptClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("v") != "vid1" {
			http.NotFound(w, r)
			return
		}
		if q.Get("type") == "list" {
			w.Write([]byte(trackListXML))
			return
		}
		fetched = append(fetched, q.Get("lang")+"/"+q.Get("name")+"/"+q.Get("fmt"))
		w.Write([]byte(captionsJSON))
	})

	text, err := tc.Transcript(context.Background(), "vid1")
	if err != nil {
		t.Fatalf("Transcript: %v", err)
	}
	if want := "hello world second line"; text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
	if len(fetched) != 1 || fetched[0] != "en/CC/json3" {
		t.Errorf("fetched = %v, want [en/CC/json3]", fetched)
	}
}

func TestTranscriptNoEnglishTrack(t *testing.T) {
	tc := newTestTranscriptClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<transcript_list><track lang_code="de"/><track lang_code="ja"/></transcript_list>`))
	})

	_, err := tc.Transcript(context.Background(), "vid1")
	if !errors.Is(err, ErrTranscriptUnavailable) {
		t.Fatalf("err = %v, want ErrTranscriptUnavailable", err)
	}
}

func TestTranscriptNoTracks(t *testing.T) {
	tc := newTestTranscriptClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := tc.Transcript(context.Background(), "vid1")
	if !errors.Is(err, ErrTranscriptUnavailable) {
		t.Fatalf("err = %v, want ErrTranscriptUnavailable", err)
	}
}

func TestTranscriptNotFound(t *testing.T) {
	tc := newTestTranscriptClient(t, http.NotFound)

	_, err := tc.Transcript(context.Background(), "vid1")
	if !errors.Is(err, ErrTranscriptUnavailable) {
		t.Fatalf("err = %v, want ErrTranscriptUnavailable", err)
	}
}

func TestTranscriptServerError(t *testing.T) {
	tc := newTestTranscriptClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := tc.Transcript(context.Background(), "vid1")
	if err == nil {
		t.Fatal("expected error")
	}
	var httpErr *httpclient.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("err = %v, want HTTPError 500", err)
	}
}

func TestSelectTrack(t *testing.T) {
	tc := NewTranscriptClient(nil, "", nil)

	tests := []struct {
		name   string
		tracks []Track
		want   string
		ok     bool
	}{
		{"exact en", []Track{{LangCode: "fr"}, {LangCode: "en"}}, "en", true},
		{"regional only", []Track{{LangCode: "de"}, {LangCode: "en-US"}}, "en-US", true},
		{"prefers en over en-US", []Track{{LangCode: "en-US"}, {LangCode: "en"}}, "en", true},
		{"no english", []Track{{LangCode: "de"}, {LangCode: "ja"}}, "", false},
		{"unparseable codes", []Track{{LangCode: "??"}}, "", false},
		{"none", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tc.SelectTrack(tt.tracks)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got.LangCode != tt.want {
				t.Errorf("LangCode = %q, want %q", got.LangCode, tt.want)
			}
		})
	}
}

func TestParseTimedtextRejectsGarbage(t *testing.T) {
	if _, err := parseTimedtext([]byte("<html>")); err == nil {
		t.Fatal("expected error")
	}
}
