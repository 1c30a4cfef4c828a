package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"mindfultube/internal/storage"
	"mindfultube/youtube"
)

type AnalysisService struct {
	doc         *storage.Document
	transcripts TranscriptSource
	analyzer    Analyzer
	logger      *slog.Logger
}

func NewAnalysisService(doc *storage.Document, transcripts TranscriptSource, analyzer Analyzer, logger *slog.Logger) *AnalysisService {
	return &AnalysisService{
		doc:         doc,
		transcripts: transcripts,
		analyzer:    analyzer,
		logger:      logger,
	}
}

type AnalysisResult struct {
	URL              string
	Title            string
	Summary          string
	Rating           string
	ActionablePoints []string
	// UsedTranscript is false when the model only saw title and description.
	UsedTranscript bool
}

// Analyze stores a manual analysis. Points are separated by ';'. The rating
// is stored as given.
func (s *AnalysisService) Analyze(videoURL, summary, rating, points string) (*AnalysisResult, error) {
	canonical := youtube.NormalizeVideoURL(videoURL)
	_, video, ok := s.doc.FindVideo(canonical)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrVideoNotFound, canonical)
	}

	parsed := splitPoints(points)
	video.SetAnalysis(summary, rating, parsed)

	if !IsKnownRating(rating) {
		s.logger.Debug("stored rating outside enumeration", "url", canonical, "rating", rating)
	}

	return &AnalysisResult{
		URL:              canonical,
		Title:            video.Title,
		Summary:          summary,
		Rating:           rating,
		ActionablePoints: parsed,
	}, nil
}

// AutoAnalyze asks the model for an analysis of a tracked video. The document
// is only changed when the model output parses.
func (s *AnalysisService) AutoAnalyze(ctx context.Context, videoURL string) (*AnalysisResult, error) {
	canonical := youtube.NormalizeVideoURL(videoURL)
	_, video, ok := s.doc.FindVideo(canonical)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrVideoNotFound, canonical)
	}

	videoID, err := youtube.VideoIDFromURL(canonical)
	if err != nil {
		return nil, err
	}

	logger := s.logger.With("url", canonical)
	logger.Info("auto-analyzing video", "title", video.Title)

	transcript, err := s.transcripts.Transcript(ctx, videoID)
	if err != nil {
		logger.Warn("no transcript available, analyzing title and description only", "error", err)
		transcript = ""
	}

	output, err := s.analyzer.Generate(ctx, buildPrompt(video, transcript))
	if err != nil {
		return nil, fmt.Errorf("auto-analyze %s: %w", canonical, err)
	}

	summary, rating, points, err := parseAnalysis(output)
	if err != nil {
		return nil, &AnalysisError{URL: canonical, Output: output, Err: err}
	}
	if !IsKnownRating(rating) {
		logger.Warn("model returned unknown rating, storing unknown", "rating", rating)
		rating = RatingUnknown
	}

	video.SetAnalysis(summary, rating, points)

	return &AnalysisResult{
		URL:              canonical,
		Title:            video.Title,
		Summary:          summary,
		Rating:           rating,
		ActionablePoints: video.ActionablePoints,
		UsedTranscript:   transcript != "",
	}, nil
}

func splitPoints(s string) []string {
	points := []string{}
	for _, p := range strings.Split(s, ";") {
		if p = strings.TrimSpace(p); p != "" {
			points = append(points, p)
		}
	}
	return points
}

const promptTemplate = `Analyze the following YouTube video content and provide a summary, a usefulness rating, and actionable points. The usefulness rating should be one of: 'highly_useful', 'useful', 'fluff', 'outdated', 'review_needed'. Provide the output in JSON format. If no actionable points, return an empty array.

Content:
%s

JSON Output Example:
{
  "summary": "A concise summary of the video.",
  "usefulness_rating": "useful",
  "actionable_points": [
    "Point 1",
    "Point 2"
  ]
}
`

func buildPrompt(v *storage.VideoRecord, transcript string) string {
	content := fmt.Sprintf("Title: %s\nDescription: %s", v.Title, v.Description)
	if transcript != "" {
		content += "\nTranscript: " + transcript
	}
	return fmt.Sprintf(promptTemplate, content)
}

// fenceTag matches the info string after an opening fence ("json", "JSON").
var fenceTag = regexp.MustCompile(`^[A-Za-z0-9_+-]*$`)

// stripCodeFence removes a surrounding markdown code fence, if any.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 6 || !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") {
		return s
	}
	inner := s[3 : len(s)-3]

	if nl := strings.IndexByte(inner, '\n'); nl >= 0 && fenceTag.MatchString(strings.TrimSpace(inner[:nl])) {
		inner = inner[nl+1:]
	} else if len(inner) >= 4 && strings.EqualFold(inner[:4], "json") {
		inner = inner[4:]
	}
	return strings.TrimSpace(inner)
}

type modelAnalysis struct {
	Summary          *string  `json:"summary"`
	UsefulnessRating *string  `json:"usefulness_rating"`
	ActionablePoints []string `json:"actionable_points"`
}

// parseAnalysis decodes model output, filling defaults for absent fields.
func parseAnalysis(output string) (summary, rating string, points []string, err error) {
	var m modelAnalysis
	if err := json.Unmarshal([]byte(stripCodeFence(output)), &m); err != nil {
		return "", "", nil, fmt.Errorf("%w: %v", ErrMalformedAnalysis, err)
	}

	rating = RatingUnknown
	if m.Summary != nil {
		summary = *m.Summary
	}
	if m.UsefulnessRating != nil {
		rating = *m.UsefulnessRating
	}
	points = m.ActionablePoints
	if points == nil {
		points = []string{}
	}
	return summary, rating, points, nil
}
