package service

import (
	"sort"

	"mindfultube/internal/storage"
)

// Usefulness ratings, best first.
const (
	RatingHighlyUseful = "highly_useful"
	RatingUseful       = "useful"
	RatingReviewNeeded = "review_needed"
	RatingFluff        = "fluff"
	RatingOutdated     = "outdated"
	RatingUnknown      = "unknown"
)

var ratingOrder = map[string]int{
	RatingHighlyUseful: 0,
	RatingUseful:       1,
	RatingReviewNeeded: 2,
	RatingFluff:        3,
	RatingOutdated:     4,
	RatingUnknown:      5,
}

// Rank returns the sort position of a rating. Values outside the enumeration
// rank after unknown, so a typo sorts last instead of failing.
func Rank(rating string) int {
	if r, ok := ratingOrder[rating]; ok {
		return r
	}
	return len(ratingOrder)
}

// IsKnownRating reports whether rating is part of the enumeration.
func IsKnownRating(rating string) bool {
	_, ok := ratingOrder[rating]
	return ok
}

// videoRank treats a video without a rating as unknown.
func videoRank(v *storage.VideoRecord) int {
	if v.UsefulnessRating == nil {
		return Rank(RatingUnknown)
	}
	return Rank(*v.UsefulnessRating)
}

// sortByPriority orders candidates by rank, then newest first. Ties keep
// their input order.
func sortByPriority(candidates []storage.VideoCopy) {
	sort.SliceStable(candidates, func(i, j int) bool {
		vi, vj := candidates[i].Video, candidates[j].Video
		ri, rj := videoRank(vi), videoRank(vj)
		if ri != rj {
			return ri < rj
		}
		return vi.PublishedAt.After(vj.PublishedAt)
	})
}
