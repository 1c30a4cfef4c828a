package http

import "net/http"

// isRateLimited reports whether a response is a throttling signal. YouTube
// also throttles with 403 plus rate limit headers instead of 429.
func isRateLimited(statusCode int, header http.Header) bool {
	switch statusCode {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return true
	case http.StatusForbidden:
		return hasRateLimitHeaders(header)
	}
	return false
}

func hasRateLimitHeaders(header http.Header) bool {
	if header.Get("Retry-After") != "" {
		return true
	}
	return header.Get("X-RateLimit-Remaining") == "0"
}
