package services

import (
	"strconv"
	"strings"
)

const defaultRatingScore = 3

// NormalizeRating maps a free-form workout rating onto the 0-5 scale.
// Numeric values are clamped; known sentiment words get fixed scores; anything
// unrecognized (including empty) scores the neutral default so one malformed
// historical row can never fail a whole aggregation.
func NormalizeRating(raw string) float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return defaultRatingScore
	}

	if numeric, err := strconv.ParseFloat(trimmed, 64); err == nil {
		if numeric < 0 {
			return 0
		}
		if numeric > 5 {
			return 5
		}
		return numeric
	}

	lower := strings.ToLower(trimmed)
	switch {
	case strings.Contains(lower, "excellent") || strings.Contains(lower, "amazing"):
		return 5
	case strings.Contains(lower, "great") || strings.Contains(lower, "good"):
		return 4
	case strings.Contains(lower, "okay") || strings.Contains(lower, "average"):
		return 3
	case strings.Contains(lower, "poor") || strings.Contains(lower, "bad"):
		return 2
	default:
		return defaultRatingScore
	}
}

// AverageRating returns the mean normalized rating, or 0 for an empty slice.
// The zero is deliberate: clients render it as "no data", distinct from a real
// low score.
func AverageRating(ratings []string) float64 {
	if len(ratings) == 0 {
		return 0
	}

	sum := 0.0
	for _, rating := range ratings {
		sum += NormalizeRating(rating)
	}
	return sum / float64(len(ratings))
}
