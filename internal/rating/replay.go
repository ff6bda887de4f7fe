package rating

import (
	"padel-league/internal/domain"
)

// Replay runs the full, unwindowed match log chronologically from
// StartRating and returns the final ratings. When visit is non-nil it is
// called after each applied match with the running table, which is how the
// records engine observes peaks and troughs as they happen. Non-doubles rows
// are skipped.
func Replay(matches []domain.Match, playerIDs []int64, visit func(m domain.Match, ratings map[int64]float64)) map[int64]float64 {
	ratings := make(map[int64]float64, len(playerIDs))
	for _, id := range playerIDs {
		ratings[id] = StartRating
	}

	ordered := make([]domain.Match, len(matches))
	copy(ordered, matches)
	SortChronological(ordered)

	for _, m := range ordered {
		if !m.IsDoubles() {
			continue
		}
		applyMatch(ratings, m)
		if visit != nil {
			visit(m, ratings)
		}
	}
	return ratings
}
