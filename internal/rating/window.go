package rating

import (
	"sort"
	"time"

	"padel-league/internal/domain"
)

// WindowDays is the trailing period the live rating table replays.
const WindowDays = 182

// Window returns the cutoff instant for a table computed at now.
func Window(now time.Time) time.Time {
	return now.AddDate(0, 0, -WindowDays)
}

// SortChronological orders matches by (played_at, id) ascending. The id
// tie-break makes replay order, and therefore floating-point accumulation,
// deterministic for matches sharing a timestamp.
func SortChronological(matches []domain.Match) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].PlayedAt.Equal(matches[j].PlayedAt) {
			return matches[i].ID < matches[j].ID
		}
		return matches[i].PlayedAt.Before(matches[j].PlayedAt)
	})
}

// Table replays the match log restricted to the trailing window and returns
// the current rating for every known player. Full replay from StartRating on
// each call; calling it twice with the same inputs returns identical values.
// Non-doubles rows are skipped.
func Table(matches []domain.Match, playerIDs []int64, now time.Time) map[int64]float64 {
	ratings := make(map[int64]float64, len(playerIDs))
	for _, id := range playerIDs {
		ratings[id] = StartRating
	}

	ordered := make([]domain.Match, len(matches))
	copy(ordered, matches)
	SortChronological(ordered)

	cutoff := Window(now)
	for _, m := range ordered {
		if m.PlayedAt.Before(cutoff) {
			continue
		}
		if !m.IsDoubles() {
			continue
		}
		applyMatch(ratings, m)
	}
	return ratings
}

// applyMatch adds each side's team delta to both teammates. Sides compute
// expectation and actual independently; actuals are complementary by
// construction of the margin.
func applyMatch(ratings map[int64]float64, m domain.Match) {
	rA := (ratingOf(ratings, m.TeamA[0]) + ratingOf(ratings, m.TeamA[1])) / 2
	rB := (ratingOf(ratings, m.TeamB[0]) + ratingOf(ratings, m.TeamB[1])) / 2

	eA := Expected(rA, rB)
	eB := Expected(rB, rA)

	ceiling := m.Format.Ceiling()
	sA := Actual(m.ScoreA-m.ScoreB, ceiling)
	sB := Actual(m.ScoreB-m.ScoreA, ceiling)

	weight := m.Format.Weight()
	dA := Delta(eA, sA, weight)
	dB := Delta(eB, sB, weight)

	ratings[m.TeamA[0]] = ratingOf(ratings, m.TeamA[0]) + dA
	ratings[m.TeamA[1]] = ratingOf(ratings, m.TeamA[1]) + dA
	ratings[m.TeamB[0]] = ratingOf(ratings, m.TeamB[0]) + dB
	ratings[m.TeamB[1]] = ratingOf(ratings, m.TeamB[1]) + dB
}

func ratingOf(ratings map[int64]float64, id int64) float64 {
	if r, ok := ratings[id]; ok {
		return r
	}
	return StartRating
}
