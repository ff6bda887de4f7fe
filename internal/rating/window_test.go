package rating

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"padel-league/internal/domain"
)

var allPlayers = []int64{1, 2, 3, 4}

func doubles(id int64, playedAt time.Time, format domain.Format, teamA, teamB []int64, scoreA, scoreB int) domain.Match {
	return domain.Match{
		ID:       id,
		PlayedAt: playedAt,
		Format:   format,
		TeamA:    teamA,
		TeamB:    teamB,
		ScoreA:   scoreA,
		ScoreB:   scoreB,
	}
}

func TestTableSingleMatch(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	log := []domain.Match{
		doubles(1, now, domain.FormatTo6, []int64{1, 2}, []int64{3, 4}, 6, 3),
	}

	ratings := Table(log, allPlayers, now)

	require.Len(t, ratings, 4)
	assert.InDelta(t, 1004.2, ratings[1], 1e-9)
	assert.InDelta(t, 1004.2, ratings[2], 1e-9)
	assert.InDelta(t, 995.8, ratings[3], 1e-9)
	assert.InDelta(t, 995.8, ratings[4], 1e-9)
}

func TestTableTeamSymmetry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	log := []domain.Match{
		doubles(1, now.Add(-48*time.Hour), domain.FormatTo6, []int64{1, 2}, []int64{3, 4}, 6, 1),
		doubles(2, now.Add(-24*time.Hour), domain.FormatTo4, []int64{1, 3}, []int64{2, 4}, 2, 4),
	}

	ratings := Table(log, allPlayers, now)

	// Teammates of the most recent match moved by the same amount from their
	// pre-match values.
	before := Table(log[:1], allPlayers, now)
	assert.InDelta(t, ratings[1]-before[1], ratings[3]-before[3], 1e-12)
	assert.InDelta(t, ratings[2]-before[2], ratings[4]-before[4], 1e-12)
}

func TestTableIdempotent(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	log := []domain.Match{
		doubles(1, now.Add(-100*time.Hour), domain.FormatTo6, []int64{1, 2}, []int64{3, 4}, 6, 4),
		doubles(2, now.Add(-80*time.Hour), domain.FormatTo3, []int64{1, 3}, []int64{2, 4}, 1, 3),
		doubles(3, now.Add(-10*time.Hour), domain.FormatTo4, []int64{1, 4}, []int64{2, 3}, 5, 4),
	}

	first := Table(log, allPlayers, now)
	second := Table(log, allPlayers, now)
	assert.Equal(t, first, second, "same log and same now must reproduce identical output")
}

func TestTableWindowExcludesOldMatches(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	old := doubles(1, now.AddDate(0, 0, -WindowDays-1), domain.FormatTo6, []int64{1, 2}, []int64{3, 4}, 6, 0)

	ratings := Table([]domain.Match{old}, allPlayers, now)
	for _, id := range allPlayers {
		assert.Equal(t, StartRating, ratings[id], "player %d", id)
	}
}

func TestTableWindowBoundaryShift(t *testing.T) {
	playedAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	log := []domain.Match{
		doubles(1, playedAt, domain.FormatTo6, []int64{1, 2}, []int64{3, 4}, 6, 2),
	}

	inside := Table(log, allPlayers, playedAt.AddDate(0, 0, WindowDays))
	assert.Greater(t, inside[1], StartRating)

	// Moving now one day past the boundary removes the contribution.
	outside := Table(log, allPlayers, playedAt.AddDate(0, 0, WindowDays+1))
	assert.Equal(t, StartRating, outside[1])
}

func TestTableSkipsNonDoubles(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	malformed := domain.Match{
		ID:       1,
		PlayedAt: now,
		Format:   domain.FormatTo6,
		TeamA:    []int64{1},
		TeamB:    []int64{3, 4},
		ScoreA:   6,
		ScoreB:   0,
	}

	ratings := Table([]domain.Match{malformed}, allPlayers, now)
	for _, id := range allPlayers {
		assert.Equal(t, StartRating, ratings[id])
	}
}

func TestTableTiebreakOrderIsPartOfContract(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	at := now.Add(-time.Hour)

	// Two matches at the identical instant: id order decides replay order.
	a := doubles(1, at, domain.FormatTo6, []int64{1, 2}, []int64{3, 4}, 6, 0)
	b := doubles(2, at, domain.FormatTo6, []int64{1, 3}, []int64{2, 4}, 6, 4)

	forward := Table([]domain.Match{a, b}, allPlayers, now)
	shuffled := Table([]domain.Match{b, a}, allPlayers, now)
	assert.Equal(t, forward, shuffled, "input order must not leak into the result")
}

func TestTableUnknownPlayerDefaultsToStart(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	log := []domain.Match{
		doubles(1, now, domain.FormatTo6, []int64{1, 2}, []int64{3, 99}, 3, 6),
	}

	// Player 99 is absent from the seed list but present in the log.
	ratings := Table(log, allPlayers, now)
	assert.Greater(t, ratings[99], StartRating)
}

func TestReplayVisitsEveryDoublesMatch(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	log := []domain.Match{
		doubles(2, base.Add(time.Hour), domain.FormatTo4, []int64{1, 3}, []int64{2, 4}, 4, 1),
		doubles(1, base, domain.FormatTo6, []int64{1, 2}, []int64{3, 4}, 6, 3),
		{ID: 3, PlayedAt: base.Add(2 * time.Hour), Format: domain.FormatTo6, TeamA: []int64{1}, TeamB: []int64{2, 3}, ScoreA: 6, ScoreB: 1},
	}

	var seen []int64
	final := Replay(log, allPlayers, func(m domain.Match, ratings map[int64]float64) {
		seen = append(seen, m.ID)
	})

	assert.Equal(t, []int64{1, 2}, seen, "chronological order, malformed row skipped")
	assert.Len(t, final, 4)
}

func TestReplayMatchesTableWhenEverythingInWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	log := []domain.Match{
		doubles(1, now.Add(-72*time.Hour), domain.FormatTo6, []int64{1, 2}, []int64{3, 4}, 7, 6),
		doubles(2, now.Add(-24*time.Hour), domain.FormatTo3, []int64{2, 3}, []int64{1, 4}, 3, 0),
	}

	fromTable := Table(log, allPlayers, now)
	fromReplay := Replay(log, allPlayers, nil)
	assert.Equal(t, fromTable, fromReplay)
}
