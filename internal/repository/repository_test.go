package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"padel-league/internal/config"
	"padel-league/internal/database"
	"padel-league/internal/domain"
	"padel-league/internal/rating"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "test.db")}
	db, err := database.New(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createPlayers(t *testing.T, repo *PlayerRepository, names ...string) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		p, err := repo.Create(context.Background(), name)
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}
	return ids
}

func TestPlayerCreateAndLookup(t *testing.T) {
	db := testDB(t)
	repo := NewPlayerRepository(db, zerolog.Nop())
	ctx := context.Background()

	p, err := repo.Create(ctx, "  Maria  ")
	require.NoError(t, err)
	assert.Equal(t, "Maria", p.Name)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria", got.Name)
	assert.Nil(t, got.ExternalID)

	// Name lookup is case-insensitive.
	got, err = repo.GetByName(ctx, "mArIa")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestPlayerCreateRejectsDuplicateName(t *testing.T) {
	db := testDB(t)
	repo := NewPlayerRepository(db, zerolog.Nop())
	ctx := context.Background()

	_, err := repo.Create(ctx, "Diego")
	require.NoError(t, err)

	_, err = repo.Create(ctx, "diego")
	assert.True(t, domain.IsValidation(err))

	_, err = repo.Create(ctx, "   ")
	assert.True(t, domain.IsValidation(err))
}

func TestPlayerLookupNotFound(t *testing.T) {
	db := testDB(t)
	repo := NewPlayerRepository(db, zerolog.Nop())

	_, err := repo.GetByID(context.Background(), 999)
	assert.True(t, domain.IsNotFound(err))
}

func TestPlayerLink(t *testing.T) {
	db := testDB(t)
	repo := NewPlayerRepository(db, zerolog.Nop())
	ctx := context.Background()

	ids := createPlayers(t, repo, "Ana", "Bea")

	require.NoError(t, repo.Link(ctx, ids[0], 42))

	got, err := repo.GetByID(ctx, ids[0])
	require.NoError(t, err)
	require.NotNil(t, got.ExternalID)
	assert.Equal(t, int64(42), *got.ExternalID)

	// A player holds one binding, a binding points at one player.
	err = repo.Link(ctx, ids[0], 43)
	assert.True(t, domain.IsValidation(err))
	err = repo.Link(ctx, ids[1], 42)
	assert.True(t, domain.IsValidation(err))

	got, err = repo.GetByExternalID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, ids[0], got.ID)
}

func TestPlayerRename(t *testing.T) {
	db := testDB(t)
	repo := NewPlayerRepository(db, zerolog.Nop())
	ctx := context.Background()

	ids := createPlayers(t, repo, "Old Name")

	require.NoError(t, repo.Rename(ctx, ids[0], "New Name"))
	got, err := repo.GetByID(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.Name)

	err = repo.Rename(ctx, 999, "Whoever")
	assert.True(t, domain.IsNotFound(err))
}

func TestAppendWithPairsTransactional(t *testing.T) {
	db := testDB(t)
	players := NewPlayerRepository(db, zerolog.Nop())
	matches := NewMatchRepository(db, zerolog.Nop())
	pairs := NewPairRepository(db, zerolog.Nop())
	ctx := context.Background()

	ids := createPlayers(t, players, "A", "B", "C", "D")

	m := &domain.Match{
		PlayedAt: time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC),
		Format:   domain.FormatTo6,
		TeamA:    []int64{ids[0], ids[1]},
		TeamB:    []int64{ids[2], ids[3]},
		ScoreA:   6,
		ScoreB:   3,
	}
	winners := domain.Pair{Player1ID: ids[0], Player2ID: ids[1], Rating: 1004.2, Matches: 1, Wins: 1}
	losers := domain.Pair{Player1ID: ids[2], Player2ID: ids[3], Rating: 995.8, Matches: 1, Losses: 1}

	require.NoError(t, matches.AppendWithPairs(ctx, m, []domain.Pair{winners, losers}))
	assert.NotZero(t, m.ID)
	assert.NotEmpty(t, m.Ref)

	stored, err := matches.ListOrdered(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, []int64{ids[0], ids[1]}, stored[0].TeamA)
	assert.Equal(t, domain.FormatTo6, stored[0].Format)

	pair, err := pairs.Get(ctx, ids[1], ids[0]) // reversed order canonicalizes
	require.NoError(t, err)
	assert.InDelta(t, 1004.2, pair.Rating, 1e-9)
	assert.Equal(t, 1, pair.Wins)

	n, err := matches.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAppendRejectsMalformedTeams(t *testing.T) {
	db := testDB(t)
	matches := NewMatchRepository(db, zerolog.Nop())

	m := &domain.Match{
		PlayedAt: time.Now().UTC(),
		Format:   domain.FormatTo6,
		TeamA:    []int64{1},
		TeamB:    []int64{3, 4},
		ScoreA:   6,
	}
	err := matches.AppendWithPairs(context.Background(), m, nil)
	assert.True(t, domain.IsValidation(err))

	n, err := matches.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListOrderedSortsByPlayedAtThenID(t *testing.T) {
	db := testDB(t)
	players := NewPlayerRepository(db, zerolog.Nop())
	matches := NewMatchRepository(db, zerolog.Nop())
	ctx := context.Background()

	ids := createPlayers(t, players, "A", "B", "C", "D")
	at := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)

	// Two matches at the same instant, one earlier: replay order must be
	// (played_at, id).
	for _, playedAt := range []time.Time{at, at, at.Add(-time.Hour)} {
		m := &domain.Match{
			PlayedAt: playedAt,
			Format:   domain.FormatTo6,
			TeamA:    []int64{ids[0], ids[1]},
			TeamB:    []int64{ids[2], ids[3]},
			ScoreA:   6, ScoreB: 3,
		}
		require.NoError(t, matches.AppendWithPairs(ctx, m, nil))
	}

	stored, err := matches.ListOrdered(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, at.Add(-time.Hour), stored[0].PlayedAt)
	assert.Less(t, stored[1].ID, stored[2].ID)
	assert.Equal(t, stored[1].PlayedAt, stored[2].PlayedAt)
}

func TestPairGetUnknownReturnsStartRating(t *testing.T) {
	db := testDB(t)
	pairs := NewPairRepository(db, zerolog.Nop())

	pair, err := pairs.Get(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pair.Player1ID)
	assert.Equal(t, int64(7), pair.Player2ID)
	assert.InDelta(t, rating.StartRating, pair.Rating, 1e-9)
	assert.Zero(t, pair.Matches)
}

func TestPairReplaceAll(t *testing.T) {
	db := testDB(t)
	players := NewPlayerRepository(db, zerolog.Nop())
	pairs := NewPairRepository(db, zerolog.Nop())
	ctx := context.Background()

	ids := createPlayers(t, players, "A", "B", "C", "D")

	first := []domain.Pair{
		{Player1ID: ids[0], Player2ID: ids[1], Rating: 1010, Matches: 2, Wins: 2},
		{Player1ID: ids[2], Player2ID: ids[3], Rating: 990, Matches: 2, Losses: 2},
	}
	require.NoError(t, pairs.ReplaceAll(ctx, first))

	second := []domain.Pair{
		{Player1ID: ids[0], Player2ID: ids[2], Rating: 1005, Matches: 1, Wins: 1},
	}
	require.NoError(t, pairs.ReplaceAll(ctx, second))

	listed, err := pairs.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, ids[0], listed[0].Player1ID)
	assert.Equal(t, ids[2], listed[0].Player2ID)
	assert.InDelta(t, 1005.0, listed[0].Rating, 1e-9)
}
