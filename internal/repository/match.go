package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"padel-league/internal/domain"
)

type MatchRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{db: sqlDB, logger: logger}
}

// AppendWithPairs appends a match and writes the post-match state of both
// teammate pairs in one transaction, so a submission either fully succeeds
// or leaves no trace. Fills in the match id, ref and created_at on success.
func (r *MatchRepository) AppendWithPairs(ctx context.Context, m *domain.Match, pairs []domain.Pair) error {
	if !m.IsDoubles() {
		return domain.NewValidationError("team_shape", "a match requires two teams of exactly two players")
	}

	ref, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("failed to generate match ref: %w", err)
	}

	ctx, cancel := dbCtx(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	createdAt := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO matches (ref, played_at, format, team_a1, team_a2, team_b1, team_b2, score_a, score_b, submitted_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ref, m.PlayedAt.UTC(), string(m.Format),
		m.TeamA[0], m.TeamA[1], m.TeamB[0], m.TeamB[1],
		m.ScoreA, m.ScoreB, m.SubmittedBy, createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append match: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read new match id: %w", err)
	}

	for _, p := range pairs {
		if err := upsertPair(ctx, tx, p); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit match: %w", err)
	}

	m.ID = id
	m.Ref = ref
	m.CreatedAt = createdAt

	r.logger.Info().
		Int64("match_id", id).
		Str("ref", ref).
		Str("format", string(m.Format)).
		Int("score_a", m.ScoreA).
		Int("score_b", m.ScoreB).
		Msg("match appended")
	return nil
}

// ListOrdered returns the whole log sorted by (played_at, id) ascending, the
// replay order every derived view depends on.
func (r *MatchRepository) ListOrdered(ctx context.Context) ([]domain.Match, error) {
	ctx, cancel := dbCtx(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, ref, played_at, format, team_a1, team_a2, team_b1, team_b2, score_a, score_b, submitted_by, created_at
		 FROM matches ORDER BY played_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var matches []domain.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *MatchRepository) Count(ctx context.Context) (int, error) {
	ctx, cancel := dbCtx(ctx)
	defer cancel()

	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return n, nil
}

func scanMatch(rows *sql.Rows) (domain.Match, error) {
	var m domain.Match
	var format string
	var a1, a2, b1, b2 int64
	if err := rows.Scan(&m.ID, &m.Ref, &m.PlayedAt, &format, &a1, &a2, &b1, &b2, &m.ScoreA, &m.ScoreB, &m.SubmittedBy, &m.CreatedAt); err != nil {
		return domain.Match{}, err
	}
	m.Format = domain.Format(format)
	m.TeamA = []int64{a1, a2}
	m.TeamB = []int64{b1, b2}
	m.PlayedAt = m.PlayedAt.UTC()
	m.CreatedAt = m.CreatedAt.UTC()
	return m, nil
}
