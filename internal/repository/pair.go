package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"padel-league/internal/domain"
	"padel-league/internal/rating"
)

type PairRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPairRepository(sqlDB *sql.DB, logger zerolog.Logger) *PairRepository {
	return &PairRepository{db: sqlDB, logger: logger}
}

// Get returns the stored pair state, or a fresh unsaved pair at the start
// rating when the two players have never been teammates. The row itself is
// only created by the match append transaction.
func (r *PairRepository) Get(ctx context.Context, p1, p2 int64) (domain.Pair, error) {
	lo, hi := domain.PairKey(p1, p2)

	ctx, cancel := dbCtx(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx,
		`SELECT player1_id, player2_id, rating, matches, wins, losses, updated_at
		 FROM pairs WHERE player1_id = ? AND player2_id = ?`, lo, hi)

	var p domain.Pair
	err := row.Scan(&p.Player1ID, &p.Player2ID, &p.Rating, &p.Matches, &p.Wins, &p.Losses, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Pair{Player1ID: lo, Player2ID: hi, Rating: rating.StartRating}, nil
	}
	if err != nil {
		return domain.Pair{}, fmt.Errorf("failed to get pair: %w", err)
	}
	return p, nil
}

// List returns all pairs ordered by rating, best first.
func (r *PairRepository) List(ctx context.Context) ([]domain.Pair, error) {
	ctx, cancel := dbCtx(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT player1_id, player2_id, rating, matches, wins, losses, updated_at
		 FROM pairs ORDER BY rating DESC, player1_id, player2_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pairs: %w", err)
	}
	defer rows.Close()

	var pairs []domain.Pair
	for rows.Next() {
		var p domain.Pair
		if err := rows.Scan(&p.Player1ID, &p.Player2ID, &p.Rating, &p.Matches, &p.Wins, &p.Losses, &p.UpdatedAt); err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

// ReplaceAll swaps the whole pair table for the given rebuilt state in one
// transaction.
func (r *PairRepository) ReplaceAll(ctx context.Context, pairs []domain.Pair) error {
	ctx, cancel := dbCtx(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM pairs`); err != nil {
		return fmt.Errorf("failed to clear pairs: %w", err)
	}
	for _, p := range pairs {
		if err := upsertPair(ctx, tx, p); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit pair rebuild: %w", err)
	}

	r.logger.Info().Int("pairs", len(pairs)).Msg("pair table rebuilt")
	return nil
}

func upsertPair(ctx context.Context, tx *sql.Tx, p domain.Pair) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO pairs (player1_id, player2_id, rating, matches, wins, losses, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (player1_id, player2_id) DO UPDATE SET
		   rating = excluded.rating,
		   matches = excluded.matches,
		   wins = excluded.wins,
		   losses = excluded.losses,
		   updated_at = excluded.updated_at`,
		p.Player1ID, p.Player2ID, p.Rating, p.Matches, p.Wins, p.Losses, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert pair (%d,%d): %w", p.Player1ID, p.Player2ID, err)
	}
	return nil
}
