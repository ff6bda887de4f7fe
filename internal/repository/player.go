package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"padel-league/internal/constants"
	"padel-league/internal/domain"
)

// dbCtx bounds a single database operation with the standard query timeout.
func dbCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, constants.DatabaseTimeout)
}

type PlayerRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{db: sqlDB, logger: logger}
}

func (r *PlayerRepository) Create(ctx context.Context, name string) (*domain.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("invalid_name", "player name must not be empty")
	}

	if existing, err := r.GetByName(ctx, name); err == nil {
		return nil, domain.NewValidationError("player_exists", "player %q already registered with id %d", existing.Name, existing.ID)
	} else if !domain.IsNotFound(err) {
		return nil, err
	}

	ctx, cancel := dbCtx(ctx)
	defer cancel()

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO players (name, created_at, updated_at) VALUES (?, ?, ?)`,
		name, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read new player id: %w", err)
	}

	r.logger.Info().Int64("player_id", id).Str("name", name).Msg("player created")
	return &domain.Player{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (*domain.Player, error) {
	ctx, cancel := dbCtx(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, external_id, created_at, updated_at FROM players WHERE id = ?`, id)
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("player", strconv.FormatInt(id, 10))
	}
	return p, err
}

func (r *PlayerRepository) GetByName(ctx context.Context, name string) (*domain.Player, error) {
	ctx, cancel := dbCtx(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, external_id, created_at, updated_at FROM players WHERE name = ? COLLATE NOCASE`, name)
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("player", name)
	}
	return p, err
}

func (r *PlayerRepository) GetByExternalID(ctx context.Context, externalID int64) (*domain.Player, error) {
	ctx, cancel := dbCtx(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, external_id, created_at, updated_at FROM players WHERE external_id = ?`, externalID)
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("player", strconv.FormatInt(externalID, 10))
	}
	return p, err
}

func (r *PlayerRepository) Rename(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.NewValidationError("invalid_name", "player name must not be empty")
	}

	ctx, cancel := dbCtx(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`UPDATE players SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to rename player: %w", err)
	}
	return requireRow(res, "player", strconv.FormatInt(id, 10))
}

// Link binds a chat-platform account to a player. A player holds at most one
// binding and a binding points at exactly one player.
func (r *PlayerRepository) Link(ctx context.Context, id, externalID int64) error {
	player, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if player.ExternalID != nil {
		return domain.NewValidationError("already_linked", "player %q is already linked to another account", player.Name)
	}
	if other, err := r.GetByExternalID(ctx, externalID); err == nil {
		return domain.NewValidationError("account_taken", "this account is already linked to player %q", other.Name)
	} else if !domain.IsNotFound(err) {
		return err
	}

	ctx, cancel := dbCtx(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`UPDATE players SET external_id = ?, updated_at = ? WHERE id = ?`,
		externalID, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to link player: %w", err)
	}
	return requireRow(res, "player", strconv.FormatInt(id, 10))
}

func (r *PlayerRepository) List(ctx context.Context) ([]domain.Player, error) {
	ctx, cancel := dbCtx(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, external_id, created_at, updated_at FROM players ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

func (r *PlayerRepository) IDs(ctx context.Context) ([]int64, error) {
	ctx, cancel := dbCtx(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT id FROM players ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list player ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*domain.Player, error) {
	var p domain.Player
	var externalID sql.NullInt64
	if err := row.Scan(&p.ID, &p.Name, &externalID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if externalID.Valid {
		p.ExternalID = &externalID.Int64
	}
	return &p, nil
}

func requireRow(res sql.Result, kind, key string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NewNotFoundError(kind, key)
	}
	return nil
}
