package player

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"dragons-den/internal/shared/database"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing player repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) getExecutor(tx *database.Tx) database.Executor {
	if tx != nil {
		return tx
	}
	return r.db
}

// WithTx runs fn inside a transaction, committing when fn returns nil.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *database.Tx) error) error {
	tx, err := r.db.BeginTxContext(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	logger := r.logger.With("component", "player_repository", "operation", "count")

	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM players").Scan(&count); err != nil {
		logger.Error("Failed to count players", "error", err)
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}

// Get loads a player with its achievement and treasure sets. It returns nil
// when the player does not exist yet.
func (r *Repository) Get(ctx context.Context, id string, tx *database.Tx) (*Player, error) {
	exec := r.getExecutor(tx)
	logger := r.logger.With("component", "player_repository", "operation", "get", "player_id", id)

	query := `
		SELECT id, gold, goblins, prestige_level, total_gold_earned, goblins_hired,
			explorations_completed, treasures_collected, last_tick_at, created_at, updated_at
		FROM players
		WHERE id = ?
	`

	var p Player
	var lastTick, created, updated int64
	err := exec.QueryRowContext(ctx, exec.Rebind(query), id).Scan(
		&p.ID,
		&p.Gold,
		&p.Goblins,
		&p.PrestigeLevel,
		&p.TotalGoldEarned,
		&p.GoblinsHired,
		&p.ExplorationsCompleted,
		&p.TreasuresCollected,
		&lastTick,
		&created,
		&updated,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			logger.Debug("No player found")
			return nil, nil
		}
		logger.Error("Failed to get player", "error", err)
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	p.LastTickAt = time.UnixMilli(lastTick)
	p.CreatedAt = time.UnixMilli(created)
	p.UpdatedAt = time.UnixMilli(updated)

	if p.Achievements, err = r.members(ctx, exec, "SELECT achievement_id FROM player_achievements WHERE player_id = ? ORDER BY completed_at, achievement_id", id); err != nil {
		logger.Error("Failed to load achievements", "error", err)
		return nil, fmt.Errorf("failed to load achievements: %w", err)
	}
	if p.Treasures, err = r.members(ctx, exec, "SELECT treasure_id FROM player_treasures WHERE player_id = ? ORDER BY found_at, treasure_id", id); err != nil {
		logger.Error("Failed to load treasures", "error", err)
		return nil, fmt.Errorf("failed to load treasures: %w", err)
	}

	return &p, nil
}

func (r *Repository) members(ctx context.Context, exec database.Executor, query, id string) ([]string, error) {
	rows, err := exec.QueryContext(ctx, exec.Rebind(query), id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Save upserts the player row and inserts any set members not yet stored.
// Set members are never removed.
func (r *Repository) Save(ctx context.Context, p *Player, tx *database.Tx) error {
	exec := r.getExecutor(tx)
	logger := r.logger.With("component", "player_repository", "operation", "save", "player_id", p.ID)

	query := `
		INSERT INTO players (id, gold, goblins, prestige_level, total_gold_earned, goblins_hired,
			explorations_completed, treasures_collected, last_tick_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			gold = excluded.gold,
			goblins = excluded.goblins,
			prestige_level = excluded.prestige_level,
			total_gold_earned = excluded.total_gold_earned,
			goblins_hired = excluded.goblins_hired,
			explorations_completed = excluded.explorations_completed,
			treasures_collected = excluded.treasures_collected,
			last_tick_at = excluded.last_tick_at,
			updated_at = excluded.updated_at
	`

	_, err := exec.ExecContext(ctx, exec.Rebind(query),
		p.ID,
		p.Gold,
		p.Goblins,
		p.PrestigeLevel,
		p.TotalGoldEarned,
		p.GoblinsHired,
		p.ExplorationsCompleted,
		p.TreasuresCollected,
		p.LastTickAt.UnixMilli(),
		p.CreatedAt.UnixMilli(),
		p.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		logger.Error("Failed to save player", "error", err)
		return fmt.Errorf("failed to save player: %w", err)
	}

	at := p.UpdatedAt.UnixMilli()
	for _, id := range p.Achievements {
		if _, err := exec.ExecContext(ctx,
			exec.Rebind("INSERT INTO player_achievements (player_id, achievement_id, completed_at) VALUES (?, ?, ?) ON CONFLICT DO NOTHING"),
			p.ID, id, at,
		); err != nil {
			logger.Error("Failed to save achievement", "achievement_id", id, "error", err)
			return fmt.Errorf("failed to save achievement %s: %w", id, err)
		}
	}
	for _, id := range p.Treasures {
		if _, err := exec.ExecContext(ctx,
			exec.Rebind("INSERT INTO player_treasures (player_id, treasure_id, found_at) VALUES (?, ?, ?) ON CONFLICT DO NOTHING"),
			p.ID, id, at,
		); err != nil {
			logger.Error("Failed to save treasure", "treasure_id", id, "error", err)
			return fmt.Errorf("failed to save treasure %s: %w", id, err)
		}
	}

	logger.Debug("Player saved", "gold", p.Gold, "goblins", p.Goblins)
	return nil
}
