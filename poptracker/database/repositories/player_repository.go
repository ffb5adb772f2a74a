package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/eqpop/poptracker/internal/domain/flags"
	"github.com/eqpop/poptracker/poptracker/database/models"
	"github.com/eqpop/poptracker/poptracker/logger"
)

const (
	entityPlayer = "player"
	entityFlag   = "player_flag"
)

var errNestedLock = errors.New("player lock already held")

// PlayerRepository is the PostgreSQL flags.Store. Each instance either talks
// to the pool directly or is scoped to one transaction opened by
// WithPlayerLock.
type PlayerRepository struct {
	*BaseRepository
	db   bun.IDB
	inTx bool
	now  func() time.Time
}

var _ flags.Store = (*PlayerRepository)(nil)

func NewPlayerRepository(db *bun.DB) *PlayerRepository {
	return &PlayerRepository{
		BaseRepository: NewBaseRepository(db),
		db:             db,
		now:            time.Now,
	}
}

func (r *PlayerRepository) GetFlags(ctx context.Context, userID, guildID string) (flags.FlagMap, error) {
	var rows []models.PlayerFlag
	err := r.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		Where("guild_id = ?", guildID).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get flags", entityFlag, userID, err)
	}

	out := make(flags.FlagMap, len(rows))
	for _, row := range rows {
		out[row.FlagKey] = flags.FlagState{Completed: row.Completed, CompletedAt: row.CompletedAt}
	}
	return out, nil
}

func (r *PlayerRepository) SetFlag(ctx context.Context, userID, guildID, key string, completed bool, at time.Time) error {
	now := at.UTC()
	row := &models.PlayerFlag{
		UserID:    userID,
		GuildID:   guildID,
		FlagKey:   key,
		Completed: completed,
		CreatedAt: now,
	}
	if completed {
		row.CompletedAt = &now
	}

	ql := logger.NewQueryLogger("set flag", entityFlag)
	_, err := r.db.NewInsert().
		Model(row).
		On("CONFLICT (user_id, guild_id, flag_key) DO UPDATE").
		Set("completed = EXCLUDED.completed").
		Set("completed_at = CASE WHEN pf.completed AND EXCLUDED.completed THEN pf.completed_at ELSE EXCLUDED.completed_at END").
		Exec(ctx)
	ql.Log(err, -1)
	if err != nil {
		return r.HandleErrorWithID("set flag", entityFlag, key, err)
	}

	return r.touch(ctx, userID, guildID, now)
}

func (r *PlayerRepository) DeleteFlagsExcept(ctx context.Context, userID, guildID string, keep []string) error {
	q := r.db.NewDelete().
		Model((*models.PlayerFlag)(nil)).
		Where("user_id = ?", userID).
		Where("guild_id = ?", guildID)
	if len(keep) > 0 {
		q = q.Where("flag_key NOT IN (?)", bun.In(keep))
	}

	ql := logger.NewQueryLogger("delete flags", entityFlag)
	res, err := q.Exec(ctx)
	if err != nil {
		ql.Log(err, -1)
		return r.HandleErrorWithID("delete flags", entityFlag, userID, err)
	}
	n, _ := res.RowsAffected()
	ql.Log(nil, n)

	return r.touch(ctx, userID, guildID, r.now().UTC())
}

func (r *PlayerRepository) UpsertPlayer(ctx context.Context, userID, guildID, displayName string) (bool, error) {
	now := r.now().UTC()
	player := &models.PlayerData{
		UserID:      userID,
		GuildID:     guildID,
		DisplayName: displayName,
		LastUpdated: now,
		CreatedAt:   now,
	}

	ql := logger.NewQueryLogger("insert player", entityPlayer)
	res, err := r.db.NewInsert().
		Model(player).
		On("CONFLICT (user_id, guild_id) DO NOTHING").
		Exec(ctx)
	ql.Log(err, -1)
	if err != nil {
		return false, r.HandleErrorWithID("insert player", entityPlayer, userID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return true, nil
	}

	_, err = r.db.NewUpdate().
		Model((*models.PlayerData)(nil)).
		Set("display_name = ?", displayName).
		Set("last_updated = ?", now).
		Where("user_id = ?", userID).
		Where("guild_id = ?", guildID).
		Where("display_name <> ?", displayName).
		Exec(ctx)
	if err != nil {
		return false, r.HandleErrorWithID("update player", entityPlayer, userID, err)
	}
	return false, nil
}

func (r *PlayerRepository) GetPlayer(ctx context.Context, userID, guildID string) (*flags.Player, error) {
	row := new(models.PlayerData)
	err := r.db.NewSelect().
		Model(row).
		Where("user_id = ?", userID).
		Where("guild_id = ?", guildID).
		Scan(ctx)
	if err != nil {
		err = r.HandleErrorWithID("get player", entityPlayer, userID, err)
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %s", flags.ErrPlayerNotFound, notFound)
		}
		return nil, err
	}

	player := toPlayer(row)
	return &player, nil
}

func (r *PlayerRepository) ListPlayers(ctx context.Context, guildID string) ([]flags.Player, error) {
	var rows []models.PlayerData
	err := r.db.NewSelect().
		Model(&rows).
		Where("guild_id = ?", guildID).
		OrderExpr("created_at ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("list players", entityPlayer, guildID, err)
	}

	out := make([]flags.Player, 0, len(rows))
	for i := range rows {
		out = append(out, toPlayer(&rows[i]))
	}
	return out, nil
}

func (r *PlayerRepository) GetFlagsForGuild(ctx context.Context, guildID string, onlyCompleted bool) ([]flags.GuildFlag, error) {
	var rows []models.PlayerFlag
	q := r.db.NewSelect().
		Model(&rows).
		Column("user_id", "flag_key", "completed").
		Where("guild_id = ?", guildID)
	if onlyCompleted {
		q = q.Where("completed = TRUE")
	}
	if err := q.OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, r.HandleErrorWithID("get guild flags", entityFlag, guildID, err)
	}

	out := make([]flags.GuildFlag, 0, len(rows))
	for _, row := range rows {
		out = append(out, flags.GuildFlag{UserID: row.UserID, FlagKey: row.FlagKey, Completed: row.Completed})
	}
	return out, nil
}

// WithPlayerLock runs fn inside a transaction holding a transaction scoped
// advisory lock derived from the player key. Concurrent callers for the same
// player block until the holder commits or rolls back.
func (r *PlayerRepository) WithPlayerLock(ctx context.Context, userID, guildID string, fn func(ctx context.Context, tx flags.Store) error) error {
	if r.inTx {
		return r.HandleError("lock player", entityPlayer, errNestedLock)
	}

	return r.BaseRepository.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		ql := logger.NewQueryLogger("lock player", entityPlayer)
		_, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", lockKey(userID, guildID))
		ql.Log(err, -1)
		if err != nil {
			return r.HandleErrorWithID("lock player", entityPlayer, userID, err)
		}
		return fn(ctx, &PlayerRepository{
			BaseRepository: r.BaseRepository,
			db:             tx,
			inTx:           true,
			now:            r.now,
		})
	})
}

func (r *PlayerRepository) Ping(ctx context.Context) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	return r.HandleError("ping", entityPlayer, r.BaseRepository.db.PingContext(ctx))
}

// touch bumps the player's last update time.
func (r *PlayerRepository) touch(ctx context.Context, userID, guildID string, at time.Time) error {
	_, err := r.db.NewUpdate().
		Model((*models.PlayerData)(nil)).
		Set("last_updated = ?", at).
		Where("user_id = ?", userID).
		Where("guild_id = ?", guildID).
		Exec(ctx)
	return r.HandleErrorWithID("touch player", entityPlayer, userID, err)
}

func lockKey(userID, guildID string) string {
	return userID + ":" + guildID
}

func toPlayer(row *models.PlayerData) flags.Player {
	return flags.Player{
		UserID:      row.UserID,
		GuildID:     row.GuildID,
		DisplayName: row.DisplayName,
		LastUpdated: row.LastUpdated,
	}
}
