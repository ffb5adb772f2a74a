package flags

import (
	"context"
	"errors"
	"time"
)

//go:generate mockgen -source=store.go -destination=mock/store.go -package=mock

// ErrPlayerNotFound is returned by Store.GetPlayer for untracked players.
var ErrPlayerNotFound = errors.New("flags: player not found")

// Store persists player records and their flag rows.
type Store interface {
	GetFlags(ctx context.Context, userID, guildID string) (FlagMap, error)
	// SetFlag upserts one flag row and sets the player's last update time to
	// at. A row that becomes completed records at as its completion time;
	// re-completing a completed flag keeps the original one.
	SetFlag(ctx context.Context, userID, guildID, key string, completed bool, at time.Time) error
	DeleteFlagsExcept(ctx context.Context, userID, guildID string, keep []string) error
	// UpsertPlayer creates the player record or refreshes its display name.
	// It reports whether the record was created by this call.
	UpsertPlayer(ctx context.Context, userID, guildID, displayName string) (bool, error)
	GetPlayer(ctx context.Context, userID, guildID string) (*Player, error)
	ListPlayers(ctx context.Context, guildID string) ([]Player, error)
	GetFlagsForGuild(ctx context.Context, guildID string, onlyCompleted bool) ([]GuildFlag, error)
	// WithPlayerLock runs fn while holding the exclusive lock of one player.
	// Writes made through tx are applied together or not at all. fn must not
	// call WithPlayerLock again.
	WithPlayerLock(ctx context.Context, userID, guildID string, fn func(ctx context.Context, tx Store) error) error
	Ping(ctx context.Context) error
}
