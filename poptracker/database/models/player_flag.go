package models

import (
	"time"

	"github.com/uptrace/bun"
)

type PlayerFlag struct {
	bun.BaseModel `bun:"table:player_flags,alias:pf"`

	ID          int64      `bun:"id,pk,autoincrement"`
	UserID      string     `bun:"user_id,notnull"`
	GuildID     string     `bun:"guild_id,notnull"`
	FlagKey     string     `bun:"flag_key,notnull"`
	Completed   bool       `bun:"completed,notnull,default:false"`
	CompletedAt *time.Time `bun:"completed_at"`
	CreatedAt   time.Time  `bun:"created_at,notnull,default:current_timestamp"`
}
