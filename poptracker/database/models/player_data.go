package models

import (
	"time"

	"github.com/uptrace/bun"
)

type PlayerData struct {
	bun.BaseModel `bun:"table:player_data,alias:pd"`

	ID          int64     `bun:"id,pk,autoincrement"`
	UserID      string    `bun:"user_id,notnull"`
	GuildID     string    `bun:"guild_id,notnull"`
	DisplayName string    `bun:"display_name,notnull"`
	LastUpdated time.Time `bun:"last_updated,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
