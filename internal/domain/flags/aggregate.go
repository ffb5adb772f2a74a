package flags

import (
	"sort"
	"time"
)

// PlayerProgress is one row of a guild ranking.
type PlayerProgress struct {
	UserID         string
	DisplayName    string
	LastUpdated    time.Time
	FlagsCompleted int
	QuarmDefeated  bool
}

// GuildSummary is the ranked progress of every tracked player in a guild.
type GuildSummary struct {
	Players          []PlayerProgress
	QuarmSlayerCount int
	TotalFlags       int
}

// Aggregate ranks records by completed flag count, highest first. Players
// with equal counts keep their input order.
func (e *Engine) Aggregate(records []PlayerRecord) GuildSummary {
	summary := GuildSummary{
		Players:    make([]PlayerProgress, 0, len(records)),
		TotalFlags: e.catalog.Len(),
	}
	root := e.catalog.root

	for _, rec := range records {
		flags := make(Flags, len(rec.Flags)+1)
		for key, done := range rec.Flags {
			flags[key] = done
		}
		flags[root] = true

		terminal := e.IsTerminalComplete(flags)
		if terminal {
			summary.QuarmSlayerCount++
		}
		summary.Players = append(summary.Players, PlayerProgress{
			UserID:         rec.UserID,
			DisplayName:    rec.DisplayName,
			LastUpdated:    rec.LastUpdated,
			FlagsCompleted: e.CompletedCount(flags),
			QuarmDefeated:  terminal,
		})
	}

	sort.SliceStable(summary.Players, func(i, j int) bool {
		return summary.Players[i].FlagsCompleted > summary.Players[j].FlagsCompleted
	})
	return summary
}

// GroupGuildFlags joins guild players with their guild flag rows. Rows that
// are not completed are skipped; rows of untracked users are dropped.
func GroupGuildFlags(players []Player, rows []GuildFlag) []PlayerRecord {
	byUser := make(map[string]Flags, len(players))
	for _, row := range rows {
		if !row.Completed {
			continue
		}
		flags, ok := byUser[row.UserID]
		if !ok {
			flags = make(Flags)
			byUser[row.UserID] = flags
		}
		flags[row.FlagKey] = true
	}

	records := make([]PlayerRecord, 0, len(players))
	for _, p := range players {
		records = append(records, PlayerRecord{Player: p, Flags: byUser[p.UserID]})
	}
	return records
}
