package flags

import "time"

// FlagDefinition is a single milestone of the progression graph.
type FlagDefinition struct {
	Key         string   `toml:"key"`
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	Category    string   `toml:"category"`
	DependsOn   []string `toml:"depends_on"`
}

// Flags is the completion view the engine works on. Absent keys are not completed.
type Flags map[string]bool

// FlagState is the stored completion state of one flag for one player.
type FlagState struct {
	Completed   bool
	CompletedAt *time.Time
}

// FlagMap is a player's stored flag states keyed by flag key.
type FlagMap map[string]FlagState

// Completed returns the boolean view of the map.
func (m FlagMap) Completed() Flags {
	out := make(Flags, len(m))
	for key, state := range m {
		if state.Completed {
			out[key] = true
		}
	}
	return out
}

func (m FlagMap) clone() FlagMap {
	out := make(FlagMap, len(m)+1)
	for key, state := range m {
		out[key] = state
	}
	return out
}

// Player is the per guild metadata row of a tracked player.
type Player struct {
	UserID      string
	GuildID     string
	DisplayName string
	LastUpdated time.Time
}

// PlayerRecord is a player together with the flags they completed.
type PlayerRecord struct {
	Player
	Flags Flags
}

// GuildFlag is one (player, flag) row of a guild wide flag listing.
type GuildFlag struct {
	UserID    string
	FlagKey   string
	Completed bool
}

// Completion is the outcome of a successful CompleteFlag call.
type Completion struct {
	Flag  FlagDefinition
	Flags FlagMap
	// Transitioned is true only when this call moved the flag from incomplete to complete.
	Transitioned bool
	CompletedAt  time.Time
}

// FlagStatus is the per player state of a single flag.
type FlagStatus int

const (
	StatusNotEligible FlagStatus = iota
	StatusEligible
	StatusCompleted
)

func (s FlagStatus) String() string {
	switch s {
	case StatusEligible:
		return "eligible"
	case StatusCompleted:
		return "completed"
	default:
		return "not_eligible"
	}
}

// Category groups catalog flags for display.
type Category struct {
	Name  string
	Flags []FlagDefinition
}
