package config

import "time"

// UI and Display Constants
const (
	PlayersPerPage = 10

	// Colors
	InfoColor     = 0x0099FF
	GuildColor    = 0x7289DA
	NextStepColor = 0x00FF00

	// Discord limits
	MaxAutocompleteChoices = 25
)

// Timeouts
const (
	DefaultQueryTimeout     = 10 * time.Second
	CommandExecutionTimeout = 10 * time.Second
	SlowCommandThreshold    = 2 * time.Second
	PresenceTimeout         = 5 * time.Second
	ShutdownTimeout         = 10 * time.Second
	GatewayOpenTimeout      = 10 * time.Second
	SchemaInitTimeout       = 2 * time.Minute
	HealthCheckInterval     = 30 * time.Second
)

// Caches
const (
	KnownPlayerCacheSize = 4096
)
