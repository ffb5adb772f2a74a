package handlers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/handler"

	"github.com/eqpop/poptracker/poptracker/config"
	"github.com/eqpop/poptracker/poptracker/logger"
)

// WrapWithLogging wraps a command handler with logging and metrics.
func WrapWithLogging(name string, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		start := time.Now()
		guildID := "dm"
		if id := e.GuildID(); id != nil {
			guildID = id.String()
		}

		slog.Info("Command started",
			slog.String("type", "cmd"),
			slog.String("name", name),
			slog.String("user_id", e.User().ID.String()),
			slog.String("user_name", e.User().Username),
			slog.String("guild_id", guildID),
			slog.String("channel_id", e.ChannelID().String()),
		)

		done := make(chan error, 1)
		go func() {
			done <- h(e)
		}()

		select {
		case err := <-done:
			duration := time.Since(start)
			commandDuration.WithLabelValues(name).Observe(duration.Seconds())

			status := "success"
			switch {
			case err != nil:
				status = "failed"
			case duration > config.SlowCommandThreshold:
				status = "slow"
			}
			commandsTotal.WithLabelValues(name, status).Inc()
			logger.LogCommand(logger.CommandRun{
				Name:     name,
				UserID:   e.User().ID.String(),
				UserName: e.User().Username,
				Status:   status,
				Took:     duration,
				Err:      err,
			})
			return err

		case <-time.After(config.CommandExecutionTimeout):
			commandsTotal.WithLabelValues(name, "timeout").Inc()
			slog.Error("Command timed out",
				slog.String("type", "cmd"),
				slog.String("name", name),
				slog.String("user_id", e.User().ID.String()),
				slog.String("user_name", e.User().Username),
				slog.String("status", "timeout"),
				slog.Duration("timeout", config.CommandExecutionTimeout),
			)
			return fmt.Errorf("command timed out after %s", config.CommandExecutionTimeout)
		}
	}
}

// WrapAutocompleteWithLogging logs autocomplete failures only; successful
// lookups are too frequent to log.
func WrapAutocompleteWithLogging(name string, h handler.AutocompleteHandler) handler.AutocompleteHandler {
	return func(e *handler.AutocompleteEvent) error {
		if err := h(e); err != nil {
			slog.Error("Autocomplete failed",
				slog.String("type", "cmd"),
				slog.String("name", name),
				slog.String("user_id", e.User().ID.String()),
				slog.Any("error", err))
			return err
		}
		return nil
	}
}
