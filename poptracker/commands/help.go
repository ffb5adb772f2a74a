package commands

import (
	"context"
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/eqpop/poptracker/poptracker"
	"github.com/eqpop/poptracker/poptracker/config"
	"github.com/eqpop/poptracker/poptracker/utils"
)

var Help = discord.SlashCommandCreate{
	Name:        CmdHelp,
	Description: "View commands for this bot.",
}

func HelpHandler(b *poptracker.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
		defer cancel()

		// help still answers when the store is down
		if err := ensureTarget(ctx, b, resolveTarget(e)); err != nil {
			slog.Warn("Failed to register player",
				slog.String("type", "db"),
				slog.String("user_id", e.User().ID.String()),
				slog.Any("error", err))
		}
		return utils.EH.Reply(e, false, helpText)
	}
}
