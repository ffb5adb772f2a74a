package commands

import (
	"context"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/eqpop/poptracker/poptracker"
	"github.com/eqpop/poptracker/poptracker/config"
	"github.com/eqpop/poptracker/poptracker/utils"
)

var Progress = discord.SlashCommandCreate{
	Name:        CmdProgress,
	Description: "View your PoP flag progress",
	Options: []discord.ApplicationCommandOption{
		playerOption("The player to check (defaults to you)"),
	},
}

func ProgressHandler(b *poptracker.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if err := e.DeferCreateMessage(false); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
		defer cancel()

		catalog := b.Service.Catalog()
		t := resolveTarget(e)
		if err := ensureTarget(ctx, b, t); err != nil {
			return replyError(e, true, catalog, err)
		}

		view, err := b.Service.Progress(ctx, t.UserID, t.GuildID)
		if err != nil {
			return replyError(e, true, catalog, err)
		}
		return utils.EH.ReplyEmbed(e, true, progressEmbed(catalog, t.DisplayName, view))
	}
}
