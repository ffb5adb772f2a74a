package commands

import (
	"context"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/eqpop/poptracker/poptracker"
	"github.com/eqpop/poptracker/poptracker/config"
	"github.com/eqpop/poptracker/poptracker/utils"
)

var NextSteps = discord.SlashCommandCreate{
	Name:        CmdNextSteps,
	Description: "See what flags you need to work on next",
	Options: []discord.ApplicationCommandOption{
		playerOption("The player to check (defaults to you)"),
	},
}

func NextStepsHandler(b *poptracker.Bot) handler.CommandHandler {
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

		steps, err := b.Service.NextSteps(ctx, t.UserID, t.GuildID)
		if err != nil {
			return replyError(e, true, catalog, err)
		}

		content, embed := nextStepsReply(t.DisplayName, steps, time.Now())
		if embed == nil {
			return utils.EH.Reply(e, true, content)
		}
		return utils.EH.ReplyEmbed(e, true, *embed)
	}
}
