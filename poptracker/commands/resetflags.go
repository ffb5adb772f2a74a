package commands

import (
	"context"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/eqpop/poptracker/poptracker"
	"github.com/eqpop/poptracker/poptracker/config"
	"github.com/eqpop/poptracker/poptracker/handlers"
	"github.com/eqpop/poptracker/poptracker/utils"
)

var ResetFlags = discord.SlashCommandCreate{
	Name:        CmdResetFlags,
	Description: "Reset all your PoP flags",
}

func ResetFlagsHandler(b *poptracker.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
		defer cancel()

		catalog := b.Service.Catalog()
		t := resolveTarget(e)
		// Reset takes no player option; this keeps other players' records
		// out of reach should one be added.
		if !t.Self {
			return utils.EH.CreateClassifiedError(e, false, utils.PermissionError, msgResetOthers)
		}
		if err := ensureTarget(ctx, b, t); err != nil {
			return replyError(e, false, catalog, err)
		}

		if _, err := b.Service.ResetFlags(ctx, t.UserID, t.GuildID); err != nil {
			return replyError(e, false, catalog, err)
		}
		handlers.RecordFlagReset()
		return utils.EH.Reply(e, false, resetMessage(catalog.Root()))
	}
}
