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

var TrackFlag = discord.SlashCommandCreate{
	Name:        CmdTrackFlag,
	Description: "Mark a PoP flag as completed",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:         optionFlag,
			Description:  "The flag to mark as completed",
			Required:     true,
			Autocomplete: true,
		},
		playerOption("The player to update (defaults to you)"),
	},
}

func TrackFlagHandler(b *poptracker.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
		defer cancel()

		catalog := b.Service.Catalog()
		t := resolveTarget(e)
		if err := ensureTarget(ctx, b, t); err != nil {
			return replyError(e, false, catalog, err)
		}

		key := e.SlashCommandInteractionData().String(optionFlag)
		completion, err := b.Service.CompleteFlag(ctx, t.UserID, t.GuildID, key)
		if err != nil {
			return replyError(e, false, catalog, err)
		}

		if !completion.Transitioned {
			return utils.EH.Reply(e, false, alreadyCompletedMessage(t.DisplayName, completion.Flag))
		}

		handlers.RecordFlagCompletion(completion.Flag.Key)
		if err := utils.EH.Reply(e, false, completionMessage(t.DisplayName, completion.Flag)); err != nil {
			return err
		}
		if completion.Flag.Key == catalog.Terminal().Key {
			return utils.EH.FollowUp(e, terminalMessage(t.DisplayName))
		}
		return nil
	}
}
