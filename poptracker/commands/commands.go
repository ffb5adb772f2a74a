package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/eqpop/poptracker/poptracker"
	"github.com/eqpop/poptracker/poptracker/handlers"
)

const (
	CmdTrackFlag     = "pop-trackflag"
	CmdResetFlags    = "pop-resetflags"
	CmdProgress      = "pop-progress"
	CmdNextSteps     = "pop-nextsteps"
	CmdGuildProgress = "pop-guildprogress"
	CmdHelp          = "pop-help"

	optionFlag   = "flag"
	optionPlayer = "player"
)

var Commands = []discord.ApplicationCommandCreate{
	TrackFlag,
	ResetFlags,
	Progress,
	NextSteps,
	GuildProgress,
	Help,
}

// Register mounts every command handler on h.
func Register(h *handler.Mux, b *poptracker.Bot) {
	h.Command("/"+CmdTrackFlag, handlers.WrapWithLogging(CmdTrackFlag, TrackFlagHandler(b)))
	h.Autocomplete("/"+CmdTrackFlag, handlers.WrapAutocompleteWithLogging(CmdTrackFlag, TrackFlagAutocomplete(b)))
	h.Command("/"+CmdResetFlags, handlers.WrapWithLogging(CmdResetFlags, ResetFlagsHandler(b)))
	h.Command("/"+CmdProgress, handlers.WrapWithLogging(CmdProgress, ProgressHandler(b)))
	h.Command("/"+CmdNextSteps, handlers.WrapWithLogging(CmdNextSteps, NextStepsHandler(b)))
	h.Command("/"+CmdGuildProgress, handlers.WrapWithLogging(CmdGuildProgress, GuildProgressHandler(b)))
	h.Command("/"+CmdHelp, handlers.WrapWithLogging(CmdHelp, HelpHandler(b)))
}

func playerOption(description string) discord.ApplicationCommandOptionUser {
	return discord.ApplicationCommandOptionUser{
		Name:        optionPlayer,
		Description: description,
		Required:    false,
	}
}
