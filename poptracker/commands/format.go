package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"

	"github.com/eqpop/poptracker/internal/domain/flags"
	"github.com/eqpop/poptracker/poptracker/config"
)

const (
	msgInvalidFlag      = "Invalid flag specified."
	msgStoreUnavailable = "The flag tracker cannot reach its database right now. Please try again later."
	msgResetOthers      = "You can only reset your own flags."
	msgGuildOnly        = "This command can only be used in a server."
	msgNoGuildPlayers   = "No players in this server have tracked any PoP flags yet."
	msgNoFlagsAvailable = "No flags are currently available. Check your progress to see what requirements you need to meet first."
	msgAllComplete      = "🎉 You have completed all Planes of Power content including Quarm!"
)

const helpText = `* /pop-help - Shows the following commands
* /pop-trackflag flag:[flag name] player:[optional] - Mark a flag as completed for you or another player.
* /pop-resetflags - Reset all your PoP flags (only works on yourself).
* /pop-progress player:[optional] - View your or another player's progress through PoP.
* /pop-nextsteps player:[optional] - See what flags are available to complete next.
* /pop-guildprogress - See the progress percentage of each guild player.`

func completionMessage(displayName string, def flags.FlagDefinition) string {
	return fmt.Sprintf("✅ %s has completed the flag: %s", displayName, def.Name)
}

func alreadyCompletedMessage(displayName string, def flags.FlagDefinition) string {
	return fmt.Sprintf("ℹ️ %s has already completed the flag: %s", displayName, def.Name)
}

func terminalMessage(displayName string) string {
	return fmt.Sprintf("🎉 **CONGRATULATIONS!** %s has completed the full Planes of Power progression and defeated Quarm!", displayName)
}

func resetMessage(root flags.FlagDefinition) string {
	return fmt.Sprintf("Your PoP flags have been reset. You now only have access to the %s.", root.Name)
}

// missingMessage names the unmet requirements in dependency order.
func missingMessage(catalog *flags.Catalog, missing []string) string {
	names := make([]string, 0, len(missing))
	for _, key := range missing {
		if def, ok := catalog.Get(key); ok {
			names = append(names, def.Name)
		} else {
			names = append(names, key)
		}
	}
	return "Cannot complete this flag yet. Missing requirements: " + strings.Join(names, ", ")
}

func progressEmbed(catalog *flags.Catalog, displayName string, view flags.ProgressView) discord.Embed {
	eb := discord.NewEmbedBuilder().
		SetTitle(fmt.Sprintf("%s's Planes of Power Progress", displayName)).
		SetDescription(fmt.Sprintf("Flag progression towards %s", catalog.Terminal().Name)).
		SetColor(config.InfoColor).
		SetTimestamp(view.LastUpdated)

	for _, category := range catalog.Categories() {
		lines := make([]string, 0, len(category.Flags))
		for _, def := range category.Flags {
			mark := "❌"
			if view.Flags[def.Key] {
				mark = "✅"
			}
			lines = append(lines, fmt.Sprintf("%s %s", mark, def.Name))
		}
		eb.AddField(category.Name, strings.Join(lines, "\n"), false)
	}

	eb.SetFooterText(fmt.Sprintf("Overall Progress: %d%% (%d/%d)", view.Percentage, view.CompletedCount, view.TotalFlags))
	return eb.Build()
}

// nextStepsReply returns either a plain message or an embed listing the
// flags the player can complete now.
func nextStepsReply(displayName string, steps flags.NextSteps, now time.Time) (string, *discord.Embed) {
	if len(steps.Available) == 0 {
		if steps.TerminalComplete {
			return msgAllComplete, nil
		}
		return msgNoFlagsAvailable, nil
	}

	lines := make([]string, 0, len(steps.Available))
	for _, def := range steps.Available {
		lines = append(lines, fmt.Sprintf("- **%s**: %s", def.Name, def.Description))
	}
	embed := discord.NewEmbedBuilder().
		SetTitle(fmt.Sprintf("%s's Next Available Flags", displayName)).
		SetDescription(strings.Join(lines, "\n")).
		SetColor(config.NextStepColor).
		SetTimestamp(now).
		Build()
	return "", &embed
}

func guildHeader(summary flags.GuildSummary) string {
	return fmt.Sprintf("Total Players Tracking: %d | Quarm Slayers: %d", len(summary.Players), summary.QuarmSlayerCount)
}

func guildPageCount(summary flags.GuildSummary) int {
	return max(1, (len(summary.Players)+config.PlayersPerPage-1)/config.PlayersPerPage)
}

// guildPageLines renders one page of the ranking; ranks continue across pages.
func guildPageLines(summary flags.GuildSummary, page int) string {
	start := page * config.PlayersPerPage
	if start >= len(summary.Players) {
		return "No data available"
	}
	end := min(start+config.PlayersPerPage, len(summary.Players))

	var sb strings.Builder
	for i, p := range summary.Players[start:end] {
		crown := ""
		if p.QuarmDefeated {
			crown = " 👑"
		}
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%d. **%s**%s: %d%% (%d/%d)",
			start+i+1,
			p.DisplayName,
			crown,
			flags.Percentage(p.FlagsCompleted, summary.TotalFlags),
			p.FlagsCompleted,
			summary.TotalFlags)
	}
	return sb.String()
}
