package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"

	"github.com/eqpop/poptracker/poptracker"
	"github.com/eqpop/poptracker/poptracker/config"
	"github.com/eqpop/poptracker/poptracker/utils"
)

var GuildProgress = discord.SlashCommandCreate{
	Name:        CmdGuildProgress,
	Description: "View server-wide progression through PoP content",
}

func GuildProgressHandler(b *poptracker.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if e.GuildID() == nil {
			return utils.EH.Reply(e, false, msgGuildOnly)
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
		defer cancel()

		catalog := b.Service.Catalog()
		t := resolveTarget(e)
		if err := ensureTarget(ctx, b, t); err != nil {
			return replyError(e, false, catalog, err)
		}

		summary, err := b.Service.GuildProgress(ctx, t.GuildID)
		if err != nil {
			return replyError(e, false, catalog, err)
		}
		if len(summary.Players) == 0 {
			return utils.EH.Reply(e, false, msgNoGuildPlayers)
		}

		guildName := "This server"
		if guild, ok := e.Guild(); ok {
			guildName = guild.Name
		}
		totalPages := guildPageCount(summary)
		now := time.Now()

		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				embed.
					SetTitle(fmt.Sprintf("%s - Planes of Power Progress", guildName)).
					SetDescription(guildHeader(summary)).
					SetColor(config.GuildColor).
					SetTimestamp(now).
					SetFields(discord.EmbedField{
						Name:  "Top Players",
						Value: guildPageLines(summary, page),
					}).
					SetFooterText(fmt.Sprintf("Page %d/%d", page+1, totalPages))
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}
