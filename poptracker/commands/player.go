package commands

import (
	"context"
	"errors"
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/eqpop/poptracker/internal/domain/flags"
	"github.com/eqpop/poptracker/poptracker"
	"github.com/eqpop/poptracker/poptracker/utils"
)

const dmGuildID = "dm"

// target is the player a command acts on.
type target struct {
	User        discord.User
	UserID      string
	GuildID     string
	DisplayName string
	Self        bool
}

// resolveTarget picks the player option when given and the invoker otherwise.
func resolveTarget(e *handler.CommandEvent) target {
	user := e.User()
	member := e.Member()
	if u, ok := e.SlashCommandInteractionData().OptUser(optionPlayer); ok {
		user = u
		member = nil
		if m, ok := e.SlashCommandInteractionData().OptMember(optionPlayer); ok {
			member = &m
		}
	}

	var nick *string
	if member != nil {
		nick = member.Nick
	}

	guildID := dmGuildID
	if id := e.GuildID(); id != nil {
		guildID = id.String()
	}

	return target{
		User:        user,
		UserID:      user.ID.String(),
		GuildID:     guildID,
		DisplayName: displayName(user, nick),
		Self:        user.ID == e.User().ID,
	}
}

// displayName prefers the guild nickname, then the global display name,
// then the username.
func displayName(user discord.User, nick *string) string {
	if nick != nil && *nick != "" {
		return *nick
	}
	if user.GlobalName != nil && *user.GlobalName != "" {
		return *user.GlobalName
	}
	return user.Username
}

// ensureTarget registers the target player before the command runs.
func ensureTarget(ctx context.Context, b *poptracker.Bot, t target) error {
	return b.Service.EnsurePlayer(ctx, t.UserID, t.GuildID, t.DisplayName)
}

// replyError answers with the user facing text for err. Store failures are
// logged with their cause; the reply never carries it.
func replyError(e *handler.CommandEvent, deferred bool, catalog *flags.Catalog, err error) error {
	errorType, message := describeError(catalog, err)
	if errorType == utils.SystemError {
		slog.Error("Progress store failed",
			slog.String("type", "db"),
			slog.String("user_id", e.User().ID.String()),
			slog.Any("error", err))
	}
	return utils.EH.CreateClassifiedError(e, deferred, errorType, message)
}

func describeError(catalog *flags.Catalog, err error) (utils.ErrorType, string) {
	var missing *flags.MissingDependenciesError
	switch {
	case errors.Is(err, flags.ErrUnknownFlag):
		return utils.UserError, msgInvalidFlag
	case errors.As(err, &missing):
		return utils.UserError, missingMessage(catalog, missing.Missing)
	default:
		return utils.SystemError, msgStoreUnavailable
	}
}
