package utils

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

// ResponseHandler provides standardized response methods for commands.
// Deferred variants edit the deferred response instead of creating one.
type ResponseHandler struct{}

var EH = &ResponseHandler{}

// ErrorType represents different categories of errors for consistent handling
type ErrorType int

const (
	// UserError - invalid input or a rule the player has not met yet
	UserError ErrorType = iota
	// SystemError - store failures and other internal problems
	SystemError
	// PermissionError - actions on someone else's record
	PermissionError
)

func getErrorPrefix(errorType ErrorType) string {
	switch errorType {
	case SystemError:
		return "🔧 "
	case PermissionError:
		return "🚫 "
	default:
		return ""
	}
}

// Reply sends a plain message as the interaction response.
func (h *ResponseHandler) Reply(event *handler.CommandEvent, deferred bool, content string) error {
	if deferred {
		_, err := event.UpdateInteractionResponse(discord.MessageUpdate{Content: &content})
		return err
	}
	return event.CreateMessage(discord.MessageCreate{Content: content})
}

// ReplyEmbed sends a single embed as the interaction response.
func (h *ResponseHandler) ReplyEmbed(event *handler.CommandEvent, deferred bool, embed discord.Embed) error {
	if deferred {
		_, err := event.UpdateInteractionResponse(discord.MessageUpdate{Embeds: &[]discord.Embed{embed}})
		return err
	}
	return event.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{embed}})
}

// FollowUp sends an additional message after the interaction response.
func (h *ResponseHandler) FollowUp(event *handler.CommandEvent, content string) error {
	_, err := event.CreateFollowupMessage(discord.MessageCreate{Content: content})
	return err
}

// CreateClassifiedError replies with message prefixed by the error type's marker.
func (h *ResponseHandler) CreateClassifiedError(event *handler.CommandEvent, deferred bool, errorType ErrorType, message string) error {
	return h.Reply(event, deferred, getErrorPrefix(errorType)+message)
}
