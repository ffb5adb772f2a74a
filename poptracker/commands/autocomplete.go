package commands

import (
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/sahilm/fuzzy"

	"github.com/eqpop/poptracker/internal/domain/flags"
	"github.com/eqpop/poptracker/poptracker"
	"github.com/eqpop/poptracker/poptracker/config"
)

// flagSource implements fuzzy.Source over flag names.
type flagSource []flags.FlagDefinition

func (s flagSource) Len() int {
	return len(s)
}

func (s flagSource) String(i int) string {
	return s[i].Name
}

func TrackFlagAutocomplete(b *poptracker.Bot) handler.AutocompleteHandler {
	return func(e *handler.AutocompleteEvent) error {
		query := e.Data.String(optionFlag)
		return e.AutocompleteResult(suggestFlags(b.Service.Catalog(), query, config.MaxAutocompleteChoices))
	}
}

// suggestFlags returns up to limit flags matching query, best match first.
// An empty query lists flags in catalog order. Exact key matches come first
// so typing a key always offers that flag.
func suggestFlags(catalog *flags.Catalog, query string, limit int) []discord.AutocompleteChoice {
	defs := flagSource(catalog.All())
	query = strings.TrimSpace(query)

	var picked []flags.FlagDefinition
	if query == "" {
		picked = defs
	} else {
		seen := make(map[string]bool)
		for _, def := range defs {
			if strings.EqualFold(def.Key, query) {
				picked = append(picked, def)
				seen[def.Key] = true
				break
			}
		}
		for _, match := range fuzzy.FindFrom(query, defs) {
			def := defs[match.Index]
			if !seen[def.Key] {
				picked = append(picked, def)
				seen[def.Key] = true
			}
		}
	}

	choices := make([]discord.AutocompleteChoice, 0, min(len(picked), limit))
	for _, def := range picked {
		if len(choices) == limit {
			break
		}
		choices = append(choices, discord.AutocompleteChoiceString{
			Name:  def.Name,
			Value: def.Key,
		})
	}
	return choices
}
