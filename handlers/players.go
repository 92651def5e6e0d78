package handlers

import (
	"fmt"
	"strings"
	"sync"

	"clashberry/coc"
	"clashberry/lang"

	"github.com/bwmarrin/discordgo"
)

// profileCache holds fetched player payloads keyed by normalized tag so
// component handlers (profile toggle, ticket confirmation) can reconstruct
// their displays without hitting the API on every click. It is process
// memory only; a restart falls back to a re-fetch by tag.
var (
	profileMu    sync.RWMutex
	profileCache = make(map[string]*coc.Player)
)

func cacheProfile(p *coc.Player) {
	profileMu.Lock()
	profileCache[coc.NormalizeTag(p.Tag)] = p
	profileMu.Unlock()
}

// profileByTag returns the cached payload, fetching it again on a miss.
func profileByTag(tag string) (*coc.Player, error) {
	profileMu.RLock()
	p, ok := profileCache[tag]
	profileMu.RUnlock()
	if ok {
		return p, nil
	}
	p, err := CoC.Player(tag)
	if err != nil {
		return nil, err
	}
	cacheProfile(p)
	return p, nil
}

func handlePlayer(s *discordgo.Session, i *discordgo.InteractionCreate) {
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})

	tag := coc.NormalizeTag(optionMap(i)["tag"].StringValue())
	player, err := CoC.Player(tag)
	if err != nil {
		followup(s, i, lang.T("invalid_player_tag"))
		return
	}
	cacheProfile(player)

	_, _ = s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Embeds:     []*discordgo.MessageEmbed{playerInfoEmbed(player)},
		Components: profileComponents(tag, false),
	})
}

// handleUnitToggle flips between the profile embed and the army overview.
// The custom ID carries the target mode and the tag; the payload itself
// comes from the cache.
func handleUnitToggle(s *discordgo.Session, i *discordgo.InteractionCreate, arg string) {
	mode, tag, ok := strings.Cut(arg, ":")
	if !ok {
		return
	}

	player, err := profileByTag(tag)
	if err != nil {
		respond(s, i, lang.T("invalid_player_tag"), true)
		return
	}

	showUnit := mode == "unit"
	embed := playerInfoEmbed(player)
	if showUnit {
		embed = armyOverviewEmbed(player)
	}
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: profileComponents(tag, showUnit),
		},
	})
}

func profileComponents(tag string, showUnit bool) []discordgo.MessageComponent {
	label, next := "Unit", "unit"
	if showUnit {
		label, next = "Back", "info"
	}

	buttons := []discordgo.MessageComponent{
		discordgo.Button{
			Label:    label,
			Style:    discordgo.PrimaryButton,
			CustomID: fmt.Sprintf("unit_toggle:%s:%s", next, tag),
		},
		discordgo.Button{
			Label: "Open In-game",
			Style: discordgo.LinkButton,
			URL:   "https://link.clashofclans.com/?action=OpenPlayerProfile&tag=%23" + strings.TrimPrefix(tag, "#"),
		},
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}

func playerTagAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	current := focusedOptionValue(i)
	accounts := Links.PlayerLinks(i.Member.User.ID)

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(accounts))
	for _, acc := range accounts {
		if !matchesQuery(current, acc.Name, acc.Tag) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  fmt.Sprintf("%s (%s)", acc.Name, acc.Tag),
			Value: acc.Tag,
		})
		if len(choices) == 25 {
			break
		}
	}
	respondChoices(s, i, choices)
}

func focusedOptionValue(i *discordgo.InteractionCreate) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Focused {
			return opt.StringValue()
		}
	}
	return ""
}

func matchesQuery(current, name, tag string) bool {
	q := strings.ToLower(current)
	return strings.Contains(strings.ToLower(tag), q) || strings.Contains(strings.ToLower(name), q)
}

func respondChoices(s *discordgo.Session, i *discordgo.InteractionCreate, choices []*discordgo.ApplicationCommandOptionChoice) {
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
}
