package handlers

import (
	"fmt"

	"clashberry/lang"

	"github.com/bwmarrin/discordgo"
)

func handleClan(s *discordgo.Session, i *discordgo.InteractionCreate) {
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})

	clan, err := CoC.Clan(optionMap(i)["tag"].StringValue())
	if err != nil {
		followup(s, i, lang.T("invalid_clan_tag"))
		return
	}
	_, _ = s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{clanEmbed(clan)},
	})
}

func handleWar(s *discordgo.Session, i *discordgo.InteractionCreate) {
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})

	war, err := CoC.CurrentWar(optionMap(i)["tag"].StringValue())
	if err != nil {
		followup(s, i, lang.T("no_current_war"))
		return
	}
	_, _ = s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{warEmbed(war)},
	})
}

func clanTagAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	current := focusedOptionValue(i)
	clans := Links.ClanLinks(i.GuildID)

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(clans))
	for _, clan := range clans {
		if !matchesQuery(current, clan.Name, clan.Tag) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  fmt.Sprintf("%s (%s)", clan.Name, clan.Tag),
			Value: clan.Tag,
		})
		if len(choices) == 25 {
			break
		}
	}
	respondChoices(s, i, choices)
}
