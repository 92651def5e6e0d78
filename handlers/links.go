package handlers

import (
	"errors"
	"fmt"
	"log"

	"clashberry/coc"
	"clashberry/lang"
	"clashberry/storage"

	"github.com/bwmarrin/discordgo"
)

func handleLinkAccount(s *discordgo.Session, i *discordgo.InteractionCreate) {
	deferEphemeral(s, i)

	tag := coc.NormalizeTag(optionMap(i)["tag"].StringValue())
	player, err := CoC.Player(tag)
	if err != nil {
		followup(s, i, lang.T("invalid_player_tag"))
		return
	}

	userID := i.Member.User.ID
	err = Links.AddPlayerLink(userID, storage.Link{Name: player.Name, Tag: tag})
	if errors.Is(err, storage.ErrAlreadyLinked) {
		followup(s, i, lang.T("already_linked_account", "name", player.Name, "tag", tag))
		return
	}
	if err != nil {
		log.Printf("[Store] Failed to save player link for %s: %v", userID, err)
		followup(s, i, lang.T("save_failed"))
		return
	}
	followup(s, i, lang.T("linked_account", "name", player.Name, "tag", tag))
}

func handleUnlinkAccount(s *discordgo.Session, i *discordgo.InteractionCreate) {
	accounts := Links.PlayerLinks(i.Member.User.ID)
	if len(accounts) == 0 {
		respond(s, i, lang.T("no_linked_accounts"), true)
		return
	}

	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: lang.T("unlink_prompt"),
			Flags:   discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						linkSelectMenu("unlink_select", "Select an account to unlink...", accounts),
					},
				},
			},
		},
	})
}

func handleUnlinkSelect(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.MessageComponentData()
	if len(data.Values) == 0 {
		return
	}
	tag := data.Values[0]

	if err := Links.RemovePlayerLink(i.Member.User.ID, tag); err != nil {
		log.Printf("[Store] Failed to remove player link: %v", err)
		respond(s, i, lang.T("save_failed"), true)
		return
	}
	editOutComponents(s, i, lang.T("unlinked_account", "tag", tag))
}

func handleAddClan(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !isAdmin(i) {
		respond(s, i, lang.T("no_permission"), true)
		return
	}
	deferEphemeral(s, i)

	tag := coc.NormalizeTag(optionMap(i)["tag"].StringValue())
	clan, err := CoC.Clan(tag)
	if err != nil {
		followup(s, i, lang.T("invalid_clan_tag"))
		return
	}

	err = Links.AddClanLink(i.GuildID, storage.Link{Name: clan.Name, Tag: tag})
	if errors.Is(err, storage.ErrAlreadyLinked) {
		followup(s, i, lang.T("already_linked_clan", "name", clan.Name, "tag", tag))
		return
	}
	if err != nil {
		log.Printf("[Store] Failed to save clan link for guild %s: %v", i.GuildID, err)
		followup(s, i, lang.T("save_failed"))
		return
	}
	followup(s, i, lang.T("linked_clan", "name", clan.Name, "tag", tag))
}

func handleRemoveClan(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !isAdmin(i) {
		respond(s, i, lang.T("no_permission"), true)
		return
	}

	clans := Links.ClanLinks(i.GuildID)
	if len(clans) == 0 {
		respond(s, i, lang.T("no_linked_clans"), true)
		return
	}

	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: lang.T("removeclan_prompt"),
			Flags:   discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						linkSelectMenu("removeclan_select", "Select a clan to remove...", clans),
					},
				},
			},
		},
	})
}

func handleRemoveClanSelect(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.MessageComponentData()
	if len(data.Values) == 0 {
		return
	}
	tag := data.Values[0]

	if err := Links.RemoveClanLink(i.GuildID, tag); err != nil {
		log.Printf("[Store] Failed to remove clan link: %v", err)
		respond(s, i, lang.T("save_failed"), true)
		return
	}
	editOutComponents(s, i, lang.T("removed_clan", "tag", tag))
}

func linkSelectMenu(customID, placeholder string, links []storage.Link) discordgo.SelectMenu {
	opts := make([]discordgo.SelectMenuOption, 0, len(links))
	for _, l := range links {
		opts = append(opts, discordgo.SelectMenuOption{
			Label: fmt.Sprintf("%s (%s)", l.Name, l.Tag),
			Value: l.Tag,
		})
	}
	return discordgo.SelectMenu{
		MenuType:    discordgo.StringSelectMenu,
		CustomID:    customID,
		Placeholder: placeholder,
		Options:     opts,
	}
}

// editOutComponents replaces the picker message with a plain confirmation.
func editOutComponents(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: []discordgo.MessageComponent{},
		},
	})
}
