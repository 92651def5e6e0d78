package handlers

import (
	"log"
	"strings"

	"clashberry/coc"
	"clashberry/storage"

	"github.com/bwmarrin/discordgo"
)

// Collaborators wired up by main before Register is called.
var (
	CoC       *coc.Client
	Links     storage.LinkStore
	TicketCfg *storage.TicketConfigStore
	Events    storage.Database
)

var adminPerm = int64(discordgo.PermissionAdministrator)

// Commands is the static registry of every slash command the bot serves.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name: "linkaccount", Description: "Link your account to your Discord.",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "tag", Description: "e.g. #2Q82LRL", Required: true},
			},
		},
		{Name: "unlinkaccount", Description: "Unlink one of your accounts."},
		{
			Name: "addclan", Description: "Link a clan to this server.",
			DefaultMemberPermissions: &adminPerm,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "tag", Description: "e.g. #2Q82LRL", Required: true},
			},
		},
		{
			Name: "removeclan", Description: "Remove a clan linked to this server.",
			DefaultMemberPermissions: &adminPerm,
		},
		{
			Name: "player", Description: "Get player information",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "tag", Description: "e.g. #2Q82LRL", Required: true, Autocomplete: true},
			},
		},
		{
			Name: "clan", Description: "Get clan information.",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "tag", Description: "e.g. #2Q82LRL", Required: true, Autocomplete: true},
			},
		},
		{
			Name: "war", Description: "Get clan war information.",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "tag", Description: "e.g. #2Q82LRL", Required: true, Autocomplete: true},
			},
		},
		{
			Name: "setupticket", Description: "Setup the clan application ticket panel",
			DefaultMemberPermissions: &adminPerm,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionRole, Name: "staff_role", Description: "Select role for staff", Required: true},
				{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "Channel to send the ticket panel (optional)"},
				{Type: discordgo.ApplicationCommandOptionChannel, Name: "category", Description: "Category for ticket channels (optional)"},
			},
		},
	}
}

func Register(s *discordgo.Session) {
	s.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.GuildID == "" {
			return
		}

		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			handleSlashCommand(s, i)
		case discordgo.InteractionApplicationCommandAutocomplete:
			handleAutocomplete(s, i)
		case discordgo.InteractionMessageComponent:
			handleComponent(s, i)
		case discordgo.InteractionModalSubmit:
			handleModal(s, i)
		}
	})
	s.AddHandler(handleGuildJoin)
}

func handleSlashCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "linkaccount":
		handleLinkAccount(s, i)
	case "unlinkaccount":
		handleUnlinkAccount(s, i)
	case "addclan":
		handleAddClan(s, i)
	case "removeclan":
		handleRemoveClan(s, i)
	case "player":
		handlePlayer(s, i)
	case "clan":
		handleClan(s, i)
	case "war":
		handleWar(s, i)
	case "setupticket":
		handleSetupTicket(s, i)
	default:
		log.Printf("Unknown command: %s", i.ApplicationCommandData().Name)
	}
}

func handleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "player":
		playerTagAutocomplete(s, i)
	case "clan", "war":
		clanTagAutocomplete(s, i)
	}
}

func handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID

	// Custom IDs carry their forward state after a colon.
	switch prefix, arg := splitCustomID(customID); prefix {
	case "unlink_select":
		handleUnlinkSelect(s, i)
	case "removeclan_select":
		handleRemoveClanSelect(s, i)
	case "unit_toggle":
		handleUnitToggle(s, i, arg)
	case "ticket_apply":
		handleTicketApply(s, i)
	case "ticket_confirm":
		handleTicketConfirm(s, i, arg)
	case "ticket_profile":
		handleTicketProfile(s, i, arg)
	case "ticket_delete":
		handleTicketDelete(s, i, arg)
	case "ticket_delete_confirm":
		handleTicketDeleteConfirm(s, i, arg)
	case "panel_edit":
		handlePanelEdit(s, i, arg)
	case "panel_send":
		handlePanelSend(s, i, arg)
	default:
		log.Printf("Unknown component: %s", customID)
	}
}

func handleModal(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.ModalSubmitData().CustomID

	switch prefix, arg := splitCustomID(customID); prefix {
	case "ticket_tag_modal":
		handleTicketTagModal(s, i)
	case "panel_modal":
		handlePanelModal(s, i, arg)
	default:
		log.Printf("Unknown modal: %s", customID)
	}
}

func splitCustomID(customID string) (prefix, arg string) {
	if idx := strings.Index(customID, ":"); idx >= 0 {
		return customID[:idx], customID[idx+1:]
	}
	return customID, ""
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) {
	flags := discordgo.MessageFlags(0)
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   flags,
		},
	})
	if err != nil {
		log.Printf("Failed to respond: %v", err)
	}
}

func respondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) {
	flags := discordgo.MessageFlags(0)
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  flags,
		},
	})
}

// deferEphemeral acknowledges the interaction immediately so slow upstream
// calls don't run into the interaction-response deadline.
func deferEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate) {
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
}

func followup(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	_, _ = s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}

func optionMap(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption)
	for _, opt := range i.ApplicationCommandData().Options {
		m[opt.Name] = opt
	}
	return m
}

func isAdmin(i *discordgo.InteractionCreate) bool {
	return i.Member != nil && i.Member.Permissions&discordgo.PermissionAdministrator != 0
}
