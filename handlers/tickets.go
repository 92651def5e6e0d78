package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"clashberry/coc"
	"clashberry/lang"
	"clashberry/storage"

	"github.com/bwmarrin/discordgo"
)

// ticketChannelName derives the deterministic channel name for a user's
// application ticket. One open ticket per derived name per guild.
func ticketChannelName(username string) string {
	return "ticket-" + strings.ReplaceAll(strings.ToLower(username), ".", "")
}

// findTicketChannel scans the guild's channels for an open ticket with the
// derived name. The scan and the later create are not atomic; two
// near-simultaneous applications can slip through, which is why the guard
// runs again at confirmation time.
func findTicketChannel(s *discordgo.Session, guildID, name string) *discordgo.Channel {
	channels, err := s.GuildChannels(guildID)
	if err != nil {
		log.Printf("[Ticket] Failed to list channels for guild %s: %v", guildID, err)
		return nil
	}
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildText && ch.Name == name {
			return ch
		}
	}
	return nil
}

// staffRole resolves the guild's currently configured staff role. Delete
// authorization always goes through here, so changing the configured role
// changes who may delete tickets that are already open.
func staffRole(s *discordgo.Session, guildID string) (*discordgo.Role, bool) {
	cfg, ok := TicketCfg.Get(guildID)
	if !ok || cfg.StaffRoleID == "" {
		return nil, false
	}
	if role, err := s.State.Role(guildID, cfg.StaffRoleID); err == nil {
		return role, true
	}
	roles, err := s.GuildRoles(guildID)
	if err != nil {
		return nil, false
	}
	for _, role := range roles {
		if role.ID == cfg.StaffRoleID {
			return role, true
		}
	}
	return nil, false
}

func handleTicketApply(s *discordgo.Session, i *discordgo.InteractionCreate) {
	name := ticketChannelName(i.Member.User.Username)
	if existing := findTicketChannel(s, i.GuildID, name); existing != nil {
		respondEmbed(s, i, &discordgo.MessageEmbed{
			Description: lang.T("ticket_already_open", "channel", existing.ID),
			Color:       colorRed,
		}, true)
		return
	}

	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: "ticket_tag_modal",
			Title:    "Enter In-game Tag",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:    "tag",
							Label:       "Player Tag",
							Style:       discordgo.TextInputShort,
							Placeholder: "e.g. #2Q82LRL",
							Required:    true,
							MinLength:   5,
							MaxLength:   15,
						},
					},
				},
			},
		},
	})
}

func handleTicketTagModal(s *discordgo.Session, i *discordgo.InteractionCreate) {
	deferEphemeral(s, i)

	tag := coc.NormalizeTag(modalInputs(i.ModalSubmitData())["tag"])
	player, err := CoC.Player(tag)
	if err != nil {
		followup(s, i, lang.T("invalid_player_tag"))
		return
	}
	cacheProfile(player)

	_, _ = s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Flags: discordgo.MessageFlagsEphemeral,
		Embeds: []*discordgo.MessageEmbed{{
			Title:       fmt.Sprintf("%s (%s)", player.Name, player.Tag),
			Description: lang.T("ticket_confirm_prompt"),
			Color:       colorYellow,
		}},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Confirm",
						Style:    discordgo.SuccessButton,
						CustomID: "ticket_confirm:" + tag,
					},
				},
			},
		},
	})
}

func handleTicketConfirm(s *discordgo.Session, i *discordgo.InteractionCreate, tag string) {
	user := i.Member.User

	role, ok := staffRole(s, i.GuildID)
	if !ok {
		respond(s, i, lang.T("ticket_staff_missing"), true)
		return
	}

	// Second duplicate guard, closing most of the race window left by the
	// first one at the apply button.
	name := ticketChannelName(user.Username)
	if existing := findTicketChannel(s, i.GuildID, name); existing != nil {
		_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseUpdateMessage,
			Data: &discordgo.InteractionResponseData{
				Embeds: []*discordgo.MessageEmbed{{
					Description: lang.T("ticket_already_open", "channel", existing.ID),
					Color:       colorRed,
				}},
				Components: []discordgo.MessageComponent{},
			},
		})
		return
	}

	cfg, _ := TicketCfg.Get(i.GuildID)

	overwrites := []*discordgo.PermissionOverwrite{
		{ID: i.GuildID, Type: discordgo.PermissionOverwriteTypeRole, Deny: discordgo.PermissionViewChannel},
		{
			ID:    user.ID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionAttachFiles | discordgo.PermissionReadMessageHistory,
		},
		{
			ID:    role.ID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionAttachFiles | discordgo.PermissionReadMessageHistory | discordgo.PermissionManageMessages,
		},
	}

	ch, err := s.GuildChannelCreateComplex(i.GuildID, discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildText,
		ParentID:             cfg.CategoryID,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		log.Printf("[Ticket] Failed to create channel in guild %s: %v", i.GuildID, err)
		respond(s, i, lang.T("save_failed"), true)
		return
	}

	msg, err := s.ChannelMessageSendComplex(ch.ID, &discordgo.MessageSend{
		Content: fmt.Sprintf("<@%s> <@&%s>", user.ID, role.ID),
		Embeds:  []*discordgo.MessageEmbed{ticketWelcomeEmbed()},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Player Account",
						Style:    discordgo.PrimaryButton,
						CustomID: fmt.Sprintf("ticket_profile:%s:%s", user.ID, tag),
					},
					discordgo.Button{
						Label:    "Delete Ticket",
						Style:    discordgo.DangerButton,
						CustomID: fmt.Sprintf("ticket_delete:%s:%s", user.ID, tag),
					},
				},
			},
		},
	})
	if err == nil {
		_ = s.ChannelMessagePin(ch.ID, msg.ID)
	}

	if Events != nil {
		if err := Events.AddTicketEvent(storage.TicketEvent{
			GuildID:   i.GuildID,
			ChannelID: ch.ID,
			UserID:    user.ID,
			ActorID:   user.ID,
			Action:    storage.TicketOpened,
			PlayerTag: tag,
			Timestamp: time.Now().Format(time.RFC3339),
		}); err != nil {
			log.Printf("[DB] Failed to record ticket open: %v", err)
		}
	}

	// Swap the confirmation card for a success card and disable the button
	// in place.
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{{
				Title:       "✅ Ticket Created",
				Description: lang.T("ticket_created", "channel", ch.ID),
				Color:       colorGreen,
			}},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.Button{
							Label:    "Confirm",
							Style:    discordgo.SuccessButton,
							CustomID: "ticket_confirm:" + tag,
							Disabled: true,
						},
					},
				},
			},
		},
	})
}

func handleTicketProfile(s *discordgo.Session, i *discordgo.InteractionCreate, arg string) {
	ownerID, tag, ok := strings.Cut(arg, ":")
	if !ok {
		return
	}
	if i.Member.User.ID != ownerID {
		respond(s, i, lang.T("ticket_profile_gate"), true)
		return
	}

	player, err := profileByTag(tag)
	if err != nil {
		respond(s, i, lang.T("invalid_player_tag"), true)
		return
	}
	respondEmbed(s, i, playerInfoEmbed(player), true)
}

func handleTicketDelete(s *discordgo.Session, i *discordgo.InteractionCreate, arg string) {
	role, ok := staffRole(s, i.GuildID)
	if !ok {
		respond(s, i, lang.T("ticket_staff_missing"), true)
		return
	}

	isStaff := false
	for _, roleID := range i.Member.Roles {
		if roleID == role.ID {
			isStaff = true
			break
		}
	}
	if !isStaff {
		respond(s, i, lang.T("ticket_ask_staff"), true)
		return
	}

	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
			Embeds: []*discordgo.MessageEmbed{{
				Title:       "Delete Confirmation",
				Description: lang.T("ticket_delete_prompt"),
				Color:       colorRed,
			}},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.Button{
							Label:    "Confirm Delete",
							Style:    discordgo.DangerButton,
							CustomID: "ticket_delete_confirm:" + arg,
						},
					},
				},
			},
		},
	})
}

func handleTicketDeleteConfirm(s *discordgo.Session, i *discordgo.InteractionCreate, arg string) {
	ownerID, tag, _ := strings.Cut(arg, ":")

	if Events != nil {
		if err := Events.AddTicketEvent(storage.TicketEvent{
			GuildID:   i.GuildID,
			ChannelID: i.ChannelID,
			UserID:    ownerID,
			ActorID:   i.Member.User.ID,
			Action:    storage.TicketDeleted,
			PlayerTag: tag,
			Timestamp: time.Now().Format(time.RFC3339),
		}); err != nil {
			log.Printf("[DB] Failed to record ticket delete: %v", err)
		}
	}

	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if _, err := s.ChannelDelete(i.ChannelID); err != nil {
		log.Printf("[Ticket] Failed to delete channel %s: %v", i.ChannelID, err)
	}
}

// panelSession is one admin's in-flight setup flow. Process memory only;
// after a restart the admin reruns /setupticket (the persisted config
// survives, only the draft does not).
type panelSession struct {
	GuildID         string
	StaffRoleID     string
	TargetChannelID string
	Title           string
	Description     string
	ImageURL        string
	Sent            bool
}

var (
	panelMu       sync.Mutex
	panelSessions = make(map[string]*panelSession)
)

func newPanelNonce() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func panelSessionByNonce(nonce string) *panelSession {
	panelMu.Lock()
	defer panelMu.Unlock()
	return panelSessions[nonce]
}

func handleSetupTicket(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !isAdmin(i) {
		respond(s, i, lang.T("no_permission"), true)
		return
	}
	deferEphemeral(s, i)

	opts := optionMap(i)
	role := opts["staff_role"].RoleValue(s, i.GuildID)

	cfg := storage.TicketConfig{StaffRoleID: role.ID}
	if cat, ok := opts["category"]; ok {
		cfg.CategoryID = cat.ChannelValue(s).ID
	}

	// Config is persisted up front: re-running setup overwrites the guild's
	// staff role and category even if the admin never publishes a panel.
	if err := TicketCfg.Set(i.GuildID, cfg); err != nil {
		log.Printf("[Ticket] Failed to save ticket config for guild %s: %v", i.GuildID, err)
		followup(s, i, lang.T("save_failed"))
		return
	}

	session := &panelSession{
		GuildID:     i.GuildID,
		StaffRoleID: role.ID,
		Title:       lang.T("panel_draft_title"),
		Description: lang.T("panel_draft_description"),
	}
	if ch, ok := opts["channel"]; ok {
		session.TargetChannelID = ch.ChannelValue(s).ID
	}

	nonce := newPanelNonce()
	panelMu.Lock()
	panelSessions[nonce] = session
	panelMu.Unlock()

	_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Flags:      discordgo.MessageFlagsEphemeral,
		Embeds:     []*discordgo.MessageEmbed{panelDraftEmbed(session.Title, session.Description, "")},
		Components: panelPreviewComponents(nonce, false, false),
	})
	if err != nil {
		log.Printf("[Ticket] Failed to send panel preview: %v", err)
	}
}

// panelPreviewComponents builds the draft's action row. The Send button
// appears once the draft has been edited at least once and is disabled
// after publishing.
func panelPreviewComponents(nonce string, edited, sent bool) []discordgo.MessageComponent {
	buttons := []discordgo.MessageComponent{
		discordgo.Button{
			Label:    "Setup Embed",
			Style:    discordgo.SecondaryButton,
			CustomID: "panel_edit:" + nonce,
			Disabled: sent,
		},
	}
	if edited {
		buttons = append(buttons, discordgo.Button{
			Label:    "Send Panel",
			Style:    discordgo.SuccessButton,
			CustomID: "panel_send:" + nonce,
			Disabled: sent,
		})
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}

func handlePanelEdit(s *discordgo.Session, i *discordgo.InteractionCreate, nonce string) {
	session := panelSessionByNonce(nonce)
	if session == nil {
		respond(s, i, lang.T("ticket_staff_missing"), true)
		return
	}

	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: "panel_modal:" + nonce,
			Title:    "Setup Ticket Panel Embed",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID: "title", Label: "Embed Title", Style: discordgo.TextInputShort,
						Required: true, MaxLength: 256, Value: session.Title,
					},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID: "description", Label: "Embed Description", Style: discordgo.TextInputParagraph,
						Required: true, MaxLength: 1024, Value: session.Description,
					},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID: "image", Label: "Image URL (optional)", Style: discordgo.TextInputShort,
						Required: false, MaxLength: 300, Value: session.ImageURL,
					},
				}},
			},
		},
	})
}

func handlePanelModal(s *discordgo.Session, i *discordgo.InteractionCreate, nonce string) {
	session := panelSessionByNonce(nonce)
	if session == nil {
		respond(s, i, lang.T("ticket_staff_missing"), true)
		return
	}

	inputs := modalInputs(i.ModalSubmitData())
	panelMu.Lock()
	session.Title = inputs["title"]
	session.Description = inputs["description"]
	session.ImageURL = inputs["image"]
	panelMu.Unlock()

	// The modal came off the draft message, so an update-message response
	// edits the draft in place.
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{panelDraftEmbed(session.Title, session.Description, session.ImageURL)},
			Components: panelPreviewComponents(nonce, true, false),
		},
	})
}

func handlePanelSend(s *discordgo.Session, i *discordgo.InteractionCreate, nonce string) {
	session := panelSessionByNonce(nonce)
	if session == nil || session.Sent {
		respond(s, i, lang.T("ticket_staff_missing"), true)
		return
	}

	target := session.TargetChannelID
	if target == "" {
		target = i.ChannelID
	}

	_, err := s.ChannelMessageSendComplex(target, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{panelDraftEmbed(session.Title, session.Description, session.ImageURL)},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Apply now",
						Style:    discordgo.SuccessButton,
						CustomID: "ticket_apply",
					},
				},
			},
		},
	})
	if err != nil {
		log.Printf("[Ticket] Failed to send panel to channel %s: %v", target, err)
		respond(s, i, lang.T("save_failed"), true)
		return
	}

	panelMu.Lock()
	session.Sent = true
	panelMu.Unlock()
	log.Printf("[Ticket] Panel published in guild %s channel %s", session.GuildID, target)

	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{panelDraftEmbed(session.Title, session.Description, session.ImageURL)},
			Components: panelPreviewComponents(nonce, true, true),
		},
	})
}

func modalInputs(data discordgo.ModalSubmitInteractionData) map[string]string {
	inputs := make(map[string]string)
	for _, row := range data.Components {
		ar, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, comp := range ar.Components {
			if ti, ok := comp.(*discordgo.TextInput); ok {
				inputs[ti.CustomID] = ti.Value
			}
		}
	}
	return inputs
}
