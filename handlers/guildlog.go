package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
)

// LogChannelID is the operator channel notified when the bot joins a new
// guild. Empty disables the notification.
var LogChannelID string

// handleGuildJoin posts an operator notification when the bot is added to
// a guild. GuildCreate also fires for every guild on connect, so only
// recent joins are reported.
func handleGuildJoin(s *discordgo.Session, g *discordgo.GuildCreate) {
	if LogChannelID == "" || time.Since(g.JoinedAt) > time.Minute {
		return
	}

	addedBy := "Unknown"
	audit, err := s.GuildAuditLog(g.ID, "", "", int(discordgo.AuditLogActionBotAdd), 3)
	if err == nil {
		for _, entry := range audit.AuditLogEntries {
			if entry.TargetID == s.State.User.ID {
				addedBy = fmt.Sprintf("<@%s>", entry.UserID)
				break
			}
		}
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🍓 Added to %s", g.Name),
		Description: fmt.Sprintf("ClashBerry bot added to new server **%s**.\n\nServer ID: `%s`\n\nAdded by %s", g.Name, g.ID, addedBy),
		Color:       colorGreen,
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Now in Total %d servers.", len(s.State.Guilds))},
	}
	if g.Icon != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: g.IconURL("256")}
	}

	if _, err := s.ChannelMessageSendEmbed(LogChannelID, embed); err != nil {
		log.Printf("[GuildLog] Failed to send join notification: %v", err)
	}
}
