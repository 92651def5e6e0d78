package handlers

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestTicketChannelName(t *testing.T) {
	tests := []struct {
		username string
		want     string
	}{
		{"ArchQueen", "ticket-archqueen"},
		{"arch.queen", "ticket-archqueen"},
		{"A.B.C", "ticket-abc"},
		{"plain", "ticket-plain"},
	}
	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			if got := ticketChannelName(tt.username); got != tt.want {
				t.Errorf("ticketChannelName(%q) = %q, want %q", tt.username, got, tt.want)
			}
		})
	}
}

func TestSplitCustomID(t *testing.T) {
	tests := []struct {
		in         string
		wantPrefix string
		wantArg    string
	}{
		{"ticket_apply", "ticket_apply", ""},
		{"ticket_confirm:#ABC123", "ticket_confirm", "#ABC123"},
		{"ticket_profile:123:#ABC123", "ticket_profile", "123:#ABC123"},
		{"panel_edit:deadbeef", "panel_edit", "deadbeef"},
	}
	for _, tt := range tests {
		prefix, arg := splitCustomID(tt.in)
		if prefix != tt.wantPrefix || arg != tt.wantArg {
			t.Errorf("splitCustomID(%q) = (%q, %q), want (%q, %q)", tt.in, prefix, arg, tt.wantPrefix, tt.wantArg)
		}
	}
}

func TestPanelPreviewComponents(t *testing.T) {
	buttons := func(comps []discordgo.MessageComponent) []discordgo.Button {
		row := comps[0].(discordgo.ActionsRow)
		out := make([]discordgo.Button, 0, len(row.Components))
		for _, c := range row.Components {
			out = append(out, c.(discordgo.Button))
		}
		return out
	}

	// Fresh draft: edit only.
	got := buttons(panelPreviewComponents("n1", false, false))
	if len(got) != 1 || got[0].Label != "Setup Embed" || got[0].Disabled {
		t.Errorf("fresh draft buttons: %+v", got)
	}

	// Edited draft: edit and send.
	got = buttons(panelPreviewComponents("n1", true, false))
	if len(got) != 2 || got[1].Label != "Send Panel" || got[1].Disabled {
		t.Errorf("edited draft buttons: %+v", got)
	}

	// Published: everything disabled.
	got = buttons(panelPreviewComponents("n1", true, true))
	for _, b := range got {
		if !b.Disabled {
			t.Errorf("published draft has enabled button %q", b.Label)
		}
	}
}

func TestModalInputs(t *testing.T) {
	data := discordgo.ModalSubmitInteractionData{
		CustomID: "panel_modal:n1",
		Components: []discordgo.MessageComponent{
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				&discordgo.TextInput{CustomID: "title", Value: "Join us"},
			}},
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				&discordgo.TextInput{CustomID: "description", Value: "Apply below"},
			}},
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				&discordgo.TextInput{CustomID: "image", Value: ""},
			}},
		},
	}

	inputs := modalInputs(data)
	if inputs["title"] != "Join us" || inputs["description"] != "Apply below" {
		t.Errorf("modalInputs = %v", inputs)
	}
	if v, ok := inputs["image"]; !ok || v != "" {
		t.Errorf("optional empty input missing: %v", inputs)
	}
}
