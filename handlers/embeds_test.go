package handlers

import (
	"strings"
	"testing"

	"clashberry/coc"
)

func TestUnitLines(t *testing.T) {
	units := []coc.Unit{
		{Name: "Barbarian", Level: 9, MaxLevel: 12},
		{Name: "Hog Rider", Level: 11, MaxLevel: 13},
		{Name: "Archer", Level: 8, MaxLevel: 12},
	}

	got := unitLines(units, elixirTroops)
	want := "Barbarian: 9/12\nArcher: 8/12"
	if got != want {
		t.Errorf("unitLines elixir = %q, want %q", got, want)
	}

	if got := unitLines(units, darkTroops); got != "Hog Rider: 11/13" {
		t.Errorf("unitLines dark = %q", got)
	}

	// No units in the group renders a placeholder, not an empty field.
	if got := unitLines(units, pets); got != "None" {
		t.Errorf("unitLines empty group = %q, want \"None\"", got)
	}
	if got := unitLines(nil, elixirTroops); got != "None" {
		t.Errorf("unitLines nil units = %q, want \"None\"", got)
	}
}

func TestHeroLines(t *testing.T) {
	if got := heroLines(nil); got != "None" {
		t.Errorf("heroLines(nil) = %q, want \"None\"", got)
	}
	heroes := []coc.Unit{
		{Name: "Barbarian King", Level: 50, MaxLevel: 100},
		{Name: "Archer Queen", Level: 55, MaxLevel: 100},
	}
	want := "Barbarian King: 50/100\nArcher Queen: 55/100"
	if got := heroLines(heroes); got != want {
		t.Errorf("heroLines = %q, want %q", got, want)
	}
}

func TestPlayerInfoEmbed(t *testing.T) {
	p := &coc.Player{
		Name:          "Berry",
		Tag:           "#ABC123",
		TownHallLevel: 14,
		ExpLevel:      200,
		Trophies:      5200,
		Clan:          &coc.PlayerClan{Name: "Clashers", Tag: "#CLN1"},
		League:        &coc.League{Name: "Legend League"},
	}
	embed := playerInfoEmbed(p)
	if embed.Title != "Berry (#ABC123)" {
		t.Errorf("title = %q", embed.Title)
	}
	byName := map[string]string{}
	for _, f := range embed.Fields {
		byName[f.Name] = f.Value
	}
	if byName["Town Hall"] != "14" || byName["Trophies"] != "5200" {
		t.Errorf("fields = %v", byName)
	}
	if byName["Clan"] != "Clashers" {
		t.Errorf("clan field = %q", byName["Clan"])
	}
	if byName["League"] != "Legend League" {
		t.Errorf("league field = %q", byName["League"])
	}
}

func TestPlayerInfoEmbedFallbacks(t *testing.T) {
	embed := playerInfoEmbed(&coc.Player{})
	if embed.Title != "? (?)" {
		t.Errorf("title = %q", embed.Title)
	}
	for _, f := range embed.Fields {
		if f.Name == "Clan" && f.Value != "None" {
			t.Errorf("clanless player clan field = %q", f.Value)
		}
		if f.Name == "League" {
			t.Error("league field present without a league")
		}
	}
	if embed.Thumbnail != nil {
		t.Error("thumbnail present without a league icon")
	}
}

func TestArmyOverviewEmbed(t *testing.T) {
	p := &coc.Player{
		Troops: []coc.Unit{
			{Name: "Dragon", Level: 8, MaxLevel: 10},
			{Name: "L.A.S.S.I", Level: 10, MaxLevel: 15},
		},
		Spells: []coc.Unit{{Name: "Rage Spell", Level: 6, MaxLevel: 6}},
		Heroes: []coc.Unit{{Name: "Grand Warden", Level: 40, MaxLevel: 75}},
	}
	embed := armyOverviewEmbed(p)
	byName := map[string]string{}
	for _, f := range embed.Fields {
		byName[f.Name] = f.Value
	}
	if byName["Elixir Troops"] != "Dragon: 8/10" {
		t.Errorf("elixir troops = %q", byName["Elixir Troops"])
	}
	if byName["Pets"] != "L.A.S.S.I: 10/15" {
		t.Errorf("pets = %q", byName["Pets"])
	}
	if byName["Elixir Spells"] != "Rage Spell: 6/6" {
		t.Errorf("elixir spells = %q", byName["Elixir Spells"])
	}
	if byName["Heroes"] != "Grand Warden: 40/75" {
		t.Errorf("heroes = %q", byName["Heroes"])
	}
	if byName["Dark Troops"] != "None" || byName["Hero Equipment"] != "None" {
		t.Errorf("empty groups = %q / %q", byName["Dark Troops"], byName["Hero Equipment"])
	}
}

func TestClanEmbed(t *testing.T) {
	c := &coc.Clan{
		Name:      "Clashers",
		Tag:       "#CLN1",
		ClanLevel: 12,
		Members:   47,
		Type:      "inviteOnly",
		Points:    38000,
		WarWins:   250,
	}
	embed := clanEmbed(c)
	if embed.Title != "Clashers (#CLN1)" {
		t.Errorf("title = %q", embed.Title)
	}
	byName := map[string]string{}
	for _, f := range embed.Fields {
		byName[f.Name] = f.Value
	}
	if byName["Members"] != "47" || byName["War Wins"] != "250" {
		t.Errorf("fields = %v", byName)
	}
	if byName["Location"] != "None" {
		t.Errorf("location fallback = %q", byName["Location"])
	}
}

func TestWarEmbed(t *testing.T) {
	w := &coc.War{
		State:    "inWar",
		TeamSize: 15,
		Clan:     coc.WarClan{Name: "Us", Stars: 30, Attacks: 22, DestructionPercentage: 85.5},
		Opponent: coc.WarClan{Name: "Them", Stars: 28, Attacks: 25, DestructionPercentage: 80},
	}
	embed := warEmbed(w)
	if embed.Title != "War: Us vs Them" {
		t.Errorf("title = %q", embed.Title)
	}
	byName := map[string]string{}
	for _, f := range embed.Fields {
		byName[f.Name] = f.Value
	}
	if byName["Our Destruction"] != "85.5%" {
		t.Errorf("our destruction = %q", byName["Our Destruction"])
	}
	if byName["Opponent Destruction"] != "80%" {
		t.Errorf("opponent destruction = %q", byName["Opponent Destruction"])
	}
	if byName["State"] != "inWar" || byName["Team Size"] != "15" {
		t.Errorf("state/size = %q / %q", byName["State"], byName["Team Size"])
	}
}

func TestPanelDraftEmbed(t *testing.T) {
	embed := panelDraftEmbed("Join", "Apply below", "")
	if embed.Image != nil {
		t.Error("image set for empty URL")
	}
	embed = panelDraftEmbed("Join", "Apply below", "https://example.com/banner.png")
	if embed.Image == nil || !strings.HasSuffix(embed.Image.URL, "banner.png") {
		t.Errorf("image = %+v", embed.Image)
	}
}
