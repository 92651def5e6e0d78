package handlers

import (
	"fmt"
	"strings"

	"clashberry/coc"
	"clashberry/lang"

	"github.com/bwmarrin/discordgo"
)

const (
	colorGreen   = 0x57F287
	colorRed     = 0xED4245
	colorYellow  = 0xFEE75C
	colorBlurple = 0x5865F2
	colorBlue    = 0x3498DB
)

// Static name-membership tables for the army overview. Units the API
// returns but these lists miss simply don't render, same as unknown units
// rendering "None" for an empty group.
var (
	elixirTroops = []string{
		"Barbarian", "Archer", "Giant", "Goblin", "Wall Breaker", "Balloon", "Wizard",
		"Healer", "Dragon", "P.E.K.K.A", "Baby Dragon", "Miner", "Electro Dragon", "Yeti", "Dragon Rider",
		"Electro Titan", "Root Rider", "Thrower",
	}
	darkTroops = []string{
		"Minion", "Hog Rider", "Valkyrie", "Golem", "Witch", "Lava Hound", "Bowler",
		"Ice Golem", "Headhunter", "Apprentice Warden", "Druid", "Furnace",
	}
	superTroops = []string{
		"Super Barbarian", "Super Archer", "Super Giant", "Sneaky Goblin", "Super Wall Breaker",
		"Rocket Balloon", "Super Wizard", "Super Dragon", "Inferno Dragon", "Super Miner", "Super Yeti",
		"Super Minion", "Super Hog Rider", "Super Valkyrie", "Super Witch", "Ice Hound", "Super Bowler",
	}
	pets = []string{
		"L.A.S.S.I", "Electro Owl", "Mighty Yak", "Unicorn", "Frosty", "Diggy", "Poison Lizard",
		"Phoenix", "Spirit Fox", "Angry Jelly", "Sneezy",
	}
	elixirSpells = []string{
		"Lightning Spell", "Healing Spell", "Rage Spell", "Jump Spell", "Freeze Spell", "Clone Spell",
		"Invisibility Spell", "Recall Spell", "Revive Spell",
	}
	darkSpells = []string{
		"Poison Spell", "Earthquake Spell", "Haste Spell", "Skeleton Spell", "Bat Spell",
		"Overgrowth Spell", "Ice Block Spell",
	}
	siegeMachines = []string{
		"Wall Wrecker", "Battle Blimp", "Stone Slammer", "Siege Barracks", "Log Launcher",
		"Flame Flinger", "Battle Drill", "Troop Launcher",
	}
	heroEquipment = []string{
		"Giant Gauntlet", "Rocket Spear", "Spiky Ball", "Frozen Arrow", "Fireball",
		"Snake Bracelet", "Dark Crown", "Magic Mirror", "Electro Boots", "Action Figure",
		"Barbarian Puppet", "Rage Vial", "Archer Puppet", "Invisibility Vial", "Eternal Tome",
		"Life Gem", "Seeking Shield", "Royal Gem", "Earthquake Boots", "Hog Rider Puppet",
		"Haste Vial", "Giant Arrow", "Healer Puppet", "Rage Gem", "Healing Tome",
		"Henchmen Puppet", "Dark Orb", "Metal Pants", "Vampstache", "Noble Iron",
	}
)

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}

func playerInfoEmbed(p *coc.Player) *discordgo.MessageEmbed {
	clanName := "None"
	if p.Clan != nil && p.Clan.Name != "" {
		clanName = p.Clan.Name
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s (%s)", orUnknown(p.Name), orUnknown(p.Tag)),
		Color: colorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Town Hall", Value: fmt.Sprintf("%d", p.TownHallLevel), Inline: true},
			{Name: "Exp Level", Value: fmt.Sprintf("%d", p.ExpLevel), Inline: true},
			{Name: "Trophies", Value: fmt.Sprintf("%d", p.Trophies), Inline: true},
			{Name: "Clan", Value: clanName, Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Click 'Unit' button for more information."},
	}
	if p.League != nil {
		if p.League.Name != "" {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "League", Value: p.League.Name, Inline: true})
		}
		if p.League.IconURLs.Medium != "" {
			embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: p.League.IconURLs.Medium}
		}
	}
	return embed
}

func unitLines(units []coc.Unit, names []string) string {
	nameSet := make(map[string]bool, len(names))
	for _, n := range names {
		nameSet[n] = true
	}
	var sb strings.Builder
	for _, u := range units {
		if !nameSet[u.Name] {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s: %d/%d", u.Name, u.Level, u.MaxLevel)
	}
	if sb.Len() == 0 {
		return "None"
	}
	return sb.String()
}

func heroLines(heroes []coc.Unit) string {
	if len(heroes) == 0 {
		return "None"
	}
	lines := make([]string, 0, len(heroes))
	for _, h := range heroes {
		lines = append(lines, fmt.Sprintf("%s: %d/%d", h.Name, h.Level, h.MaxLevel))
	}
	return strings.Join(lines, "\n")
}

func armyOverviewEmbed(p *coc.Player) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Army Overview",
		Color: colorBlurple,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Elixir Troops", Value: unitLines(p.Troops, elixirTroops)},
			{Name: "Dark Troops", Value: unitLines(p.Troops, darkTroops)},
			{Name: "Super Troops", Value: unitLines(p.Troops, superTroops)},
			{Name: "Elixir Spells", Value: unitLines(p.Spells, elixirSpells)},
			{Name: "Dark Spells", Value: unitLines(p.Spells, darkSpells)},
			{Name: "Siege Machines", Value: unitLines(p.Troops, siegeMachines)},
			{Name: "Pets", Value: unitLines(p.Troops, pets)},
			{Name: "Heroes", Value: heroLines(p.Heroes)},
			{Name: "Hero Equipment", Value: unitLines(p.HeroEquipment, heroEquipment)},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Click 'Back' to return to profile."},
	}
}

func clanEmbed(c *coc.Clan) *discordgo.MessageEmbed {
	location := "None"
	if c.Location != nil && c.Location.Name != "" {
		location = c.Location.Name
	}
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s (%s)", orUnknown(c.Name), orUnknown(c.Tag)),
		Color: colorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Level", Value: fmt.Sprintf("%d", c.ClanLevel), Inline: true},
			{Name: "Members", Value: fmt.Sprintf("%d", c.Members), Inline: true},
			{Name: "Type", Value: orUnknown(c.Type), Inline: true},
			{Name: "Points", Value: fmt.Sprintf("%d", c.Points), Inline: true},
			{Name: "War Wins", Value: fmt.Sprintf("%d", c.WarWins), Inline: true},
			{Name: "Location", Value: location, Inline: true},
		},
	}
	if c.BadgeURLs.Large != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: c.BadgeURLs.Large}
	}
	return embed
}

func warEmbed(w *coc.War) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("War: %s vs %s", orUnknown(w.Clan.Name), orUnknown(w.Opponent.Name)),
		Color: colorRed,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Our Stars", Value: fmt.Sprintf("%d", w.Clan.Stars), Inline: true},
			{Name: "Our Attacks", Value: fmt.Sprintf("%d", w.Clan.Attacks), Inline: true},
			{Name: "Our Destruction", Value: fmt.Sprintf("%g%%", w.Clan.DestructionPercentage), Inline: true},
			{Name: "Opponent Stars", Value: fmt.Sprintf("%d", w.Opponent.Stars), Inline: true},
			{Name: "Opponent Attacks", Value: fmt.Sprintf("%d", w.Opponent.Attacks), Inline: true},
			{Name: "Opponent Destruction", Value: fmt.Sprintf("%g%%", w.Opponent.DestructionPercentage), Inline: true},
			{Name: "State", Value: orUnknown(w.State), Inline: true},
			{Name: "Team Size", Value: fmt.Sprintf("%d", w.TeamSize), Inline: true},
		},
	}
}

func ticketWelcomeEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Clan Application",
		Description: lang.T("ticket_welcome"),
		Color:       colorGreen,
	}
}

func panelDraftEmbed(title, description, imageURL string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       colorBlurple,
	}
	if imageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: imageURL}
	}
	return embed
}
