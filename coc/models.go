package coc

// Player is the subset of the /players/{tag} payload the bot renders.
type Player struct {
	Name          string      `json:"name"`
	Tag           string      `json:"tag"`
	TownHallLevel int         `json:"townHallLevel"`
	ExpLevel      int         `json:"expLevel"`
	Trophies      int         `json:"trophies"`
	Clan          *PlayerClan `json:"clan,omitempty"`
	League        *League     `json:"league,omitempty"`
	Troops        []Unit      `json:"troops"`
	Spells        []Unit      `json:"spells"`
	Heroes        []Unit      `json:"heroes"`
	HeroEquipment []Unit      `json:"heroEquipment"`
}

type PlayerClan struct {
	Name string `json:"name"`
	Tag  string `json:"tag"`
}

type League struct {
	Name     string   `json:"name"`
	IconURLs IconURLs `json:"iconUrls"`
}

type IconURLs struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
}

// Unit covers troops, spells, heroes and hero equipment alike.
type Unit struct {
	Name     string `json:"name"`
	Level    int    `json:"level"`
	MaxLevel int    `json:"maxLevel"`
}

// Clan is the subset of the /clans/{tag} payload the bot renders.
type Clan struct {
	Name      string    `json:"name"`
	Tag       string    `json:"tag"`
	ClanLevel int       `json:"clanLevel"`
	Members   int       `json:"members"`
	Type      string    `json:"type"`
	Points    int       `json:"clanPoints"`
	WarWins   int       `json:"warWins"`
	Location  *Location `json:"location,omitempty"`
	BadgeURLs IconURLs  `json:"badgeUrls"`
}

type Location struct {
	Name string `json:"name"`
}

// War is the /clans/{tag}/currentwar payload.
type War struct {
	State    string  `json:"state"`
	TeamSize int     `json:"teamSize"`
	Clan     WarClan `json:"clan"`
	Opponent WarClan `json:"opponent"`
}

type WarClan struct {
	Name                  string  `json:"name"`
	Stars                 int     `json:"stars"`
	Attacks               int     `json:"attacks"`
	DestructionPercentage float64 `json:"destructionPercentage"`
}
