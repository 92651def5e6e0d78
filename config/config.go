package config

import (
	"encoding/json"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Discord  DiscordConfig  `json:"discord"`
	CoC      CoCConfig      `json:"coc"`
	Database DatabaseConfig `json:"database"`
	DataDir  string         `json:"data_dir"`
}

type DiscordConfig struct {
	Token string `json:"token"`
	// GuildID scopes command registration to one guild; empty registers
	// commands globally.
	GuildID string `json:"guild_id"`
	// LogChannel is the operator channel notified when the bot joins a
	// new guild.
	LogChannel string `json:"log_channel"`
}

type CoCConfig struct {
	BaseURL  string `json:"base_url"`
	APIToken string `json:"api_token"`
}

type DatabaseConfig struct {
	Driver       string        `json:"driver"`
	LinksBackend string        `json:"links_backend"`
	SQLite       SQLiteConfig  `json:"sqlite"`
	MongoDB      MongoDBConfig `json:"mongodb"`
}

type SQLiteConfig struct {
	Path string `json:"path"`
}

type MongoDBConfig struct {
	URI      string `json:"uri"`
	Database string `json:"database"`
}

// LoadConfig reads config.json and applies defaults. Secrets may come from
// the environment instead (DISCORD_TOKEN, API_TOKEN), with .env support.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if tok := os.Getenv("DISCORD_TOKEN"); tok != "" {
		cfg.Discord.Token = tok
	}
	if tok := os.Getenv("API_TOKEN"); tok != "" {
		cfg.CoC.APIToken = tok
	}

	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.SQLite.Path == "" {
		cfg.Database.SQLite.Path = "data/bot.db"
	}
	if cfg.Database.LinksBackend == "" {
		cfg.Database.LinksBackend = "file"
	}
	return &cfg, nil
}
