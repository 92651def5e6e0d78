package storage

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"clashberry/config"

	_ "modernc.org/sqlite"
)

var DB Database

// Database is the ticket audit log. Every ticket open and delete is
// recorded so staff can reconstruct what happened after the channel is gone.
type Database interface {
	Init() error
	Close() error

	AddTicketEvent(e TicketEvent) error
	GetTicketEvents(guildID string, limit int) ([]TicketEvent, error)
}

type TicketEvent struct {
	ID        int    `json:"id"`
	GuildID   string `json:"guild_id"`
	ChannelID string `json:"channel_id"`
	UserID    string `json:"user_id"`
	ActorID   string `json:"actor_id"`
	Action    string `json:"action"`
	PlayerTag string `json:"player_tag"`
	Timestamp string `json:"timestamp"`
}

const (
	TicketOpened  = "opened"
	TicketDeleted = "deleted"
)

func InitDB(cfg *config.DatabaseConfig) error {
	switch cfg.Driver {
	case "", "sqlite":
		db := &SQLiteDB{Path: cfg.SQLite.Path}
		if err := db.Init(); err != nil {
			return err
		}
		DB = db
		return nil
	default:
		return fmt.Errorf("unsupported database driver: %s (use \"sqlite\")", cfg.Driver)
	}
}

type SQLiteDB struct {
	Path string
	db   *sql.DB
}

func (s *SQLiteDB) Init() error {
	_ = os.MkdirAll(filepath.Dir(s.Path), 0755)

	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return fmt.Errorf("sqlite open: %w", err)
	}
	s.db = db

	schema := `
	CREATE TABLE IF NOT EXISTS ticket_events (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		guild_id    TEXT NOT NULL,
		channel_id  TEXT NOT NULL,
		user_id     TEXT NOT NULL,
		actor_id    TEXT NOT NULL,
		action      TEXT NOT NULL,
		player_tag  TEXT NOT NULL DEFAULT '',
		timestamp   TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_ticket_events_guild ON ticket_events(guild_id);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite schema: %w", err)
	}
	log.Printf("[DB] SQLite initialised at %s", s.Path)
	return nil
}

func (s *SQLiteDB) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteDB) AddTicketEvent(e TicketEvent) error {
	_, err := s.db.Exec(
		"INSERT INTO ticket_events (guild_id, channel_id, user_id, actor_id, action, player_tag, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?)",
		e.GuildID, e.ChannelID, e.UserID, e.ActorID, e.Action, e.PlayerTag, e.Timestamp,
	)
	return err
}

func (s *SQLiteDB) GetTicketEvents(guildID string, limit int) ([]TicketEvent, error) {
	rows, err := s.db.Query(
		"SELECT id, guild_id, channel_id, user_id, actor_id, action, player_tag, timestamp FROM ticket_events WHERE guild_id = ? ORDER BY id DESC LIMIT ?",
		guildID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []TicketEvent
	for rows.Next() {
		var e TicketEvent
		if err := rows.Scan(&e.ID, &e.GuildID, &e.ChannelID, &e.UserID, &e.ActorID, &e.Action, &e.PlayerTag, &e.Timestamp); err != nil {
			continue
		}
		events = append(events, e)
	}
	return events, nil
}
