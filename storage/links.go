package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"clashberry/config"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Link is one stored account or clan association.
type Link struct {
	Name string `json:"name" bson:"name"`
	Tag  string `json:"tag"  bson:"tag"`
}

// ErrAlreadyLinked is returned when the same normalized tag is added twice
// for the same owner.
var ErrAlreadyLinked = errors.New("storage: tag already linked")

// LinkStore holds player links keyed by user ID and clan links keyed by
// guild ID. Tags passed in are expected to be normalized already; the
// duplicate check compares them case-insensitively.
type LinkStore interface {
	PlayerLinks(userID string) []Link
	AddPlayerLink(userID string, link Link) error
	RemovePlayerLink(userID, tag string) error

	ClanLinks(guildID string) []Link
	AddClanLink(guildID string, link Link) error
	RemoveClanLink(guildID, tag string) error
}

var Links LinkStore

// InitLinkStore selects the link backend from config. The file backend is
// the default; mongodb is opt-in via database.links_backend.
func InitLinkStore(cfg *config.Config) {
	switch cfg.Database.LinksBackend {
	case "mongodb":
		s, err := newMongoLinkStore(cfg)
		if err != nil {
			log.Fatalf("[Store] Failed to initialise MongoDB link store: %v", err)
		}
		Links = s
		log.Println("[Store] Link backend: mongodb")
	default:
		Links = NewFileLinkStore(cfg.DataDir)
		log.Println("[Store] Link backend: file")
	}
}

const (
	playersFile = "linked_players.json"
	clansFile   = "linked_clans.json"
)

// fileLinkStore keeps each collection in one pretty-printed JSON file
// mapping owner ID to an ordered list of links. Writes rewrite the whole
// file; concurrent writers can clobber each other, which is accepted since
// per-owner write traffic is negligible.
type fileLinkStore struct {
	dir string
}

func NewFileLinkStore(dir string) LinkStore {
	_ = os.MkdirAll(dir, 0755)
	return &fileLinkStore{dir: dir}
}

// loadLinks reads a collection file. A missing or unparseable file loads as
// an empty map, never as an error.
func (f *fileLinkStore) loadLinks(file string) map[string][]Link {
	path := filepath.Join(f.dir, file)
	data, err := os.ReadFile(path)
	if err != nil {
		return make(map[string][]Link)
	}
	var m map[string][]Link
	if err := json.Unmarshal(data, &m); err != nil {
		log.Printf("[Store] %s is corrupt (%v) — treating as empty", path, err)
		return make(map[string][]Link)
	}
	if m == nil {
		m = make(map[string][]Link)
	}
	return m
}

func (f *fileLinkStore) saveLinks(file string, m map[string][]Link) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(f.dir, file), data, 0644)
}

func addLink(m map[string][]Link, ownerID string, link Link) error {
	for _, l := range m[ownerID] {
		if strings.EqualFold(l.Tag, link.Tag) {
			return ErrAlreadyLinked
		}
	}
	m[ownerID] = append(m[ownerID], link)
	return nil
}

func removeLink(m map[string][]Link, ownerID, tag string) {
	kept := m[ownerID][:0]
	for _, l := range m[ownerID] {
		if l.Tag != tag {
			kept = append(kept, l)
		}
	}
	m[ownerID] = kept
}

func (f *fileLinkStore) PlayerLinks(userID string) []Link {
	return f.loadLinks(playersFile)[userID]
}

func (f *fileLinkStore) AddPlayerLink(userID string, link Link) error {
	m := f.loadLinks(playersFile)
	if err := addLink(m, userID, link); err != nil {
		return err
	}
	return f.saveLinks(playersFile, m)
}

func (f *fileLinkStore) RemovePlayerLink(userID, tag string) error {
	m := f.loadLinks(playersFile)
	removeLink(m, userID, tag)
	return f.saveLinks(playersFile, m)
}

func (f *fileLinkStore) ClanLinks(guildID string) []Link {
	return f.loadLinks(clansFile)[guildID]
}

func (f *fileLinkStore) AddClanLink(guildID string, link Link) error {
	m := f.loadLinks(clansFile)
	if err := addLink(m, guildID, link); err != nil {
		return err
	}
	return f.saveLinks(clansFile, m)
}

func (f *fileLinkStore) RemoveClanLink(guildID, tag string) error {
	m := f.loadLinks(clansFile)
	removeLink(m, guildID, tag)
	return f.saveLinks(clansFile, m)
}

type mongoLinkStore struct {
	players *mongo.Collection
	clans   *mongo.Collection
}

type mongoLink struct {
	OwnerID string `bson:"owner_id"`
	Name    string `bson:"name"`
	Tag     string `bson:"tag"`
}

func newMongoLinkStore(cfg *config.Config) (*mongoLinkStore, error) {
	uri := cfg.Database.MongoDB.URI
	db := cfg.Database.MongoDB.Database
	if uri == "" || db == "" {
		return nil, fmt.Errorf("database.mongodb.uri and database.mongodb.database must be set in config.json to use links_backend=mongodb")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}

	mdb := client.Database(db)
	store := &mongoLinkStore{
		players: mdb.Collection("player_links"),
		clans:   mdb.Collection("clan_links"),
	}

	for _, coll := range []*mongo.Collection{store.players, store.clans} {
		coll.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "tag", Value: 1}},
			Options: options.Index().SetUnique(true),
		})
	}
	return store, nil
}

func (m *mongoLinkStore) list(coll *mongo.Collection, ownerID string) []Link {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := coll.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		log.Printf("[Store] mongo find failed: %v", err)
		return nil
	}
	defer cursor.Close(ctx)

	var docs []mongoLink
	if err := cursor.All(ctx, &docs); err != nil {
		return nil
	}
	links := make([]Link, 0, len(docs))
	for _, d := range docs {
		links = append(links, Link{Name: d.Name, Tag: d.Tag})
	}
	return links
}

func (m *mongoLinkStore) add(coll *mongo.Collection, ownerID string, link Link) error {
	for _, l := range m.list(coll, ownerID) {
		if strings.EqualFold(l.Tag, link.Tag) {
			return ErrAlreadyLinked
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := coll.InsertOne(ctx, mongoLink{OwnerID: ownerID, Name: link.Name, Tag: link.Tag})
	if mongo.IsDuplicateKeyError(err) {
		return ErrAlreadyLinked
	}
	return err
}

func (m *mongoLinkStore) remove(coll *mongo.Collection, ownerID, tag string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := coll.DeleteMany(ctx, bson.M{"owner_id": ownerID, "tag": tag})
	return err
}

func (m *mongoLinkStore) PlayerLinks(userID string) []Link {
	return m.list(m.players, userID)
}

func (m *mongoLinkStore) AddPlayerLink(userID string, link Link) error {
	return m.add(m.players, userID, link)
}

func (m *mongoLinkStore) RemovePlayerLink(userID, tag string) error {
	return m.remove(m.players, userID, tag)
}

func (m *mongoLinkStore) ClanLinks(guildID string) []Link {
	return m.list(m.clans, guildID)
}

func (m *mongoLinkStore) AddClanLink(guildID string, link Link) error {
	return m.add(m.clans, guildID, link)
}

func (m *mongoLinkStore) RemoveClanLink(guildID, tag string) error {
	return m.remove(m.clans, guildID, tag)
}
