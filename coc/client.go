package coc

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const DefaultBaseURL = "https://cocproxy.royaleapi.dev/v1"

var (
	// ErrNotFound covers every non-success upstream response. The API gives
	// the same treatment to bad tags, rate limits and real misses; callers
	// only get the distinction in the log line.
	ErrNotFound = errors.New("coc: not found")

	// ErrNotInWar is returned when the clan exists but has no current war.
	ErrNotInWar = errors.New("coc: clan not in war")
)

// Client is a Clash of Clans API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the given API base URL and bearer token.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Player fetches a player profile. The tag is normalized before the call.
func (c *Client) Player(tag string) (*Player, error) {
	var p Player
	if err := c.get("/players/"+escapeTag(NormalizeTag(tag)), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Clan fetches a clan profile. The tag is normalized before the call.
func (c *Client) Clan(tag string) (*Clan, error) {
	var cl Clan
	if err := c.get("/clans/"+escapeTag(NormalizeTag(tag)), &cl); err != nil {
		return nil, err
	}
	return &cl, nil
}

// CurrentWar fetches the clan's current war. Returns ErrNotInWar when the
// clan exists but is not at war.
func (c *Client) CurrentWar(clanTag string) (*War, error) {
	var w War
	if err := c.get("/clans/"+escapeTag(NormalizeTag(clanTag))+"/currentwar", &w); err != nil {
		return nil, err
	}
	if w.State == "notInWar" {
		return nil, ErrNotInWar
	}
	return &w, nil
}

// get performs a GET request and decodes the JSON response.
func (c *Client) get(path string, result interface{}) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[CoC] GET %s failed: %v", path, err)
		return ErrNotFound
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		log.Printf("[CoC] GET %s returned status %d", path, resp.StatusCode)
		return ErrNotFound
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func escapeTag(tag string) string {
	return strings.ReplaceAll(tag, "#", "%23")
}
