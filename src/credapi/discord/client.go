package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	// DefaultAPIBase is the Discord REST API root.
	DefaultAPIBase = "https://discord.com/api/v10"

	defaultTimeout = 10 * time.Second
	maxRetries     = 3
)

// Connection is one entry from /users/@me/connections. discordgo's
// UserConnection type omits the verified flag, which is the one field the
// evaluation cares about, so the wire shape is declared here.
type Connection struct {
	Type     string `json:"type"`
	ID       string `json:"id"`
	Name     string `json:"name"`
	Verified bool   `json:"verified"`
}

// HTTPError carries a non-2xx upstream status. Response bodies are logged
// server-side and never attached to the error.
type HTTPError struct {
	StatusCode int
	Path       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("discord: %s returned status %d", e.Path, e.StatusCode)
}

// StatusCode extracts the upstream status from an error chain, or 0.
func StatusCode(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}

// Client performs the authenticated read operations the evaluation needs.
// Rate-limited responses are retried with backoff honoring Retry-After;
// every other status is returned to the caller for classification.
type Client struct {
	baseURL string
	http    *retryablehttp.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIBase
	}

	rc := retryablehttp.NewClient()
	rc.Logger = log.New(io.Discard, "", 0)
	rc.RetryMax = maxRetries
	rc.HTTPClient.Timeout = defaultTimeout
	rc.CheckRetry = retryPolicy

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    rc,
	}
}

// retryPolicy retries transport errors and 429 only. 4xx/5xx statuses are
// classified by the caller, not retried; authorization codes and member
// probes must not be replayed blindly.
func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return true, nil
	}
	return resp.StatusCode == http.StatusTooManyRequests, nil
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context, token string) (*discordgo.User, error) {
	var user discordgo.User
	if err := c.get(ctx, token, "/users/@me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Guilds fetches the servers the user belongs to.
func (c *Client) Guilds(ctx context.Context, token string) ([]*discordgo.UserGuild, error) {
	var guilds []*discordgo.UserGuild
	if err := c.get(ctx, token, "/users/@me/guilds", &guilds); err != nil {
		return nil, err
	}
	return guilds, nil
}

// GuildMember fetches the user's member record in one guild. Requires the
// guilds.members.read scope; guilds that refuse the probe surface as an
// HTTPError the aggregator tolerates.
func (c *Client) GuildMember(ctx context.Context, token, guildID string) (*discordgo.Member, error) {
	var member discordgo.Member
	if err := c.get(ctx, token, "/users/@me/guilds/"+guildID+"/member", &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// Connections fetches the user's linked external accounts.
func (c *Client) Connections(ctx context.Context, token string) ([]Connection, error) {
	var conns []Connection
	if err := c.get(ctx, token, "/users/@me/connections", &conns); err != nil {
		return nil, err
	}
	return conns, nil
}

func (c *Client) get(ctx context.Context, token, path string, out interface{}) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("discord: build request %s: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("discord: GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		log.Printf("discord: GET %s status %d: %s", path, resp.StatusCode, body)
		return &HTTPError{StatusCode: resp.StatusCode, Path: path}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("discord: decode %s: %w", path, err)
	}
	return nil
}
