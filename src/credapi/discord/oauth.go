package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
)

// Scopes required by the credential evaluation: profile, guild list,
// per-guild member records, and external connections.
var Scopes = []string{"identify", "guilds", "guilds.members.read", "connections"}

// ErrExchangeFailed marks a rejected code-to-token exchange. Codes are
// single use, so the caller restarts the OAuth flow instead of retrying.
var ErrExchangeFailed = errors.New("discord: authorization code exchange failed")

// AuthorizeURL builds the OAuth2 authorization redirect target.
func AuthorizeURL(apiBase, clientID, redirectURI, state string) string {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	q := url.Values{}
	q.Set("client_id", clientID)
	q.Set("redirect_uri", redirectURI)
	q.Set("response_type", "code")
	q.Set("scope", strings.Join(Scopes, " "))
	q.Set("state", state)
	return strings.TrimRight(apiBase, "/") + "/oauth2/authorize?" + q.Encode()
}

// ExchangeCode swaps an authorization code for a bearer access token.
// No retries: a second POST with a consumed code always fails.
func ExchangeCode(ctx context.Context, apiBase, clientID, clientSecret, redirectURI, code string) (string, error) {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}

	form := url.Values{}
	form.Set("client_id", clientID)
	form.Set("client_secret", clientSecret)
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)

	endpoint := strings.TrimRight(apiBase, "/") + "/oauth2/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("discord: build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := &http.Client{Timeout: defaultTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		log.Printf("discord: token exchange status %d: %s", resp.StatusCode, body)
		return "", fmt.Errorf("%w: status %d", ErrExchangeFailed, resp.StatusCode)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrExchangeFailed, err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrExchangeFailed)
	}
	return tok.AccessToken, nil
}
