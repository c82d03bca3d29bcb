package discord_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stake-plus/discord-credcheck/src/credapi/discord"
)

func TestAuthorizeURL(t *testing.T) {
	raw := discord.AuthorizeURL("https://discord.com/api/v10", "client-1", "https://app.example/callback", "state-1")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()

	assert.Equal(t, "/api/v10/oauth2/authorize", u.Path)
	assert.Equal(t, "client-1", q.Get("client_id"))
	assert.Equal(t, "https://app.example/callback", q.Get("redirect_uri"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "identify guilds guilds.members.read connections", q.Get("scope"))
	assert.Equal(t, "state-1", q.Get("state"))
}

func TestExchangeCode(t *testing.T) {
	t.Run("success posts the full form", func(t *testing.T) {
		var form url.Values
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			form = r.PostForm
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-123"})
		}))
		defer srv.Close()

		token, err := discord.ExchangeCode(context.Background(), srv.URL, "id", "secret", "https://app.example/callback", "code-1")
		require.NoError(t, err)

		assert.Equal(t, "tok-123", token)
		assert.Equal(t, "authorization_code", form.Get("grant_type"))
		assert.Equal(t, "code-1", form.Get("code"))
		assert.Equal(t, "id", form.Get("client_id"))
		assert.Equal(t, "secret", form.Get("client_secret"))
		assert.Equal(t, "https://app.example/callback", form.Get("redirect_uri"))
	})

	t.Run("rejection is not retried", func(t *testing.T) {
		var calls int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt64(&calls, 1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		_, err := discord.ExchangeCode(context.Background(), srv.URL, "id", "secret", "uri", "used-code")
		assert.ErrorIs(t, err, discord.ErrExchangeFailed)
		assert.EqualValues(t, 1, atomic.LoadInt64(&calls))
	})

	t.Run("empty token is a failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{})
		}))
		defer srv.Close()

		_, err := discord.ExchangeCode(context.Background(), srv.URL, "id", "secret", "uri", "code")
		assert.ErrorIs(t, err, discord.ErrExchangeFailed)
	})
}
