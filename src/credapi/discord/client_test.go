package discord_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stake-plus/discord-credcheck/src/credapi/discord"
)

func TestClient_RateLimitRetried(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "42", "username": "tester"})
	}))
	defer srv.Close()

	client := discord.NewClient(srv.URL)
	start := time.Now()
	user, err := client.Me(context.Background(), "tok")
	require.NoError(t, err)

	assert.Equal(t, "42", user.ID)
	assert.EqualValues(t, 2, atomic.LoadInt64(&calls))
	assert.GreaterOrEqual(t, time.Since(start), time.Second, "Retry-After must be honored")
}

func TestClient_StatusClassification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/@me":
			w.WriteHeader(http.StatusUnauthorized)
		case "/users/@me/guilds/123/member":
			w.WriteHeader(http.StatusForbidden)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := discord.NewClient(srv.URL)

	t.Run("401 surfaces as HTTPError", func(t *testing.T) {
		_, err := client.Me(context.Background(), "tok")
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, discord.StatusCode(err))
	})

	t.Run("403 on member probe", func(t *testing.T) {
		_, err := client.GuildMember(context.Background(), "tok", "123")
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, discord.StatusCode(err))
	})

	t.Run("404 on member probe", func(t *testing.T) {
		_, err := client.GuildMember(context.Background(), "tok", "999")
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, discord.StatusCode(err))
	})

	t.Run("StatusCode is zero for non-HTTP errors", func(t *testing.T) {
		assert.Zero(t, discord.StatusCode(context.Canceled))
	})
}

func TestClient_AuthorizationHeader(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]map[string]interface{}{})
	}))
	defer srv.Close()

	_, err := discord.NewClient(srv.URL).Connections(context.Background(), "secret-token")
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", got)
}

func TestClient_ServerErrorNotRetried(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := discord.NewClient(srv.URL).Guilds(context.Background(), "tok")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, discord.StatusCode(err))
	assert.EqualValues(t, 1, atomic.LoadInt64(&calls), "5xx is classified, not retried")
}
