package webserver

import (
	"context"
	"crypto/subtle"
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/stake-plus/discord-credcheck/src/credapi/config"
	"github.com/stake-plus/discord-credcheck/src/credapi/data"
	"github.com/stake-plus/discord-credcheck/src/credapi/discord"
)

// stateStore parks OAuth state nonces between the login redirect and the
// callback.
type stateStore interface {
	Set(ctx context.Context, state string) error
	Take(ctx context.Context, state string) error
}

type redisStates struct {
	rdb *redis.Client
}

func (s redisStates) Set(ctx context.Context, state string) error {
	return data.SetOAuthState(ctx, s.rdb, state)
}

func (s redisStates) Take(ctx context.Context, state string) error {
	return data.TakeOAuthState(ctx, s.rdb, state)
}

type Auth struct {
	cfg    config.Config
	states stateStore
}

func NewAuth(cfg config.Config, rdb *redis.Client) Auth {
	return Auth{cfg: cfg, states: redisStates{rdb: rdb}}
}

// Login starts the OAuth flow: mint a state nonce, park it, and send the
// user to Discord's consent screen.
func (a Auth) Login(c *gin.Context) {
	state := uuid.NewString()
	if err := a.states.Set(c, state); err != nil {
		log.Printf("auth: failed to store oauth state: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "failed to start login"})
		return
	}
	c.Redirect(http.StatusTemporaryRedirect,
		discord.AuthorizeURL(a.cfg.DiscordAPIBase, a.cfg.DiscordClientID, a.cfg.DiscordRedirectURI, state))
}

// Callback finishes the OAuth flow. The user lands back on the app with
// either ?token= or ?error=; provider error details stay in the logs.
func (a Auth) Callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		a.redirectError(c, "no_code")
		return
	}

	state := c.Query("state")
	if state == "" {
		a.redirectError(c, "state_mismatch")
		return
	}
	if err := a.states.Take(c, state); err != nil {
		log.Printf("auth: unknown or expired oauth state from %s: %v", c.ClientIP(), err)
		a.redirectError(c, "state_mismatch")
		return
	}

	token, err := discord.ExchangeCode(c, a.cfg.DiscordAPIBase,
		a.cfg.DiscordClientID, a.cfg.DiscordClientSecret, a.cfg.DiscordRedirectURI, code)
	if err != nil {
		log.Printf("auth: code exchange failed: %v", err)
		a.redirectError(c, "auth_failed")
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, a.cfg.AppURL+"/?token="+url.QueryEscape(token))
}

func (a Auth) redirectError(c *gin.Context, reason string) {
	c.Redirect(http.StatusTemporaryRedirect, a.cfg.AppURL+"/?error="+reason)
}

// Admin exchanges the shared admin secret for a JWT used by the history
// endpoints.
func (a Auth) Admin(c *gin.Context) {
	var req struct {
		Secret string `json:"secret" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Secret), []byte(a.cfg.AdminSecret)) != 1 {
		log.Printf("auth: rejected admin login from %s", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"err": "bad secret"})
		return
	}

	token, err := issueJWT("admin", []byte(a.cfg.JWTSecret))
	if err != nil {
		log.Printf("auth: failed to issue JWT: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
