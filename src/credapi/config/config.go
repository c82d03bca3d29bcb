package config

import (
	"log"
	"os"
)

type Config struct {
	Port        string
	MySQLDSN    string
	RedisURL    string
	JWTSecret   string
	AdminSecret string

	// Frontend the OAuth callback redirects back to. Also the allowed
	// CORS origin.
	AppURL string

	DiscordClientID     string
	DiscordClientSecret string
	DiscordRedirectURI  string
	DiscordAPIBase      string

	SSLCert string
	SSLKey  string
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		if def == "" {
			log.Fatalf("missing env %s", key)
		}
		return def
	}
	return v
}

// Load reads configuration from the environment. Missing Discord
// credentials are fatal: without them no evaluation can run.
func Load() Config {
	return Config{
		Port:                getenv("PORT", "8080"),
		MySQLDSN:            getenv("MYSQL_DSN", "credcheck:credcheck@tcp(localhost:3306)/credcheck?parseTime=true"),
		RedisURL:            getenv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:           getenv("JWT_SECRET", ""),
		AdminSecret:         getenv("ADMIN_SECRET", ""),
		AppURL:              getenv("APP_URL", "http://localhost:3000"),
		DiscordClientID:     getenv("DISCORD_CLIENT_ID", ""),
		DiscordClientSecret: getenv("DISCORD_CLIENT_SECRET", ""),
		DiscordRedirectURI:  getenv("DISCORD_REDIRECT_URI", ""),
		DiscordAPIBase:      getenv("DISCORD_API_BASE", "https://discord.com/api/v10"),
		SSLCert:             os.Getenv("SSL_CERT"),
		SSLKey:              os.Getenv("SSL_KEY"),
	}
}

// EnableSSL reports whether both certificate paths are configured.
func (c Config) EnableSSL() bool {
	return c.SSLCert != "" && c.SSLKey != ""
}
