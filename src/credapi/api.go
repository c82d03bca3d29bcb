package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stake-plus/discord-credcheck/src/credapi/config"
	"github.com/stake-plus/discord-credcheck/src/credapi/credential"
	"github.com/stake-plus/discord-credcheck/src/credapi/data"
	"github.com/stake-plus/discord-credcheck/src/credapi/discord"
	"github.com/stake-plus/discord-credcheck/src/credapi/webserver"
)

func main() {
	cfg := config.Load()

	db := data.MustMySQL(cfg.MySQLDSN)
	if err := data.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	rdb := data.MustRedis(cfg.RedisURL)

	svc := credential.NewService(discord.NewClient(cfg.DiscordAPIBase), credential.DefaultThresholds())
	router := webserver.New(cfg, db, rdb, svc)

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		var err error
		if cfg.EnableSSL() {
			tlsReloader, rerr := webserver.NewTLSReloader(cfg.SSLCert, cfg.SSLKey)
			if rerr != nil {
				log.Printf("Failed to create TLS reloader: %v. Falling back to HTTP", rerr)
				log.Printf("Starting HTTP server on port %s", cfg.Port)
				err = httpSrv.ListenAndServe()
			} else {
				log.Printf("Starting HTTPS server on port %s", cfg.Port)
				httpSrv.TLSConfig = tlsReloader.GetConfig()
				err = httpSrv.ListenAndServeTLS("", "")
			}
		} else {
			log.Printf("Starting HTTP server on port %s (SSL not configured)", cfg.Port)
			err = httpSrv.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()

	log.Printf("CredCheck API listening on %s (SSL: %v)", cfg.Port, cfg.EnableSSL())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	_ = httpSrv.Shutdown(shutCtx)
}
