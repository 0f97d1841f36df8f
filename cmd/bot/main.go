package main

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/sudo-init-do/artisanhub/internal/alerts"
	"github.com/sudo-init-do/artisanhub/internal/bot"
	"github.com/sudo-init-do/artisanhub/internal/config"
	"github.com/sudo-init-do/artisanhub/internal/directory"
	"github.com/sudo-init-do/artisanhub/internal/httpapi"
	"github.com/sudo-init-do/artisanhub/internal/jobs"
	"github.com/sudo-init-do/artisanhub/internal/negotiation"
	"github.com/sudo-init-do/artisanhub/internal/platform/gateway"
	"github.com/sudo-init-do/artisanhub/internal/platform/rest"
)

// staleNegotiationAge is how long a quote request may stay unanswered
// before the moderators hear about it.
const staleNegotiationAge = 24 * time.Hour

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	store, err := directory.Open(cfg.StorePath)
	if err != nil {
		log.Fatalf("directory store error: %v", err)
	}
	log.Printf("directory loaded from %s", cfg.StorePath)

	chat := rest.New(cfg.APIBaseURL, cfg.BotToken)

	alerts.Init(chat, cfg.GuildID)
	defer alerts.Close()

	jm := jobs.NewManager()
	reg := negotiation.NewRegistry()
	b := bot.New(chat, store, jm, reg)

	ctx := context.Background()
	if err := b.PostMainMenus(ctx, cfg.DirectoryChannelID, cfg.DashboardChannelID); err != nil {
		log.Fatalf("failed to post main menus: %v", err)
	}

	// Surface quote requests nobody answers.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			for _, n := range reg.Sweep(staleNegotiationAge) {
				if err := alerts.EnqueueNegotiationStale(n.ID, n.ArtisanID, n.ClientID, string(n.Stage), n.CreatedAt); err != nil {
					log.Printf("stale-negotiation alert enqueue failed: %v", err)
				}
			}
		}
	}()

	var verifyKey ed25519.PublicKey
	if raw := os.Getenv("WEBHOOK_PUBLIC_KEY"); raw != "" {
		key, err := hex.DecodeString(raw)
		if err != nil || len(key) != ed25519.PublicKeySize {
			log.Fatalf("WEBHOOK_PUBLIC_KEY must be a hex ed25519 public key")
		}
		verifyKey = key
	}

	e := httpapi.New(store, b.Dispatch, verifyKey)
	go func() {
		log.Printf("API server listening on :%s", cfg.HTTPPort)
		if err := e.Start(":" + cfg.HTTPPort); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	if cfg.GatewayURL == "" {
		log.Printf("no GATEWAY_URL configured, serving webhook interactions only")
		select {}
	}

	conn, err := gateway.Dial(ctx, cfg.GatewayURL, cfg.BotToken)
	if err != nil {
		log.Fatalf("gateway dial failed: %v", err)
	}
	defer conn.Close()

	log.Printf("gateway connected, open negotiations=%d", reg.OpenCount())
	if err := conn.Run(ctx, b.Dispatch); err != nil {
		log.Fatalf("gateway closed: %v", err)
	}
}
