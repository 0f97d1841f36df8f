package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/hibiken/asynq"

	"github.com/sudo-init-do/artisanhub/internal/platform"
)

var (
	client *asynq.Client
	server *asynq.Server

	chat    platform.Client
	guildID int64
)

// Init starts the Asynq server and initializes a shared client. Alerts are
// delivered as DMs to the guild's administrators through the platform
// client.
func Init(pc platform.Client, guild int64) {
	chat = pc
	guildID = guild

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		if host := os.Getenv("REDIS_HOST"); host != "" {
			port := os.Getenv("REDIS_PORT")
			if port == "" {
				port = "6379"
			}
			redisAddr = host + ":" + port
		} else {
			redisAddr = "redis:6379"
			if os.Getenv("RUN_LOCAL") == "true" {
				redisAddr = "127.0.0.1:6379"
			}
		}
	}

	opts := asynq.RedisClientOpt{Addr: redisAddr}
	client = asynq.NewClient(opts)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskDisputeOpened, handleDisputeOpened)
	mux.HandleFunc(TaskNegotiationStale, handleNegotiationStale)

	server = asynq.NewServer(opts, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"alerts": 5,
		},
	})
	go func() {
		if err := server.Run(mux); err != nil {
			log.Printf("Asynq server stopped: %v", err)
		}
	}()

	log.Printf("Asynq initialized (addr=%s)", redisAddr)
}

// Close releases client and stops server.
func Close() {
	if client != nil {
		_ = client.Close()
	}
	if server != nil {
		server.Shutdown()
	}
}

func handleDisputeOpened(ctx context.Context, t *asynq.Task) error {
	var p DisputeOpenedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	msg := fmt.Sprintf("Litige ouvert sur le salon %d (artisan %d / client %d), signalé par %d.",
		p.ChannelID, p.ArtisanID, p.ClientID, p.FilerID)
	if err := dmAdmins(ctx, msg); err != nil {
		log.Printf("[notify][ERROR] DisputeOpened fanout failed: %v", err)
		return err
	}
	log.Printf("[notify] DisputeOpened sent -> channel=%d filer=%d", p.ChannelID, p.FilerID)
	return nil
}

func handleNegotiationStale(ctx context.Context, t *asynq.Task) error {
	var p NegotiationStalePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	msg := fmt.Sprintf("Demande de devis sans réponse: artisan %d, client %d (étape %s, ouverte depuis %s).",
		p.ArtisanID, p.ClientID, p.Stage, p.OpenedAt.Format("2006-01-02 15:04"))
	if err := dmAdmins(ctx, msg); err != nil {
		log.Printf("[notify][ERROR] NegotiationStale fanout failed: %v", err)
		return err
	}
	log.Printf("[notify] NegotiationStale sent -> negotiation=%s", p.NegotiationID)
	return nil
}

func dmAdmins(ctx context.Context, content string) error {
	admins, err := chat.AdminUsers(ctx, guildID)
	if err != nil {
		return err
	}
	for _, admin := range admins {
		if err := chat.SendDM(ctx, admin.ID, platform.Message{Content: content}); err != nil {
			log.Printf("[notify][ERROR] admin DM failed: admin=%d err=%v", admin.ID, err)
		}
	}
	return nil
}
