package gateway

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/sudo-init-do/artisanhub/internal/platform"
)

type gwEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Handler receives each decoded interaction. It runs on the gateway
// goroutine; one interaction is handled to completion before the next.
type Handler func(ctx context.Context, in platform.Interaction)

// Conn is the bot's inbound event feed. Reconnection is out of scope here:
// a dead socket ends Run and the process decides what to do.
type Conn struct {
	ws *websocket.Conn
}

// Dial opens the gateway websocket, identifying with the bot token.
func Dial(ctx context.Context, url, token string) (*Conn, error) {
	header := http.Header{}
	header.Set("Authorization", "Bot "+token)

	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, err
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	return &Conn{ws: ws}, nil
}

// Run reads events until the socket dies or ctx is cancelled. Cancellation
// closes the socket so a blocked read wakes up. Unknown event types are
// skipped; malformed payloads are logged and skipped.
func (c *Conn) Run(ctx context.Context, handle Handler) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = c.ws.Close()
		case <-done:
		}
	}()

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		var evt gwEvent
		if err := json.Unmarshal(payload, &evt); err != nil {
			log.Printf("[gateway] dropping malformed event: %v", err)
			continue
		}
		if evt.Type != "interaction" {
			continue
		}

		var in platform.Interaction
		if err := json.Unmarshal(evt.Data, &in); err != nil {
			log.Printf("[gateway] dropping malformed interaction: %v", err)
			continue
		}
		handle(ctx, in)
	}
}

func (c *Conn) Close() error {
	return c.ws.Close()
}
