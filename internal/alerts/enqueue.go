package alerts

import (
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"
)

// EnqueueDisputeOpened schedules an administrator alert for an escalated
// engagement. Best-effort: a queue failure is logged, never surfaced to the
// user who escalated.
func EnqueueDisputeOpened(channelID, artisanID, clientID, filerID int64) error {
	if client == nil {
		log.Printf("[notify] alert queue not initialized, dropping dispute alert channel=%d", channelID)
		return nil
	}
	payload := DisputeOpenedPayload{
		ChannelID: channelID,
		ArtisanID: artisanID,
		ClientID:  clientID,
		FilerID:   filerID,
		OpenedAt:  time.Now(),
	}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskDisputeOpened, b)
	_, err := client.Enqueue(task, asynq.Queue("alerts"))
	return err
}

// EnqueueNegotiationStale reports a quote request nobody answered.
func EnqueueNegotiationStale(negotiationID string, artisanID, clientID int64, stage string, openedAt time.Time) error {
	if client == nil {
		log.Printf("[notify] alert queue not initialized, dropping stale-negotiation alert id=%s", negotiationID)
		return nil
	}
	payload := NegotiationStalePayload{
		NegotiationID: negotiationID,
		ArtisanID:     artisanID,
		ClientID:      clientID,
		Stage:         stage,
		OpenedAt:      openedAt,
	}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskNegotiationStale, b)
	_, err := client.Enqueue(task, asynq.Queue("alerts"))
	return err
}
