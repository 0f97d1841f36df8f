package alerts

import "time"

// Task type constants
const (
	TaskDisputeOpened    = "alert:dispute_opened"
	TaskNegotiationStale = "alert:negotiation_stale"
)

// DisputeOpenedPayload is fanned out to every administrator when one party
// escalates an engagement.
type DisputeOpenedPayload struct {
	ChannelID int64     `json:"channel_id"`
	ArtisanID int64     `json:"artisan_id"`
	ClientID  int64     `json:"client_id"`
	FilerID   int64     `json:"filer_id"`
	OpenedAt  time.Time `json:"opened_at"`
}

// NegotiationStalePayload reports a quote request left unanswered.
type NegotiationStalePayload struct {
	NegotiationID string    `json:"negotiation_id"`
	ArtisanID     int64     `json:"artisan_id"`
	ClientID      int64     `json:"client_id"`
	Stage         string    `json:"stage"`
	OpenedAt      time.Time `json:"opened_at"`
}
