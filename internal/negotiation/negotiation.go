package negotiation

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("unknown negotiation")
	ErrInvalidStage = errors.New("action not allowed at this negotiation stage")
)

// Stage of a quote negotiation. There is no timeout: a negotiation nobody
// answers stays requested or quoted until swept into a log line.
type Stage string

const (
	StageRequested Stage = "requested"
	StageQuoted    Stage = "quoted"
	StageAccepted  Stage = "accepted"
	StageRefused   Stage = "refused"
)

// Negotiation threads the identities of one quote exchange between a client
// and an artisan. It is ephemeral: accepted or refused ones are dropped.
type Negotiation struct {
	ID        string
	ArtisanID int64
	ClientID  int64
	GuildID   int64
	Stage     Stage
	Price     string
	Details   string
	CreatedAt time.Time
}

// Registry holds every open negotiation, keyed by a generated id that the
// button custom-ids carry. An artisan may have any number of simultaneous
// negotiations from different clients.
type Registry struct {
	mu   sync.Mutex
	open map[string]Negotiation
}

func NewRegistry() *Registry {
	return &Registry{open: make(map[string]Negotiation)}
}

// Open records a new requested negotiation and returns it.
func (r *Registry) Open(artisanID, clientID, guildID int64) Negotiation {
	n := Negotiation{
		ID:        uuid.New().String(),
		ArtisanID: artisanID,
		ClientID:  clientID,
		GuildID:   guildID,
		Stage:     StageRequested,
		CreatedAt: time.Now(),
	}
	r.mu.Lock()
	r.open[n.ID] = n
	r.mu.Unlock()
	return n
}

// Get returns the negotiation for id.
func (r *Registry) Get(id string) (Negotiation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.open[id]
	if !ok {
		return Negotiation{}, ErrNotFound
	}
	return n, nil
}

// Quote moves a requested negotiation to quoted, keeping the artisan's
// price and details for the client-side notice. A negotiation can only be
// quoted once.
func (r *Registry) Quote(id, price, details string) (Negotiation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.open[id]
	if !ok {
		return Negotiation{}, ErrNotFound
	}
	if n.Stage != StageRequested {
		return Negotiation{}, ErrInvalidStage
	}
	n.Stage = StageQuoted
	n.Price = price
	n.Details = details
	r.open[id] = n
	return n, nil
}

// Close resolves the negotiation as accepted or refused and drops it.
// Accepting requires a quote on the table; refusal is legal from either
// stage. A rejected close leaves the negotiation open and untouched.
func (r *Registry) Close(id string, stage Stage) (Negotiation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.open[id]
	if !ok {
		return Negotiation{}, ErrNotFound
	}
	if stage == StageAccepted && n.Stage != StageQuoted {
		return Negotiation{}, ErrInvalidStage
	}
	n.Stage = stage
	delete(r.open, id)
	return n, nil
}

// OpenCount reports negotiations still awaiting an answer.
func (r *Registry) OpenCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.open)
}

// Sweep logs negotiations open for longer than maxAge and returns them.
// They are left in place: abandonment has no automatic resolution.
func (r *Registry) Sweep(maxAge time.Duration) []Negotiation {
	cutoff := time.Now().Add(-maxAge)

	r.mu.Lock()
	defer r.mu.Unlock()

	var stale []Negotiation
	for _, n := range r.open {
		if n.CreatedAt.Before(cutoff) {
			stale = append(stale, n)
			log.Printf("[negotiation] still open after %s: id=%s artisan=%d client=%d stage=%s",
				maxAge, n.ID, n.ArtisanID, n.ClientID, n.Stage)
		}
	}
	return stale
}
