package jobs

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrNotFound      = errors.New("no job for this channel")
	ErrChannelInUse  = errors.New("channel already has a job")
	ErrNotAuthorized = errors.New("actor not allowed to perform this action")
	ErrInvalidState  = errors.New("action not allowed in current status")
)

// Status of an engagement. Transitions are actor-gated: only the artisan
// may start or complete, either party may dispute, only the client closes a
// completed job by rating it.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusDisputed   Status = "disputed"
)

// Job is one engagement, keyed by its private channel.
type Job struct {
	ChannelID int64     `json:"channel_id"`
	ArtisanID int64     `json:"artisan_id"`
	ClientID  int64     `json:"client_id"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Manager tracks every live engagement. At most one job per channel.
type Manager struct {
	mu   sync.Mutex
	jobs map[int64]Job
}

func NewManager() *Manager {
	return &Manager{jobs: make(map[int64]Job)}
}

// Create opens a pending job bound to channelID.
func (m *Manager) Create(channelID, artisanID, clientID int64) (Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.jobs[channelID]; ok {
		return Job{}, ErrChannelInUse
	}
	j := Job{
		ChannelID: channelID,
		ArtisanID: artisanID,
		ClientID:  clientID,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
	m.jobs[channelID] = j
	return j, nil
}

// Get returns the job bound to channelID.
func (m *Manager) Get(channelID int64) (Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[channelID]
	return j, ok
}

// Start moves pending -> in_progress. Artisan only.
func (m *Manager) Start(channelID, actorID int64) (Job, error) {
	return m.advance(channelID, func(j Job) error {
		if actorID != j.ArtisanID {
			return ErrNotAuthorized
		}
		if j.Status != StatusPending {
			return ErrInvalidState
		}
		return nil
	}, StatusInProgress)
}

// Complete moves in_progress -> completed. Artisan only.
func (m *Manager) Complete(channelID, actorID int64) (Job, error) {
	return m.advance(channelID, func(j Job) error {
		if actorID != j.ArtisanID {
			return ErrNotAuthorized
		}
		if j.Status != StatusInProgress {
			return ErrInvalidState
		}
		return nil
	}, StatusCompleted)
}

// Dispute moves pending or in_progress -> disputed. Either party.
func (m *Manager) Dispute(channelID, actorID int64) (Job, error) {
	return m.advance(channelID, func(j Job) error {
		if actorID != j.ArtisanID && actorID != j.ClientID {
			return ErrNotAuthorized
		}
		if j.Status != StatusPending && j.Status != StatusInProgress {
			return ErrInvalidState
		}
		return nil
	}, StatusDisputed)
}

// Finish removes a completed job once its client has rated it. The caller
// records the rating and deletes the channel.
func (m *Manager) Finish(channelID, actorID int64) (Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[channelID]
	if !ok {
		return Job{}, ErrNotFound
	}
	if actorID != j.ClientID {
		return Job{}, ErrNotAuthorized
	}
	if j.Status != StatusCompleted {
		return Job{}, ErrInvalidState
	}
	delete(m.jobs, channelID)
	return j, nil
}

// Count reports live engagements.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}

// advance applies gate to the current job and, only if it passes, records
// the new status. A rejected transition leaves the job untouched.
func (m *Manager) advance(channelID int64, gate func(Job) error, to Status) (Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[channelID]
	if !ok {
		return Job{}, ErrNotFound
	}
	if err := gate(j); err != nil {
		return Job{}, err
	}
	j.Status = to
	m.jobs[channelID] = j
	return j, nil
}
