package negotiation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenQuoteClose(t *testing.T) {
	r := NewRegistry()

	n := r.Open(1, 2, 10)
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, StageRequested, n.Stage)
	assert.Equal(t, 1, r.OpenCount())

	quoted, err := r.Quote(n.ID, "50", "pose complète")
	require.NoError(t, err)
	assert.Equal(t, StageQuoted, quoted.Stage)
	assert.Equal(t, "50", quoted.Price)

	closed, err := r.Close(n.ID, StageAccepted)
	require.NoError(t, err)
	assert.Equal(t, StageAccepted, closed.Stage)
	assert.Zero(t, r.OpenCount())

	_, err = r.Get(n.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClose_Refused(t *testing.T) {
	r := NewRegistry()
	n := r.Open(1, 2, 10)

	closed, err := r.Close(n.ID, StageRefused)
	require.NoError(t, err)
	assert.Equal(t, StageRefused, closed.Stage)

	_, err = r.Quote(n.ID, "50", "")
	assert.ErrorIs(t, err, ErrNotFound, "a refused negotiation is gone")
}

func TestClose_AcceptRequiresQuote(t *testing.T) {
	r := NewRegistry()
	n := r.Open(1, 2, 10)

	_, err := r.Close(n.ID, StageAccepted)
	assert.ErrorIs(t, err, ErrInvalidStage, "nothing to accept before a quote exists")

	got, err := r.Get(n.ID)
	require.NoError(t, err, "a rejected close leaves the negotiation open")
	assert.Equal(t, StageRequested, got.Stage)

	_, err = r.Quote(n.ID, "50", "")
	require.NoError(t, err)
	_, err = r.Close(n.ID, StageAccepted)
	assert.NoError(t, err)
}

func TestQuote_OnlyOnce(t *testing.T) {
	r := NewRegistry()
	n := r.Open(1, 2, 10)

	_, err := r.Quote(n.ID, "50", "pose complète")
	require.NoError(t, err)

	_, err = r.Quote(n.ID, "80", "")
	assert.ErrorIs(t, err, ErrInvalidStage)

	got, err := r.Get(n.ID)
	require.NoError(t, err)
	assert.Equal(t, "50", got.Price, "the first quote stands")
}

func TestClose_RefuseLegalFromEitherStage(t *testing.T) {
	r := NewRegistry()

	n1 := r.Open(1, 2, 10)
	_, err := r.Close(n1.ID, StageRefused)
	assert.NoError(t, err, "an artisan may refuse without quoting")

	n2 := r.Open(1, 3, 10)
	_, err = r.Quote(n2.ID, "50", "")
	require.NoError(t, err)
	_, err = r.Close(n2.ID, StageRefused)
	assert.NoError(t, err, "a client may refuse a received quote")
	assert.Zero(t, r.OpenCount())
}

func TestUnboundedPerArtisan(t *testing.T) {
	r := NewRegistry()
	r.Open(1, 2, 10)
	r.Open(1, 3, 10)
	r.Open(1, 4, 10)
	assert.Equal(t, 3, r.OpenCount(), "no limit on simultaneous negotiations for one artisan")
}

func TestSweep_ReportsOnlyStale(t *testing.T) {
	r := NewRegistry()
	fresh := r.Open(1, 2, 10)

	stale := r.Open(1, 3, 10)
	r.mu.Lock()
	n := r.open[stale.ID]
	n.CreatedAt = time.Now().Add(-48 * time.Hour)
	r.open[stale.ID] = n
	r.mu.Unlock()

	got := r.Sweep(24 * time.Hour)
	require.Len(t, got, 1)
	assert.Equal(t, stale.ID, got[0].ID)

	// Swept negotiations stay open; there is no automatic resolution.
	assert.Equal(t, 2, r.OpenCount())
	_, err := r.Get(fresh.ID)
	assert.NoError(t, err)
}
