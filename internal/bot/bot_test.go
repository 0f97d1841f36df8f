package bot

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/artisanhub/internal/directory"
	"github.com/sudo-init-do/artisanhub/internal/jobs"
	"github.com/sudo-init-do/artisanhub/internal/negotiation"
	"github.com/sudo-init-do/artisanhub/internal/platform"
)

// fakeChat records every platform call so tests can assert on the outbound
// traffic without a real gateway.
type fakeChat struct {
	replies      []platform.Message
	dms          map[int64][]platform.Message
	channelMsgs  map[int64][]platform.Message
	modals       []platform.Modal
	deleted      []int64
	nextChannel  int64
	missingUsers map[int64]bool
}

func newFakeChat() *fakeChat {
	return &fakeChat{
		dms:          make(map[int64][]platform.Message),
		channelMsgs:  make(map[int64][]platform.Message),
		nextChannel:  500,
		missingUsers: make(map[int64]bool),
	}
}

func (f *fakeChat) Reply(_ context.Context, _ platform.Interaction, msg platform.Message) error {
	f.replies = append(f.replies, msg)
	return nil
}

func (f *fakeChat) OpenModal(_ context.Context, _ platform.Interaction, m platform.Modal) error {
	f.modals = append(f.modals, m)
	return nil
}

func (f *fakeChat) SendDM(_ context.Context, userID int64, msg platform.Message) error {
	if f.missingUsers[userID] {
		return platform.ErrUserNotFound
	}
	f.dms[userID] = append(f.dms[userID], msg)
	return nil
}

func (f *fakeChat) SendChannelMessage(_ context.Context, channelID int64, msg platform.Message) error {
	f.channelMsgs[channelID] = append(f.channelMsgs[channelID], msg)
	return nil
}

func (f *fakeChat) CreatePrivateChannel(_ context.Context, _ int64, name string, _ []platform.Overwrite) (platform.Channel, error) {
	f.nextChannel++
	return platform.Channel{ID: f.nextChannel, Name: name}, nil
}

func (f *fakeChat) DeleteChannel(_ context.Context, channelID int64) error {
	f.deleted = append(f.deleted, channelID)
	return nil
}

func (f *fakeChat) LookupUser(_ context.Context, userID int64) (platform.User, error) {
	if f.missingUsers[userID] {
		return platform.User{}, platform.ErrUserNotFound
	}
	return platform.User{ID: userID, Name: fmt.Sprintf("user%d", userID)}, nil
}

func (f *fakeChat) AdminUsers(_ context.Context, _ int64) ([]platform.User, error) {
	return []platform.User{{ID: 999, Name: "modo"}}, nil
}

func (f *fakeChat) lastReply(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.replies)
	return f.replies[len(f.replies)-1].Content
}

type fixture struct {
	chat  *fakeChat
	store *directory.Store
	jobs  *jobs.Manager
	reg   *negotiation.Registry
	bot   *Bot
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := directory.Open(filepath.Join(t.TempDir(), "directory.json"))
	require.NoError(t, err)

	chat := newFakeChat()
	jm := jobs.NewManager()
	reg := negotiation.NewRegistry()
	return &fixture{chat: chat, store: store, jobs: jm, reg: reg, bot: New(chat, store, jm, reg)}
}

func press(customID string, user, channel int64) platform.Interaction {
	return platform.Interaction{
		ID:        "i1",
		Kind:      platform.KindButton,
		CustomID:  customID,
		User:      platform.User{ID: user, Name: fmt.Sprintf("user%d", user)},
		ChannelID: channel,
		GuildID:   10,
	}
}

func submit(customID string, user, channel int64, fields map[string]string) platform.Interaction {
	in := press(customID, user, channel)
	in.Kind = platform.KindModal
	in.Fields = fields
	return in
}

const (
	artisanID = int64(1)
	clientID  = int64(2)
)

func (fx *fixture) registerArtisan(t *testing.T) {
	t.Helper()
	fx.bot.Dispatch(context.Background(), submit(actionID(ActionSubmitRegister), artisanID, 0, map[string]string{
		FieldTrade: "Plombier, Électricien",
		FieldLevel: "Expert",
		FieldPrice: "0",
	}))
	_, ok := fx.store.Get(artisanID)
	require.True(t, ok)
}

// runNegotiationToQuote walks request -> quote and returns the negotiation id.
func (fx *fixture) runNegotiationToQuote(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	fx.bot.Dispatch(ctx, press(targetID(ActionRequestQuote, artisanID), clientID, 0))
	require.Len(t, fx.chat.dms[artisanID], 1, "artisan gets the quote request")
	nid := ParseCustomID(fx.chat.dms[artisanID][0].Components[0].CustomID).Target
	require.NotEmpty(t, nid)

	fx.bot.Dispatch(ctx, submit(negotiationID(ActionSubmitQuote, nid), artisanID, 0, map[string]string{
		FieldPrice:   "80",
		FieldDetails: "Remplacement du chauffe-eau",
	}))
	require.Len(t, fx.chat.dms[clientID], 1, "client gets the quote")
	return nid
}

func TestRegisterAndUpdate(t *testing.T) {
	fx := newFixture(t)
	fx.registerArtisan(t)
	assert.Equal(t, "Inscription enregistrée!", fx.chat.lastReply(t))

	fx.bot.Dispatch(context.Background(), submit(actionID(ActionSubmitUpdate), artisanID, 0, map[string]string{
		FieldTrade: "Plombier",
		FieldLevel: "Maître",
		FieldPrice: "60",
	}))
	assert.Equal(t, "Profil mis à jour", fx.chat.lastReply(t))

	a, ok := fx.store.Get(artisanID)
	require.True(t, ok)
	assert.Equal(t, "Maître", a.Level)
}

func TestUpdateOpen_NotRegistered(t *testing.T) {
	fx := newFixture(t)
	fx.bot.Dispatch(context.Background(), press(actionID(ActionUpdate), clientID, 0))
	assert.Equal(t, "Vous n'êtes pas inscrit dans l'annuaire.", fx.chat.lastReply(t))
	assert.Empty(t, fx.chat.modals)
}

func TestUpdateOpen_PrefillsProfile(t *testing.T) {
	fx := newFixture(t)
	fx.registerArtisan(t)

	fx.bot.Dispatch(context.Background(), press(actionID(ActionUpdate), artisanID, 0))
	require.Len(t, fx.chat.modals, 1)
	assert.Equal(t, "Plombier, Électricien", fx.chat.modals[0].Fields[0].Value)
}

func TestDirectory_RendersGratuitAndUnrated(t *testing.T) {
	fx := newFixture(t)
	fx.registerArtisan(t)

	fx.bot.Dispatch(context.Background(), press(actionID(ActionDirectory), clientID, 0))
	listing := fx.chat.replies[len(fx.chat.replies)-2].Content
	assert.Contains(t, listing, "Prix: Gratuit")
	assert.Contains(t, listing, "Pas encore noté")

	card := fx.chat.replies[len(fx.chat.replies)-1]
	require.Len(t, card.Components, 2)
	assert.Equal(t, targetID(ActionRequestQuote, artisanID), card.Components[1].CustomID)
}

func TestSearch_MatchesTrade(t *testing.T) {
	fx := newFixture(t)
	fx.registerArtisan(t)
	ctx := context.Background()

	fx.bot.Dispatch(ctx, submit(actionID(ActionSubmitSearch), clientID, 0, map[string]string{FieldTrade: "plombier"}))
	found := false
	for _, r := range fx.chat.replies {
		if strings.Contains(r.Content, "Artisans pour plombier") {
			found = true
		}
	}
	assert.True(t, found)

	fx.chat.replies = nil
	fx.bot.Dispatch(ctx, submit(actionID(ActionSubmitSearch), clientID, 0, map[string]string{FieldTrade: "couvreur"}))
	assert.Equal(t, "Aucun artisan pour couvreur.", fx.chat.lastReply(t))
}

func TestQuoteRefusedByArtisan_NothingCreated(t *testing.T) {
	fx := newFixture(t)
	fx.registerArtisan(t)
	ctx := context.Background()

	fx.bot.Dispatch(ctx, press(targetID(ActionRequestQuote, artisanID), clientID, 0))
	nid := ParseCustomID(fx.chat.dms[artisanID][0].Components[0].CustomID).Target

	fx.bot.Dispatch(ctx, press(negotiationID(ActionQuoteRefuse, nid), artisanID, 0))

	assert.Equal(t, "Votre demande de devis a été refusée.", fx.chat.dms[clientID][0].Content)
	assert.Zero(t, fx.jobs.Count(), "a refusal creates no engagement")
	assert.Zero(t, fx.reg.OpenCount())
	a, _ := fx.store.Get(artisanID)
	assert.Zero(t, a.JobsDone, "a refusal mutates nothing in the directory")
}

func TestQuoteDeclinedByClient_NothingCreated(t *testing.T) {
	fx := newFixture(t)
	fx.registerArtisan(t)
	nid := fx.runNegotiationToQuote(t)

	fx.bot.Dispatch(context.Background(), press(negotiationID(ActionQuoteDecline, nid), clientID, 0))
	assert.Equal(t, "Le client a refusé votre devis.", fx.chat.dms[artisanID][1].Content)
	assert.Zero(t, fx.jobs.Count())
}

func TestQuoteAccept_WrongActor(t *testing.T) {
	fx := newFixture(t)
	fx.registerArtisan(t)
	nid := fx.runNegotiationToQuote(t)

	fx.bot.Dispatch(context.Background(), press(negotiationID(ActionQuoteAccept, nid), artisanID, 0))
	assert.Equal(t, "Vous n'êtes pas concerné par cette action.", fx.chat.lastReply(t))
	assert.Zero(t, fx.jobs.Count())
	assert.Equal(t, 1, fx.reg.OpenCount(), "the negotiation stays open")
}

func TestQuoteAccept_BeforeAnyQuote(t *testing.T) {
	fx := newFixture(t)
	fx.registerArtisan(t)
	ctx := context.Background()

	fx.bot.Dispatch(ctx, press(targetID(ActionRequestQuote, artisanID), clientID, 0))
	nid := ParseCustomID(fx.chat.dms[artisanID][0].Components[0].CustomID).Target

	// The artisan never composed a quote; there is nothing to validate.
	fx.bot.Dispatch(ctx, press(negotiationID(ActionQuoteAccept, nid), clientID, 0))

	assert.Equal(t, "Cette action n'est pas possible à ce stade de la demande de devis.", fx.chat.lastReply(t))
	assert.Zero(t, fx.jobs.Count(), "no engagement for a quote that never happened")
	assert.Equal(t, int64(500), fx.chat.nextChannel, "no channel either")
	assert.Equal(t, 1, fx.reg.OpenCount(), "the negotiation stays open for the artisan to answer")
}

func TestRequestQuote_ArtisanUnreachable(t *testing.T) {
	fx := newFixture(t)
	fx.registerArtisan(t)
	fx.chat.missingUsers[artisanID] = true

	fx.bot.Dispatch(context.Background(), press(targetID(ActionRequestQuote, artisanID), clientID, 0))

	assert.Equal(t, "Utilisateur introuvable.", fx.chat.lastReply(t))
	assert.Zero(t, fx.reg.OpenCount(), "an undeliverable request leaves no open negotiation behind")
}

func TestQuoteSubmit_EmptyPrice(t *testing.T) {
	fx := newFixture(t)
	fx.registerArtisan(t)
	ctx := context.Background()

	fx.bot.Dispatch(ctx, press(targetID(ActionRequestQuote, artisanID), clientID, 0))
	nid := ParseCustomID(fx.chat.dms[artisanID][0].Components[0].CustomID).Target

	fx.bot.Dispatch(ctx, submit(negotiationID(ActionSubmitQuote, nid), artisanID, 0, map[string]string{
		FieldPrice:   "   ",
		FieldDetails: "Remplacement du chauffe-eau",
	}))

	assert.Equal(t, "Le prix est obligatoire.", fx.chat.lastReply(t))
	assert.Empty(t, fx.chat.dms[clientID], "no empty quote reaches the client")

	n, err := fx.reg.Get(nid)
	require.NoError(t, err)
	assert.Equal(t, negotiation.StageRequested, n.Stage, "the artisan can submit again")
}

func TestQuoteAccept_CreatesChannelAndPendingJob(t *testing.T) {
	fx := newFixture(t)
	fx.registerArtisan(t)
	nid := fx.runNegotiationToQuote(t)

	fx.bot.Dispatch(context.Background(), press(negotiationID(ActionQuoteAccept, nid), clientID, 0))

	j, ok := fx.jobs.Get(501)
	require.True(t, ok)
	assert.Equal(t, jobs.StatusPending, j.Status)
	assert.Equal(t, artisanID, j.ArtisanID)
	assert.Equal(t, clientID, j.ClientID)

	require.Len(t, fx.chat.channelMsgs[501], 1, "lifecycle controls are posted in the new channel")
	assert.Len(t, fx.chat.channelMsgs[501][0].Components, 3)
	assert.Contains(t, fx.chat.dms[artisanID][len(fx.chat.dms[artisanID])-1].Content, "Votre devis a été accepté")
	assert.Zero(t, fx.reg.OpenCount())
}

// acceptQuote drives a fresh negotiation to an open engagement channel.
func (fx *fixture) acceptQuote(t *testing.T) int64 {
	t.Helper()
	nid := fx.runNegotiationToQuote(t)
	fx.bot.Dispatch(context.Background(), press(negotiationID(ActionQuoteAccept, nid), clientID, 0))
	ch := fx.chat.nextChannel
	_, ok := fx.jobs.Get(ch)
	require.True(t, ok)
	return ch
}

func TestLifecycle_FullRun(t *testing.T) {
	fx := newFixture(t)
	fx.registerArtisan(t)
	ch := fx.acceptQuote(t)
	ctx := context.Background()

	fx.bot.Dispatch(ctx, press(actionID(ActionJobStart), artisanID, ch))
	j, _ := fx.jobs.Get(ch)
	assert.Equal(t, jobs.StatusInProgress, j.Status)

	fx.bot.Dispatch(ctx, press(actionID(ActionJobComplete), artisanID, ch))
	j, _ = fx.jobs.Get(ch)
	assert.Equal(t, jobs.StatusCompleted, j.Status)
	last := fx.chat.channelMsgs[ch][len(fx.chat.channelMsgs[ch])-1]
	assert.Contains(t, last.Content, "veuillez noter votre artisan")

	fx.bot.Dispatch(ctx, submit(actionID(ActionSubmitRating), clientID, ch, map[string]string{
		FieldScore:   "4",
		FieldComment: "très pro",
	}))

	_, ok := fx.jobs.Get(ch)
	assert.False(t, ok, "rated engagement is destroyed")
	assert.Equal(t, []int64{ch}, fx.chat.deleted, "its channel is deleted")

	avg, rated := fx.store.AverageRating(artisanID)
	require.True(t, rated)
	assert.InDelta(t, 4.0, avg, 1e-9)
	assert.Equal(t, []string{"très pro"}, fx.store.Comments(artisanID))

	a, _ := fx.store.Get(artisanID)
	assert.Equal(t, 1, a.JobsDone)
}

func TestLifecycle_CompleteWhilePending(t *testing.T) {
	fx := newFixture(t)
	fx.registerArtisan(t)
	ch := fx.acceptQuote(t)

	fx.bot.Dispatch(context.Background(), press(actionID(ActionJobComplete), artisanID, ch))
	assert.Equal(t, "Cette action n'est pas possible à ce stade de la prestation.", fx.chat.lastReply(t))

	j, _ := fx.jobs.Get(ch)
	assert.Equal(t, jobs.StatusPending, j.Status)
}

func TestLifecycle_ClientCannotStart(t *testing.T) {
	fx := newFixture(t)
	fx.registerArtisan(t)
	ch := fx.acceptQuote(t)

	fx.bot.Dispatch(context.Background(), press(actionID(ActionJobStart), clientID, ch))
	assert.Equal(t, "Vous n'êtes pas concerné par cette action.", fx.chat.lastReply(t))

	j, _ := fx.jobs.Get(ch)
	assert.Equal(t, jobs.StatusPending, j.Status)
}

func TestRating_InvalidScoreKeepsJob(t *testing.T) {
	fx := newFixture(t)
	fx.registerArtisan(t)
	ch := fx.acceptQuote(t)
	ctx := context.Background()

	fx.bot.Dispatch(ctx, press(actionID(ActionJobStart), artisanID, ch))
	fx.bot.Dispatch(ctx, press(actionID(ActionJobComplete), artisanID, ch))

	fx.bot.Dispatch(ctx, submit(actionID(ActionSubmitRating), clientID, ch, map[string]string{FieldScore: "7"}))
	assert.Equal(t, "La note doit être comprise entre 1 et 5.", fx.chat.lastReply(t))

	_, ok := fx.jobs.Get(ch)
	assert.True(t, ok, "the job survives a rejected rating")
	assert.Empty(t, fx.chat.deleted)
}

func TestRating_OnlyClient(t *testing.T) {
	fx := newFixture(t)
	fx.registerArtisan(t)
	ch := fx.acceptQuote(t)
	ctx := context.Background()

	fx.bot.Dispatch(ctx, press(actionID(ActionJobStart), artisanID, ch))
	fx.bot.Dispatch(ctx, press(actionID(ActionJobComplete), artisanID, ch))

	fx.bot.Dispatch(ctx, press(actionID(ActionJobRate), artisanID, ch))
	assert.Equal(t, "Vous n'êtes pas concerné par cette action.", fx.chat.lastReply(t))
	assert.Empty(t, fx.chat.modals, "no rating modal for the artisan")
}

func TestDispute_NotifiesChannel(t *testing.T) {
	fx := newFixture(t)
	fx.registerArtisan(t)
	ch := fx.acceptQuote(t)

	fx.bot.Dispatch(context.Background(), press(actionID(ActionJobDispute), clientID, ch))
	j, _ := fx.jobs.Get(ch)
	assert.Equal(t, jobs.StatusDisputed, j.Status)
	last := fx.chat.channelMsgs[ch][len(fx.chat.channelMsgs[ch])-1]
	assert.Contains(t, last.Content, "litige")
}

func TestWithdraw_ThenQuoteRequestFails(t *testing.T) {
	fx := newFixture(t)
	fx.registerArtisan(t)
	ctx := context.Background()

	fx.bot.Dispatch(ctx, press(actionID(ActionWithdraw), artisanID, 0))
	assert.Equal(t, "Vous avez été retiré de l'annuaire.", fx.chat.lastReply(t))

	fx.bot.Dispatch(ctx, press(targetID(ActionRequestQuote, artisanID), clientID, 0))
	assert.Equal(t, "Artisan introuvable.", fx.chat.lastReply(t))
	assert.Empty(t, fx.chat.dms[artisanID])
}

func TestContact_LookupFailure(t *testing.T) {
	fx := newFixture(t)
	fx.chat.missingUsers[artisanID] = true

	fx.bot.Dispatch(context.Background(), press(targetID(ActionContact, artisanID), clientID, 0))
	assert.Equal(t, "Utilisateur introuvable.", fx.chat.lastReply(t))
}
