package bot

import (
	"context"
	"errors"
	"log"

	"github.com/sudo-init-do/artisanhub/internal/directory"
	"github.com/sudo-init-do/artisanhub/internal/jobs"
	"github.com/sudo-init-do/artisanhub/internal/negotiation"
	"github.com/sudo-init-do/artisanhub/internal/platform"
)

// Modal field labels, shared between the modals the bot opens and the
// submissions it reads back.
const (
	FieldTrade   = "Métier"
	FieldLevel   = "Niveau"
	FieldPrice   = "Prix"
	FieldDetails = "Détails"
	FieldScore   = "Note"
	FieldComment = "Commentaire"
)

// Bot routes platform interactions to the marketplace handlers. One
// interaction is handled to completion at a time per inbound path; the
// store, job table and negotiation registry serialize their own mutations.
type Bot struct {
	chat         platform.Client
	store        *directory.Store
	jobs         *jobs.Manager
	negotiations *negotiation.Registry

	handlers map[string]handlerFunc
}

type handlerFunc func(ctx context.Context, in platform.Interaction, id CustomID) error

func New(chat platform.Client, store *directory.Store, jm *jobs.Manager, reg *negotiation.Registry) *Bot {
	b := &Bot{chat: chat, store: store, jobs: jm, negotiations: reg}
	b.handlers = map[string]handlerFunc{
		ActionDirectory: b.handleDirectory,
		ActionRegister:  b.handleRegisterOpen,
		ActionUpdate:    b.handleUpdateOpen,
		ActionSearch:    b.handleSearchOpen,
		ActionTop:       b.handleTop,
		ActionWithdraw:  b.handleWithdraw,

		ActionContact:      b.handleContact,
		ActionRequestQuote: b.handleRequestQuote,

		ActionQuoteCompose: b.handleQuoteCompose,
		ActionQuoteRefuse:  b.handleQuoteRefuse,
		ActionQuoteAccept:  b.handleQuoteAccept,
		ActionQuoteDecline: b.handleQuoteDecline,

		ActionJobStart:    b.handleJobStart,
		ActionJobComplete: b.handleJobComplete,
		ActionJobDispute:  b.handleJobDispute,
		ActionJobRate:     b.handleRatingOpen,

		ActionSubmitRegister: b.handleRegisterSubmit,
		ActionSubmitUpdate:   b.handleRegisterSubmit,
		ActionSubmitSearch:   b.handleSearchSubmit,
		ActionSubmitQuote:    b.handleQuoteSubmit,
		ActionSubmitRating:   b.handleRatingSubmit,
	}
	return b
}

// Dispatch handles one interaction. Every domain error resolves to a
// private notice for the actor; state is left untouched on rejection.
func (b *Bot) Dispatch(ctx context.Context, in platform.Interaction) {
	id := ParseCustomID(in.CustomID)
	h, ok := b.handlers[id.Action]
	if !ok {
		log.Printf("[bot] unknown action %q from user=%d", id.Action, in.User.ID)
		return
	}
	if err := h(ctx, in, id); err != nil {
		b.notify(ctx, in, noticeFor(err))
	}
}

// notify sends a private, actor-visible notice. Delivery failures are
// logged; there is nothing further to do with them.
func (b *Bot) notify(ctx context.Context, in platform.Interaction, content string) {
	if err := b.chat.Reply(ctx, in, platform.Message{Content: content}); err != nil {
		log.Printf("[bot] notice delivery failed: user=%d err=%v", in.User.ID, err)
	}
}

// noticeFor maps domain errors to the user-facing French notices. Anything
// outside the taxonomy gets a generic notice and a log line.
func noticeFor(err error) string {
	switch {
	case errors.Is(err, directory.ErrNotRegistered):
		return "Vous n'êtes pas inscrit dans l'annuaire."
	case errors.Is(err, directory.ErrInvalidScore):
		return "La note doit être comprise entre 1 et 5."
	case errors.Is(err, jobs.ErrNotAuthorized):
		return "Vous n'êtes pas concerné par cette action."
	case errors.Is(err, jobs.ErrInvalidState):
		return "Cette action n'est pas possible à ce stade de la prestation."
	case errors.Is(err, jobs.ErrNotFound):
		return "Erreur de prestation."
	case errors.Is(err, negotiation.ErrNotFound):
		return "Cette demande de devis n'existe plus."
	case errors.Is(err, negotiation.ErrInvalidStage):
		return "Cette action n'est pas possible à ce stade de la demande de devis."
	case errors.Is(err, platform.ErrUserNotFound):
		return "Utilisateur introuvable."
	case errors.Is(err, platform.ErrChannelNotFound):
		return "Salon introuvable."
	default:
		log.Printf("[bot] unexpected handler error: %v", err)
		return "Une erreur est survenue, réessayez."
	}
}
