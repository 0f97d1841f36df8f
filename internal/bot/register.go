package bot

import (
	"context"
	"strings"

	"github.com/sudo-init-do/artisanhub/internal/directory"
	"github.com/sudo-init-do/artisanhub/internal/platform"
)

func (b *Bot) handleRegisterOpen(ctx context.Context, in platform.Interaction, _ CustomID) error {
	return b.chat.OpenModal(ctx, in, platform.Modal{
		Title:    "Inscription Artisans",
		CustomID: actionID(ActionSubmitRegister),
		Fields: []platform.ModalField{
			{Label: FieldTrade},
			{Label: FieldLevel},
			{Label: FieldPrice, Placeholder: "0 si gratuit"},
		},
	})
}

// handleUpdateOpen reopens the registration form prefilled with the current
// profile. An unregistered user gets the NotRegistered notice instead.
func (b *Bot) handleUpdateOpen(ctx context.Context, in platform.Interaction, _ CustomID) error {
	a, ok := b.store.Get(in.User.ID)
	if !ok {
		return directory.ErrNotRegistered
	}
	return b.chat.OpenModal(ctx, in, platform.Modal{
		Title:    "Mise à jour Artisans",
		CustomID: actionID(ActionSubmitUpdate),
		Fields: []platform.ModalField{
			{Label: FieldTrade, Value: a.Job},
			{Label: FieldLevel, Value: a.Level},
			{Label: FieldPrice, Value: a.Price},
		},
	})
}

// handleRegisterSubmit stores the submitted profile, replacing any previous
// one. Serves both registration and update; the completed-job counter is
// preserved either way.
func (b *Bot) handleRegisterSubmit(ctx context.Context, in platform.Interaction, id CustomID) error {
	job := strings.TrimSpace(in.Fields[FieldTrade])
	level := strings.TrimSpace(in.Fields[FieldLevel])
	price := strings.TrimSpace(in.Fields[FieldPrice])
	if job == "" {
		b.notify(ctx, in, "Le métier est obligatoire.")
		return nil
	}

	b.store.RegisterOrUpdate(in.User.ID, in.User.Name, job, level, price)
	if id.Action == ActionSubmitUpdate {
		b.notify(ctx, in, "Profil mis à jour")
	} else {
		b.notify(ctx, in, "Inscription enregistrée!")
	}
	return nil
}

// handleWithdraw removes the actor from the directory, ratings included.
// Idempotent: withdrawing twice is not an error.
func (b *Bot) handleWithdraw(ctx context.Context, in platform.Interaction, _ CustomID) error {
	b.store.Withdraw(in.User.ID)
	b.notify(ctx, in, "Vous avez été retiré de l'annuaire.")
	return nil
}
