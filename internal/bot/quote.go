package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/sudo-init-do/artisanhub/internal/jobs"
	"github.com/sudo-init-do/artisanhub/internal/negotiation"
	"github.com/sudo-init-do/artisanhub/internal/platform"
)

// handleRequestQuote opens a negotiation and notifies the artisan, who can
// quote or refuse outright.
func (b *Bot) handleRequestQuote(ctx context.Context, in platform.Interaction, id CustomID) error {
	artisanID, ok := id.TargetInt()
	if !ok {
		return platform.ErrUserNotFound
	}
	if _, registered := b.store.Get(artisanID); !registered {
		b.notify(ctx, in, "Artisan introuvable.")
		return nil
	}

	n := b.negotiations.Open(artisanID, in.User.ID, in.GuildID)
	err := b.chat.SendDM(ctx, artisanID, platform.Message{
		Content: fmt.Sprintf("Nouvelle demande de devis de %s", in.User.Name),
		Components: []platform.Component{
			{Label: "Envoyer un devis", CustomID: negotiationID(ActionQuoteCompose, n.ID), Style: "success"},
			{Label: "Refuser", CustomID: negotiationID(ActionQuoteRefuse, n.ID), Style: "danger"},
		},
	})
	if err != nil {
		// The artisan never saw the request; an unanswerable negotiation
		// must not linger in the registry.
		if _, closeErr := b.negotiations.Close(n.ID, negotiation.StageRefused); closeErr != nil {
			log.Printf("[bot] negotiation cleanup failed: id=%s err=%v", n.ID, closeErr)
		}
		return err
	}
	b.notify(ctx, in, "Demande envoyée!")
	return nil
}

// handleQuoteCompose opens the price/details form for the artisan.
func (b *Bot) handleQuoteCompose(ctx context.Context, in platform.Interaction, id CustomID) error {
	n, err := b.negotiations.Get(id.Target)
	if err != nil {
		return err
	}
	if in.User.ID != n.ArtisanID {
		return jobs.ErrNotAuthorized
	}
	return b.chat.OpenModal(ctx, in, platform.Modal{
		Title:    "Envoyer un devis",
		CustomID: negotiationID(ActionSubmitQuote, n.ID),
		Fields: []platform.ModalField{
			{Label: FieldPrice},
			{Label: FieldDetails},
		},
	})
}

// handleQuoteSubmit forwards the artisan's quote to the client.
func (b *Bot) handleQuoteSubmit(ctx context.Context, in platform.Interaction, id CustomID) error {
	n, err := b.negotiations.Get(id.Target)
	if err != nil {
		return err
	}
	if in.User.ID != n.ArtisanID {
		return jobs.ErrNotAuthorized
	}

	price := strings.TrimSpace(in.Fields[FieldPrice])
	details := strings.TrimSpace(in.Fields[FieldDetails])
	if price == "" {
		b.notify(ctx, in, "Le prix est obligatoire.")
		return nil
	}
	if _, err := b.negotiations.Quote(n.ID, price, details); err != nil {
		return err
	}

	err = b.chat.SendDM(ctx, n.ClientID, platform.Message{
		Content: fmt.Sprintf("Devis de %s: %s\n%s", in.User.Name, price, details),
		Components: []platform.Component{
			{Label: "Valider", CustomID: negotiationID(ActionQuoteAccept, n.ID), Style: "success"},
			{Label: "Refuser", CustomID: negotiationID(ActionQuoteDecline, n.ID), Style: "danger"},
		},
	})
	if err != nil {
		return err
	}
	b.notify(ctx, in, "Devis envoyé au client.")
	return nil
}

// handleQuoteRefuse is the artisan declining without quoting.
func (b *Bot) handleQuoteRefuse(ctx context.Context, in platform.Interaction, id CustomID) error {
	n, err := b.negotiations.Get(id.Target)
	if err != nil {
		return err
	}
	if in.User.ID != n.ArtisanID {
		return jobs.ErrNotAuthorized
	}
	if _, err := b.negotiations.Close(n.ID, negotiation.StageRefused); err != nil {
		return err
	}
	if err := b.chat.SendDM(ctx, n.ClientID, platform.Message{Content: "Votre demande de devis a été refusée."}); err != nil {
		return err
	}
	b.notify(ctx, in, "Demande refusée.")
	return nil
}

// handleQuoteDecline is the client turning down a received quote. No job,
// no channel, no store mutation.
func (b *Bot) handleQuoteDecline(ctx context.Context, in platform.Interaction, id CustomID) error {
	n, err := b.negotiations.Get(id.Target)
	if err != nil {
		return err
	}
	if in.User.ID != n.ClientID {
		return jobs.ErrNotAuthorized
	}
	if _, err := b.negotiations.Close(n.ID, negotiation.StageRefused); err != nil {
		return err
	}
	if err := b.chat.SendDM(ctx, n.ArtisanID, platform.Message{Content: "Le client a refusé votre devis."}); err != nil {
		return err
	}
	b.notify(ctx, in, "Vous avez refusé le devis.")
	return nil
}

// handleQuoteAccept turns an accepted quote into a pending engagement: a
// private channel readable by exactly the client, the artisan and the
// administrators, with the lifecycle controls posted inside.
func (b *Bot) handleQuoteAccept(ctx context.Context, in platform.Interaction, id CustomID) error {
	n, err := b.negotiations.Get(id.Target)
	if err != nil {
		return err
	}
	if in.User.ID != n.ClientID {
		return jobs.ErrNotAuthorized
	}

	artisan, err := b.chat.LookupUser(ctx, n.ArtisanID)
	if err != nil {
		return err
	}

	overwrites := []platform.Overwrite{
		{Role: "everyone", Read: false, Write: false},
		{UserID: n.ClientID, Read: true, Write: true},
		{UserID: n.ArtisanID, Read: true, Write: true},
		{Role: "admin", Read: true, Write: true},
	}
	channelName := "prestation-" + strings.ToLower(strings.ReplaceAll(artisan.Name, " ", "-"))
	ch, err := b.chat.CreatePrivateChannel(ctx, n.GuildID, channelName, overwrites)
	if err != nil {
		b.notify(ctx, in, "Erreur lors de la création du salon.")
		return nil
	}

	if _, err := b.jobs.Create(ch.ID, n.ArtisanID, n.ClientID); err != nil {
		return err
	}
	if _, err := b.negotiations.Close(n.ID, negotiation.StageAccepted); err != nil {
		return err
	}

	err = b.chat.SendChannelMessage(ctx, ch.ID, platform.Message{
		Content:    "Prestation en attente. Démarrez-la puis cliquez sur Terminer une fois la prestation faite.",
		Components: jobControls(),
	})
	if err != nil {
		return err
	}

	b.notify(ctx, in, fmt.Sprintf("Salon créé #%s", ch.Name))
	return b.chat.SendDM(ctx, n.ArtisanID, platform.Message{
		Content: fmt.Sprintf("Votre devis a été accepté. Rendez-vous dans #%s", ch.Name),
	})
}
