package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/sudo-init-do/artisanhub/internal/directory"
	"github.com/sudo-init-do/artisanhub/internal/platform"
)

func ratingDisplay(a directory.RatedArtisan) string {
	if !a.Rated {
		return "Pas encore noté"
	}
	return fmt.Sprintf("%.1f", a.Average)
}

func artisanLine(a directory.RatedArtisan) string {
	return fmt.Sprintf("%s — Métier: %s | Niveau: %s | Prix: %s | Note: %s",
		a.Name, a.Job, a.Level, a.PriceDisplay(), ratingDisplay(a))
}

// handleDirectory lists every artisan, then sends one card per artisan with
// the contact and quote controls.
func (b *Bot) handleDirectory(ctx context.Context, in platform.Interaction, _ CustomID) error {
	listing := b.store.All()
	if len(listing) == 0 {
		b.notify(ctx, in, "L'annuaire est vide pour le moment.")
		return nil
	}
	b.notify(ctx, in, renderListing("Annuaire des artisans", listing))
	return b.sendCards(ctx, in, listing)
}

// handleTop shows the five best rated artisans.
func (b *Bot) handleTop(ctx context.Context, in platform.Interaction, _ CustomID) error {
	top := b.store.Top(5)
	if len(top) == 0 {
		b.notify(ctx, in, "Aucun artisan inscrit pour le moment.")
		return nil
	}
	var sb strings.Builder
	sb.WriteString("Top Artisans\n")
	for i, a := range top {
		fmt.Fprintf(&sb, "%d. %s — Métier: %s | Note: %s\n", i+1, a.Name, a.Job, ratingDisplay(a))
	}
	b.notify(ctx, in, sb.String())
	return nil
}

func (b *Bot) handleSearchOpen(ctx context.Context, in platform.Interaction, _ CustomID) error {
	return b.chat.OpenModal(ctx, in, platform.Modal{
		Title:    "Recherche Artisans",
		CustomID: actionID(ActionSubmitSearch),
		Fields:   []platform.ModalField{{Label: FieldTrade}},
	})
}

func (b *Bot) handleSearchSubmit(ctx context.Context, in platform.Interaction, _ CustomID) error {
	trade := strings.TrimSpace(in.Fields[FieldTrade])
	if trade == "" {
		b.notify(ctx, in, "Indiquez un métier à rechercher.")
		return nil
	}
	results := b.store.Search(trade)
	if len(results) == 0 {
		b.notify(ctx, in, fmt.Sprintf("Aucun artisan pour %s.", trade))
		return nil
	}
	b.notify(ctx, in, renderListing(fmt.Sprintf("Artisans pour %s", trade), results))
	return b.sendCards(ctx, in, results)
}

// handleContact points the client at the artisan's DMs.
func (b *Bot) handleContact(ctx context.Context, in platform.Interaction, id CustomID) error {
	artisanID, ok := id.TargetInt()
	if !ok {
		return platform.ErrUserNotFound
	}
	u, err := b.chat.LookupUser(ctx, artisanID)
	if err != nil {
		return err
	}
	b.notify(ctx, in, fmt.Sprintf("Contactez %s en MP.", u.Name))
	return nil
}

func renderListing(title string, listing []directory.RatedArtisan) string {
	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteByte('\n')
	for _, a := range listing {
		sb.WriteString(artisanLine(a))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (b *Bot) sendCards(ctx context.Context, in platform.Interaction, listing []directory.RatedArtisan) error {
	for _, a := range listing {
		err := b.chat.Reply(ctx, in, platform.Message{
			Content:    a.Name,
			Components: artisanCard(a.ID),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
