package bot

import (
	"context"

	"github.com/sudo-init-do/artisanhub/internal/platform"
)

// menuEntry declares one main-menu control. The two menus (artisan-facing
// and client-facing) are composed from this single list instead of building
// one view and subtracting buttons from it.
type menuEntry struct {
	label       string
	action      string
	style       string
	artisanOnly bool
	clientOnly  bool
}

var mainMenu = []menuEntry{
	{label: "Annuaire", action: ActionDirectory, style: "primary"},
	{label: "S'inscrire", action: ActionRegister, style: "success", clientOnly: true},
	{label: "Mise à jour", action: ActionUpdate, style: "secondary", artisanOnly: true},
	{label: "Recherche", action: ActionSearch, style: "primary"},
	{label: "Top", action: ActionTop, style: "primary"},
	{label: "Retirer", action: ActionWithdraw, style: "danger", artisanOnly: true},
}

// menuComponents renders the menu for one audience.
func menuComponents(forArtisan bool) []platform.Component {
	var out []platform.Component
	for _, e := range mainMenu {
		if e.artisanOnly && !forArtisan {
			continue
		}
		if e.clientOnly && forArtisan {
			continue
		}
		out = append(out, platform.Component{
			Label:    e.label,
			CustomID: actionID(e.action),
			Style:    e.style,
		})
	}
	return out
}

// PostMainMenus publishes the two entry-point menus to their configured
// channels: the client menu on the directory channel, the artisan menu on
// the dashboard channel.
func (b *Bot) PostMainMenus(ctx context.Context, directoryChannelID, dashboardChannelID int64) error {
	if err := b.chat.SendChannelMessage(ctx, directoryChannelID, platform.Message{
		Content:    "Menu Artisans",
		Components: menuComponents(false),
	}); err != nil {
		return err
	}
	return b.chat.SendChannelMessage(ctx, dashboardChannelID, platform.Message{
		Content:    "Espace Artisans",
		Components: menuComponents(true),
	})
}

// artisanCard renders the contact / quote controls shown under one artisan
// in directory and search results.
func artisanCard(artisanID int64) []platform.Component {
	return []platform.Component{
		{Label: "MP", CustomID: targetID(ActionContact, artisanID), Style: "primary"},
		{Label: "Demander un devis", CustomID: targetID(ActionRequestQuote, artisanID), Style: "success"},
	}
}

// jobControls renders the lifecycle buttons posted in an engagement channel.
func jobControls() []platform.Component {
	return []platform.Component{
		{Label: "Démarrer", CustomID: actionID(ActionJobStart), Style: "primary"},
		{Label: "Terminer", CustomID: actionID(ActionJobComplete), Style: "success"},
		{Label: "Litige", CustomID: actionID(ActionJobDispute), Style: "danger"},
	}
}
