package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/sudo-init-do/artisanhub/internal/alerts"
	"github.com/sudo-init-do/artisanhub/internal/directory"
	"github.com/sudo-init-do/artisanhub/internal/jobs"
	"github.com/sudo-init-do/artisanhub/internal/platform"
)

// handleJobStart moves the engagement to in_progress. Artisan only.
func (b *Bot) handleJobStart(ctx context.Context, in platform.Interaction, _ CustomID) error {
	if _, err := b.jobs.Start(in.ChannelID, in.User.ID); err != nil {
		return err
	}
	if err := b.chat.SendChannelMessage(ctx, in.ChannelID, platform.Message{
		Content: "La prestation a démarré.",
	}); err != nil {
		return err
	}
	b.notify(ctx, in, "Prestation démarrée.")
	return nil
}

// handleJobComplete closes the work and asks the client for a rating.
func (b *Bot) handleJobComplete(ctx context.Context, in platform.Interaction, _ CustomID) error {
	j, err := b.jobs.Complete(in.ChannelID, in.User.ID)
	if err != nil {
		return err
	}

	client, err := b.chat.LookupUser(ctx, j.ClientID)
	if err != nil {
		return err
	}
	if err := b.chat.SendChannelMessage(ctx, in.ChannelID, platform.Message{
		Content: fmt.Sprintf("%s veuillez noter votre artisan", client.Name),
		Components: []platform.Component{
			{Label: "Noter la prestation", CustomID: actionID(ActionJobRate), Style: "primary"},
		},
	}); err != nil {
		return err
	}
	b.notify(ctx, in, "Demande de note envoyée.")
	return nil
}

// handleJobDispute escalates to the moderators. Either party may do it
// while the engagement is pending or in progress.
func (b *Bot) handleJobDispute(ctx context.Context, in platform.Interaction, _ CustomID) error {
	j, err := b.jobs.Dispute(in.ChannelID, in.User.ID)
	if err != nil {
		return err
	}

	if err := alerts.EnqueueDisputeOpened(j.ChannelID, j.ArtisanID, j.ClientID, in.User.ID); err != nil {
		log.Printf("[bot] dispute alert enqueue failed: channel=%d err=%v", j.ChannelID, err)
	}
	if err := b.chat.SendChannelMessage(ctx, in.ChannelID, platform.Message{
		Content: "Un litige a été ouvert. Un modérateur va intervenir.",
	}); err != nil {
		return err
	}
	b.notify(ctx, in, "Litige signalé aux modérateurs.")
	return nil
}

// handleRatingOpen shows the rating form to the client of a completed
// engagement.
func (b *Bot) handleRatingOpen(ctx context.Context, in platform.Interaction, _ CustomID) error {
	j, ok := b.jobs.Get(in.ChannelID)
	if !ok {
		return jobs.ErrNotFound
	}
	if in.User.ID != j.ClientID {
		return jobs.ErrNotAuthorized
	}
	if j.Status != jobs.StatusCompleted {
		return jobs.ErrInvalidState
	}
	return b.chat.OpenModal(ctx, in, platform.Modal{
		Title:    "Noter la prestation",
		CustomID: actionID(ActionSubmitRating),
		Fields: []platform.ModalField{
			{Label: FieldScore, Placeholder: "1 à 5"},
			{Label: FieldComment, Optional: true},
		},
	})
}

// handleRatingSubmit records the rating and comment, closes the engagement
// and deletes its channel.
func (b *Bot) handleRatingSubmit(ctx context.Context, in platform.Interaction, _ CustomID) error {
	score, err := strconv.Atoi(strings.TrimSpace(in.Fields[FieldScore]))
	if err != nil {
		return directory.ErrInvalidScore
	}
	if score < 1 || score > 5 {
		return directory.ErrInvalidScore
	}

	j, err := b.jobs.Finish(in.ChannelID, in.User.ID)
	if err != nil {
		return err
	}

	comment := strings.TrimSpace(in.Fields[FieldComment])
	if err := b.store.RecordRating(j.ArtisanID, score, comment); err != nil {
		// The artisan withdrew while the job was running; the engagement
		// still closes.
		log.Printf("[bot] rating dropped: artisan=%d err=%v", j.ArtisanID, err)
	}

	b.notify(ctx, in, "Merci pour votre note!")
	if err := b.chat.DeleteChannel(ctx, in.ChannelID); err != nil {
		log.Printf("[bot] channel cleanup failed: channel=%d err=%v", in.ChannelID, err)
	}
	return nil
}
