package bot

import (
	"strconv"
	"strings"
)

// Actions carried in component custom-ids. Every control the bot renders
// encodes one of these plus an optional target, so a single dispatcher can
// route any press or submission without per-instance closures.
const (
	ActionDirectory = "menu.directory"
	ActionRegister  = "menu.register"
	ActionUpdate    = "menu.update"
	ActionSearch    = "menu.search"
	ActionTop       = "menu.top"
	ActionWithdraw  = "menu.withdraw"

	ActionContact      = "artisan.contact"
	ActionRequestQuote = "artisan.quote"

	ActionQuoteCompose = "quote.compose"
	ActionQuoteRefuse  = "quote.refuse"
	ActionQuoteAccept  = "quote.accept"
	ActionQuoteDecline = "quote.decline"

	ActionJobStart    = "job.start"
	ActionJobComplete = "job.complete"
	ActionJobDispute  = "job.dispute"
	ActionJobRate     = "job.rate"

	ActionSubmitRegister = "submit.register"
	ActionSubmitUpdate   = "submit.update"
	ActionSubmitSearch   = "submit.search"
	ActionSubmitQuote    = "submit.quote"
	ActionSubmitRating   = "submit.rating"
)

// CustomID is the decoded form of a component custom-id: an action and an
// optional target (an artisan id or a negotiation id).
type CustomID struct {
	Action string
	Target string
}

func (c CustomID) String() string {
	if c.Target == "" {
		return c.Action
	}
	return c.Action + ":" + c.Target
}

// TargetInt parses the target as a platform user id.
func (c CustomID) TargetInt() (int64, bool) {
	id, err := strconv.ParseInt(c.Target, 10, 64)
	return id, err == nil
}

// ParseCustomID splits "action" or "action:target".
func ParseCustomID(raw string) CustomID {
	action, target, _ := strings.Cut(raw, ":")
	return CustomID{Action: action, Target: target}
}

func actionID(action string) string {
	return CustomID{Action: action}.String()
}

func targetID(action string, target int64) string {
	return CustomID{Action: action, Target: strconv.FormatInt(target, 10)}.String()
}

func negotiationID(action, id string) string {
	return CustomID{Action: action, Target: id}.String()
}
