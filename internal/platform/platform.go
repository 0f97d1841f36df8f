package platform

import (
	"context"
	"errors"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrChannelNotFound = errors.New("channel not found")
)

// User is a platform account as the bot sees it.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Channel is a text channel on the platform.
type Channel struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Component is one interactive control attached to a message. The platform
// renders it; the bot only cares about the CustomID it gets back.
type Component struct {
	Label    string `json:"label"`
	CustomID string `json:"custom_id"`
	Style    string `json:"style,omitempty"`
}

// Message is an outbound message, optionally carrying controls.
type Message struct {
	Content    string      `json:"content"`
	Components []Component `json:"components,omitempty"`
}

// Overwrite grants or denies channel access for one user or role.
type Overwrite struct {
	UserID int64  `json:"user_id,omitempty"`
	Role   string `json:"role,omitempty"`
	Read   bool   `json:"read"`
	Write  bool   `json:"write"`
}

// Interaction kinds delivered by the platform.
const (
	KindButton = "button"
	KindModal  = "modal"
)

// Interaction is one inbound event: a button press or a modal submission.
// Fields carries modal values keyed by field label.
type Interaction struct {
	ID        string            `json:"id"`
	Kind      string            `json:"kind"`
	CustomID  string            `json:"custom_id"`
	User      User              `json:"user"`
	ChannelID int64             `json:"channel_id"`
	GuildID   int64             `json:"guild_id"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// ModalField is one labeled text input. Value prefills the input when the
// modal reopens existing data (profile update).
type ModalField struct {
	Label       string `json:"label"`
	Value       string `json:"value,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Optional    bool   `json:"optional,omitempty"`
}

// Modal is a form the platform renders in response to an interaction.
type Modal struct {
	Title    string       `json:"title"`
	CustomID string       `json:"custom_id"`
	Fields   []ModalField `json:"fields"`
}

// Client is the set of platform capabilities the handlers invoke. Lookup
// misses come back as ErrUserNotFound / ErrChannelNotFound and are normal
// outcomes, not failures.
type Client interface {
	Reply(ctx context.Context, in Interaction, msg Message) error
	OpenModal(ctx context.Context, in Interaction, m Modal) error
	SendDM(ctx context.Context, userID int64, msg Message) error
	SendChannelMessage(ctx context.Context, channelID int64, msg Message) error
	CreatePrivateChannel(ctx context.Context, guildID int64, name string, overwrites []Overwrite) (Channel, error)
	DeleteChannel(ctx context.Context, channelID int64) error
	LookupUser(ctx context.Context, userID int64) (User, error)
	AdminUsers(ctx context.Context, guildID int64) ([]User, error)
}
