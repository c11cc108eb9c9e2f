package notifications

// Button is one inline keyboard button; Data is returned in the callback
// event when pressed
type Button struct {
	Text string
	Data string
}

// Keyboard rows, top to bottom
type Keyboard [][]Button

// Messenger is the chat platform as seen by the bot
type Messenger interface {
	// Send posts text to a chat, optionally with an inline keyboard, and
	// returns the new message id
	Send(chatID int64, text string, keyboard Keyboard) (int, error)
	Delete(chatID int64, messageID int) error
	AnswerCallback(callbackID string) error
}

type EventKind int

const (
	CommandEvent EventKind = iota
	CallbackEvent
)

func (k EventKind) String() string {
	switch k {
	case CommandEvent:
		return "command"
	case CallbackEvent:
		return "callback"
	}
	return "unknown"
}

// Event is an inbound user action. Command is set for command events,
// Action and CallbackID for button presses.
type Event struct {
	Kind       EventKind
	ChatID     int64
	Command    string
	Action     string
	CallbackID string
}
