package notifications

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Dispatcher sends replies that remove themselves after the Expirer's
// lifetime
type Dispatcher struct {
	messenger Messenger
	expirer   *Expirer
}

func NewDispatcher(m Messenger, e *Expirer) *Dispatcher {
	return &Dispatcher{
		messenger: m,
		expirer:   e,
	}
}

// Reply sends text to chatID and schedules its deletion
func (d *Dispatcher) Reply(chatID int64, text string) error {

	id, err := d.messenger.Send(chatID, text, nil)
	if err != nil {
		return errors.Wrap(err, "Unable to send reply")
	}

	d.expirer.Track(chatID, id)

	log.WithFields(log.Fields{
		"ChatID": chatID, "MessageID": id,
	}).Trace("Sent reply")

	return nil
}

// Menu sends text with a keyboard; it is not deleted
func (d *Dispatcher) Menu(chatID int64, text string, keyboard Keyboard) error {
	if _, err := d.messenger.Send(chatID, text, keyboard); err != nil {
		return errors.Wrap(err, "Unable to send menu")
	}
	return nil
}

func (d *Dispatcher) Acknowledge(callbackID string) error {
	return d.messenger.AnswerCallback(callbackID)
}
