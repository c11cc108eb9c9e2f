package notifications

import (
	log "github.com/sirupsen/logrus"
)

// NotificationHandler sends operator notices to a fixed list of chats
type NotificationHandler struct {
	messenger Messenger
	chatIDs   []int64
}

func New(m Messenger, chatIDs []int64) *NotificationHandler {
	return &NotificationHandler{
		messenger: m,
		chatIDs:   chatIDs,
	}
}

func (n *NotificationHandler) IsEnabled() bool {
	return len(n.chatIDs) > 0
}

// Broadcast sends msg to every configured chat and returns how many
// deliveries succeeded. Failures are logged, not returned.
func (n *NotificationHandler) Broadcast(msg string) int {

	sent := 0

	for _, id := range n.chatIDs {
		if _, err := n.messenger.Send(id, msg, nil); err != nil {
			log.WithFields(log.Fields{
				"ChatId": id,
			}).WithError(err).Error("Unable to send notice")
			continue
		}
		sent++
	}

	if sent > 0 {
		log.WithField("MSG", msg).Info("Sent Telegram Message(s)")
	}

	return sent
}
