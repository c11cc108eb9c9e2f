package notifications

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

var expiredMessages = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "solbot_expired_messages_total",
	Help: "Replies removed after their display lifetime, by outcome",
}, []string{"outcome"})

type messageKey struct {
	chatID    int64
	messageID int
}

type trackedMessage struct {
	release chan struct{}
	expires time.Time
}

// Expirer deletes displayed messages once their lifetime has passed. Close
// deletes everything still displayed and waits for it.
type Expirer struct {
	messenger Messenger
	clock     Clock
	lifetime  time.Duration

	mu      sync.Mutex
	pending map[messageKey]trackedMessage
	closed  bool
	wg      sync.WaitGroup
}

func NewExpirer(m Messenger, clock Clock, lifetime time.Duration) *Expirer {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Expirer{
		messenger: m,
		clock:     clock,
		lifetime:  lifetime,
		pending:   make(map[messageKey]trackedMessage),
	}
}

// Track schedules deletion of a displayed message. After Close the message
// is deleted immediately.
func (e *Expirer) Track(chatID int64, messageID int) {

	key := messageKey{chatID, messageID}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		e.delete(key)
		return
	}

	tm := trackedMessage{
		release: make(chan struct{}),
		expires: e.clock.Now().Add(e.lifetime),
	}
	e.pending[key] = tm
	e.wg.Add(1)
	timer := e.clock.After(e.lifetime)
	e.mu.Unlock()

	go func() {
		defer e.wg.Done()

		select {
		case <-timer:
		case <-tm.release:
		}

		e.mu.Lock()
		delete(e.pending, key)
		e.mu.Unlock()

		e.delete(key)
	}()
}

func (e *Expirer) delete(key messageKey) {

	if err := e.messenger.Delete(key.chatID, key.messageID); err != nil {
		expiredMessages.WithLabelValues("error").Inc()
		log.WithError(err).WithFields(log.Fields{
			"ChatID": key.chatID, "MessageID": key.messageID,
		}).Debug("Unable to delete expired message")
		return
	}

	expiredMessages.WithLabelValues("ok").Inc()
}

// Pending is the number of messages awaiting deletion
func (e *Expirer) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

// NextExpiry returns the earliest scheduled deletion, if any
func (e *Expirer) NextExpiry() (time.Time, bool) {

	e.mu.Lock()
	defer e.mu.Unlock()

	var next time.Time
	for _, tm := range e.pending {
		if next.IsZero() || tm.expires.Before(next) {
			next = tm.expires
		}
	}

	return next, !next.IsZero()
}

// Close releases every pending message now and blocks until all deletions
// have been attempted
func (e *Expirer) Close() {

	e.mu.Lock()
	if !e.closed {
		e.closed = true
		for _, tm := range e.pending {
			close(tm.release)
		}
	}
	n := len(e.pending)
	e.mu.Unlock()

	log.WithField("Pending", n).Debug("Releasing displayed messages")

	e.wg.Wait()
}
