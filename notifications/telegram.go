package notifications

import (
	"context"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const updateTimeout = 60

// Telegram implements Messenger over the Bot API
type Telegram struct {
	api *tgbotapi.BotAPI
}

// NewTelegram authenticates with the Bot API. An empty endpoint selects the
// public Telegram API.
func NewTelegram(token, endpoint string, httpClient *http.Client) (*Telegram, error) {

	if token == "" {
		return nil, errors.New("Telegram token is empty")
	}

	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	if httpClient == nil {
		httpClient = &http.Client{}
	}

	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, httpClient)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to connect to Telegram")
	}

	log.WithField("Username", api.Self.UserName).Info("Connected to Telegram")

	return &Telegram{api: api}, nil
}

func (t *Telegram) Send(chatID int64, text string, keyboard Keyboard) (int, error) {

	msg := tgbotapi.NewMessage(chatID, text)
	if len(keyboard) > 0 {
		msg.ReplyMarkup = inlineKeyboard(keyboard)
	}

	sent, err := t.api.Send(msg)
	if err != nil {
		return 0, errors.Wrapf(err, "Unable to send message to chat %d", chatID)
	}

	return sent.MessageID, nil
}

func (t *Telegram) Delete(chatID int64, messageID int) error {
	if _, err := t.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return errors.Wrapf(err, "Unable to delete message %d in chat %d", messageID, chatID)
	}
	return nil
}

func (t *Telegram) AnswerCallback(callbackID string) error {
	if _, err := t.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		return errors.Wrap(err, "Unable to answer callback")
	}
	return nil
}

// Events long-polls for updates until ctx is cancelled. Updates other than
// commands and callback queries are dropped.
func (t *Telegram) Events(ctx context.Context) <-chan Event {

	u := tgbotapi.NewUpdate(0)
	u.Timeout = updateTimeout

	updates := t.api.GetUpdatesChan(u)
	events := make(chan Event)

	go func() {
		defer close(events)

		for {
			select {
			case <-ctx.Done():
				t.api.StopReceivingUpdates()
				return

			case update, ok := <-updates:
				if !ok {
					return
				}

				ev, ok := toEvent(update)
				if !ok {
					continue
				}

				select {
				case events <- ev:
				case <-ctx.Done():
					t.api.StopReceivingUpdates()
					return
				}
			}
		}
	}()

	return events
}

func toEvent(update tgbotapi.Update) (Event, bool) {

	switch {
	case update.Message != nil && update.Message.IsCommand():
		return Event{
			Kind:    CommandEvent,
			ChatID:  update.Message.Chat.ID,
			Command: update.Message.Command(),
		}, true

	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		return Event{
			Kind:       CallbackEvent,
			ChatID:     update.CallbackQuery.Message.Chat.ID,
			Action:     update.CallbackQuery.Data,
			CallbackID: update.CallbackQuery.ID,
		}, true
	}

	return Event{}, false
}

func inlineKeyboard(keyboard Keyboard) tgbotapi.InlineKeyboardMarkup {

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(keyboard))
	for _, row := range keyboard {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
