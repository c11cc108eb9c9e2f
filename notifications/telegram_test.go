package notifications

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type botAPICall struct {
	Method string
	Form   url.Values
}

func fakeBotAPI(t *testing.T) (*httptest.Server, *[]botAPICall) {
	t.Helper()

	var mu sync.Mutex
	calls := []botAPICall{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())

		method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]

		mu.Lock()
		calls = append(calls, botAPICall{method, r.Form})
		mu.Unlock()

		var result string
		switch method {
		case "getMe":
			result = `{"id":1,"is_bot":true,"first_name":"solbot","username":"solbot_test"}`
		case "sendMessage":
			result = `{"message_id":42,"date":0,"chat":{"id":5,"type":"private"}}`
		default:
			result = `true`
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":` + result + `}`))
	}))
	t.Cleanup(srv.Close)

	return srv, &calls
}

func TestTelegramMessenger(t *testing.T) {

	srv, calls := fakeBotAPI(t)

	tg, err := NewTelegram("123:abc", srv.URL+"/bot%s/%s", srv.Client())
	require.NoError(t, err)

	id, err := tg.Send(5, "hi", Keyboard{{{Text: "🎁 Rewards", Data: "rewards"}}})
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	require.NoError(t, tg.Delete(5, 42))
	require.NoError(t, tg.AnswerCallback("cb"))

	require.Len(t, *calls, 4)
	assert.Equal(t, "getMe", (*calls)[0].Method)

	send := (*calls)[1]
	assert.Equal(t, "sendMessage", send.Method)
	assert.Equal(t, "5", send.Form.Get("chat_id"))
	assert.Equal(t, "hi", send.Form.Get("text"))

	var markup tgbotapi.InlineKeyboardMarkup
	require.NoError(t, json.Unmarshal([]byte(send.Form.Get("reply_markup")), &markup))
	require.Len(t, markup.InlineKeyboard, 1)
	assert.Equal(t, "🎁 Rewards", markup.InlineKeyboard[0][0].Text)
	assert.Equal(t, "rewards", *markup.InlineKeyboard[0][0].CallbackData)

	assert.Equal(t, "deleteMessage", (*calls)[2].Method)
	assert.Equal(t, "42", (*calls)[2].Form.Get("message_id"))
	assert.Equal(t, "answerCallbackQuery", (*calls)[3].Method)
	assert.Equal(t, "cb", (*calls)[3].Form.Get("callback_query_id"))
}

func TestNewTelegramRequiresToken(t *testing.T) {
	_, err := NewTelegram("", "", nil)
	assert.Error(t, err)
}

func TestToEvent(t *testing.T) {

	cmd := tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     "/start",
		Chat:     &tgbotapi.Chat{ID: 11},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
	}}
	ev, ok := toEvent(cmd)
	require.True(t, ok)
	assert.Equal(t, Event{Kind: CommandEvent, ChatID: 11, Command: "start"}, ev)

	cb := tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "q1",
		Data:    "ranking",
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 12}},
	}}
	ev, ok = toEvent(cb)
	require.True(t, ok)
	assert.Equal(t, Event{Kind: CallbackEvent, ChatID: 12, Action: "ranking", CallbackID: "q1"}, ev)

	_, ok = toEvent(tgbotapi.Update{Message: &tgbotapi.Message{Text: "hello", Chat: &tgbotapi.Chat{ID: 1}}})
	assert.False(t, ok)
}
