package notifier

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewTelegramNotifierWithoutCredentials: absent credentials yield a
// silent no-op, never an error.
func TestNewTelegramNotifierWithoutCredentials(t *testing.T) {
	n := NewTelegramNotifier("", "")
	require.NotNil(t, n)
	assert.NotPanics(t, func() { n.Notify("hello") })
}

// TestTelegramNotifierSendsMessage exercises the request shape against a
// local server standing in for the Telegram API.
func TestTelegramNotifierSendsMessage(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))
		io.WriteString(w, `{"ok":true}`)
	}))
	defer srv.Close()

	n := &telegramNotifier{
		token:      "token",
		chatID:     "chat-1",
		httpClient: srv.Client(),
		apiBaseURL: srv.URL,
	}
	n.Notify("🟢 BUY\nprice: 99\nqty: 2.0202")

	assert.Equal(t, "chat-1", got["chat_id"])
	assert.Contains(t, got["text"], "BUY")
}

// TestTelegramNotifierSwallowsFailure: a dead endpoint must not panic or
// surface an error to the caller.
func TestTelegramNotifierSwallowsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	n := &telegramNotifier{
		token:      "token",
		chatID:     "chat-1",
		httpClient: http.DefaultClient,
		apiBaseURL: srv.URL,
	}
	assert.NotPanics(t, func() { n.Notify("message") })
}
