package telegram

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func TestClient_SendMessage(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		status   int
		response string
		text     string
		wantErr  string
		wantText string
	}{
		{
			name:     "ok",
			status:   http.StatusOK,
			response: `{"ok":true,"result":{}}`,
			text:     "*Payment Successful.*",
			wantText: "*Payment Successful.*",
		},
		{
			name:     "api error",
			status:   http.StatusBadRequest,
			response: `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`,
			text:     "hi",
			wantErr:  "telegram: 400 Bad Request: chat not found",
			wantText: "hi",
		},
		{
			name:     "not json",
			status:   http.StatusBadGateway,
			response: `<html>bad gateway</html>`,
			text:     "hi",
			wantErr:  "telegram: parse response (status 502)",
			wantText: "hi",
		},
		{
			name:     "truncated",
			status:   http.StatusOK,
			response: `{"ok":true}`,
			text:     strings.Repeat("a", MaxMessageLength+10),
			wantText: strings.Repeat("a", MaxMessageLength),
		},
		{
			name:     "truncated on rune boundary",
			status:   http.StatusOK,
			response: `{"ok":true}`,
			text:     "жж" + strings.Repeat("книга", MaxMessageLength/5),
			wantText: "жж" + strings.Repeat("книга", MaxMessageLength/5-1) + "книг",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got sendMessageRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/botsecret/sendMessage", r.URL.Path)
				require.Equal(t, "application/json", r.Header.Get("Content-Type"))
				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				require.NoError(t, json.Unmarshal(body, &got))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.response))
			}))
			defer srv.Close()

			c := NewClient(Config{Token: "secret", ChatID: "-100", BaseURL: srv.URL})
			err := c.SendMessage(context.Background(), tt.text)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, "-100", got.ChatID)
			require.Equal(t, "Markdown", got.ParseMode)
			require.Equal(t, tt.wantText, got.Text)
			require.True(t, utf8.ValidString(got.Text))
			require.LessOrEqual(t, utf8.RuneCountInString(got.Text), MaxMessageLength)
		})
	}
}

func TestClient_SendMessage_notConfigured(t *testing.T) {
	t.Parallel()
	err := NewClient(Config{}).SendMessage(context.Background(), "hi")
	require.EqualError(t, err, "telegram: bot token and chat id are required")
}
