package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uybinhphan/goatcounter-bot/internal/domain"
	"github.com/uybinhphan/goatcounter-bot/internal/telegram"
)

func TestTelegramNotifier(t *testing.T) {
	target := domain.Target{Name: "prod", URL: "https://example.com", Path: "/health"}

	tests := []struct {
		name         string
		report       domain.Report
		expectSend   bool
		textContains []string
	}{
		{
			name: "DOWN with status code",
			report: domain.Report{
				Target:  target,
				Result:  domain.ProbeResult{StatusCode: 503, LatencyMS: 200},
				Outcome: domain.OutcomeDown,
			},
			expectSend:   true,
			textContains: []string{"DOWN", "503", "https://example.com/health"},
		},
		{
			name: "DOWN on transport failure uses sentinel",
			report: domain.Report{
				Target:  target,
				Result:  domain.ProbeResult{StatusCode: 0},
				Outcome: domain.OutcomeDown,
			},
			expectSend:   true,
			textContains: []string{"DOWN", "n/a"},
		},
		{
			name: "SLOW includes latency",
			report: domain.Report{
				Target:  target,
				Result:  domain.ProbeResult{StatusCode: 200, LatencyMS: 15000},
				Outcome: domain.OutcomeSlow,
			},
			expectSend:   true,
			textContains: []string{"SLOW", "15000"},
		},
		{
			name: "UP sends nothing",
			report: domain.Report{
				Target:  target,
				Result:  domain.ProbeResult{StatusCode: 200, LatencyMS: 50},
				Outcome: domain.OutcomeUp,
			},
			expectSend: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sendCount := 0
			var gotText, gotChatID, gotParseMode string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				sendCount++
				require.NoError(t, r.ParseForm())
				gotText = r.PostFormValue("text")
				gotChatID = r.PostFormValue("chat_id")
				gotParseMode = r.PostFormValue("parse_mode")
				w.Write([]byte(`{"ok":true,"result":{}}`))
			}))
			defer server.Close()

			notifier := NewTelegramWithClient(
				telegram.NewClientWithBaseURL("test-token", server.URL),
				"42",
			)

			err := notifier.Notify(context.Background(), tt.report)
			require.NoError(t, err)

			if !tt.expectSend {
				assert.Equal(t, 0, sendCount)
				return
			}

			assert.Equal(t, 1, sendCount)
			assert.Equal(t, "42", gotChatID)
			assert.Equal(t, "Markdown", gotParseMode)
			for _, want := range tt.textContains {
				assert.Contains(t, gotText, want)
			}
		})
	}
}

func TestNewTelegramRequiresCredentials(t *testing.T) {
	t.Setenv("TG_BOT_TOKEN", "")
	t.Setenv("TG_CHAT_ID", "")

	_, err := NewTelegram([]byte(`{"type":"telegram"}`))
	require.Error(t, err)

	t.Setenv("TG_BOT_TOKEN", "env-token")
	t.Setenv("TG_CHAT_ID", "env-chat")

	n, err := NewTelegram([]byte(`{"type":"telegram"}`))
	require.NoError(t, err)
	assert.Equal(t, "telegram", n.Type())
}
