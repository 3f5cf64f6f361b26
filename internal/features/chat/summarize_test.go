package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beboa.bot/discord-bot/internal/common"
)

func TestParseSince(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"30m", 30 * time.Minute, true},
		{"2h", 2 * time.Hour, true},
		{"1d", 24 * time.Hour, true},
		{"1w", 7 * 24 * time.Hour, true},
		{"45 min", 45 * time.Minute, true},
		{"2 hours", 2 * time.Hour, true},
		{"1.5h", 90 * time.Minute, true},
		{"  2H  ", 2 * time.Hour, true},
		{"yesterday", 0, false},
		{"", 0, false},
		{"-2h", 0, false},
		{"2", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSince(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFormatWindow(t *testing.T) {
	assert.Equal(t, "30 minutes", FormatWindow(30*time.Minute))
	assert.Equal(t, "1 hour", FormatWindow(time.Hour))
	assert.Equal(t, "5 hours", FormatWindow(5*time.Hour))
	assert.Equal(t, "2 days", FormatWindow(48*time.Hour))
	assert.Equal(t, "1 day", FormatWindow(25*time.Hour))
}

func TestService_Summarize(t *testing.T) {
	client := &fakeCompleter{reply: "They argued about snacks."}
	svc := NewService(client, &fakeHistory{}, true, 30*time.Second, 10)

	base := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	messages := []ChannelMessage{
		{Author: "bob", Content: "second message", Timestamp: base.Add(time.Minute)},
		{Author: "alice", Content: "first message", Timestamp: base},
		{Author: "carol", Content: "/checkin", Timestamp: base.Add(2 * time.Minute)},
		{Author: "dave", Content: "   ", Timestamp: base.Add(3 * time.Minute)},
	}

	summary, count, err := svc.Summarize(context.Background(), messages)
	require.NoError(t, err)
	assert.Equal(t, "They argued about snacks.", summary)
	assert.Equal(t, 2, count, "commands and blank messages are dropped")

	// System prompt plus a single transcript turn, chronological.
	require.Len(t, client.received, 2)
	assert.Equal(t, "system", client.received[0].Role)
	transcript := client.received[1].Content
	assert.Contains(t, transcript, "summarize the following 2 messages")
	assert.Less(t, strings.Index(transcript, "alice: first message"),
		strings.Index(transcript, "bob: second message"))
	assert.NotContains(t, transcript, "/checkin")

	// Focused sampling, bigger budget than persona chat.
	assert.Equal(t, 1500, client.maxTokens)
	assert.InDelta(t, 0.3, client.temperature, 1e-9)
}

func TestService_Summarize_NothingToSummarize(t *testing.T) {
	client := &fakeCompleter{reply: "unused"}
	svc := NewService(client, &fakeHistory{}, true, 30*time.Second, 10)

	summary, count, err := svc.Summarize(context.Background(), []ChannelMessage{
		{Author: "bob", Content: "/shop", Timestamp: time.Now()},
	})
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, summary)
	assert.Empty(t, client.received, "the model is not called for an empty transcript")
}

func TestService_Summarize_Disabled(t *testing.T) {
	svc := NewService(&fakeCompleter{}, &fakeHistory{}, false, 30*time.Second, 10)

	_, _, err := svc.Summarize(context.Background(), []ChannelMessage{
		{Author: "bob", Content: "hello", Timestamp: time.Now()},
	})
	assert.ErrorIs(t, err, common.ErrChatDisabled)
}

func TestTruncateReply(t *testing.T) {
	short := "a short summary"
	assert.Equal(t, short, TruncateReply(short))

	long := strings.Repeat("x", 3000)
	got := TruncateReply(long)
	assert.Len(t, got, 2000)
	assert.True(t, strings.HasSuffix(got, "*(truncated)*"))
}
