package chat

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"beboa.bot/discord-bot/internal/common"
)

// Fetch limits for /summarize.
const (
	DefaultSummaryCount = 30
	MinSummaryCount     = 5
	MaxSummaryCount     = 100
	// MaxSummaryLookback caps time-based fetches.
	MaxSummaryLookback = 7 * 24 * time.Hour
	// maxSummaryFetch caps how many messages a time-based fetch walks.
	maxSummaryFetch = 500

	summaryMaxTokens   = 1500
	summaryTemperature = 0.3
)

const summarySystemPrompt = `You are a helpful assistant that summarizes Discord chat conversations.
Your summaries should be:
- Concise but comprehensive
- Organized by topic if multiple topics were discussed
- Highlight key points, decisions, or important information
- Note any questions that were asked but not answered
- Keep a neutral tone

Format the summary with clear sections if needed. Use Discord markdown
formatting (bold, bullet points, etc.) for readability.`

// sinceRe matches inputs like "2h", "30 min", "1.5d", "1w".
var sinceRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(m|min|mins|minutes?|h|hr|hrs|hours?|d|days?|w|weeks?)$`)

// ParseSince parses a lookback like "2h", "30m", "1d" or "1w".
// Returns zero and false for anything it does not understand.
func ParseSince(s string) (time.Duration, bool) {
	match := sinceRe.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if match == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}

	var unit time.Duration
	switch match[2][0] {
	case 'm':
		unit = time.Minute
	case 'h':
		unit = time.Hour
	case 'd':
		unit = 24 * time.Hour
	case 'w':
		unit = 7 * 24 * time.Hour
	}
	return time.Duration(value * float64(unit)), true
}

// FormatWindow renders a lookback for display, in the largest whole
// unit that fits.
func FormatWindow(d time.Duration) string {
	if days := int(d.Hours()) / 24; days > 0 {
		return fmt.Sprintf("%d day%s", days, common.Plural(days))
	}
	if hours := int(d.Hours()); hours > 0 {
		return fmt.Sprintf("%d hour%s", hours, common.Plural(hours))
	}
	minutes := int(d.Minutes())
	return fmt.Sprintf("%d minute%s", minutes, common.Plural(minutes))
}

// ChannelMessage is one fetched channel message handed to Summarize.
type ChannelMessage struct {
	Author    string
	Content   string
	Timestamp time.Time
}

// Summarize condenses the given channel messages. Bot commands and
// empty messages are dropped; the rest go to the model in
// chronological order. Returns how many messages made the cut along
// with the summary.
func (s *Service) Summarize(ctx context.Context, messages []ChannelMessage) (string, int, error) {
	if !s.enabled {
		return "", 0, common.ErrChatDisabled
	}

	kept := make([]ChannelMessage, 0, len(messages))
	for _, m := range messages {
		content := strings.TrimSpace(m.Content)
		if content == "" || strings.HasPrefix(content, "/") {
			continue
		}
		kept = append(kept, m)
	}
	if len(kept) == 0 {
		return "", 0, nil
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Timestamp.Before(kept[j].Timestamp) })

	var transcript strings.Builder
	for _, m := range kept {
		fmt.Fprintf(&transcript, "[%s] %s: %s\n",
			m.Timestamp.Format("2006-01-02 15:04"), m.Author, m.Content)
	}

	summary, err := s.client.CompleteTuned(ctx, []Message{
		{Role: "system", Content: summarySystemPrompt},
		{Role: "user", Content: fmt.Sprintf(
			"Please summarize the following %d messages from this Discord channel:\n\n%s",
			len(kept), transcript.String())},
	}, summaryMaxTokens, summaryTemperature)
	if err != nil {
		return "", 0, fmt.Errorf("summarize: %w", err)
	}
	return summary, len(kept), nil
}

// discordMessageLimit is Discord's hard cap on message length.
const discordMessageLimit = 2000

// TruncateReply trims a reply to Discord's message limit, marking the
// cut when it happens.
func TruncateReply(s string) string {
	if len(s) <= discordMessageLimit {
		return s
	}
	const marker = "...\n*(truncated)*"
	return s[:discordMessageLimit-len(marker)] + marker
}
