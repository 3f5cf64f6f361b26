package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"beboa.bot/discord-bot/internal/bot/reply"
	"beboa.bot/discord-bot/internal/common"
)

// Handler serves the /chat slash command.
type Handler struct {
	service *Service
}

// NewHandler creates a new chat handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleChat handles /chat. The model call can take a while, so the
// reply is deferred and edited in once the answer arrives.
func (h *Handler) HandleChat(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	var prompt string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "message" {
			prompt = opt.StringValue()
		}
	}
	if prompt == "" {
		reply.Ephemeral(s, i, "🐍 Speak up, little one. Beboa can't answer silence.")
		return
	}

	user := reply.User(i)
	name := reply.DisplayName(i)

	if err := reply.Defer(s, i); err != nil {
		log.WithError(err).WithField("user_id", user.ID).Error("Failed to defer chat reply")
		return
	}

	answer, err := h.service.Ask(ctx, user.ID, name, prompt)
	switch {
	case errors.Is(err, common.ErrChatDisabled):
		reply.EditDeferred(s, i, "🐍 Beboa is napping. Chat is disabled for now~")
		return
	case errors.Is(err, common.ErrChatCooldown):
		reply.EditDeferred(s, i, "🐍 Sssslow down! One question per 30 seconds. Beboa is not your search engine~")
		return
	case err != nil:
		log.WithError(err).WithField("user_id", user.ID).Error("Chat completion failed")
		reply.EditDeferred(s, i, "🐍 Hisss... Beboa's forked tongue got tied. Ask again in a moment.")
		return
	}

	reply.EditDeferred(s, i, answer)
}

// HandleSummarize handles /summarize — condenses recent channel
// messages, fetched either by count or by lookback window.
func (h *Handler) HandleSummarize(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	count := DefaultSummaryCount
	var sinceStr string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "messages":
			count = int(opt.IntValue())
		case "since":
			sinceStr = opt.StringValue()
		}
	}

	var lookback time.Duration
	if sinceStr != "" {
		var ok bool
		lookback, ok = ParseSince(sinceStr)
		if !ok {
			reply.Ephemeral(s, i, "🐍 Hisss... I don't understand that time format! Use something like `2h`, `30m`, `1d`, or `1w`~")
			return
		}
		if lookback > MaxSummaryLookback {
			reply.Ephemeral(s, i, "🐍 Hmph! I can only look back up to 7 days. Don't be greedy~")
			return
		}
	}

	user := reply.User(i)
	if err := reply.Defer(s, i); err != nil {
		log.WithError(err).WithField("user_id", user.ID).Error("Failed to defer summarize reply")
		return
	}

	var (
		messages    []ChannelMessage
		windowLabel string
		err         error
	)
	if lookback > 0 {
		messages, err = h.fetchSince(s, i.ChannelID, lookback)
		windowLabel = "from the last " + FormatWindow(lookback)
	} else {
		messages, err = h.fetchCount(s, i.ChannelID, count)
		windowLabel = fmt.Sprintf("last %d messages", len(messages))
	}
	if err != nil {
		log.WithError(err).WithField("channel_id", i.ChannelID).Error("Failed to fetch messages for summary")
		reply.EditDeferred(s, i, "🐍 Hisss... Something went wrong while summarizing. Please try again~")
		return
	}

	summary, summarized, err := h.service.Summarize(ctx, messages)
	switch {
	case errors.Is(err, common.ErrChatDisabled):
		reply.EditDeferred(s, i, "🐍 Hisss... AI features are not configured. Ask an admin to set up the OpenRouter API key~")
		return
	case err != nil:
		log.WithError(err).WithField("user_id", user.ID).Error("Summarization failed")
		reply.EditDeferred(s, i, "🐍 Hisss... I couldn't summarize the messages right now. Try again later~")
		return
	case summarized == 0:
		reply.EditDeferred(s, i, "🐍 Hmph! There are no messages to summarize here... Try a channel with actual conversations~")
		return
	}

	header := fmt.Sprintf("📜 **Summary of %d messages (%s):**\n\n", summarized, windowLabel)
	reply.EditDeferred(s, i, TruncateReply(header+summary))
}

func (h *Handler) fetchCount(s *discordgo.Session, channelID string, count int) ([]ChannelMessage, error) {
	if count < MinSummaryCount {
		count = MinSummaryCount
	}
	if count > MaxSummaryCount {
		count = MaxSummaryCount
	}
	fetched, err := s.ChannelMessages(channelID, count, "", "", "")
	if err != nil {
		return nil, err
	}
	return toChannelMessages(fetched), nil
}

// fetchSince walks the channel backwards in batches of 100 until the
// cutoff or the fetch cap is hit.
func (h *Handler) fetchSince(s *discordgo.Session, channelID string, lookback time.Duration) ([]ChannelMessage, error) {
	cutoff := time.Now().Add(-lookback)

	var all []ChannelMessage
	beforeID := ""
	for len(all) < maxSummaryFetch {
		batch, err := s.ChannelMessages(channelID, 100, beforeID, "", "")
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		for _, m := range batch {
			if m.Timestamp.Before(cutoff) {
				return all, nil
			}
			all = append(all, toChannelMessage(m))
			beforeID = m.ID
		}
	}
	return all, nil
}

func toChannelMessages(msgs []*discordgo.Message) []ChannelMessage {
	out := make([]ChannelMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toChannelMessage(m))
	}
	return out
}

func toChannelMessage(m *discordgo.Message) ChannelMessage {
	author := "unknown"
	if m.Author != nil {
		author = m.Author.Username
		if m.Author.GlobalName != "" {
			author = m.Author.GlobalName
		}
	}
	return ChannelMessage{
		Author:    author,
		Content:   m.Content,
		Timestamp: m.Timestamp,
	}
}
