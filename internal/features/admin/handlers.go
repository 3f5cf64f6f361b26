package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"beboa.bot/discord-bot/internal/bot/reply"
	"beboa.bot/discord-bot/internal/common"
)

// Handler serves the /admin command tree.
type Handler struct {
	service     *Service
	adminRoleID string
}

// NewHandler creates a new admin handler. adminRoleID gates every
// subcommand on top of Discord's own permission setting.
func NewHandler(service *Service, adminRoleID string) *Handler {
	return &Handler{service: service, adminRoleID: adminRoleID}
}

// HandleAdmin routes /admin subcommands.
func (h *Handler) HandleAdmin(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !h.isAdmin(i) {
		reply.Ephemeral(s, i, "🐍 Nice try, little one. This lever is for Bebe's trusted hands only~")
		return
	}

	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}

	group := data.Options[0]
	switch group.Name {
	case "bebits":
		h.handleBebits(ctx, s, i, group)
	case "streak":
		h.handleStreak(ctx, s, i, group)
	case "stats":
		h.handleStats(ctx, s, i)
	}
}

func (h *Handler) isAdmin(i *discordgo.InteractionCreate) bool {
	if i.Member == nil {
		return false
	}
	for _, role := range i.Member.Roles {
		if role == h.adminRoleID {
			return true
		}
	}
	return false
}

func (h *Handler) handleBebits(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, group *discordgo.ApplicationCommandInteractionDataOption) {
	if len(group.Options) == 0 {
		return
	}
	sub := group.Options[0]

	var targetID string
	var amount int64
	for _, opt := range sub.Options {
		switch opt.Name {
		case "user":
			targetID = opt.UserValue(nil).ID
		case "amount":
			amount = opt.IntValue()
		}
	}
	if targetID == "" {
		reply.Ephemeral(s, i, "🐍 Beboa needs a target, hisss.")
		return
	}

	switch sub.Name {
	case "add":
		newBalance, err := h.service.AddBebits(ctx, targetID, amount)
		if h.replyAdjustError(s, i, err) {
			return
		}
		reply.Ephemeral(s, i, fmt.Sprintf(
			"🐍 Granted **%s** to <@%s>. New balance: **%s**.",
			common.FormatBebits(amount), targetID, common.FormatBebits(newBalance)))
	case "remove":
		newBalance, err := h.service.RemoveBebits(ctx, targetID, amount)
		if h.replyAdjustError(s, i, err) {
			return
		}
		reply.Ephemeral(s, i, fmt.Sprintf(
			"🐍 Took **%s** from <@%s>. New balance: **%s**.",
			common.FormatBebits(amount), targetID, common.FormatBebits(newBalance)))
	case "set":
		adj, err := h.service.SetBebits(ctx, targetID, amount)
		if h.replyAdjustError(s, i, err) {
			return
		}
		reply.Ephemeral(s, i, fmt.Sprintf(
			"🐍 Balance of <@%s> set to **%s** (was %s).",
			targetID, common.FormatBebits(adj.NewBalance), common.FormatBebits(adj.OldBalance)))
	}
}

func (h *Handler) handleStreak(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, group *discordgo.ApplicationCommandInteractionDataOption) {
	if len(group.Options) == 0 || group.Options[0].Name != "reset" {
		return
	}
	sub := group.Options[0]

	var targetID string
	for _, opt := range sub.Options {
		if opt.Name == "user" {
			targetID = opt.UserValue(nil).ID
		}
	}
	if targetID == "" {
		reply.Ephemeral(s, i, "🐍 Beboa needs a target, hisss.")
		return
	}

	if err := h.service.ResetStreak(ctx, targetID); err != nil {
		log.WithError(err).WithField("target_id", targetID).Error("Streak reset failed")
		reply.Ephemeral(s, i, "🐍 Hisss... the reset slipped through Beboa's coils. Try again.")
		return
	}
	reply.Ephemeral(s, i, fmt.Sprintf("🐍 Streak of <@%s> wiped. Their flame starts from ash~", targetID))
}

func (h *Handler) handleStats(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	stats, err := h.service.Stats(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to gather server stats")
		reply.Ephemeral(s, i, "🐍 Hisss... the ledgers would not open. Try again.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "🐍 Beboa's ledger — server stats",
		Color: 0x3498DB,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Members with accounts", Value: fmt.Sprintf("%d", stats.Accounts.TotalUsers), Inline: true},
			{Name: "Bebits in circulation", Value: common.FormatBebits(stats.Accounts.TotalBebits), Inline: true},
			{Name: "Bebits spent", Value: common.FormatBebits(stats.BebitsSpent), Inline: true},
			{Name: "Redemptions", Value: fmt.Sprintf("%d", stats.RedemptionCount), Inline: true},
		},
	}
	if top := stats.Accounts.TopEarner; top != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Top earner", Value: fmt.Sprintf("<@%s> (%s)", top.DiscordID, common.FormatBebits(top.Bebits)), Inline: true,
		})
	}
	if longest := stats.Accounts.LongestStreak; longest != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Longest streak", Value: fmt.Sprintf("<@%s> (%s)", longest.DiscordID, common.FormatDays(longest.CurrentStreak)), Inline: true,
		})
	}
	if len(stats.RewardBreakdown) > 0 {
		var sb strings.Builder
		for _, entry := range stats.RewardBreakdown {
			fmt.Fprintf(&sb, "`%s` × %d (%s)\n", entry.RewardID, entry.Count, common.FormatBebits(entry.Spent))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Redemptions by reward", Value: sb.String(),
		})
	}

	reply.Embed(s, i, embed, true)
}

func (h *Handler) replyAdjustError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, common.ErrInvalidAmount):
		reply.Ephemeral(s, i, "🐍 That amount makes no sense, hisss.")
	default:
		log.WithError(err).Error("Admin balance adjustment failed")
		reply.Ephemeral(s, i, "🐍 Hisss... the ledger refused the change. Try again.")
	}
	return true
}
