// Package accounts — handlers.go serves the /balance and /leaderboard
// slash commands.
package accounts

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"beboa.bot/discord-bot/internal/bot/reply"
	"beboa.bot/discord-bot/internal/common"
)

const leaderboardFooter = "Who will prove their devotion to Bebe? Hehehehe~ 🐍"

// Handler serves the account-facing slash commands.
type Handler struct {
	service *Service
}

// NewHandler creates a new accounts handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleBalance handles /balance — the caller's balance, streak and
// lifetime check-ins, visible only to them.
func (h *Handler) HandleBalance(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := reply.User(i)
	account, err := h.service.GetAccount(ctx, user.ID)
	if err != nil {
		log.WithError(err).WithField("user_id", user.ID).Error("Failed to load account for /balance")
		reply.Ephemeral(s, i, databaseErrorMessage())
		return
	}

	reply.Ephemeral(s, i, balanceMessage(account))
}

// HandleLeaderboard handles /leaderboard — top 10 by Bebits, public.
func (h *Handler) HandleLeaderboard(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := reply.User(i)
	top, rank, account, err := h.service.Leaderboard(ctx, user.ID, 10)
	if err != nil {
		log.WithError(err).WithField("user_id", user.ID).Error("Failed to load leaderboard")
		reply.Ephemeral(s, i, databaseErrorMessage())
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🐍 BEBOA'S LEADERBOARD OF DEVOTION 🐍",
		Description: leaderboardDescription(top, rank, account),
		Color:       0x9B59B6,
		Footer:      &discordgo.MessageEmbedFooter{Text: leaderboardFooter},
	}
	reply.Embed(s, i, embed, false)
}

func balanceMessage(a *Account) string {
	return fmt.Sprintf(`🐍 *Beboa checks the ledger*

**Bebits:** %d
**Streak:** %s
**Total Check-ins:** %d

%s`, a.Bebits, common.FormatDays(a.CurrentStreak), a.TotalCheckins, balanceTierMessage(a.Bebits))
}

// balanceTierMessage picks the snarky footer line for a balance tier.
func balanceTierMessage(bebits int64) string {
	switch {
	case bebits <= 10:
		return "Just getting started? How adorable~"
	case bebits <= 50:
		return "Hm, showing some dedication I see..."
	case bebits <= 100:
		return "Beboa is mildly impressed. Mildly."
	case bebits <= 200:
		return "Oho~ Someone's been a good little pet!"
	case bebits <= 500:
		return "Now THIS is commitment! Bebe will be pleased~"
	default:
		return "...You actually did it. Beboa bows to your obsession. 🐍"
	}
}

func leaderboardDescription(top []*LeaderboardEntry, rank int, account *Account) string {
	if len(top) == 0 {
		return "No one has earned Bebits yet... pathetic~\n\nBe the first to claim your glory!"
	}

	medals := []string{"🥇", "🥈", "🥉"}
	var sb strings.Builder
	inTop := false
	for idx, entry := range top {
		prefix := fmt.Sprintf("%d.", idx+1)
		if idx < len(medals) {
			prefix = medals[idx]
		}
		// Top three also show their streak
		if idx < 3 {
			fmt.Fprintf(&sb, "%s <@%s> - **%s** (%s streak)\n",
				prefix, entry.DiscordID, common.FormatBebits(entry.Bebits), common.FormatDays(entry.CurrentStreak))
		} else {
			fmt.Fprintf(&sb, "%s <@%s> - **%s**\n",
				prefix, entry.DiscordID, common.FormatBebits(entry.Bebits))
		}
		if entry.DiscordID == account.DiscordID {
			inTop = true
		}
	}

	if !inTop && rank > 0 {
		fmt.Fprintf(&sb, "\n**Your Rank:** #%d with %s", rank, common.FormatBebits(account.Bebits))
	}
	return sb.String()
}

func databaseErrorMessage() string {
	return `🐍 Hisss... something went wrong in Beboa's lair.

Try again in a moment, little one. If this persists,
poke the mortals in charge~`
}
