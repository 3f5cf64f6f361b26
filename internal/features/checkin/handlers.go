package checkin

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"beboa.bot/discord-bot/internal/bot/reply"
	"beboa.bot/discord-bot/internal/common"
)

// Handler serves the /checkin slash command.
type Handler struct {
	service   *Service
	channelID string
}

// NewHandler creates a new check-in handler. channelID restricts where
// check-ins are accepted.
func NewHandler(service *Service, channelID string) *Handler {
	return &Handler{service: service, channelID: channelID}
}

// HandleCheckin handles /checkin.
func (h *Handler) HandleCheckin(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if h.channelID != "" && i.ChannelID != h.channelID {
		reply.Ephemeral(s, i, fmt.Sprintf(
			"🐍 Ssss... wrong den, little one. Check-ins happen in <#%s>~", h.channelID))
		return
	}

	user := reply.User(i)
	name := reply.DisplayName(i)

	res, err := h.service.CheckIn(ctx, user.ID)
	if err != nil {
		log.WithError(err).WithField("user_id", user.ID).Error("Check-in failed")
		reply.Ephemeral(s, i, "🐍 Hisss... Beboa's ledger jammed. Try again in a moment.")
		return
	}

	if res.Decision.Kind == KindCooldown {
		reply.Ephemeral(s, i, cooldownMessage(res.Decision))
		return
	}

	log.WithFields(log.Fields{
		"user_id": user.ID,
		"kind":    res.Decision.Kind,
		"streak":  res.State.CurrentStreak,
		"bebits":  res.State.Bebits,
	}).Info("Check-in recorded")

	reply.Text(s, i, successMessage(res, name))
}

func cooldownMessage(d Decision) string {
	return fmt.Sprintf(`🐍 *Beboa hisses impatiently*

Too eager, little one~ You already checked in.

Come back in **%dh %dm** and Bebe might reward your patience.`,
		d.RemainingHours, d.RemainingMinutes)
}

func successMessage(res *Result, name string) string {
	streak := common.FormatDays(res.State.CurrentStreak)
	bebits := common.FormatBebits(res.State.Bebits)

	switch res.Decision.Kind {
	case KindFirst:
		return fmt.Sprintf(`🐍 *Beboa's eyes gleam*

Ooooh, fresh blood! Welcome, **%s**~

✅ First check-in recorded. **+1 Bebit**
🔥 Streak: **%s**
💰 Balance: **%s**

Return every day and Bebe shall be generous...`, name, streak, bebits)
	case KindRecovered:
		return fmt.Sprintf(`🐍 *Beboa sways side to side*

Cutting it close, **%s**! But you slithered back in time~

✅ Streak recovered. **+1 Bebit**
🔥 Streak: **%s**
💰 Balance: **%s**`, name, streak, bebits)
	case KindReset:
		return fmt.Sprintf(`🐍 *Beboa shakes her head slowly*

Tsk tsk, **%s**... you let the flame die. Back to the start!

✅ New streak begun. **+1 Bebit**
🔥 Streak: **%s**
💰 Balance: **%s**`, name, streak, bebits)
	default:
		return fmt.Sprintf(`🐍 *Beboa nods approvingly*

Good, **%s**. Bebe notices your devotion~

✅ Check-in recorded. **+1 Bebit**
🔥 Streak: **%s**
💰 Balance: **%s**`, name, streak, bebits)
	}
}
