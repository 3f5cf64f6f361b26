package shop

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"beboa.bot/discord-bot/internal/bot/reply"
	"beboa.bot/discord-bot/internal/common"
	"beboa.bot/discord-bot/internal/features/accounts"
)

// Component id prefixes routed to this handler.
const (
	RewardPrefix  = "reward_"
	ConfirmPrefix = "confirm_"
	CancelID      = "cancel"
)

const buttonsPerRow = 5

// Handler serves /shop and the redemption button flow.
type Handler struct {
	service       *Service
	accounts      *accounts.Service
	notifyChannel string
	adminRoleID   string
}

// NewHandler creates a new shop handler. notifyChannel receives the
// public announcement after a successful redemption.
func NewHandler(service *Service, accounts *accounts.Service, notifyChannel, adminRoleID string) *Handler {
	return &Handler{
		service:       service,
		accounts:      accounts,
		notifyChannel: notifyChannel,
		adminRoleID:   adminRoleID,
	}
}

// HandleShop handles /shop — the catalog embed with one button per
// reward, unaffordable ones disabled.
func (h *Handler) HandleShop(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := reply.User(i)
	account, err := h.accounts.GetAccount(ctx, user.ID)
	if err != nil {
		log.WithError(err).WithField("user_id", user.ID).Error("Failed to load account for /shop")
		reply.Ephemeral(s, i, "🐍 Hisss... the shop shutters rattled. Try again.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🐍 BEBOA'S SHOP OF DESIRES 🐍",
		Description: shopDescription(account.Bebits),
		Color:       0x2ECC71,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Pick your poison~"},
	}
	reply.Embed(s, i, embed, true, shopButtons(account.Bebits)...)
}

// HandleComponent routes shop button presses by custom id.
func (h *Handler) HandleComponent(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	switch {
	case strings.HasPrefix(customID, RewardPrefix):
		h.handleRewardPick(s, i, strings.TrimPrefix(customID, RewardPrefix))
	case strings.HasPrefix(customID, ConfirmPrefix):
		h.handleConfirm(ctx, s, i, strings.TrimPrefix(customID, ConfirmPrefix))
	case customID == CancelID:
		h.handleCancel(s, i)
	}
}

func (h *Handler) handleRewardPick(s *discordgo.Session, i *discordgo.InteractionCreate, rewardID string) {
	reward, ok := ByID(rewardID)
	if !ok {
		reply.Update(s, i, &discordgo.MessageEmbed{
			Title:       "🐍 Hisss?",
			Description: "That reward slithered out of the catalog. Reopen the shop.",
			Color:       0xE74C3C,
		})
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "🐍 Confirm your purchase",
		Description: fmt.Sprintf("%s **%s**\n\nThis will cost you **%s**.\n\nNo refunds in Beboa's shop~",
			reward.Emoji, reward.Name, common.FormatBebits(reward.Cost)),
		Color: 0xF1C40F,
	}
	reply.Update(s, i, embed,
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Confirm",
				Style:    discordgo.SuccessButton,
				CustomID: ConfirmPrefix + reward.ID,
			},
			discordgo.Button{
				Label:    "Cancel",
				Style:    discordgo.SecondaryButton,
				CustomID: CancelID,
			},
		}},
	)
}

func (h *Handler) handleConfirm(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, rewardID string) {
	user := reply.User(i)

	res, reward, err := h.service.Redeem(ctx, user.ID, rewardID)
	switch {
	case errors.Is(err, common.ErrRewardNotFound):
		reply.Update(s, i, &discordgo.MessageEmbed{
			Title:       "🐍 Hisss?",
			Description: "That reward slithered out of the catalog. Reopen the shop.",
			Color:       0xE74C3C,
		})
		return
	case errors.Is(err, common.ErrAlreadyProcessing):
		reply.Update(s, i, &discordgo.MessageEmbed{
			Title:       "🐍 Patience!",
			Description: "Your previous purchase is still being wrapped up. One at a time~",
			Color:       0xE67E22,
		})
		return
	case errors.Is(err, common.ErrInsufficientBalance):
		reply.Update(s, i, &discordgo.MessageEmbed{
			Title: "🐍 Not enough Bebits!",
			Description: fmt.Sprintf("**%s** costs **%s** but you only have **%s**.\n\nCome back when you're richer, little one~",
				reward.Name, common.FormatBebits(reward.Cost), common.FormatBebits(res.Balance)),
			Color: 0xE74C3C,
		})
		return
	case err != nil:
		log.WithError(err).WithFields(log.Fields{
			"user_id":   user.ID,
			"reward_id": rewardID,
		}).Error("Redemption failed")
		reply.Update(s, i, &discordgo.MessageEmbed{
			Title:       "🐍 Hisss...",
			Description: "Something broke in Beboa's vault. Your Bebits are safe. Try again.",
			Color:       0xE74C3C,
		})
		return
	}

	reply.Update(s, i, &discordgo.MessageEmbed{
		Title: "🐍 Purchase complete!",
		Description: fmt.Sprintf("%s **%s** is yours!\n\n💰 Remaining balance: **%s**",
			reward.Emoji, reward.Name, common.FormatBebits(res.NewBalance)),
		Color: 0x2ECC71,
	})

	// Fire-and-forget; the redemption already committed.
	go h.announce(s, user.ID, reward)
}

func (h *Handler) handleCancel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	reply.Update(s, i, &discordgo.MessageEmbed{
		Title:       "🐍 Changed your mind?",
		Description: "Wise. Or cowardly. Beboa hasn't decided~\n\nYour Bebits stay put.",
		Color:       0x95A5A6,
	})
}

func (h *Handler) announce(s *discordgo.Session, userID string, reward Reward) {
	if h.notifyChannel == "" {
		return
	}
	content := reward.FormatNotification(fmt.Sprintf("<@%s>", userID))
	_, err := s.ChannelMessageSendComplex(h.notifyChannel, &discordgo.MessageSend{
		Content: content,
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Users: []string{userID},
			Roles: []string{h.adminRoleID},
		},
	})
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"user_id":   userID,
			"reward_id": reward.ID,
		}).Warn("Failed to announce redemption")
	}
}

func shopDescription(balance int64) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Your balance: **%s**\n\n", common.FormatBebits(balance))
	for _, r := range SortedByCost() {
		fmt.Fprintf(&sb, "%s **%s** — %s\n", r.Emoji, r.Name, common.FormatBebits(r.Cost))
	}
	return sb.String()
}

func shopButtons(balance int64) []discordgo.MessageComponent {
	rewards := SortedByCost()
	var rows []discordgo.MessageComponent
	for start := 0; start < len(rewards); start += buttonsPerRow {
		end := start + buttonsPerRow
		if end > len(rewards) {
			end = len(rewards)
		}
		var buttons []discordgo.MessageComponent
		for _, r := range rewards[start:end] {
			buttons = append(buttons, discordgo.Button{
				Label:    fmt.Sprintf("%s (%d)", r.Name, r.Cost),
				Style:    discordgo.PrimaryButton,
				CustomID: RewardPrefix + r.ID,
				Emoji:    &discordgo.ComponentEmoji{Name: r.Emoji},
				Disabled: balance < r.Cost,
			})
		}
		rows = append(rows, discordgo.ActionsRow{Components: buttons})
	}
	return rows
}
