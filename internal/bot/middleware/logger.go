// Package middleware holds the cross-cutting pieces of interaction
// handling: logging, panic recovery and rate limiting.
package middleware

import (
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"beboa.bot/discord-bot/internal/bot/reply"
)

// LogInteraction logs one incoming interaction and how long it took.
func LogInteraction(i *discordgo.InteractionCreate, started time.Time) {
	fields := log.Fields{
		"type":       interactionName(i),
		"channel_id": i.ChannelID,
		"took":       time.Since(started).String(),
	}
	if u := reply.User(i); u != nil {
		fields["user_id"] = u.ID
	}
	log.WithFields(fields).Info("Interaction handled")
}

func interactionName(i *discordgo.InteractionCreate) string {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		return "/" + i.ApplicationCommandData().Name
	case discordgo.InteractionMessageComponent:
		return "component:" + i.MessageComponentData().CustomID
	default:
		return i.Type.String()
	}
}
