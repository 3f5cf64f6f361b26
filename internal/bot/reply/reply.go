// Package reply wraps the discordgo interaction-response calls the
// feature handlers use: plain/ephemeral text, embeds with button rows,
// component-message updates and deferred replies.
package reply

import (
	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// User returns the invoking user for both guild and DM interactions.
func User(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// DisplayName returns the name handlers show in messages: the guild
// nickname when set, otherwise the account username.
func DisplayName(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.Nick != "" {
		return i.Member.Nick
	}
	u := User(i)
	if u == nil {
		return "mortal"
	}
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

// Text sends a public text response to the interaction.
func Text(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	respond(s, i, &discordgo.InteractionResponseData{Content: content})
}

// Ephemeral sends a text response only the invoking user can see.
func Ephemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	respond(s, i, &discordgo.InteractionResponseData{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}

// Embed sends an embed response, optionally ephemeral, with button rows.
func Embed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool, components ...discordgo.MessageComponent) {
	data := &discordgo.InteractionResponseData{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	respond(s, i, data)
}

// Update edits the message a component interaction originated from,
// replacing its embed and components. Called without components it
// strips the buttons off the message.
func Update(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components ...discordgo.MessageComponent) {
	if components == nil {
		components = []discordgo.MessageComponent{}
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
	if err != nil {
		log.WithError(err).Error("Failed to update component message")
	}
}

// Defer acknowledges the interaction so a slow handler can edit the
// response later.
func Defer(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

// EditDeferred fills in a previously deferred response.
func EditDeferred(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	_, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	})
	if err != nil {
		log.WithError(err).Error("Failed to edit deferred response")
	}
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, data *discordgo.InteractionResponseData) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		log.WithError(err).WithField("interaction_id", i.ID).Error("Failed to respond to interaction")
	}
}
