package service

import (
	"fmt"
	"strings"

	"ticketsplus/models"

	"github.com/bwmarrin/discordgo"
)

// Embed accent colors
const (
	ColorInfo    = 0x3498DB
	ColorWarning = 0xF1C40F
)

// ChannelMention formats a channel ID as a Discord channel mention
func ChannelMention(channelID int64) string {
	return fmt.Sprintf("<#%d>", channelID)
}

// RoleMentions formats role IDs as a space-separated run of role mentions
func RoleMentions(roleIDs []int64) string {
	mentions := make([]string, 0, len(roleIDs))
	for _, roleID := range roleIDs {
		mentions = append(mentions, fmt.Sprintf("<@&%d>", roleID))
	}
	return strings.Join(mentions, " ")
}

// CreateStaleTicketEmbed creates the warning embed for a ticket that went
// past its guild's response deadline
func CreateStaleTicketEmbed(config *models.GuildConfig, ticket *models.Ticket) *discordgo.MessageEmbed {
	respondBy := ticket.RespondBy(config.AutoCloseDuration())

	return &discordgo.MessageEmbed{
		Title:       "Ticket Needs a Response",
		Color:       ColorWarning,
		Description: fmt.Sprintf("%s %s has not seen a staff response within the configured window.", config.StaffTeamName, ChannelMention(ticket.ChannelID)),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Last Response",
				Value:  fmt.Sprintf("<t:%d:R>", ticket.LastResponse.Unix()),
				Inline: true,
			},
			{
				Name:   "Respond By",
				Value:  fmt.Sprintf("<t:%d:f>", respondBy.Unix()),
				Inline: true,
			},
		},
	}
}

// CreateTagEmbed returns a tag's stored embed, or wraps plain content in a
// minimal one
func CreateTagEmbed(tag *models.Tag) *discordgo.MessageEmbed {
	if tag.Embed != nil {
		return tag.Embed
	}

	return &discordgo.MessageEmbed{
		Title:       tag.Name,
		Color:       ColorInfo,
		Description: tag.Content,
	}
}
