package testutil

import (
	"time"

	"ticketsplus/models"

	"github.com/bwmarrin/discordgo"
)

// CreateTestGuildConfig creates a test guild config with default values
func CreateTestGuildConfig(guildID int64) *models.GuildConfig {
	now := time.Now()
	return &models.GuildConfig{
		GuildID:       guildID,
		OpenMessage:   models.DefaultOpenMessage,
		StaffTeamName: models.DefaultStaffTeamName,
		MsgDiscovery:  true,
		StripButtons:  false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// CreateTestGuildConfigWithAutoClose creates a test guild config with a
// response deadline in minutes
func CreateTestGuildConfigWithAutoClose(guildID int64, minutes int) *models.GuildConfig {
	config := CreateTestGuildConfig(guildID)
	config.FirstAutoClose = &minutes
	return config
}

// CreateTestTicket creates a test ticket with default values
func CreateTestTicket(channelID, guildID int64) *models.Ticket {
	now := time.Now()
	return &models.Ticket{
		ChannelID:    channelID,
		GuildID:      guildID,
		DateCreated:  now,
		LastResponse: now,
	}
}

// CreateTestTicketForUser creates a test ticket opened by a specific user
func CreateTestTicketForUser(channelID, guildID, userID int64) *models.Ticket {
	ticket := CreateTestTicket(channelID, guildID)
	ticket.UserID = &userID
	return ticket
}

// CreateTestMember creates a test member with default values
func CreateTestMember(userID, guildID int64) *models.Member {
	return &models.Member{
		UserID:  userID,
		GuildID: guildID,
		Status:  models.StatusNone,
	}
}

// CreateTestTag creates a test tag with plain content
func CreateTestTag(guildID int64, name, content string) *models.Tag {
	return &models.Tag{
		GuildID: guildID,
		Name:    name,
		Content: content,
	}
}

// CreateTestTagWithEmbed creates a test tag carrying an embed payload
func CreateTestTagWithEmbed(guildID int64, name, content string) *models.Tag {
	tag := CreateTestTag(guildID, name, content)
	tag.Embed = &discordgo.MessageEmbed{
		Title:       name,
		Description: content,
		Color:       0x5865F2,
	}
	return tag
}
