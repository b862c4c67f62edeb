package models

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// MaxTagNameLength caps the tag name column.
const MaxTagNameLength = 32

// Tag is a guild-scoped text snippet staff can call up by name. When Embed
// is set the snippet is delivered as a rich embed instead of plain text.
type Tag struct {
	GuildID int64                   `db:"guild_id"`
	Name    string                  `db:"tag_name"`
	Content string                  `db:"content"`
	Embed   *discordgo.MessageEmbed `db:"embed"` // Nullable - stored as JSONB
}

// NormalizeTagName lowercases and trims a tag name. Tags are stored and
// looked up in normalized form so `/tag Send` and `/tag send` match.
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ValidateTagName checks a normalized tag name against the column cap.
func ValidateTagName(name string) error {
	if name == "" {
		return ErrTagNameEmpty
	}
	if len(name) > MaxTagNameLength {
		return ErrTagNameTooLong
	}
	return nil
}
