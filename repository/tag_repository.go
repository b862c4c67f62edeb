package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"ticketsplus/database"
	"ticketsplus/models"

	"github.com/bwmarrin/discordgo"
	"github.com/jackc/pgx/v5"
)

// TagRepository implements the TagRepository interface. Embeds are stored
// as JSONB in the discordgo wire format.
type TagRepository struct {
	q queryable
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *database.DB) *TagRepository {
	return &TagRepository{q: db.Pool}
}

// newTagRepositoryWithTx creates a new tag repository with a transaction
func newTagRepositoryWithTx(tx queryable) *TagRepository {
	return &TagRepository{q: tx}
}

func marshalEmbed(embed *discordgo.MessageEmbed) ([]byte, error) {
	if embed == nil {
		return nil, nil
	}
	data, err := json.Marshal(embed)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embed: %w", err)
	}
	return data, nil
}

func unmarshalEmbed(data []byte) (*discordgo.MessageEmbed, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var embed discordgo.MessageEmbed
	if err := json.Unmarshal(data, &embed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal embed: %w", err)
	}
	return &embed, nil
}

// Get retrieves a tag by its normalized name, or nil when none exists
func (r *TagRepository) Get(ctx context.Context, guildID int64, name string) (*models.Tag, error) {
	query := `
		SELECT guild_id, tag_name, content, embed
		FROM tags
		WHERE guild_id = $1 AND tag_name = $2
	`

	var tag models.Tag
	var embedData []byte
	err := r.q.QueryRow(ctx, query, guildID, name).Scan(
		&tag.GuildID,
		&tag.Name,
		&tag.Content,
		&embedData,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tag %q for guild %d: %w", name, guildID, err)
	}

	tag.Embed, err = unmarshalEmbed(embedData)
	if err != nil {
		return nil, err
	}

	return &tag, nil
}

// Create inserts a new tag
func (r *TagRepository) Create(ctx context.Context, tag *models.Tag) error {
	embedData, err := marshalEmbed(tag.Embed)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tags (guild_id, tag_name, content, embed)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (guild_id, tag_name) DO NOTHING
	`

	result, err := r.q.Exec(ctx, query, tag.GuildID, tag.Name, tag.Content, embedData)
	if err != nil {
		return fmt.Errorf("failed to create tag %q for guild %d: %w", tag.Name, tag.GuildID, err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrTagExists
	}

	return nil
}

// Update replaces the content and embed of an existing tag
func (r *TagRepository) Update(ctx context.Context, tag *models.Tag) error {
	embedData, err := marshalEmbed(tag.Embed)
	if err != nil {
		return err
	}

	query := `
		UPDATE tags
		SET content = $3, embed = $4
		WHERE guild_id = $1 AND tag_name = $2
	`

	result, err := r.q.Exec(ctx, query, tag.GuildID, tag.Name, tag.Content, embedData)
	if err != nil {
		return fmt.Errorf("failed to update tag %q for guild %d: %w", tag.Name, tag.GuildID, err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrTagNotFound
	}

	return nil
}

// Delete removes a tag
func (r *TagRepository) Delete(ctx context.Context, guildID int64, name string) error {
	query := `
		DELETE FROM tags
		WHERE guild_id = $1 AND tag_name = $2
	`

	result, err := r.q.Exec(ctx, query, guildID, name)
	if err != nil {
		return fmt.Errorf("failed to delete tag %q for guild %d: %w", name, guildID, err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrTagNotFound
	}

	return nil
}

// List returns all tags for a guild sorted by name
func (r *TagRepository) List(ctx context.Context, guildID int64) ([]*models.Tag, error) {
	query := `
		SELECT guild_id, tag_name, content, embed
		FROM tags
		WHERE guild_id = $1
		ORDER BY tag_name
	`

	rows, err := r.q.Query(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var tags []*models.Tag
	for rows.Next() {
		var tag models.Tag
		var embedData []byte
		if err := rows.Scan(&tag.GuildID, &tag.Name, &tag.Content, &embedData); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tag.Embed, err = unmarshalEmbed(embedData)
		if err != nil {
			return nil, err
		}
		tags = append(tags, &tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}

	return tags, nil
}
