package repository

import (
	"context"
	"fmt"

	"ticketsplus/database"
	"ticketsplus/models"

	"github.com/jackc/pgx/v5"
)

const guildConfigColumns = `
	guild_id,
	open_message,
	staff_team_name,
	first_autoclose,
	msg_discovery,
	strip_buttons,
	integrated,
	support_block,
	helping_block,
	created_at,
	updated_at
`

// GuildConfigRepository implements the GuildConfigRepository interface
type GuildConfigRepository struct {
	q queryable
}

// NewGuildConfigRepository creates a new guild config repository
func NewGuildConfigRepository(db *database.DB) *GuildConfigRepository {
	return &GuildConfigRepository{q: db.Pool}
}

// newGuildConfigRepositoryWithTx creates a new guild config repository with a transaction
func newGuildConfigRepositoryWithTx(tx queryable) *GuildConfigRepository {
	return &GuildConfigRepository{q: tx}
}

func scanGuildConfig(row pgx.Row) (*models.GuildConfig, error) {
	var config models.GuildConfig
	err := row.Scan(
		&config.GuildID,
		&config.OpenMessage,
		&config.StaffTeamName,
		&config.FirstAutoClose,
		&config.MsgDiscovery,
		&config.StripButtons,
		&config.Integrated,
		&config.SupportBlockRole,
		&config.HelpingBlockRole,
		&config.CreatedAt,
		&config.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// GetByGuildID retrieves a guild's configuration by its guild ID
func (r *GuildConfigRepository) GetByGuildID(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	query := `
		SELECT ` + guildConfigColumns + `
		FROM general_configs
		WHERE guild_id = $1
	`

	config, err := scanGuildConfig(r.q.QueryRow(ctx, query, guildID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get config for guild %d: %w", guildID, err)
	}

	return config, nil
}

// GetOrCreate retrieves a guild's configuration, inserting a row with the
// schema defaults when none exists
func (r *GuildConfigRepository) GetOrCreate(ctx context.Context, guildID int64) (*models.GuildConfig, bool, error) {
	insert := `
		INSERT INTO general_configs (guild_id)
		VALUES ($1)
		ON CONFLICT (guild_id) DO NOTHING
	`

	tag, err := r.q.Exec(ctx, insert, guildID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create config for guild %d: %w", guildID, err)
	}
	created := tag.RowsAffected() > 0

	config, err := r.GetByGuildID(ctx, guildID)
	if err != nil {
		return nil, false, err
	}
	if config == nil {
		return nil, false, fmt.Errorf("config for guild %d missing after insert", guildID)
	}

	return config, created, nil
}

// Update persists all mutable configuration fields
func (r *GuildConfigRepository) Update(ctx context.Context, config *models.GuildConfig) error {
	query := `
		UPDATE general_configs
		SET open_message = $1,
			staff_team_name = $2,
			first_autoclose = $3,
			msg_discovery = $4,
			strip_buttons = $5,
			integrated = $6,
			support_block = $7,
			helping_block = $8,
			updated_at = NOW()
		WHERE guild_id = $9
	`

	result, err := r.q.Exec(ctx, query,
		config.OpenMessage,
		config.StaffTeamName,
		config.FirstAutoClose,
		config.MsgDiscovery,
		config.StripButtons,
		config.Integrated,
		config.SupportBlockRole,
		config.HelpingBlockRole,
		config.GuildID,
	)
	if err != nil {
		return fmt.Errorf("failed to update config for guild %d: %w", config.GuildID, err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrGuildNotFound
	}

	return nil
}

// Delete removes a guild's configuration. Role lists, tracked users,
// members, tickets and tags go with it through the cascade.
func (r *GuildConfigRepository) Delete(ctx context.Context, guildID int64) error {
	query := `
		DELETE FROM general_configs
		WHERE guild_id = $1
	`

	result, err := r.q.Exec(ctx, query, guildID)
	if err != nil {
		return fmt.Errorf("failed to delete config for guild %d: %w", guildID, err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrGuildNotFound
	}

	return nil
}

// ListAutoCloseEnabled returns all configurations with a response deadline set
func (r *GuildConfigRepository) ListAutoCloseEnabled(ctx context.Context) ([]*models.GuildConfig, error) {
	query := `
		SELECT ` + guildConfigColumns + `
		FROM general_configs
		WHERE first_autoclose IS NOT NULL AND first_autoclose > 0
		ORDER BY guild_id
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list autoclose configs: %w", err)
	}
	defer rows.Close()

	var configs []*models.GuildConfig
	for rows.Next() {
		config, err := scanGuildConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan config: %w", err)
		}
		configs = append(configs, config)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate configs: %w", err)
	}

	return configs, nil
}
