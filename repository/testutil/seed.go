package testutil

import (
	"context"
	"testing"

	"ticketsplus/database"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

// SeedGuild inserts a default config row for a guild so child rows can
// reference it. Safe to call repeatedly for the same guild.
func SeedGuild(t *testing.T, db *database.DB, guildID int64) {
	t.Helper()
	ctx := context.Background()

	err := db.WithTransaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO general_configs (guild_id)
			VALUES ($1)
			ON CONFLICT (guild_id) DO NOTHING
		`, guildID)
		return err
	})
	require.NoError(t, err)
}

// SeedGuildWithAutoClose inserts a config row with a response deadline set
func SeedGuildWithAutoClose(t *testing.T, db *database.DB, guildID int64, minutes int) {
	t.Helper()
	ctx := context.Background()

	err := db.WithTransaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO general_configs (guild_id, first_autoclose)
			VALUES ($1, $2)
			ON CONFLICT (guild_id) DO UPDATE SET first_autoclose = EXCLUDED.first_autoclose
		`, guildID, minutes)
		return err
	})
	require.NoError(t, err)
}
