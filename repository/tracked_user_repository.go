package repository

import (
	"context"
	"fmt"

	"ticketsplus/database"
	"ticketsplus/models"
)

// TrackedUserRepository implements the TrackedUserRepository interface
type TrackedUserRepository struct {
	q queryable
}

// NewTrackedUserRepository creates a new tracked user repository
func NewTrackedUserRepository(db *database.DB) *TrackedUserRepository {
	return &TrackedUserRepository{q: db.Pool}
}

// newTrackedUserRepositoryWithTx creates a new tracked user repository with a transaction
func newTrackedUserRepositoryWithTx(tx queryable) *TrackedUserRepository {
	return &TrackedUserRepository{q: tx}
}

// Add registers a ticket bot for a guild. Returns false when the user was
// already registered.
func (r *TrackedUserRepository) Add(ctx context.Context, guildID, userID int64) (bool, error) {
	query := `
		INSERT INTO ticket_bots (user_id, guild_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, guild_id) DO NOTHING
	`

	result, err := r.q.Exec(ctx, query, userID, guildID)
	if err != nil {
		return false, fmt.Errorf("failed to track user %d for guild %d: %w", userID, guildID, err)
	}

	return result.RowsAffected() > 0, nil
}

// Remove unregisters a ticket bot
func (r *TrackedUserRepository) Remove(ctx context.Context, guildID, userID int64) error {
	query := `
		DELETE FROM ticket_bots
		WHERE user_id = $1 AND guild_id = $2
	`

	result, err := r.q.Exec(ctx, query, userID, guildID)
	if err != nil {
		return fmt.Errorf("failed to untrack user %d for guild %d: %w", userID, guildID, err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrUserNotTracked
	}

	return nil
}

// List returns all registered ticket bot user IDs for a guild
func (r *TrackedUserRepository) List(ctx context.Context, guildID int64) ([]int64, error) {
	query := `
		SELECT user_id
		FROM ticket_bots
		WHERE guild_id = $1
		ORDER BY user_id
	`

	rows, err := r.q.Query(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked users for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var userIDs []int64
	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan tracked user: %w", err)
		}
		userIDs = append(userIDs, userID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tracked users: %w", err)
	}

	return userIDs, nil
}

// IsTracked reports whether a user is registered as a ticket bot for a guild
func (r *TrackedUserRepository) IsTracked(ctx context.Context, guildID, userID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM ticket_bots
			WHERE user_id = $1 AND guild_id = $2
		)
	`

	var exists bool
	if err := r.q.QueryRow(ctx, query, userID, guildID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check tracked user %d for guild %d: %w", userID, guildID, err)
	}

	return exists, nil
}
