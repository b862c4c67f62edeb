package repository

import (
	"context"
	"fmt"

	"ticketsplus/database"
	"ticketsplus/models"
)

// roleTables maps each role kind to its table. Table names cannot be bound
// as query parameters, so everything goes through this whitelist.
var roleTables = map[models.RoleKind]string{
	models.RoleKindStaff:     "staff_roles",
	models.RoleKindObserver:  "observers_roles",
	models.RoleKindCommunity: "community_roles",
	models.RoleKindPing:      "community_pings",
}

// GuildRoleRepository implements the GuildRoleRepository interface over the
// four per-guild role list tables
type GuildRoleRepository struct {
	q queryable
}

// NewGuildRoleRepository creates a new guild role repository
func NewGuildRoleRepository(db *database.DB) *GuildRoleRepository {
	return &GuildRoleRepository{q: db.Pool}
}

// newGuildRoleRepositoryWithTx creates a new guild role repository with a transaction
func newGuildRoleRepositoryWithTx(tx queryable) *GuildRoleRepository {
	return &GuildRoleRepository{q: tx}
}

func roleTable(kind models.RoleKind) (string, error) {
	table, ok := roleTables[kind]
	if !ok {
		return "", fmt.Errorf("unknown role kind %q", kind)
	}
	return table, nil
}

// Add inserts a role into the list of the given kind. Returns false when the
// role was already present.
func (r *GuildRoleRepository) Add(ctx context.Context, kind models.RoleKind, guildID, roleID int64) (bool, error) {
	table, err := roleTable(kind)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (role_id, guild_id)
		VALUES ($1, $2)
		ON CONFLICT (role_id, guild_id) DO NOTHING
	`, table)

	result, err := r.q.Exec(ctx, query, roleID, guildID)
	if err != nil {
		return false, fmt.Errorf("failed to add %s role %d for guild %d: %w", kind, roleID, guildID, err)
	}

	return result.RowsAffected() > 0, nil
}

// Remove deletes a role from the list of the given kind
func (r *GuildRoleRepository) Remove(ctx context.Context, kind models.RoleKind, guildID, roleID int64) error {
	table, err := roleTable(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE role_id = $1 AND guild_id = $2
	`, table)

	result, err := r.q.Exec(ctx, query, roleID, guildID)
	if err != nil {
		return fmt.Errorf("failed to remove %s role %d for guild %d: %w", kind, roleID, guildID, err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrRoleNotFound
	}

	return nil
}

// List returns all role IDs of the given kind for a guild
func (r *GuildRoleRepository) List(ctx context.Context, kind models.RoleKind, guildID int64) ([]int64, error) {
	table, err := roleTable(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT role_id
		FROM %s
		WHERE guild_id = $1
		ORDER BY role_id
	`, table)

	rows, err := r.q.Query(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s roles for guild %d: %w", kind, guildID, err)
	}
	defer rows.Close()

	var roleIDs []int64
	for rows.Next() {
		var roleID int64
		if err := rows.Scan(&roleID); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roleIDs = append(roleIDs, roleID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate roles: %w", err)
	}

	return roleIDs, nil
}

// Has reports whether a role is in the list of the given kind
func (r *GuildRoleRepository) Has(ctx context.Context, kind models.RoleKind, guildID, roleID int64) (bool, error) {
	table, err := roleTable(kind)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s
			WHERE role_id = $1 AND guild_id = $2
		)
	`, table)

	var exists bool
	if err := r.q.QueryRow(ctx, query, roleID, guildID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check %s role %d for guild %d: %w", kind, roleID, guildID, err)
	}

	return exists, nil
}
