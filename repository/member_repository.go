package repository

import (
	"context"
	"fmt"
	"time"

	"ticketsplus/database"
	"ticketsplus/models"

	"github.com/jackc/pgx/v5"
)

// MemberRepository implements the MemberRepository interface
type MemberRepository struct {
	q queryable
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *database.DB) *MemberRepository {
	return &MemberRepository{q: db.Pool}
}

// newMemberRepositoryWithTx creates a new member repository with a transaction
func newMemberRepositoryWithTx(tx queryable) *MemberRepository {
	return &MemberRepository{q: tx}
}

// GetOrCreate retrieves a member record, inserting one when none exists.
// The second return reports whether a row was created.
func (r *MemberRepository) GetOrCreate(ctx context.Context, userID, guildID int64) (*models.Member, bool, error) {
	insert := `
		INSERT INTO members (user_id, guild_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, guild_id) DO NOTHING
	`

	tag, err := r.q.Exec(ctx, insert, userID, guildID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create member %d in guild %d: %w", userID, guildID, err)
	}
	created := tag.RowsAffected() > 0

	member, err := r.GetByUserGuild(ctx, userID, guildID)
	if err != nil {
		return nil, false, err
	}
	if member == nil {
		return nil, false, fmt.Errorf("member %d in guild %d missing after insert", userID, guildID)
	}

	return member, created, nil
}

// GetByUserGuild retrieves a member record, or nil when none exists
func (r *MemberRepository) GetByUserGuild(ctx context.Context, userID, guildID int64) (*models.Member, error) {
	query := `
		SELECT id, user_id, guild_id, is_owner, status, status_till
		FROM members
		WHERE user_id = $1 AND guild_id = $2
	`

	var member models.Member
	err := r.q.QueryRow(ctx, query, userID, guildID).Scan(
		&member.ID,
		&member.UserID,
		&member.GuildID,
		&member.IsOwner,
		&member.Status,
		&member.StatusTill,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member %d in guild %d: %w", userID, guildID, err)
	}

	return &member, nil
}

// SetOwner updates a member's owner flag
func (r *MemberRepository) SetOwner(ctx context.Context, userID, guildID int64, isOwner bool) error {
	query := `
		UPDATE members
		SET is_owner = $1
		WHERE user_id = $2 AND guild_id = $3
	`

	result, err := r.q.Exec(ctx, query, isOwner, userID, guildID)
	if err != nil {
		return fmt.Errorf("failed to set owner flag for member %d in guild %d: %w", userID, guildID, err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrMemberNotFound
	}

	return nil
}

// UpdateStatus updates a member's block status and its expiry
func (r *MemberRepository) UpdateStatus(ctx context.Context, userID, guildID int64, status models.MemberStatus, till *time.Time) error {
	query := `
		UPDATE members
		SET status = $1, status_till = $2
		WHERE user_id = $3 AND guild_id = $4
	`

	result, err := r.q.Exec(ctx, query, status, till, userID, guildID)
	if err != nil {
		return fmt.Errorf("failed to update status for member %d in guild %d: %w", userID, guildID, err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrMemberNotFound
	}

	return nil
}

// ListExpiredStatuses returns members whose timed status lapsed before now
func (r *MemberRepository) ListExpiredStatuses(ctx context.Context, now time.Time) ([]*models.Member, error) {
	query := `
		SELECT id, user_id, guild_id, is_owner, status, status_till
		FROM members
		WHERE status <> 0 AND status_till IS NOT NULL AND status_till <= $1
		ORDER BY status_till
	`

	rows, err := r.q.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired statuses: %w", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		var member models.Member
		err := rows.Scan(
			&member.ID,
			&member.UserID,
			&member.GuildID,
			&member.IsOwner,
			&member.Status,
			&member.StatusTill,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, &member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}
