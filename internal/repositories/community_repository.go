package repositories

import (
	"context"
	"fmt"

	"studyos/internal/database"
	"studyos/internal/models"

	"go.uber.org/zap"
)

type communityRepository struct {
	*BaseRepository
}

// NewCommunityRepository creates a community repository
func NewCommunityRepository(db *database.Manager, logger *zap.Logger) CommunityRepository {
	return &communityRepository{BaseRepository: NewBaseRepository(db, logger)}
}

func (r *communityRepository) CountGroups(ctx context.Context) (int, error) {
	var n int
	if err := r.QueryRowContext(ctx, `SELECT COUNT(*) FROM groups`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count groups: %w", err)
	}
	return n, nil
}

// CreateGroup inserts a group; an existing name is left untouched and reloaded
func (r *communityRepository) CreateGroup(ctx context.Context, group *models.Group) error {
	err := r.QueryRowContext(ctx, `
		INSERT INTO groups (name, description, created_by)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, description, created_by, created_at`,
		group.Name, group.Description, group.CreatedBy,
	).Scan(&group.ID, &group.Description, &group.CreatedBy, &group.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

func (r *communityRepository) GetGroup(ctx context.Context, id int64) (*models.Group, error) {
	var g models.Group
	err := r.QueryRowContext(ctx, `
		SELECT g.id, g.name, g.description, g.created_by, g.created_at,
		       (SELECT COUNT(*) FROM group_members m WHERE m.group_id = g.id)
		FROM groups g WHERE g.id = $1`, id,
	).Scan(&g.ID, &g.Name, &g.Description, &g.CreatedBy, &g.CreatedAt, &g.MemberCount)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return &g, nil
}

func (r *communityRepository) ListGroups(ctx context.Context, viewerID int64) ([]*models.Group, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT g.id, g.name, g.description, g.created_by, g.created_at,
		       COUNT(m.user_id) AS member_count,
		       COALESCE(BOOL_OR(m.user_id = $1), FALSE) AS is_member
		FROM groups g
		LEFT JOIN group_members m ON m.group_id = g.id
		GROUP BY g.id
		ORDER BY g.id`, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	groups := []*models.Group{}
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedBy, &g.CreatedAt, &g.MemberCount, &g.IsMember); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, &g)
	}
	return groups, rows.Err()
}

func (r *communityRepository) Join(ctx context.Context, groupID, userID int64) error {
	_, err := r.ExecContext(ctx, `
		INSERT INTO group_members (group_id, user_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to join group: %w", err)
	}
	return nil
}

func (r *communityRepository) Leave(ctx context.Context, groupID, userID int64) (bool, error) {
	result, err := r.ExecContext(ctx,
		`DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`, groupID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to leave group: %w", err)
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

func (r *communityRepository) IsMember(ctx context.Context, groupID, userID int64) (bool, error) {
	var member bool
	err := r.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)`,
		groupID, userID,
	).Scan(&member)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return member, nil
}

// ListMessages returns the latest messages in chronological order
func (r *communityRepository) ListMessages(ctx context.Context, groupID int64, limit int) ([]*models.Message, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT id, group_id, user_id, author_name, content, created_at FROM (
			SELECT m.id, m.group_id, m.user_id, u.name AS author_name, m.content, m.created_at
			FROM messages m
			JOIN users u ON u.id = m.user_id
			WHERE m.group_id = $1
			ORDER BY m.created_at DESC, m.id DESC
			LIMIT $2
		) latest
		ORDER BY created_at ASC, id ASC`, groupID, clampLimit(limit, 50, 200))
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := []*models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.GroupID, &m.UserID, &m.AuthorName, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

func (r *communityRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	err := r.QueryRowContext(ctx, `
		WITH inserted AS (
			INSERT INTO messages (group_id, user_id, content)
			VALUES ($1, $2, $3)
			RETURNING id, user_id, created_at
		)
		SELECT i.id, i.created_at, u.name
		FROM inserted i JOIN users u ON u.id = i.user_id`,
		message.GroupID, message.UserID, message.Content,
	).Scan(&message.ID, &message.CreatedAt, &message.AuthorName)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}
