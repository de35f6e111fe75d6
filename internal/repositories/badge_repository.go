package repositories

import (
	"context"
	"fmt"

	"studyos/internal/database"
	"studyos/internal/models"

	"go.uber.org/zap"
)

type badgeRepository struct {
	*BaseRepository
}

// NewBadgeRepository creates a badge repository
func NewBadgeRepository(db *database.Manager, logger *zap.Logger) BadgeRepository {
	return &badgeRepository{BaseRepository: NewBaseRepository(db, logger)}
}

// Ensure creates the badge definition if missing and returns its id
func (r *badgeRepository) Ensure(ctx context.Context, badge *models.Badge) (int64, error) {
	err := r.QueryRowContext(ctx, `
		INSERT INTO badges (code, name, description, icon)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, created_at`,
		badge.Code, badge.Name, badge.Description, badge.Icon,
	).Scan(&badge.ID, &badge.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to ensure badge %s: %w", badge.Code, err)
	}
	return badge.ID, nil
}

// Award links a badge to a user once
func (r *badgeRepository) Award(ctx context.Context, userID, badgeID int64) (bool, error) {
	result, err := r.ExecContext(ctx, `
		INSERT INTO user_badges (user_id, badge_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, badge_id) DO NOTHING`, userID, badgeID)
	if err != nil {
		return false, fmt.Errorf("failed to award badge: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read award result: %w", err)
	}
	return n == 1, nil
}

func (r *badgeRepository) List(ctx context.Context) ([]*models.Badge, error) {
	rows, err := r.QueryContext(ctx,
		`SELECT id, code, name, description, icon, created_at FROM badges ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	defer rows.Close()

	badges := []*models.Badge{}
	for rows.Next() {
		var b models.Badge
		if err := rows.Scan(&b.ID, &b.Code, &b.Name, &b.Description, &b.Icon, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		badges = append(badges, &b)
	}
	return badges, rows.Err()
}

func (r *badgeRepository) ListForUser(ctx context.Context, userID int64) ([]*models.UserBadge, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT b.id, b.code, b.name, b.description, b.icon, b.created_at, ub.earned_at
		FROM user_badges ub
		JOIN badges b ON b.id = ub.badge_id
		WHERE ub.user_id = $1
		ORDER BY ub.earned_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user badges: %w", err)
	}
	defer rows.Close()

	badges := []*models.UserBadge{}
	for rows.Next() {
		var b models.UserBadge
		if err := rows.Scan(&b.ID, &b.Code, &b.Name, &b.Description, &b.Icon, &b.CreatedAt, &b.EarnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user badge: %w", err)
		}
		badges = append(badges, &b)
	}
	return badges, rows.Err()
}
