package repositories

import (
	"context"
	"errors"
	"fmt"

	"studyos/internal/database"
	"studyos/internal/models"

	"go.uber.org/zap"
)

// ErrDuplicateEmail is returned by Create when the email is already registered
var ErrDuplicateEmail = errors.New("email already registered")

// userRepository implements UserRepository
type userRepository struct {
	*BaseRepository
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.Manager, logger *zap.Logger) UserRepository {
	return &userRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const userColumns = `
	id, email, password_hash, name, avatar_url, google_id,
	coins, xp, level, streak, last_active_at,
	subscription_tier, stripe_customer_id, subscription_id,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.AvatarURL, &u.GoogleID,
		&u.Coins, &u.XP, &u.Level, &u.Streak, &u.LastActiveAt,
		&u.SubscriptionTier, &u.StripeCustomerID, &u.SubscriptionID,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.SubscriptionTier == "" {
		user.SubscriptionTier = models.TierFree
	}
	if user.Level == 0 {
		user.Level = 1
	}

	query := `
		INSERT INTO users (email, password_hash, name, avatar_url, google_id, level, subscription_tier)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, coins, xp, streak, created_at, updated_at`

	err := r.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.Name, user.AvatarURL, user.GoogleID,
		user.Level, user.SubscriptionTier,
	).Scan(&user.ID, &user.Coins, &user.XP, &user.Streak, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err, "users_email_key") {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.GetLogger().Info("User created", zap.Int64("user_id", user.ID))
	return nil
}

func (r *userRepository) getOne(ctx context.Context, where string, arg interface{}, forUpdate bool) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	if forUpdate {
		query += ` FOR UPDATE`
	}

	user, err := scanUser(r.QueryRowContext(ctx, query, arg))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, "id = $1", id, false)
}

// GetByIDForUpdate locks the user row for the surrounding transaction
func (r *userRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, "id = $1", id, true)
}

// GetByEmail retrieves a user by normalized email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "email = $1", email, false)
}

// GetByGoogleID retrieves a user linked to a Google account
func (r *userRepository) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return r.getOne(ctx, "google_id = $1", googleID, false)
}

// UpdateProfile changes name and/or avatar; nil leaves a field untouched
func (r *userRepository) GetByStripeCustomer(ctx context.Context, customerID string) (*models.User, error) {
	return r.getOne(ctx, "stripe_customer_id = $1", customerID, false)
}

func (r *userRepository) UpdateProfile(ctx context.Context, id int64, name, avatarURL *string) (*models.User, error) {
	query := `
		UPDATE users
		SET name = COALESCE($2, name),
		    avatar_url = COALESCE($3, avatar_url),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.QueryRowContext(ctx, query, id, name, avatarURL))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// LinkGoogle attaches a Google subject to an existing account
func (r *userRepository) LinkGoogle(ctx context.Context, id int64, googleID string) error {
	_, err := r.ExecContext(ctx,
		`UPDATE users SET google_id = $2, updated_at = NOW() WHERE id = $1`, id, googleID)
	if err != nil {
		return fmt.Errorf("failed to link google account: %w", err)
	}
	return nil
}

// UpdateProgress persists gamification counters
func (r *userRepository) UpdateProgress(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET xp = $2, level = $3, coins = $4, streak = $5, last_active_at = $6, updated_at = NOW()
		WHERE id = $1`

	_, err := r.ExecContext(ctx, query,
		user.ID, user.XP, user.Level, user.Coins, user.Streak, user.LastActiveAt)
	if err != nil {
		return fmt.Errorf("failed to update user progress: %w", err)
	}
	return nil
}

// AddCoins atomically increments the balance and returns the new value
func (r *userRepository) AddCoins(ctx context.Context, id int64, coins int) (int, error) {
	var balance int
	err := r.QueryRowContext(ctx,
		`UPDATE users SET coins = coins + $2, updated_at = NOW() WHERE id = $1 RETURNING coins`,
		id, coins,
	).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("failed to add coins: %w", err)
	}
	return balance, nil
}

// SetSubscription updates tier and stores provider identifiers when given
func (r *userRepository) SetSubscription(ctx context.Context, id int64, tier models.SubscriptionTier, customerID, subscriptionID *string) error {
	query := `
		UPDATE users
		SET subscription_tier = $2,
		    stripe_customer_id = COALESCE($3, stripe_customer_id),
		    subscription_id = $4,
		    updated_at = NOW()
		WHERE id = $1`

	if _, err := r.ExecContext(ctx, query, id, tier, customerID, subscriptionID); err != nil {
		return fmt.Errorf("failed to set subscription: %w", err)
	}
	return nil
}

// SetTierByCustomer downgrades or upgrades every user with the provider customer id
func (r *userRepository) SetTierByCustomer(ctx context.Context, customerID string, tier models.SubscriptionTier) (int64, error) {
	query := `
		UPDATE users
		SET subscription_tier = $2,
		    subscription_id = CASE WHEN $2 = 'FREE' THEN NULL ELSE subscription_id END,
		    updated_at = NOW()
		WHERE stripe_customer_id = $1`

	result, err := r.ExecContext(ctx, query, customerID, tier)
	if err != nil {
		return 0, fmt.Errorf("failed to set tier by customer: %w", err)
	}
	return result.RowsAffected()
}

// Leaderboard returns users ranked by XP
func (r *userRepository) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	limit = clampLimit(limit, 10, 100)

	rows, err := r.QueryContext(ctx, `
		SELECT id, name, avatar_url, xp, level, streak
		FROM users
		ORDER BY xp DESC, id ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]models.LeaderboardEntry, 0, limit)
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Name, &e.AvatarURL, &e.XP, &e.Level, &e.Streak); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
