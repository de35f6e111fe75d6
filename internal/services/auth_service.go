package services

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"studyos/internal/config"
	"studyos/internal/events"
	"studyos/internal/models"
	"studyos/internal/repositories"
	"studyos/internal/storage"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// authService implements AuthService
type authService struct {
	users    repositories.UserRepository
	tokens   repositories.RefreshTokenRepository
	tx       repositories.Transactor
	jwt      *TokenManager
	google   IdentityProvider
	avatars  storage.AvatarStore
	eventBus events.EventBus
	cfg      config.AuthConfig
	logger   *zap.Logger
	now      func() time.Time
}

// AuthDeps groups the collaborators of the auth service
type AuthDeps struct {
	Users    repositories.UserRepository
	Tokens   repositories.RefreshTokenRepository
	Tx       repositories.Transactor
	JWT      *TokenManager
	Google   IdentityProvider
	Avatars  storage.AvatarStore
	EventBus events.EventBus
}

// NewAuthService creates an auth service. Google and Avatars may be nil.
func NewAuthService(deps AuthDeps, cfg config.AuthConfig, logger *zap.Logger) AuthService {
	return &authService{
		users:    deps.Users,
		tokens:   deps.Tokens,
		tx:       deps.Tx,
		jwt:      deps.JWT,
		google:   deps.Google,
		avatars:  deps.Avatars,
		eventBus: deps.EventBus,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// ===============================
// SIGN-IN FLOWS
// ===============================

// Register creates an account with a password
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BCryptCost)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, NewInternalError("failed to register user")
	}
	hashed := string(hash)

	user := &models.User{
		Email:        normalizeEmail(req.Email),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: &hashed,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, NewConflictError("user already exists", "EMAIL_TAKEN")
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, NewInternalError("failed to register user")
	}

	publishEvent(ctx, s.eventBus, s.logger, events.NewUserRegisteredEvent(user.ID, user.Email, "password"))
	return s.issue(ctx, user)
}

// Login checks a password and issues tokens
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		s.logger.Error("Failed to get user during login", zap.Error(err))
		return nil, NewInternalError("authentication failed")
	}
	if user == nil || user.PasswordHash == nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("Invalid password attempt", zap.Int64("user_id", user.ID))
		return nil, NewUnauthorizedError("invalid credentials")
	}

	return s.issue(ctx, user)
}

// Refresh rotates a refresh token
func (s *authService) Refresh(ctx context.Context, req *RefreshRequest) (*AuthResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var user *models.User
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		stored, err := s.tokens.GetByHash(ctx, hashToken(req.RefreshToken))
		if err != nil {
			return err
		}
		if stored == nil || stored.RevokedAt != nil || !stored.ExpiresAt.After(s.now()) {
			return NewUnauthorizedError("invalid refresh token")
		}
		if err := s.tokens.Revoke(ctx, stored.ID); err != nil {
			return err
		}
		user, err = s.users.GetByID(ctx, stored.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return NewUnauthorizedError("invalid refresh token")
		}
		return nil
	})
	if err != nil {
		return nil, passThrough(ctx, s.logger, "failed to refresh token", err)
	}

	return s.issue(ctx, user)
}

// Logout revokes one refresh token, or all of the user's tokens
func (s *authService) Logout(ctx context.Context, userID int64, req *LogoutRequest) error {
	if req == nil || req.RefreshToken == "" {
		if err := s.tokens.RevokeAllForUser(ctx, userID); err != nil {
			s.logger.Error("Failed to revoke tokens", zap.Error(err), zap.Int64("user_id", userID))
			return NewInternalError("failed to logout")
		}
		return nil
	}

	stored, err := s.tokens.GetByHash(ctx, hashToken(req.RefreshToken))
	if err != nil {
		s.logger.Error("Failed to look up refresh token", zap.Error(err))
		return NewInternalError("failed to logout")
	}
	if stored == nil || stored.UserID != userID {
		return nil
	}
	if err := s.tokens.Revoke(ctx, stored.ID); err != nil {
		s.logger.Error("Failed to revoke token", zap.Error(err), zap.Int64("user_id", userID))
		return NewInternalError("failed to logout")
	}
	return nil
}

// GoogleAuthURL builds the consent URL
func (s *authService) GoogleAuthURL(state string) (string, error) {
	if s.google == nil {
		return "", NewServiceUnavailableError("google sign-in is not configured")
	}
	return s.google.AuthURL(state), nil
}

// GoogleCallback signs in, links or creates the account behind a Google profile
func (s *authService) GoogleCallback(ctx context.Context, code string) (*AuthResponse, error) {
	if s.google == nil {
		return nil, NewServiceUnavailableError("google sign-in is not configured")
	}
	if code == "" {
		return nil, InvalidInputError("code", "authorization code is required")
	}

	profile, err := s.google.Profile(ctx, code)
	if err != nil {
		s.logger.Warn("Google code exchange failed", zap.Error(err))
		return nil, NewUnauthorizedError("google sign-in failed")
	}
	if profile.Email == "" || !profile.VerifiedEmail {
		return nil, NewUnauthorizedError("google account email is not verified")
	}

	user, err := s.users.GetByGoogleID(ctx, profile.ID)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to look up google user", err)
	}
	if user == nil {
		user, err = s.linkOrCreateGoogleUser(ctx, profile)
		if err != nil {
			return nil, err
		}
	}
	return s.issue(ctx, user)
}

func (s *authService) linkOrCreateGoogleUser(ctx context.Context, profile *GoogleProfile) (*models.User, error) {
	email := normalizeEmail(profile.Email)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to look up user", err)
	}
	if user != nil {
		if err := s.users.LinkGoogle(ctx, user.ID, profile.ID); err != nil {
			return nil, internalError(ctx, s.logger, "failed to link google account", err)
		}
		s.logger.Info("Linked Google account", zap.Int64("user_id", user.ID))
		return user, nil
	}

	googleID := profile.ID
	user = &models.User{Email: email, Name: profile.Name, GoogleID: &googleID}
	if user.Name == "" {
		user.Name = strings.Split(email, "@")[0]
	}
	if profile.Picture != "" {
		picture := profile.Picture
		user.AvatarURL = &picture
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, internalError(ctx, s.logger, "failed to create google user", err)
	}
	publishEvent(ctx, s.eventBus, s.logger, events.NewUserRegisteredEvent(user.ID, user.Email, "google"))
	return user, nil
}

// ===============================
// PROFILE
// ===============================

// Me returns the current user
func (s *authService) Me(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to get user", err)
	}
	if user == nil {
		return nil, EntityNotFoundError("user", userID)
	}
	return user, nil
}

// UpdateProfile changes name and avatar URL
func (s *authService) UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*models.User, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}

	user, err := s.users.UpdateProfile(ctx, userID, req.Name, req.AvatarURL)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to update profile", err)
	}
	if user == nil {
		return nil, EntityNotFoundError("user", userID)
	}
	return user, nil
}

// UploadAvatar stores a new profile picture and saves its URL
func (s *authService) UploadAvatar(ctx context.Context, userID int64, file *multipart.FileHeader) (*models.User, error) {
	if s.avatars == nil {
		return nil, NewServiceUnavailableError("avatar uploads are not configured")
	}
	if file == nil {
		return nil, InvalidInputError("avatar", "file is required")
	}

	result, err := s.avatars.UploadAvatar(ctx, userID, file)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrFileTooLarge),
			errors.Is(err, storage.ErrInvalidContentType),
			errors.Is(err, storage.ErrInvalidExtension):
			return nil, InvalidInputError("avatar", err.Error())
		}
		s.logger.Error("Avatar upload failed", zap.Error(err), zap.Int64("user_id", userID))
		return nil, NewServiceUnavailableError("avatar upload failed")
	}

	url := result.URL
	return s.UpdateProfile(ctx, userID, &UpdateProfileRequest{AvatarURL: &url})
}

// ValidateToken verifies an access token
func (s *authService) ValidateToken(token string) (int64, error) {
	return s.jwt.Parse(token)
}

// ===============================
// HELPERS
// ===============================

func (s *authService) issue(ctx context.Context, user *models.User) (*AuthResponse, error) {
	access, expiresAt, err := s.jwt.Issue(user.ID)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to issue token", err)
	}

	refresh, hash, err := newRefreshToken()
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to issue token", err)
	}
	if err := s.tokens.Create(ctx, &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hash,
		ExpiresAt: s.now().Add(s.cfg.RefreshTTL),
	}); err != nil {
		return nil, internalError(ctx, s.logger, "failed to store refresh token", err)
	}

	return &AuthResponse{
		User:         user,
		Token:        access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
