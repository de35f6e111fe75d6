// Package storage uploads user media to Cloudinary.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"studyos/internal/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

// Errors for specific failure cases
var (
	ErrNotConfigured      = errors.New("cloudinary is not configured")
	ErrFileTooLarge       = errors.New("file size exceeds limit")
	ErrInvalidContentType = errors.New("invalid content type")
	ErrInvalidExtension   = errors.New("invalid file extension")
	ErrUnableToReadFile   = errors.New("unable to read file")
	ErrUploadFailed       = errors.New("failed to upload file")
)

var (
	allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	allowedImageExts  = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
)

// UploadResult contains the result of a file upload
type UploadResult struct {
	URL      string
	PublicID string
	Format   string
	Size     int
}

// AvatarStore stores profile pictures
type AvatarStore interface {
	UploadAvatar(ctx context.Context, userID int64, file *multipart.FileHeader) (*UploadResult, error)
}

// uploadAPI is the part of the Cloudinary upload API in use
type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryStore uploads avatars with retry
type CloudinaryStore struct {
	api           uploadAPI
	folder        string
	maxFileSize   int64
	maxRetries    uint64
	uploadTimeout time.Duration
	logger        *zap.Logger
}

// NewCloudinaryStore connects using CLOUDINARY_URL
func NewCloudinaryStore(cfg config.StorageConfig, logger *zap.Logger) (*CloudinaryStore, error) {
	if cfg.CloudinaryURL == "" {
		return nil, ErrNotConfigured
	}
	cld, err := cloudinary.NewFromURL(cfg.CloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return newCloudinaryStore(&cld.Upload, cfg, logger), nil
}

func newCloudinaryStore(api uploadAPI, cfg config.StorageConfig, logger *zap.Logger) *CloudinaryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxSize := cfg.MaxFileSize
	if maxSize <= 0 {
		maxSize = 5 << 20
	}
	return &CloudinaryStore{
		api:           api,
		folder:        cfg.AvatarFolder,
		maxFileSize:   maxSize,
		maxRetries:    cfg.MaxRetries,
		uploadTimeout: 30 * time.Second,
		logger:        logger,
	}
}

// UploadAvatar validates an image and uploads it under a stable per-user public id
func (c *CloudinaryStore) UploadAvatar(ctx context.Context, userID int64, file *multipart.FileHeader) (*UploadResult, error) {
	if err := c.validate(file); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.uploadTimeout)
	defer cancel()

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnableToReadFile, err)
	}
	defer src.Close()

	overwrite := true
	params := uploader.UploadParams{
		Folder:       c.folder,
		PublicID:     fmt.Sprintf("user_%d", userID),
		Overwrite:    &overwrite,
		ResourceType: "image",
	}

	var result *uploader.UploadResult
	operation := func() error {
		if _, err := src.Seek(0, io.SeekStart); err != nil {
			return backoff.Permanent(err)
		}
		var opErr error
		result, opErr = c.api.Upload(ctx, src, params)
		if opErr != nil {
			return opErr
		}
		if result.Error.Message != "" {
			return backoff.Permanent(errors.New(result.Error.Message))
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = c.uploadTimeout / 2
	err = backoff.RetryNotify(
		operation,
		backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx),
		func(err error, d time.Duration) {
			c.logger.Warn("Avatar upload attempt failed",
				zap.Int64("user_id", userID),
				zap.Error(err),
				zap.Duration("backoff", d))
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	c.logger.Info("Avatar uploaded",
		zap.Int64("user_id", userID),
		zap.String("public_id", result.PublicID))

	return &UploadResult{
		URL:      result.SecureURL,
		PublicID: result.PublicID,
		Format:   result.Format,
		Size:     result.Bytes,
	}, nil
}

func (c *CloudinaryStore) validate(file *multipart.FileHeader) error {
	if file.Size > c.maxFileSize {
		return fmt.Errorf("%w: %d bytes exceeds %d bytes", ErrFileTooLarge, file.Size, c.maxFileSize)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !slices.Contains(allowedImageExts, ext) {
		return fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnableToReadFile, err)
	}
	defer src.Close()

	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		return fmt.Errorf("%w: %v", ErrUnableToReadFile, err)
	}
	contentType := http.DetectContentType(buffer[:n])
	if !slices.Contains(allowedImageTypes, contentType) {
		return fmt.Errorf("%w: %s", ErrInvalidContentType, contentType)
	}
	return nil
}
