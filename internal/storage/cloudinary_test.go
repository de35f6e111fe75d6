package storage

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"studyos/internal/config"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type fakeUploader struct {
	fails  int
	calls  int
	params uploader.UploadParams
}

func (f *fakeUploader) Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	f.calls++
	f.params = params
	if f.calls <= f.fails {
		return nil, errors.New("temporary failure")
	}
	return &uploader.UploadResult{
		SecureURL: "https://res.cloudinary.com/demo/" + params.PublicID + ".png",
		PublicID:  params.Folder + "/" + params.PublicID,
		Format:    "png",
		Bytes:     16,
	}, nil
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("avatar", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["avatar"][0]
}

func TestUploadAvatarRetries(t *testing.T) {
	api := &fakeUploader{fails: 1}
	store := newCloudinaryStore(api, config.StorageConfig{AvatarFolder: "avatars", MaxRetries: 3}, zap.NewNop())

	res, err := store.UploadAvatar(context.Background(), 42, fileHeader(t, "me.png", pngHeader))
	require.NoError(t, err)
	assert.Equal(t, 2, api.calls)
	assert.Equal(t, "user_42", api.params.PublicID)
	assert.Equal(t, "avatars/user_42", res.PublicID)
	assert.Contains(t, res.URL, "user_42")
}

func TestUploadAvatarValidation(t *testing.T) {
	api := &fakeUploader{}
	store := newCloudinaryStore(api, config.StorageConfig{MaxFileSize: 8}, zap.NewNop())

	_, err := store.UploadAvatar(context.Background(), 1, fileHeader(t, "me.png", pngHeader))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	store = newCloudinaryStore(api, config.StorageConfig{}, zap.NewNop())
	_, err = store.UploadAvatar(context.Background(), 1, fileHeader(t, "me.exe", pngHeader))
	assert.ErrorIs(t, err, ErrInvalidExtension)

	_, err = store.UploadAvatar(context.Background(), 1, fileHeader(t, "me.png", []byte("plain text, not an image")))
	assert.ErrorIs(t, err, ErrInvalidContentType)
	assert.Zero(t, api.calls)
}

func TestNewCloudinaryStoreRequiresURL(t *testing.T) {
	_, err := NewCloudinaryStore(config.StorageConfig{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrNotConfigured)
}
