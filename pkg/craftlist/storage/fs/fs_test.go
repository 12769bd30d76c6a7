package fs_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fsstorage "github.com/craftlist/craft-list/pkg/craftlist/storage/fs"
)

func TestFSBackend(t *testing.T) {
	baseDir := t.TempDir()
	backend, err := fsstorage.New(fsstorage.Config{
		BaseDir:   baseDir,
		URLPrefix: "/uploads/",
	})
	require.NoError(t, err)

	ctx := context.Background()
	testKey := "banners/abc123"
	testData := "fake image bytes"

	t.Run("Upload creates nested directories", func(t *testing.T) {
		require.NoError(t, backend.Upload(ctx, testKey, strings.NewReader(testData)))

		_, err := os.Stat(filepath.Join(baseDir, "banners", "abc123"))
		assert.NoError(t, err)
	})

	t.Run("Download", func(t *testing.T) {
		reader, err := backend.Download(ctx, testKey)
		require.NoError(t, err)
		defer reader.Close()

		data, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, testData, string(data))
	})

	t.Run("URL strips trailing prefix slash", func(t *testing.T) {
		assert.Equal(t, "/uploads/banners/abc123", backend.URL(testKey))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, backend.Delete(ctx, testKey))

		_, err := backend.Download(ctx, testKey)
		assert.Error(t, err)
	})
}

func TestFSBackendRequiresBaseDir(t *testing.T) {
	_, err := fsstorage.New(fsstorage.Config{})
	assert.Error(t, err)
}
