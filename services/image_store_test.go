package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalStoreSaveAndRemove(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	err = store.Save(ctx, "uploads/recipe/test.jpg", "image/jpeg", strings.NewReader("jpeg bytes"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(store.Basedir(), "uploads", "recipe", "test.jpg"))
	require.NoError(t, err)
	require.Equal(t, "jpeg bytes", string(data))

	require.NoError(t, store.Remove(ctx, "uploads/recipe/test.jpg"))
	_, err = os.Stat(filepath.Join(store.Basedir(), "uploads", "recipe", "test.jpg"))
	require.True(t, os.IsNotExist(err))
}

func TestLocalStoreURL(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, "/media/uploads/recipe/a.png", store.URL("uploads/recipe/a.png"))

	svc := NewImageService(store, nil)
	require.Equal(t, "/media/uploads/recipe/a.png", svc.ImageURL("uploads/recipe/a.png"))
	require.Empty(t, svc.ImageURL(""))
}
