package storage

import (
	"errors"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveOpenDelete(t *testing.T) {
	files, err := NewLocalStorage(t.TempDir(), "/media/")
	require.NoError(t, err)

	name, err := files.Save("gallery/sports-day.webp", []byte("image"))
	require.NoError(t, err)
	assert.Equal(t, "/media/gallery/sports-day.webp", files.PublicURL(name))

	f, err := files.Open(name)
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, f.Close())
	require.NoError(t, err)
	assert.Equal(t, "image", string(data))

	require.NoError(t, files.Delete(name))
	require.NoError(t, files.Delete(name))
	_, err = files.Open(name)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLocalStorageRejectsEscapingNames(t *testing.T) {
	files, err := NewLocalStorage(t.TempDir(), "/media")
	require.NoError(t, err)

	for _, name := range []string{"../secret.txt", "news/../../secret.txt", "", "/"} {
		_, err := files.Save(name, []byte("x"))
		assert.ErrorIs(t, err, ErrInvalidPath, name)
	}
}
