package storage

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveReaderAndDelete(t *testing.T) {
	s := New(t.TempDir())

	rel, err := s.SaveReader(NamespaceHouses, "Front.JPG", strings.NewReader("jpeg bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "houses/"))
	assert.True(t, strings.HasSuffix(rel, ".jpg"))

	full, err := s.Path(rel)
	require.NoError(t, err)
	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))

	other, err := s.SaveReader(NamespaceHouses, "Front.JPG", strings.NewReader("x"))
	require.NoError(t, err)
	assert.NotEqual(t, rel, other)

	require.NoError(t, s.Delete(rel))
	_, err = os.Stat(full)
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, s.Delete(rel), "deleting twice is fine")
}

func TestPathRejectsTraversal(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.Path("../etc/passwd")
	assert.ErrorIs(t, err, ErrOutsideRoot)
}

func TestDerivedPath(t *testing.T) {
	assert.Equal(t, "house_images/a_thumb.webp", DerivedPath("house_images/a.jpg", "_thumb", ".webp"))
}
