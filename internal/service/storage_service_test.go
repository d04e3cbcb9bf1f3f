package service

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fadilmartias/atobs/internal/apperror"
	"github.com/fadilmartias/atobs/internal/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStorage(t *testing.T) (*StorageService, string) {
	t.Helper()
	dir := t.TempDir()
	s := NewStorageService(&config.StorageConfig{UploadDir: dir})
	require.NoError(t, s.Init())
	return s, dir
}

func TestValidateType(t *testing.T) {
	s, _ := newStorage(t)

	for _, ok := range []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"image/jpeg",
		"image/jpg",
		"IMAGE/PNG",
		"application/pdf; charset=binary",
	} {
		assert.True(t, s.ValidateType(ok), ok)
	}
	for _, bad := range []string{"", "application/x-executable", "text/html", "application/zip", "image/gif"} {
		assert.False(t, s.ValidateType(bad), bad)
	}
}

func TestDetectTypeSniffsGenericUploads(t *testing.T) {
	s, _ := newStorage(t)
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

	r := bytes.NewReader(png)
	got, err := s.DetectType(DefaultMimeType, r)
	require.NoError(t, err)
	assert.Equal(t, "image/png", got)

	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, png, rest, "reader is rewound after sniffing")

	got, err = s.DetectType("application/PDF", bytes.NewReader(png))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", got, "a specific declared type is trusted")
}

func TestSaveRetrieveRoundTrip(t *testing.T) {
	s, dir := newStorage(t)
	candidateID := uuid.New()
	content := strings.Repeat("resume ", 1000)

	stored, err := s.Save(strings.NewReader(content), `C:\Users\ravi\My CV.PDF`, "application/pdf", candidateID)
	require.NoError(t, err)
	assert.EqualValues(t, len(content), stored.SizeBytes)
	assert.Equal(t, "application/pdf", stored.MimeType)
	assert.NotContains(t, stored.StoragePath, `\`)
	assert.Equal(t, filepath.Join(dir, candidateID.String()), filepath.Dir(filepath.FromSlash(stored.StoragePath)))

	r, err := s.Retrieve(stored.StoragePath)
	require.NoError(t, err)
	defer r.Close()
	body, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, content, string(body))
}

func TestSaveDefaultsExtension(t *testing.T) {
	s, _ := newStorage(t)

	stored, err := s.Save(strings.NewReader("x"), "scan", "image/png", uuid.New())
	require.NoError(t, err)
	assert.Equal(t, DefaultExtension, filepath.Ext(stored.StoragePath))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestSaveRemovesPartialFile(t *testing.T) {
	s, dir := newStorage(t)
	candidateID := uuid.New()

	_, err := s.Save(io.MultiReader(strings.NewReader("partial"), failingReader{}), "cv.pdf", "application/pdf", candidateID)
	require.Error(t, err)

	entries, err := os.ReadDir(filepath.Join(dir, candidateID.String()))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRetrieveMissingIsNotFound(t *testing.T) {
	s, dir := newStorage(t)

	_, err := s.Retrieve(filepath.ToSlash(filepath.Join(dir, "nope.pdf")))
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestDeleteIsIdempotent(t *testing.T) {
	s, _ := newStorage(t)

	stored, err := s.Save(strings.NewReader("x"), "a.pdf", "application/pdf", uuid.New())
	require.NoError(t, err)

	require.NoError(t, s.Delete(stored.StoragePath))
	require.NoError(t, s.Delete(stored.StoragePath))
	assert.NoFileExists(t, filepath.FromSlash(stored.StoragePath))
}
