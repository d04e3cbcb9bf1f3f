package usecase

import (
	"bytes"
	"io"
	"testing"

	"github.com/fadilmartias/atobs/internal/config"
	"github.com/fadilmartias/atobs/internal/model"
	"github.com/fadilmartias/atobs/internal/repository"
	"github.com/fadilmartias/atobs/internal/service"
	"github.com/fadilmartias/atobs/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
	pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")
	elfBytes = []byte("\x7fELF\x02\x01\x01\x00\x00\x00\x00\x00\x00\x00\x00\x00\x02\x00\x3e\x00")
)

type fixture struct {
	db      *gorm.DB
	store   *repository.Store
	storage *service.StorageService
	audit   *service.AuditService
	dir     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	dir := t.TempDir()
	storage := service.NewStorageService(&config.StorageConfig{UploadDir: dir, MaxFileBytes: 10 << 20, MaxFiles: 5})
	require.NoError(t, storage.Init())

	return &fixture{
		db:      db,
		store:   repository.NewStore(db),
		storage: storage,
		audit:   service.NewAuditService(),
		dir:     dir,
	}
}

func (f *fixture) actor(t *testing.T, role model.Role) (Actor, *model.User) {
	t.Helper()
	u := testutil.CreateUser(t, f.db, role)
	return Actor{UserID: u.ID, Role: u.Role, IP: "10.0.0.1"}, u
}

type memFile struct{ *bytes.Reader }

func (memFile) Close() error { return nil }

func upload(field, name, contentType string, content []byte) FileUpload {
	return FileUpload{
		Field:       field,
		Filename:    name,
		ContentType: contentType,
		Open: func() (io.ReadSeekCloser, error) {
			return memFile{bytes.NewReader(content)}, nil
		},
	}
}

// fakeExtractor records the paths it was asked about.
type fakeExtractor struct {
	text  string
	paths []string
}

func (e *fakeExtractor) extract(path string) (string, error) {
	e.paths = append(e.paths, path)
	return e.text, nil
}
