package service

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fadilmartias/atobs/internal/apperror"
	"github.com/fadilmartias/atobs/internal/config"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	DefaultExtension = ".bin"
	DefaultMimeType  = "application/octet-stream"
)

var allowedMimeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

type StorageServiceInterface interface {
	ValidateType(mimeType string) bool
	DetectType(declared string, r io.ReadSeeker) (string, error)
	Save(r io.Reader, originalFilename, mimeType string, candidateID uuid.UUID) (*StoredFile, error)
	Retrieve(storagePath string) (io.ReadCloser, error)
	Delete(storagePath string) error
	DeleteAll(storagePaths []string)
}

// StoredFile describes a file written by Save.
type StoredFile struct {
	StoragePath string
	SizeBytes   int64
	MimeType    string
}

// StorageService keeps uploads on local disk, one directory per candidate.
type StorageService struct {
	root string
}

func NewStorageService(cfg *config.StorageConfig) *StorageService {
	return &StorageService{root: cfg.UploadDir}
}

// Init makes sure the upload root exists.
func (s *StorageService) Init() error {
	return os.MkdirAll(s.root, 0o755)
}

// NormalizeMimeType lower-cases a content type and drops its parameters.
func NormalizeMimeType(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

func (s *StorageService) ValidateType(mimeType string) bool {
	return allowedMimeTypes[NormalizeMimeType(mimeType)]
}

// DetectType returns the declared type unless it is missing or generic, in
// which case the type is sniffed from the content. r is rewound afterwards.
func (s *StorageService) DetectType(declared string, r io.ReadSeeker) (string, error) {
	declared = NormalizeMimeType(declared)
	if declared != "" && declared != DefaultMimeType {
		return declared, nil
	}
	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return "", fmt.Errorf("detect mime type: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}
	return NormalizeMimeType(mt.String()), nil
}

func (s *StorageService) Save(r io.Reader, originalFilename, mimeType string, candidateID uuid.UUID) (*StoredFile, error) {
	dir := filepath.Join(s.root, candidateID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create candidate dir: %w", err)
	}

	ext := filepath.Ext(filepath.Base(filepath.FromSlash(originalFilename)))
	if ext == "" || ext == "." {
		ext = DefaultExtension
	}
	fullPath := filepath.Join(dir, uuid.NewString()+ext)

	f, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}

	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(fullPath)
		return nil, fmt.Errorf("write file: %w", err)
	}

	return &StoredFile{
		StoragePath: filepath.ToSlash(fullPath),
		SizeBytes:   size,
		MimeType:    NormalizeMimeType(mimeType),
	}, nil
}

func (s *StorageService) Retrieve(storagePath string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.FromSlash(storagePath))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperror.NotFound("File not found on storage")
	}
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

// Delete removes the file. A file that is already gone is not an error.
func (s *StorageService) Delete(storagePath string) error {
	err := os.Remove(filepath.FromSlash(storagePath))
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("delete file: %w", err)
}

// DeleteAll removes each path, logging failures instead of stopping.
func (s *StorageService) DeleteAll(storagePaths []string) {
	for _, p := range storagePaths {
		if err := s.Delete(p); err != nil {
			log.Printf("[storage] cleanup of %s failed: %v", p, err)
		}
	}
}
