package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"sort"

	"github.com/fadilmartias/atobs/internal/apperror"
	"github.com/fadilmartias/atobs/internal/config"
	"github.com/fadilmartias/atobs/internal/middleware"
	"github.com/fadilmartias/atobs/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func actorFrom(c *fiber.Ctx) usecase.Actor {
	actor := usecase.Actor{IP: c.IP()}
	if claims := middleware.Claims(c); claims != nil {
		actor.UserID = claims.UserID
		actor.Role = claims.Role
	}
	return actor
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperror.ValidationFields("Invalid id", map[string]string{name: "must be a valid UUID"})
	}
	return id, nil
}

func queryID(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperror.ValidationFields("Invalid "+name, map[string]string{name: "must be a valid UUID"})
	}
	return &id, nil
}

// checkBodySize rejects an upload whose declared length is over the app's
// body limit before any of its form is read. Streamed request bodies are not
// capped by the server itself.
func checkBodySize(c *fiber.Ctx) error {
	limit := c.App().Config().BodyLimit
	if limit > 0 && c.Request().Header.ContentLength() > limit {
		return fiber.ErrRequestEntityTooLarge
	}
	return nil
}

// fileUploads flattens the file parts of a multipart form, checking the
// per-file size and the file count against cfg. Parts come back ordered by
// field name.
func fileUploads(form *multipart.Form, cfg *config.StorageConfig) ([]usecase.FileUpload, error) {
	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var out []usecase.FileUpload
	for _, field := range fields {
		for _, fh := range form.File[field] {
			if cfg.MaxFileBytes > 0 && fh.Size > cfg.MaxFileBytes {
				return nil, apperror.ValidationFields(
					fmt.Sprintf("File %s exceeds the %d MB limit", fh.Filename, cfg.MaxFileBytes>>20),
					map[string]string{field: "file too large"},
				)
			}
			out = append(out, newFileUpload(field, fh))
		}
	}
	if cfg.MaxFiles > 0 && len(out) > cfg.MaxFiles {
		return nil, apperror.Validation(fmt.Sprintf("At most %d files may be uploaded", cfg.MaxFiles))
	}
	return out, nil
}

func newFileUpload(field string, fh *multipart.FileHeader) usecase.FileUpload {
	return usecase.FileUpload{
		Field:       field,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Open: func() (io.ReadSeekCloser, error) {
			f, err := fh.Open()
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	}
}
