package handler

import (
	"fmt"
	"net/url"

	"github.com/fadilmartias/atobs/internal/middleware"
	"github.com/fadilmartias/atobs/internal/model"
	"github.com/fadilmartias/atobs/internal/service"
	"github.com/fadilmartias/atobs/internal/usecase"
	"github.com/fadilmartias/atobs/internal/util"
	"github.com/gofiber/fiber/v2"
)

type DocumentHandler struct {
	uc *usecase.DocumentUsecase
}

func NewDocumentHandler(uc *usecase.DocumentUsecase) *DocumentHandler {
	return &DocumentHandler{uc: uc}
}

func (h *DocumentHandler) RegisterRoutes(ats fiber.Router) {
	r := ats.Group("/documents")
	r.Get("/:id/download", h.Download)
	r.Delete("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleRecruiter), h.Delete)
}

// Download streams the file. fasthttp closes the reader once the body is
// written.
func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	doc, r, err := h.uc.Open(c.UserContext(), id)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}

	contentType := doc.MimeType
	if contentType == "" {
		contentType = service.DefaultMimeType
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(doc.OriginalFilename)))
	if doc.FileSizeBytes > 0 {
		return c.SendStream(r, int(doc.FileSizeBytes))
	}
	return c.SendStream(r)
}

func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	if err := h.uc.Delete(c.UserContext(), actorFrom(c), id); err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Document deleted"})
}
