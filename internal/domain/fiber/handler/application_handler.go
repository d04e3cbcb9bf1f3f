package handler

import (
	"strconv"

	"github.com/fadilmartias/atobs/internal/apperror"
	"github.com/fadilmartias/atobs/internal/config"
	"github.com/fadilmartias/atobs/internal/dto"
	"github.com/fadilmartias/atobs/internal/middleware"
	"github.com/fadilmartias/atobs/internal/model"
	"github.com/fadilmartias/atobs/internal/repository"
	"github.com/fadilmartias/atobs/internal/usecase"
	"github.com/fadilmartias/atobs/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ApplicationHandler struct {
	pipeline  *usecase.PipelineUsecase
	documents *usecase.DocumentUsecase
	storage   *config.StorageConfig
}

func NewApplicationHandler(pipeline *usecase.PipelineUsecase, documents *usecase.DocumentUsecase, storage *config.StorageConfig) *ApplicationHandler {
	return &ApplicationHandler{pipeline: pipeline, documents: documents, storage: storage}
}

func (h *ApplicationHandler) RegisterRoutes(ats fiber.Router) {
	r := ats.Group("/applications")
	staff := middleware.RequireRole(middleware.Staff...)

	r.Get("/", h.List)
	r.Get("/:id", h.Get)
	r.Get("/:id/history", h.History)
	r.Patch("/:id/stage", staff, h.ChangeStage)
	r.Patch("/:id/reject", staff, h.Reject)
	r.Patch("/:id/assign", staff, h.Assign)
	r.Patch("/:id/process", staff, h.MarkProcessed)

	r.Get("/:id/notes", h.ListNotes)
	r.Post("/:id/notes", staff, h.AddNote)

	r.Post("/:id/documents", staff, h.UploadDocument)
}

func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	f := repository.ApplicationFilter{
		Stage:      model.Stage(c.Query("stage")),
		VisaStatus: c.Query("visa_status"),
		Search:     c.Query("search"),
		Page:       c.QueryInt("page", 1),
		Limit:      c.QueryInt("limit", 20),
	}
	var err error
	if f.RecruiterID, err = queryID(c, "recruiter_id"); err != nil {
		return util.AppErrorResponse(c, err)
	}
	if f.JobID, err = queryID(c, "job_id"); err != nil {
		return util.AppErrorResponse(c, err)
	}
	if raw := c.Query("is_processed"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return util.AppErrorResponse(c, apperror.ValidationFields("Invalid is_processed", map[string]string{"is_processed": "must be true or false"}))
		}
		f.IsProcessed = &v
	}

	items, pagination, err := h.pipeline.List(c.UserContext(), f)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get applications",
		Data:       items,
		Pagination: pagination,
	})
}

func (h *ApplicationHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	detail, err := h.pipeline.Get(c.UserContext(), id)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get application",
		Data:    detail,
	})
}

func (h *ApplicationHandler) History(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	history, err := h.pipeline.History(c.UserContext(), id)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get stage history",
		Data:    history,
	})
}

func (h *ApplicationHandler) ChangeStage(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	req, err := util.ParseAndValidate[dto.ChangeStageRequest](c)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	app, err := h.pipeline.ChangeStage(c.UserContext(), actorFrom(c), id, usecase.ChangeStageInput{
		Stage:           req.Stage,
		NoteContent:     req.NoteContent,
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Stage updated",
		Data:    app,
	})
}

func (h *ApplicationHandler) Reject(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	req, err := util.ParseAndValidate[dto.RejectRequest](c)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	app, err := h.pipeline.Reject(c.UserContext(), actorFrom(c), id, req.Reason, req.NoteContent)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Application rejected",
		Data:    app,
	})
}

func (h *ApplicationHandler) Assign(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	req, err := util.ParseAndValidate[dto.AssignRequest](c)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	var recruiterID *uuid.UUID
	if req.RecruiterID != nil && *req.RecruiterID != "" {
		rid := uuid.MustParse(*req.RecruiterID)
		recruiterID = &rid
	}
	app, err := h.pipeline.AssignRecruiter(c.UserContext(), actorFrom(c), id, recruiterID)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Recruiter assigned",
		Data:    app,
	})
}

func (h *ApplicationHandler) MarkProcessed(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	app, err := h.pipeline.MarkProcessed(c.UserContext(), actorFrom(c), id)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Application marked as processed",
		Data:    app,
	})
}

func (h *ApplicationHandler) ListNotes(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	notes, err := h.pipeline.ListNotes(c.UserContext(), id)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get notes",
		Data:    notes,
	})
}

func (h *ApplicationHandler) AddNote(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	req, err := util.ParseAndValidate[dto.NoteRequest](c)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	note, err := h.pipeline.AddNote(c.UserContext(), actorFrom(c), id, req.Content)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Note added",
		Data:    note,
	})
}

func (h *ApplicationHandler) UploadDocument(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	if err := checkBodySize(c); err != nil {
		return util.AppErrorResponse(c, err)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return util.AppErrorResponse(c, apperror.ValidationFields("No file uploaded", map[string]string{"file": "is required"}))
	}
	if h.storage.MaxFileBytes > 0 && fh.Size > h.storage.MaxFileBytes {
		return util.AppErrorResponse(c, apperror.ValidationFields("File too large", map[string]string{"file": "file too large"}))
	}

	doc, err := h.documents.Upload(c.UserContext(), actorFrom(c), id, c.FormValue("doc_type"), newFileUpload("file", fh))
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Document uploaded",
		Data:    doc,
	})
}
