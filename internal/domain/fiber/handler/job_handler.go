package handler

import (
	"github.com/fadilmartias/atobs/internal/dto"
	"github.com/fadilmartias/atobs/internal/middleware"
	"github.com/fadilmartias/atobs/internal/model"
	"github.com/fadilmartias/atobs/internal/repository"
	"github.com/fadilmartias/atobs/internal/usecase"
	"github.com/fadilmartias/atobs/internal/util"
	"github.com/gofiber/fiber/v2"
)

type JobHandler struct {
	uc *usecase.JobUsecase
}

func NewJobHandler(uc *usecase.JobUsecase) *JobHandler {
	return &JobHandler{uc: uc}
}

func (h *JobHandler) RegisterRoutes(ats fiber.Router) {
	r := ats.Group("/jobs")
	staff := middleware.RequireRole(middleware.Staff...)

	r.Get("/", h.List)
	r.Post("/", staff, h.Create)
	r.Get("/:id", h.Get)
	r.Put("/:id", staff, h.Update)
	r.Patch("/:id/status", staff, h.ChangeStatus)
	r.Delete("/:id", middleware.RequireRole(model.RoleAdmin), h.Delete)
}

func (h *JobHandler) List(c *fiber.Ctx) error {
	recruiterID, err := queryID(c, "recruiter_id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	jobs, err := h.uc.List(c.UserContext(), repository.JobFilter{
		Status:      c.Query("status"),
		Search:      c.Query("search"),
		RecruiterID: recruiterID,
	})
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get jobs",
		Data:    jobs,
	})
}

func (h *JobHandler) Create(c *fiber.Ctx) error {
	req, err := util.ParseAndValidate[dto.JobRequest](c)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	job, err := h.uc.Create(c.UserContext(), actorFrom(c), req)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Job created",
		Data:    job,
	})
}

func (h *JobHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	detail, err := h.uc.Get(c.UserContext(), id, usecase.JobDetailFilter{
		Tab:   c.Query("tab"),
		Stage: c.Query("stage"),
	})
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get job",
		Data:    detail,
	})
}

func (h *JobHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	req, err := util.ParseAndValidate[dto.JobRequest](c)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	job, err := h.uc.Update(c.UserContext(), actorFrom(c), id, req)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Job updated",
		Data:    job,
	})
}

func (h *JobHandler) ChangeStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	req, err := util.ParseAndValidate[dto.JobStatusRequest](c)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	job, err := h.uc.ChangeStatus(c.UserContext(), actorFrom(c), id, req.Status)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Job status updated",
		Data:    job,
	})
}

func (h *JobHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	if err := h.uc.Delete(c.UserContext(), actorFrom(c), id); err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Job deleted"})
}
