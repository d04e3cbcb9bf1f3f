package handler

import (
	"github.com/fadilmartias/atobs/internal/apperror"
	"github.com/fadilmartias/atobs/internal/config"
	"github.com/fadilmartias/atobs/internal/dto"
	"github.com/fadilmartias/atobs/internal/middleware"
	"github.com/fadilmartias/atobs/internal/repository"
	"github.com/fadilmartias/atobs/internal/usecase"
	"github.com/fadilmartias/atobs/internal/util"
	"github.com/gofiber/fiber/v2"
)

// PublicHandler serves the job board and the application form. None of its
// routes require a token.
type PublicHandler struct {
	jobs    *usecase.JobUsecase
	intake  *usecase.IntakeUsecase
	storage *config.StorageConfig
	limits  *config.RateLimitConfig
}

func NewPublicHandler(jobs *usecase.JobUsecase, intake *usecase.IntakeUsecase, storage *config.StorageConfig, limits *config.RateLimitConfig) *PublicHandler {
	return &PublicHandler{jobs: jobs, intake: intake, storage: storage, limits: limits}
}

func (h *PublicHandler) RegisterRoutes(api fiber.Router) {
	api.Get("/jobs", h.ListJobs)
	api.Get("/jobs/:id", h.GetJob)
	api.Post("/jobs/:id/apply", middleware.RateLimiter("apply", h.limits.ApplyMax, h.limits.Window), h.Apply)
}

func (h *PublicHandler) ListJobs(c *fiber.Ctx) error {
	jobs, err := h.jobs.ListPublic(c.UserContext(), repository.PublicJobFilter{
		Location:  c.Query("location"),
		JobType:   c.Query("job_type"),
		Sponsored: c.Query("visa") == "sponsored",
		Search:    c.Query("search"),
	})
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get jobs",
		Data:    jobs,
	})
}

func (h *PublicHandler) GetJob(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, apperror.NotFound("Job not found"))
	}
	job, err := h.jobs.GetPublic(c.UserContext(), id)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get job",
		Data:    job,
	})
}

func (h *PublicHandler) Apply(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, apperror.NotFound("Job not found or no longer accepting applications"))
	}

	if err := checkBodySize(c); err != nil {
		return util.AppErrorResponse(c, err)
	}

	var form dto.ApplyForm
	if err := c.BodyParser(&form); err != nil {
		return util.AppErrorResponse(c, apperror.Validation("Invalid form data"))
	}

	var files []usecase.FileUpload
	if mf, err := c.MultipartForm(); err == nil {
		if files, err = fileUploads(mf, h.storage); err != nil {
			return util.AppErrorResponse(c, err)
		}
	}

	app, err := h.intake.Apply(c.UserContext(), c.IP(), id, form, files)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Application submitted successfully",
		Data:    fiber.Map{"application_id": app.ID},
	})
}
