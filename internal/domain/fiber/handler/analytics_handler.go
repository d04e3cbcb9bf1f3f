package handler

import (
	"github.com/fadilmartias/atobs/internal/usecase"
	"github.com/fadilmartias/atobs/internal/util"
	"github.com/gofiber/fiber/v2"
)

type AnalyticsHandler struct {
	uc *usecase.AnalyticsUsecase
}

func NewAnalyticsHandler(uc *usecase.AnalyticsUsecase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

func (h *AnalyticsHandler) RegisterRoutes(ats fiber.Router) {
	r := ats.Group("/analytics")
	r.Get("/overview", h.Overview)
	r.Get("/jobs/:id", h.Job)
	r.Get("/recruiters/:id", h.Recruiter)
}

func (h *AnalyticsHandler) Overview(c *fiber.Ctx) error {
	out, err := h.uc.Overview(c.UserContext())
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get overview",
		Data:    out,
	})
}

func (h *AnalyticsHandler) Job(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	out, err := h.uc.Job(c.UserContext(), id)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get job analytics",
		Data:    out,
	})
}

func (h *AnalyticsHandler) Recruiter(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	out, err := h.uc.Recruiter(c.UserContext(), id)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get recruiter analytics",
		Data:    out,
	})
}
