package handler

import (
	"github.com/fadilmartias/atobs/internal/dto"
	"github.com/fadilmartias/atobs/internal/middleware"
	"github.com/fadilmartias/atobs/internal/model"
	"github.com/fadilmartias/atobs/internal/usecase"
	"github.com/fadilmartias/atobs/internal/util"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	uc *usecase.UserUsecase
}

func NewUserHandler(uc *usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(ats fiber.Router) {
	r := ats.Group("/users")
	admin := middleware.RequireRole(model.RoleAdmin)

	r.Get("/recruiters", h.Recruiters)
	r.Get("/", admin, h.List)
	r.Post("/", admin, h.Create)
	r.Patch("/:id", admin, h.Update)
}

func toUserDTOs(users []model.User) []dto.UserDTO {
	out := make([]dto.UserDTO, len(users))
	for i := range users {
		out[i] = dto.NewUserDTO(&users[i])
	}
	return out
}

func (h *UserHandler) Recruiters(c *fiber.Ctx) error {
	users, err := h.uc.ListRecruiters(c.UserContext())
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get recruiters",
		Data:    toUserDTOs(users),
	})
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.uc.List(c.UserContext())
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get users",
		Data:    toUserDTOs(users),
	})
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	req, err := util.ParseAndValidate[dto.CreateUserRequest](c)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	user, err := h.uc.Create(c.UserContext(), actorFrom(c), req)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "User created",
		Data:    dto.NewUserDTO(user),
	})
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	req, err := util.ParseAndValidate[dto.UpdateUserRequest](c)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	user, err := h.uc.Update(c.UserContext(), actorFrom(c), id, req)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "User updated",
		Data:    dto.NewUserDTO(user),
	})
}
