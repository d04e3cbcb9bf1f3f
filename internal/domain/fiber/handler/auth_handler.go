package handler

import (
	"time"

	"github.com/fadilmartias/atobs/internal/config"
	"github.com/fadilmartias/atobs/internal/dto"
	"github.com/fadilmartias/atobs/internal/middleware"
	"github.com/fadilmartias/atobs/internal/usecase"
	"github.com/fadilmartias/atobs/internal/util"
	"github.com/gofiber/fiber/v2"
)

const (
	refreshCookie     = "refresh_token"
	refreshCookiePath = "/api/auth"
)

type AuthHandler struct {
	uc     *usecase.AuthUsecase
	cfg    *config.AuthConfig
	limits *config.RateLimitConfig
}

func NewAuthHandler(uc *usecase.AuthUsecase, cfg *config.AuthConfig, limits *config.RateLimitConfig) *AuthHandler {
	return &AuthHandler{uc: uc, cfg: cfg, limits: limits}
}

func (h *AuthHandler) RegisterRoutes(api fiber.Router, auth fiber.Handler) {
	r := api.Group("/auth")
	r.Post("/login", middleware.RateLimiter("login", h.limits.LoginMax, h.limits.Window), h.Login)
	r.Post("/refresh", h.Refresh)
	r.Post("/logout", h.Logout)
	r.Get("/me", auth, h.Me)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	req, err := util.ParseAndValidate[dto.LoginRequest](c)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}

	session, err := h.uc.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    session.RefreshToken,
		Path:     refreshCookiePath,
		MaxAge:   int(h.cfg.RefreshTTL / time.Second),
		HTTPOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Login successful",
		Data: dto.LoginResponse{
			AccessToken: session.AccessToken,
			User:        dto.NewUserDTO(session.User),
		},
	})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token, err := h.uc.Refresh(c.UserContext(), c.Cookies(refreshCookie))
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Token refreshed",
		Data:    dto.RefreshResponse{AccessToken: token},
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    "",
		Path:     refreshCookiePath,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
	return util.SuccessResponse(c, util.SuccessResponseFormat{Message: "Logged out"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.uc.Me(c.UserContext(), actorFrom(c).UserID)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get profile",
		Data:    dto.NewUserDTO(user),
	})
}
