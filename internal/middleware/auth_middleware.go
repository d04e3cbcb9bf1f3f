package middleware

import (
	"slices"
	"strings"

	"github.com/fadilmartias/atobs/internal/apperror"
	"github.com/fadilmartias/atobs/internal/model"
	"github.com/fadilmartias/atobs/internal/service"
	"github.com/fadilmartias/atobs/internal/util"
	"github.com/gofiber/fiber/v2"
)

const claimsKey = "auth_claims"

// Staff is every role allowed to change pipeline data.
var Staff = []model.Role{model.RoleAdmin, model.RoleRecruiter, model.RoleHiringManager}

// Authenticate requires a valid bearer access token and stores its claims
// on the request.
func Authenticate(tokens service.TokenServiceInterface) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return util.AppErrorResponse(c, apperror.Unauthenticated("Missing bearer token"))
		}
		claims, err := tokens.VerifyAccess(strings.TrimSpace(token))
		if err != nil {
			return util.AppErrorResponse(c, apperror.Unauthenticated("Invalid or expired token"))
		}
		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// RequireRole must run after Authenticate.
func RequireRole(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil {
			return util.AppErrorResponse(c, apperror.Unauthenticated("Authentication required"))
		}
		if !slices.Contains(roles, claims.Role) {
			return util.AppErrorResponse(c, apperror.Forbidden("Insufficient permissions"))
		}
		return c.Next()
	}
}

// Claims returns the caller's token claims, or nil on public routes.
func Claims(c *fiber.Ctx) *service.AccessClaims {
	claims, _ := c.Locals(claimsKey).(*service.AccessClaims)
	return claims
}
