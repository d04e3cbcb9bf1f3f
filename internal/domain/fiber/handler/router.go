package handler

import (
	"github.com/fadilmartias/atobs/internal/config"
	"github.com/fadilmartias/atobs/internal/middleware"
	"github.com/fadilmartias/atobs/internal/service"
	"github.com/fadilmartias/atobs/internal/usecase"
	"github.com/fadilmartias/atobs/internal/util"
	"github.com/gofiber/fiber/v2"
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	Jobs      *usecase.JobUsecase
	Intake    *usecase.IntakeUsecase
	Pipeline  *usecase.PipelineUsecase
	Documents *usecase.DocumentUsecase
	Analytics *usecase.AnalyticsUsecase
	Auth      *usecase.AuthUsecase
	Users     *usecase.UserUsecase
	Tokens    service.TokenServiceInterface
	AuthCfg   *config.AuthConfig
	Storage   *config.StorageConfig

	// Limits defaults to config.DefaultRateLimitConfig when nil.
	Limits *config.RateLimitConfig
}

// NewAppConfig is the Fiber configuration the API runs with. Request bodies
// are streamed: multipart forms are parsed from the connection and any file
// part over 8 KiB is spooled to a temp file instead of being held in memory.
// BodyLimit leaves room for the maximum number of files plus the text fields.
func NewAppConfig(name string, storage *config.StorageConfig) fiber.Config {
	return fiber.Config{
		AppName:                      name,
		BodyLimit:                    int(storage.MaxFileBytes)*storage.MaxFiles + 1<<20,
		StreamRequestBody:            true,
		DisablePreParseMultipartForm: true,
		ErrorHandler:                 util.AppErrorResponse,
	}
}

// RegisterRoutes mounts the public, auth and ATS routes under /api.
func RegisterRoutes(app *fiber.App, d Deps) {
	api := app.Group("/api")
	auth := middleware.Authenticate(d.Tokens)
	limits := d.Limits
	if limits == nil {
		limits = config.DefaultRateLimitConfig()
	}

	NewPublicHandler(d.Jobs, d.Intake, d.Storage, limits).RegisterRoutes(api)
	NewAuthHandler(d.Auth, d.AuthCfg, limits).RegisterRoutes(api, auth)

	ats := api.Group("/ats", auth)
	NewJobHandler(d.Jobs).RegisterRoutes(ats)
	NewApplicationHandler(d.Pipeline, d.Documents, d.Storage).RegisterRoutes(ats)
	NewDocumentHandler(d.Documents).RegisterRoutes(ats)
	NewAnalyticsHandler(d.Analytics).RegisterRoutes(ats)
	NewUserHandler(d.Users).RegisterRoutes(ats)
}
