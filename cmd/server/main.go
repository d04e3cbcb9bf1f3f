package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fadilmartias/atobs/internal/config"
	"github.com/fadilmartias/atobs/internal/domain/fiber/handler"
	"github.com/fadilmartias/atobs/internal/model"
	"github.com/fadilmartias/atobs/internal/repository"
	"github.com/fadilmartias/atobs/internal/service"
	"github.com/fadilmartias/atobs/internal/usecase"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()
	storageConfig := config.LoadStorageConfig()
	authConfig := config.LoadAuthConfig()

	app := fiber.New(handler.NewAppConfig(appConfig.Name, storageConfig))
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     appConfig.FrontendURL,
		AllowCredentials: true,
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !appConfig.IsProduction(),
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.IsProduction()
		},
	}))

	db := ConnectDB()

	app.Use(healthcheck.New(healthcheck.Config{
		ReadinessProbe: func(c *fiber.Ctx) bool {
			sqlDB, err := db.DB()
			return err == nil && sqlDB.PingContext(c.UserContext()) == nil
		},
	}))
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))

	storage := service.NewStorageService(storageConfig)
	if err := storage.Init(); err != nil {
		log.Fatalf("Could not prepare upload directory: %v", err)
	}

	store := repository.NewStore(db)
	audit := service.NewAuditService()
	tokens := service.NewTokenService(authConfig)

	users := usecase.NewUserUsecase(store, audit)
	if err := users.EnsureAdmin(context.Background(), appConfig.AdminEmail, appConfig.AdminPassword); err != nil {
		log.Fatalf("Could not create admin account: %v", err)
	}

	handler.RegisterRoutes(app, handler.Deps{
		Jobs:      usecase.NewJobUsecase(store, storage, audit),
		Intake:    usecase.NewIntakeUsecase(store, storage, audit),
		Pipeline:  usecase.NewPipelineUsecase(store, audit),
		Documents: usecase.NewDocumentUsecase(store, storage, audit),
		Analytics: usecase.NewAnalyticsUsecase(store),
		Auth:      usecase.NewAuthUsecase(store, tokens),
		Users:     users,
		Tokens:    tokens,
		AuthCfg:   authConfig,
		Storage:   storageConfig,
		Limits:    config.LoadRateLimitConfig(),
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	log.Println("Server running on ", appConfig.Port)
	if err := app.Listen(appConfig.Port); err != nil {
		log.Fatal(err)
	}
}

func ConnectDB() *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	gormConfig := &gorm.Config{TranslateError: true}
	if appConfig.IsProduction() {
		gormConfig.Logger = gormlogger.Default.LogMode(gormlogger.Warn)
	}

	var dialector gorm.Dialector
	switch dbConfig.Driver {
	case "sqlite":
		dialector = sqlite.Open(dbConfig.Path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			dbConfig.Host,
			dbConfig.User,
			dbConfig.Password,
			dbConfig.Name,
			dbConfig.Port,
			dbConfig.SSLMode,
		)
		dialector = postgres.Open(dsn)
	default:
		log.Fatalf("Unsupported DB_DRIVER %q", dbConfig.Driver)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Could not get database instance: %v", err)
	}
	switch {
	case dbConfig.Driver == "sqlite":
		sqlDB.SetMaxOpenConns(1)
	case !appConfig.IsProduction():
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	default:
		sqlDB.SetMaxIdleConns(20)
		sqlDB.SetMaxOpenConns(200)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	err = db.AutoMigrate(model.AllModels()...)
	if err != nil {
		log.Fatal("migration failed: ", err)
	}
	return db
}
