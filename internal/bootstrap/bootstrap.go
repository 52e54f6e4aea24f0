package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/arunhegde/campusdesk/internal/app/controllers"
	"github.com/arunhegde/campusdesk/internal/app/models"
	appRoutes "github.com/arunhegde/campusdesk/internal/app/routes"
	appServices "github.com/arunhegde/campusdesk/internal/app/services"
	"github.com/arunhegde/campusdesk/internal/audit"
	"github.com/arunhegde/campusdesk/internal/config"
	"github.com/arunhegde/campusdesk/internal/db"
	appMiddleware "github.com/arunhegde/campusdesk/internal/middleware"
	pkgAuth "github.com/arunhegde/campusdesk/internal/pkg/auth"
	"github.com/arunhegde/campusdesk/internal/pkg/helpers"
	"github.com/arunhegde/campusdesk/internal/pkg/logger"
	"github.com/arunhegde/campusdesk/internal/seed"
	"github.com/arunhegde/campusdesk/internal/store"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store                store.Store
	Trail                *audit.Trail
	JWTService           *pkgAuth.JWTService
	AuthService          *appServices.AuthService
	UserService          *appServices.UserService
	SubjectService       *appServices.SubjectService
	EnrollmentService    *appServices.EnrollmentService
	RequestService       *appServices.RequestService
	LibraryService       *appServices.LibraryService
	AttendanceService    *appServices.AttendanceService
	AuthController       *appControllers.AuthController
	UserController       *appControllers.UserController
	SubjectController    *appControllers.SubjectController
	EnrollmentController *appControllers.EnrollmentController
	RequestController    *appControllers.RequestController
	LibraryController    *appControllers.LibraryController
	AttendanceController *appControllers.AttendanceController
	AuditController      *appControllers.AuditController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, prepares the record
// store schema, and seeds default accounts.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, store.Store, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	recordStore, err := store.NewPostgresStore(dbPool, models.Collections)
	if err != nil {
		dbPool.Close()
		return nil, nil, fmt.Errorf("failed to initialize record store: %w", err)
	}

	lgr.Info().Msg("Ensuring record store schema...")
	if err := recordStore.EnsureSchema(context.Background()); err != nil {
		lgr.Error().Err(err).Msg("Schema preparation error")
		dbPool.Close()
		return nil, nil, fmt.Errorf("schema preparation failed: %w", err)
	}
	lgr.Info().Msg("Record store schema ready.")

	if err := seed.CreateDefaultData(context.Background(), recordStore, lgr); err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, recordStore, nil
}

// BuildDependencies initializes application services and controllers.
func BuildDependencies(cfg *config.Config, recordStore store.Store, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Store: recordStore, Logger: lgr}

	deps.Trail = audit.NewTrail(recordStore, lgr)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(recordStore, deps.Trail, deps.JWTService, lgr)
	deps.UserService = appServices.NewUserService(recordStore)
	deps.SubjectService = appServices.NewSubjectService(recordStore, deps.Trail)
	deps.EnrollmentService = appServices.NewEnrollmentService(recordStore, deps.Trail)
	deps.RequestService = appServices.NewRequestService(recordStore, deps.Trail)
	deps.LibraryService = appServices.NewLibraryService(recordStore, deps.Trail)
	deps.AttendanceService = appServices.NewAttendanceService(recordStore)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.UserController = appControllers.NewUserController(deps.UserService)
	deps.SubjectController = appControllers.NewSubjectController(deps.SubjectService)
	deps.EnrollmentController = appControllers.NewEnrollmentController(deps.EnrollmentService)
	deps.RequestController = appControllers.NewRequestController(deps.RequestService)
	deps.LibraryController = appControllers.NewLibraryController(deps.LibraryService)
	deps.AttendanceController = appControllers.NewAttendanceController(deps.AttendanceService)
	deps.AuditController = appControllers.NewAuditController(deps.Trail)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	router.Use(appMiddleware.CORS(cfg.CORS.AllowedOrigin))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.SubjectController,
		deps.EnrollmentController,
		deps.RequestController,
		deps.LibraryController,
		deps.AttendanceController,
		deps.AuditController,
		deps.AuthMiddleware,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
