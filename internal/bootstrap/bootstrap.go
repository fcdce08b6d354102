package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/opencourse/discovery/docs" // Import generated swagger docs
	appControllers "github.com/opencourse/discovery/internal/app/controllers"
	appMigrations "github.com/opencourse/discovery/internal/app/migrations"
	appRepos "github.com/opencourse/discovery/internal/app/repositories"
	appRoutes "github.com/opencourse/discovery/internal/app/routes"
	appServices "github.com/opencourse/discovery/internal/app/services"
	"github.com/opencourse/discovery/internal/app/signals"
	"github.com/opencourse/discovery/internal/config"
	"github.com/opencourse/discovery/internal/db"
	appMiddleware "github.com/opencourse/discovery/internal/middleware"
	pkgAuth "github.com/opencourse/discovery/internal/pkg/auth"
	"github.com/opencourse/discovery/internal/pkg/cache"
	"github.com/opencourse/discovery/internal/pkg/commerce"
	"github.com/opencourse/discovery/internal/pkg/helpers"
	"github.com/opencourse/discovery/internal/pkg/logger"
	"github.com/opencourse/discovery/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos                *appRepos.Repositories
	Dispatcher           *signals.Dispatcher
	APICache             *cache.APICache
	CommerceClient       *commerce.Client
	JWTService           *pkgAuth.JWTService
	PartnerService       *appServices.PartnerService
	CourseService        *appServices.CourseService
	SeatService          *appServices.SeatService
	ProgramService       *appServices.ProgramService
	CurriculumService    *appServices.CurriculumService
	WaffleService        *appServices.WaffleService
	PartnerController    *appControllers.PartnerController
	CourseController     *appControllers.CourseController
	CourseRunController  *appControllers.CourseRunController
	ProgramController    *appControllers.ProgramController
	CurriculumController *appControllers.CurriculumController
	SwitchController     *appControllers.SwitchController
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

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	dbPool, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Log the error but don't necessarily fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// SetupRedis connects to Redis.
func SetupRedis(cfg *config.Config, lgr zerolog.Logger) (*redis.Client, error) {
	lgr.Info().Str("addr", cfg.GetRedisAddr()).Msg("Connecting to Redis...")
	client, err := db.NewRedisClient(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to Redis")
		return nil, err
	}
	lgr.Info().Msg("Redis connection successfully established.")
	return client, nil
}

// BuildDependencies initializes repositories, signal handlers, services and
// controllers, and wires the mutation signals to their consumers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, redisClient *redis.Client, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Dispatcher = signals.NewDispatcher()
	deps.Repos = appRepos.NewRepositories(dbPool, deps.Dispatcher)

	deps.APICache = cache.NewAPICache(redisClient,
		helpers.ParseDuration(cfg.APICache.ResponseTTL, 10*time.Minute))

	deps.CommerceClient = commerce.NewClient(commerce.Config{
		TokenURL:     cfg.Commerce.TokenURL,
		ClientID:     cfg.Commerce.ClientID,
		ClientSecret: cfg.Commerce.ClientSecret,
		Timeout:      helpers.ParseDuration(cfg.Commerce.Timeout, 10*time.Second),
	})

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.WaffleService = appServices.NewWaffleService(
		deps.Repos.SwitchRepository,
		redisClient,
		helpers.ParseDuration(cfg.APICache.SwitchTTL, 30*time.Second),
	)

	deps.PartnerService = appServices.NewPartnerService(deps.Repos.PartnerRepository)
	deps.CourseService = appServices.NewCourseService(
		deps.Repos.CourseRepository,
		deps.Repos.CourseRunRepository,
		deps.Repos.PartnerRepository,
	)
	deps.SeatService = appServices.NewSeatService(deps.Repos.SeatRepository, deps.Repos.CourseRunRepository)
	deps.ProgramService = appServices.NewProgramService(
		deps.Repos.ProgramRepository,
		deps.Repos.ProgramTypeRepository,
		deps.Repos.PartnerRepository,
	)
	deps.CurriculumService = appServices.NewCurriculumService(
		deps.Repos.CurriculumRepository,
		deps.Repos.ProgramRepository,
		deps.Repos.CourseRepository,
	)

	// Wire the mutation signals: cache invalidation on every catalog write,
	// masters seat provisioning on curriculum membership, commerce push on
	// masters seat creation.
	signals.RegisterCacheInvalidation(deps.Dispatcher, deps.APICache)
	signals.NewMastersSeatHandler(
		deps.WaffleService,
		deps.Repos.CurriculumRepository,
		deps.Repos.CourseRunRepository,
		deps.Repos.SeatRepository,
	).Register(deps.Dispatcher)
	signals.NewCommerceSyncHandler(
		deps.WaffleService,
		deps.Repos.CourseRunRepository,
		deps.Repos.SeatRepository,
		deps.CommerceClient,
	).Register(deps.Dispatcher)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.PartnerController = appControllers.NewPartnerController(deps.PartnerService)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService)
	deps.CourseRunController = appControllers.NewCourseRunController(deps.CourseService, deps.SeatService)
	deps.ProgramController = appControllers.NewProgramController(deps.ProgramService)
	deps.CurriculumController = appControllers.NewCurriculumController(deps.CurriculumService)
	deps.SwitchController = appControllers.NewSwitchController(deps.WaffleService)

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

	// Setup Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	appRoutes.SetupRouter(router,
		deps.PartnerController,
		deps.CourseController,
		deps.CourseRunController,
		deps.ProgramController,
		deps.CurriculumController,
		deps.SwitchController,
		deps.AuthMiddleware,
		deps.APICache,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
