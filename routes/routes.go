package routes

import (
	"HealthFirst/cache"
	"HealthFirst/config"
	"HealthFirst/controllers"
	"HealthFirst/database"
	"HealthFirst/handlers"
	"HealthFirst/middlewares"
	"HealthFirst/repositories"
	"HealthFirst/services"
	"HealthFirst/utils"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// APIPrefix is the base path of every versioned route.
const APIPrefix = "/api/v1"

// Dependencies are the external resources the router is built on. Redis is
// optional: a nil client disables caching, locking and password resets.
type Dependencies struct {
	Config *config.AppConfig
	DB     *gorm.DB
	Redis  *redis.Client
	Mailer utils.Mailer
}

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(deps Dependencies) (http.Handler, error) {
	cfg := deps.Config
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.LoggingMiddleware())
	router.Use(middlewares.CorsMiddleware(middlewares.DefaultCorsConfig(cfg.AllowedOrigins)))
	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
	}))

	tokens := utils.NewTokenIssuer(cfg.JWTSecret)
	router.Use(middlewares.TokenClaimsMiddleware(tokens))

	verifier, err := utils.NewVerificationTokenMaker(cfg.SymmetricKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create verification token maker: %w", err)
	}

	appCache := cache.New(deps.Redis)
	accountDeps := services.AccountDependencies{
		Locker:     database.NewRedisLocker(deps.Redis),
		Tokens:     tokens,
		Verifier:   verifier,
		Mailer:     deps.Mailer,
		ResetCodes: utils.NewResetCodeStore(appCache),
		PublicURL:  cfg.PublicURL,
	}

	// Initialize repositories, services, and handlers
	patientRepo := repositories.NewPatientRepository(deps.DB)
	providerRepo := repositories.NewProviderRepository(deps.DB)
	appointmentRepo := repositories.NewAppointmentRepository(deps.DB, appCache)
	availabilityRepo := repositories.NewAvailabilityRepository(deps.DB, appCache)

	patientHandler := handlers.NewPatientHandler(services.NewPatientService(patientRepo, accountDeps))
	providerHandler := handlers.NewProviderHandler(services.NewProviderService(providerRepo, accountDeps))
	appointmentHandler := handlers.NewAppointmentHandler(services.NewAppointmentService(appointmentRepo, patientRepo, providerRepo, nil))
	availabilityHandler := handlers.NewAvailabilityHandler(services.NewAvailabilityService(availabilityRepo, providerRepo))

	// Register routes
	api := router.Group(APIPrefix)
	controllers.NewPatientController(patientHandler).RegisterRoutes(api)
	controllers.NewProviderController(providerHandler, availabilityHandler).RegisterRoutes(api)
	controllers.SetupAppointmentRoutes(api, appointmentHandler)
	controllers.SetupRootRoute(router)

	return router, nil
}
