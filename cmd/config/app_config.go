package config

import (
	"Food-Inventory-Backend/internal/api/handlers"
	"Food-Inventory-Backend/internal/api/routes"
	"Food-Inventory-Backend/internal/metrics"
	"Food-Inventory-Backend/internal/middleware"
	"Food-Inventory-Backend/internal/utils"
	"Food-Inventory-Backend/internal/utils/mailing"
	"Food-Inventory-Backend/internal/utils/storage"
	"Food-Inventory-Backend/pkg/food"
	"Food-Inventory-Backend/pkg/jwt"
	"Food-Inventory-Backend/pkg/recipe"
	"Food-Inventory-Backend/pkg/user"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	logFile := utils.GetConfig("LOG_FILE")
	if err := os.MkdirAll(filepath.Dir(logFile), os.ModePerm); err != nil {
		return nil, fmt.Errorf("error creating logs directory: %w", err)
	}
	file, err := os.OpenFile(
		logFile,
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return nil, fmt.Errorf("error opening log file: %w", err)
	}
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        utils.GetConfigInt("RATE_LIMIT_MAX"),
		Expiration: 1 * time.Second,
	}))

	// metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	// utils
	s3, err := storage.NewAwsS3()
	if err != nil {
		log.Warnw("image storage disabled", "error", err)
	}
	mailer := mailing.NewMailer(mailing.LoadMailConfig())

	// Repository
	userRepository := user.NewUserRepository(db)
	foodRepository := food.NewFoodRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	foodService := food.NewFoodService(foodRepository, userRepository, s3, mailer, collector)
	userService := user.NewUserService(userRepository, jwtService, foodService, collector)
	recipeService := recipe.NewRecipeService(foodService, &http.Client{Timeout: 30 * time.Second}, recipe.LoadGeminiConfig())

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator, handlers.CookieConfig{
		Secure: utils.GetConfigBool("COOKIE_SECURE"),
		MaxAge: time.Duration(utils.GetConfigInt("JWT_EXPIRE_MINUTES")) * time.Minute,
	})
	foodHandler := handlers.NewFoodHandler(foodService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService)

	// routes
	routesConfig := routes.Config{
		App:            app,
		UserHandler:    userHandler,
		FoodHandler:    foodHandler,
		RecipeHandler:  recipeHandler,
		Middleware:     middlewares,
		JWTService:     jwtService,
		MetricsHandler: metrics.Handler(registry),
	}
	routesConfig.Setup()
	return app, nil
}
