package config

import (
	"Health-Tracker-Backend/internal/api/handlers"
	"Health-Tracker-Backend/internal/api/routes"
	"Health-Tracker-Backend/internal/middleware"
	"Health-Tracker-Backend/internal/utils"
	"Health-Tracker-Backend/internal/utils/storage"
	"Health-Tracker-Backend/pkg/dailylog"
	"Health-Tracker-Backend/pkg/estimator"
	"Health-Tracker-Backend/pkg/jwt"
	"context"
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	location, err := time.LoadLocation(utils.GetConfigOr("APP_TIMEZONE", "Asia/Jakarta"))
	if err != nil {
		return nil, err
	}

	// setting up logging and limiter
	file, err := openLogFile()
	if err != nil {
		return nil, err
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   location.String(),
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// estimator, picked once for the whole process
	macroEstimator, err := estimator.New(estimator.Config{
		Kind:              utils.GetConfig("MACRO_ESTIMATOR"),
		NutritionixURL:    utils.GetConfig("NUTRITIONIX_URL"),
		NutritionixAppID:  utils.GetConfig("NUTRITIONIX_APP_ID"),
		NutritionixAppKey: utils.GetConfig("NUTRITIONIX_APP_KEY"),
		GeminiURL:         utils.GetConfig("GEMINI_URL"),
		GeminiAPIKey:      utils.GetConfig("GEMINI_API_KEY"),
		GeminiModel:       utils.GetConfig("GEMINI_MODEL"),
	})
	if err != nil {
		return nil, err
	}

	serviceOpts := []dailylog.Option{dailylog.WithLocation(location)}
	if utils.GetConfig("AWS_S3_BUCKET") != "" {
		s3, err := storage.NewAwsS3(context.Background())
		if err != nil {
			return nil, err
		}
		serviceOpts = append(serviceOpts, dailylog.WithArchive(s3))
	} else {
		log.Info("AWS_S3_BUCKET not set, raw estimator output will only be logged")
	}

	// Repository
	dailyLogRepository := dailylog.NewDailyLogRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	dailyLogService := dailylog.NewDailyLogService(dailyLogRepository, macroEstimator, serviceOpts...)

	// Handler
	dailyLogHandler := handlers.NewDailyLogHandler(dailyLogService, validator)
	nutritionHandler := handlers.NewNutritionHandler(dailyLogService, validator)

	// routes
	routesConfig := routes.Config{
		App:              app,
		DailyLogHandler:  dailyLogHandler,
		NutritionHandler: nutritionHandler,
		Middleware:       middlewares,
		JWTService:       jwtService,
	}
	routesConfig.Setup()
	return app, nil
}

func openLogFile() (io.Writer, error) {
	if err := os.MkdirAll("./logs", os.ModePerm); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return nil, err
	}
	return io.MultiWriter(os.Stdout, file), nil
}
