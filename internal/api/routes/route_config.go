package routes

import (
	"Health-Tracker-Backend/internal/api/handlers"
	"Health-Tracker-Backend/internal/middleware"
	"Health-Tracker-Backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App              *fiber.App
	DailyLogHandler  handlers.DailyLogHandler
	NutritionHandler handlers.NutritionHandler
	Middleware       middleware.Middleware
	JWTService       jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.DailyLog()
	c.Nutrition()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong, its works. test"})
	})
}

func (c *Config) DailyLog() {
	dailyLog := c.App.Group("/api/v1/daily-log", c.Middleware.AuthMiddleware(c.JWTService))
	{
		dailyLog.Get("", c.DailyLogHandler.GetDailyLogs)
		dailyLog.Get("/today", c.DailyLogHandler.GetTodayLog)
		dailyLog.Post("/weight", c.DailyLogHandler.LogWeight)
		dailyLog.Post("/activity", c.DailyLogHandler.LogActivity)
		dailyLog.Post("/meal", c.DailyLogHandler.LogMeal)
		dailyLog.Post("/calculate-macros", c.DailyLogHandler.CalculateMacros)
	}
}

func (c *Config) Nutrition() {
	nutrition := c.App.Group("/api/v1/nutrition", c.Middleware.AuthMiddleware(c.JWTService))
	nutrition.Post("/analyze", c.NutritionHandler.Analyze)
}
