package main

import (
	"os"
	"strings"

	"github.com/Undropout/Chesstropia-sub002/internal/config"
	"github.com/Undropout/Chesstropia-sub002/internal/controller"
	"github.com/Undropout/Chesstropia-sub002/internal/roster"
	"github.com/Undropout/Chesstropia-sub002/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

var logLevels = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.SetLevel(logLevels[cfg.LogLevel])

	catalog := roster.Default()
	if cfg.RosterPath != "" {
		catalog, err = roster.LoadFile(cfg.RosterPath)
		if err != nil {
			log.Fatalf("roster: %v", err)
		}
	}

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.OriginList(), ","),
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, DELETE, OPTIONS",
		AllowCredentials: cfg.AllowCredentials(),
	}))

	// Initialize services
	gameManager := service.NewGameManager(catalog, cfg)
	defer gameManager.Close()
	gameService := service.NewGameService(gameManager, catalog)

	// Initialize controllers
	gameController := controller.NewGameController(gameService)
	wsController := controller.NewWebSocketController(gameService)

	controller.Routes(app, gameController, wsController, cfg.OriginList())

	log.Infow("listening", "addr", cfg.Addr, "strategy", cfg.Strategy, "stalemate", cfg.Stalemate)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Errorw("server stopped", "error", err)
	}
}
