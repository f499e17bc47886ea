package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/checkers-backend/internal/config"
	"github.com/benbeisheim/checkers-backend/internal/controller"
	"github.com/benbeisheim/checkers-backend/internal/middleware"
	"github.com/benbeisheim/checkers-backend/internal/service"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatal(err)
	}
	log.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize services
	gameManager := service.NewGameManager(ctx)
	gameService := service.NewGameService(gameManager, service.Defaults{
		Difficulty:    cfg.Difficulty,
		BotDelay:      cfg.BotDelay,
		QuietPlyLimit: cfg.QuietPlyLimit,
		Seed:          cfg.Seed,
	})

	app := newApp(cfg, gameService)

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	log.Infof("listening on %s (difficulty=%s bot-delay=%s)", cfg.Addr, cfg.Difficulty, cfg.BotDelay)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal(err)
	}
	gameManager.Wait()
}

func newApp(cfg config.Config, gameService *service.GameService) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		Immutable:             true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Origins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))

	gameController := controller.NewGameController(gameService)
	wsController := controller.NewWebSocketController(gameService)

	// WebSocket routes
	app.Use("/ws/*", middleware.EnsurePlayerID())
	app.Get("/ws/game/:gameId", middleware.WebSocketUpgrade(), websocket.New(wsController.HandleConnection, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         cfg.OriginList(),
	}))

	// REST routes
	api := app.Group("/api", middleware.EnsurePlayerID())
	gameRoutes := api.Group("/game")
	gameRoutes.Post("/create", gameController.CreateGame)
	gameRoutes.Get("/:gameId", gameController.GetGameState)
	gameRoutes.Get("/:gameId/moves", gameController.GetMoves)
	gameRoutes.Post("/:gameId/select", gameController.Select)

	return app
}
