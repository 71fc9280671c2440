package controller

import (
	"github.com/Undropout/Chesstropia-sub002/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Routes mounts the REST API under /api and the game socket under
// /ws/game/:gameId. origins limits websocket upgrades; empty allows any.
func Routes(app *fiber.App, gc *GameController, wsc *WebSocketController, origins []string) {
	app.Get("/ws/game/:gameId",
		middleware.EnsurePlayerID(),
		middleware.WebSocketUpgrade(),
		websocket.New(wsc.HandleConnection, websocket.Config{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			Origins:         origins,
		}),
	)

	api := app.Group("/api", middleware.EnsurePlayerID())
	api.Get("/teams", gc.ListTeams)

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/create", gc.CreateGame)
	gameRoutes.Get("/:gameId", gc.GetGameState)
	gameRoutes.Delete("/:gameId", gc.DeleteGame)
	gameRoutes.Get("/:gameId/moves", gc.GetLegalMoves)
	gameRoutes.Post("/:gameId/move", gc.MakeMove)
}
