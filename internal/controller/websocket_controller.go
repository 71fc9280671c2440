package controller

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/Undropout/Chesstropia-sub002/internal/middleware"
	"github.com/Undropout/Chesstropia-sub002/internal/service"
	"github.com/Undropout/Chesstropia-sub002/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
	"github.com/pkg/errors"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// syncConn serialises writes from the game's broadcaster and the read loop.
type syncConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *syncConn) WriteJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

func (s *syncConn) SetWriteDeadline(t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.SetWriteDeadline(t)
}

func (s *syncConn) Close() error {
	return s.conn.Close()
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)
	conn := &syncConn{conn: c}

	if err := wsc.gameService.RegisterConnection(gameID, playerID, conn); err != nil {
		log.Warnw("failed to register connection", "game", gameID, "player", playerID, "error", err)
		wsc.sendError(conn, err)
		_ = c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, conn)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugw("websocket closed", "game", gameID, "player", playerID, "error", err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.sendError(conn, errors.Wrap(err, "parse message"))
			continue
		}

		reply, err := wsc.handleMessage(gameID, playerID, msg)
		if err != nil {
			log.Debugw("message rejected", "game", gameID, "player", playerID, "type", msg.Type, "error", err)
			wsc.sendError(conn, err)
			continue
		}
		if reply != nil {
			if err := conn.WriteJSON(*reply); err != nil {
				log.Warnw("failed to reply", "game", gameID, "player", playerID, "error", err)
				return
			}
		}
	}
}

// handleMessage runs one client message. Moves are answered through the
// game's broadcast; a state request is answered directly.
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) (*ws.Message, error) {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move ws.MovePayload
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return nil, errors.Wrap(err, "parse move")
		}
		_, err := wsc.gameService.HandleMove(gameID, playerID, move.From, move.To)
		return nil, err

	case ws.MessageTypeState:
		state, err := wsc.gameService.GetGameState(gameID)
		if err != nil {
			return nil, err
		}
		reply, err := ws.NewMessage(ws.MessageTypeGameState, state)
		if err != nil {
			return nil, err
		}
		return &reply, nil

	default:
		return nil, errors.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) sendError(conn service.Conn, err error) {
	msg, merr := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()})
	if merr != nil {
		return
	}
	if werr := conn.WriteJSON(msg); werr != nil {
		log.Debugw("failed to send error", "error", werr)
	}
}
