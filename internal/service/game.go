package service

import (
	"sync"
	"time"

	"github.com/Undropout/Chesstropia-sub002/internal/events"
	"github.com/Undropout/Chesstropia-sub002/internal/model"
	"github.com/Undropout/Chesstropia-sub002/internal/opponent"
	"github.com/Undropout/Chesstropia-sub002/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/pkg/errors"
)

// Conn is the part of a websocket connection a game writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.RWMutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Conn),
	}
}

// Game is one running match between a human owner and the AI. The mutex
// serialises every query-then-apply cycle on the board.
type Game struct {
	ID      string
	OwnerID string

	mu          sync.Mutex
	board       *model.BoardState
	humanSide   model.Side
	controller  *opponent.Controller
	notifier    events.Notifier
	connections *GameConnections
	createdAt   time.Time
	updatedAt   time.Time

	outbox        chan ws.Message
	writeDeadline time.Duration
	done          chan struct{}
	closeOnce     sync.Once
}

type gameOptions struct {
	buffer        int
	writeDeadline time.Duration
	sinks         []events.Notifier
}

func newGame(id, ownerID string, board *model.BoardState, strategy opponent.Strategy, opts gameOptions) *Game {
	if opts.buffer < 1 {
		opts.buffer = 1
	}
	g := &Game{
		ID:            id,
		OwnerID:       ownerID,
		board:         board,
		humanSide:     model.Player,
		connections:   NewGameConnections(),
		createdAt:     time.Now(),
		updatedAt:     time.Now(),
		outbox:        make(chan ws.Message, opts.buffer),
		writeDeadline: opts.writeDeadline,
		done:          make(chan struct{}),
	}
	g.notifier = append(events.Fanout{events.LogNotifier{}, events.NotifierFunc(g.publishEvent)}, opts.sinks...)
	g.controller = opponent.NewController(strategy, g.notifier, id)
	go g.pump()
	return g
}

func (g *Game) aiSide() model.Side {
	return g.humanSide.Other()
}

// GetState returns a snapshot of the game.
func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot()
}

// LegalMoves returns the legal moves of the side to move, or those of the
// piece on from when it is set, whichever side that piece is on.
func (g *Game) LegalMoves(from *model.Square) []model.Candidate {
	g.mu.Lock()
	defer g.mu.Unlock()

	if from == nil {
		return model.AllMovesFor(g.board, g.board.SideToMove)
	}
	return model.LegalMovesFrom(g.board, *from)
}

// MakeMove plays the owner's move and then lets the AI answer.
func (g *Game) MakeMove(playerID string, from, to model.Square) (GameState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if playerID != g.OwnerID {
		return GameState{}, ErrNotYourGame
	}
	if g.board.Ended() {
		return GameState{}, model.ErrGameOver
	}
	if g.board.SideToMove != g.humanSide {
		return GameState{}, ErrNotYourTurn
	}
	if err := g.applyMove(model.Move{From: from, To: to}); err != nil {
		return GameState{}, err
	}
	g.playOpponent()

	state := g.snapshot()
	g.queueState(state)
	return state, nil
}

// playOpening lets the AI move when it has the first turn.
func (g *Game) playOpening() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.playOpponent()
}

func (g *Game) playOpponent() {
	for !g.board.Ended() && g.board.SideToMove == g.aiSide() {
		choice, ok := g.controller.ChooseMove(g.board, g.aiSide())
		if !ok {
			return
		}
		if err := g.applyMove(choice.Move); err != nil {
			log.Errorw("opponent produced an illegal move", "game", g.ID, "error", err)
			return
		}
	}
}

func (g *Game) applyMove(m model.Move) error {
	next, err := model.Apply(g.board, m)
	if err != nil {
		return errors.WithMessagef(err, "game %s", g.ID)
	}
	prev := g.board
	g.board = next
	g.updatedAt = time.Now()
	for _, ev := range events.ForMove(g.ID, prev, next) {
		g.notifier.Emit(ev)
	}
	return nil
}

func (g *Game) snapshot() GameState {
	b := g.board
	state := GameState{
		GameID:     g.ID,
		HumanSide:  g.humanSide,
		Strategy:   g.controller.Strategy().Name(),
		Pieces:     b.Alive(model.Opponent),
		Captured:   b.Captured(),
		SideToMove: b.SideToMove,
		Turn:       b.Turn,
		Status:     b.Status,
		Outcome:    b.Outcome,
		LegalMoves: model.AllMovesFor(b, b.SideToMove),
		FEN:        b.FEN(),
		UpdatedAt:  g.updatedAt,
	}
	state.Pieces = append(state.Pieces, b.Alive(model.Player)...)
	if b.LastMove != nil {
		m := *b.LastMove
		state.LastMove = &m
		if p, ok := b.PieceByID(m.PieceID); ok {
			role := p.Role
			if m.Promotion != "" {
				role = model.Pawn
			}
			state.LastMoveNotation = m.Notation(role)
		}
	}
	if state.Captured == nil {
		state.Captured = []model.Piece{}
	}
	if state.LegalMoves == nil {
		state.LegalMoves = []model.Candidate{}
	}
	return state
}

func (g *Game) publishEvent(e events.Event) {
	msg, err := ws.NewMessage(ws.MessageTypeEvent, e)
	if err != nil {
		log.Warnw("failed to marshal event", "game", g.ID, "error", err)
		return
	}
	g.enqueue(msg)
}

func (g *Game) queueState(state GameState) {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, state)
	if err != nil {
		log.Warnw("failed to marshal state", "game", g.ID, "error", err)
		return
	}
	g.enqueue(msg)
}

// enqueue never blocks: when the outbox is full the message is dropped.
func (g *Game) enqueue(msg ws.Message) {
	select {
	case g.outbox <- msg:
	default:
		log.Warnw("outbox full, dropping message", "game", g.ID, "type", msg.Type)
	}
}

func (g *Game) pump() {
	for {
		select {
		case msg := <-g.outbox:
			g.broadcast(msg)
		case <-g.done:
			return
		}
	}
}

func (g *Game) broadcast(msg ws.Message) {
	// Get a snapshot of connections under the connections mutex
	g.connections.mu.RLock()
	active := make(map[string]Conn, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		active[playerID] = conn
	}
	g.connections.mu.RUnlock()

	for playerID, conn := range active {
		if g.writeDeadline > 0 {
			_ = conn.SetWriteDeadline(time.Now().Add(g.writeDeadline))
		}
		if err := conn.WriteJSON(msg); err != nil {
			log.Warnw("failed to send to player, dropping connection", "game", g.ID, "player", playerID, "error", err)
			g.dropConnection(playerID, conn)
		}
	}
}

func (g *Game) dropConnection(playerID string, conn Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	if current, ok := g.connections.connections[playerID]; ok && current == conn {
		delete(g.connections.connections, playerID)
		_ = conn.Close()
	}
}

// RegisterConnection attaches a websocket for playerID. Anyone may watch;
// only the owner can move. A second connection for the same player replaces
// the first.
func (g *Game) RegisterConnection(playerID string, conn Conn) {
	g.connections.mu.Lock()
	old, exists := g.connections.connections[playerID]
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()

	if exists && old != conn {
		_ = old.Close()
	}
	log.Debugw("registered connection", "game", g.ID, "player", playerID)
	g.queueState(g.GetState())
}

// UnregisterConnection removes conn if it is still the current connection of
// playerID.
func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	if current, ok := g.connections.connections[playerID]; ok && current == conn {
		delete(g.connections.connections, playerID)
		log.Debugw("unregistered connection", "game", g.ID, "player", playerID)
	}
}

func (g *Game) lastActivity() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.updatedAt
}

func (g *Game) connectionCount() int {
	g.connections.mu.RLock()
	defer g.connections.mu.RUnlock()
	return len(g.connections.connections)
}

// Close stops the broadcaster and closes every connection.
func (g *Game) Close() {
	g.closeOnce.Do(func() {
		close(g.done)
		g.connections.mu.Lock()
		defer g.connections.mu.Unlock()
		for playerID, conn := range g.connections.connections {
			_ = conn.Close()
			delete(g.connections.connections, playerID)
		}
	})
}
