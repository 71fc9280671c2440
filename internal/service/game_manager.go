package service

import (
	"sync"
	"time"

	"github.com/Undropout/Chesstropia-sub002/internal/config"
	"github.com/Undropout/Chesstropia-sub002/internal/events"
	"github.com/Undropout/Chesstropia-sub002/internal/model"
	"github.com/Undropout/Chesstropia-sub002/internal/opponent"
	"github.com/Undropout/Chesstropia-sub002/internal/roster"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// CreateOptions describe a new game. Empty fields fall back to the server
// configuration and the first two catalog teams.
type CreateOptions struct {
	PlayerTeam   string
	OpponentTeam string
	Strategy     string
	// FEN, when set, replaces the team layout. The side to move comes from
	// the FEN's active colour.
	FEN string
	// Source overrides the opponent's random source.
	Source opponent.RandomSource
}

type GameManager struct {
	games map[string]*Game
	teams roster.Provider
	cfg   config.Config
	sinks []events.Notifier
	seq   int64
	mu    sync.RWMutex
	stop  chan struct{}
	once  sync.Once
}

// NewGameManager returns a manager and, when cfg.IdleTimeout is set, starts
// the idle game reaper. Call Close to stop it.
func NewGameManager(teams roster.Provider, cfg config.Config, sinks ...events.Notifier) *GameManager {
	gm := &GameManager{
		games: make(map[string]*Game),
		teams: teams,
		cfg:   cfg,
		sinks: sinks,
		stop:  make(chan struct{}),
	}
	if cfg.IdleTimeout > 0 {
		go gm.reapIdle(cfg.IdleTimeout)
	}
	return gm
}

func (gm *GameManager) reapIdle(timeout time.Duration) {
	interval := timeout / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			gm.removeIdle(now, timeout)
		case <-gm.stop:
			return
		}
	}
}

// removeIdle drops games nobody is watching that have not changed since
// now-timeout.
func (gm *GameManager) removeIdle(now time.Time, timeout time.Duration) int {
	gm.mu.Lock()
	var stale []*Game
	for id, game := range gm.games {
		if game.connectionCount() == 0 && now.Sub(game.lastActivity()) > timeout {
			stale = append(stale, game)
			delete(gm.games, id)
		}
	}
	gm.mu.Unlock()

	for _, game := range stale {
		log.Infow("removing idle game", "game", game.ID)
		game.Close()
	}
	return len(stale)
}

func (gm *GameManager) nextSource() opponent.RandomSource {
	gm.mu.Lock()
	gm.seq++
	n := gm.seq
	gm.mu.Unlock()

	if gm.cfg.Seed != 0 {
		return opponent.NewRandSource(gm.cfg.Seed + n - 1)
	}
	return opponent.NewRandSource(time.Now().UnixNano() + n)
}

func (gm *GameManager) team(id string, fallback int) (roster.Team, error) {
	if id == "" {
		teams := gm.teams.Teams()
		if len(teams) <= fallback {
			return roster.Team{}, errors.Wrap(ErrUnknownTeam, "catalog has too few teams")
		}
		return teams[fallback], nil
	}
	t, ok := gm.teams.Team(id)
	if !ok {
		return roster.Team{}, errors.Wrapf(ErrUnknownTeam, "team %q", id)
	}
	return t, nil
}

func (gm *GameManager) board(opts CreateOptions) (*model.BoardState, error) {
	rule := model.WithStalemateRule(gm.cfg.Stalemate)
	if opts.FEN != "" {
		return model.FromFEN(opts.FEN, rule)
	}
	ours, err := gm.team(opts.PlayerTeam, 0)
	if err != nil {
		return nil, err
	}
	theirs, err := gm.team(opts.OpponentTeam, 1)
	if err != nil {
		return nil, err
	}
	return roster.Setup(ours, theirs, gm.cfg.FirstMove, rule)
}

// CreateGame sets up a new game owned by ownerID. When the AI has the first
// turn it has already moved by the time CreateGame returns.
func (gm *GameManager) CreateGame(ownerID string, opts CreateOptions) (*Game, error) {
	name := opts.Strategy
	if name == "" {
		name = gm.cfg.Strategy
	}
	src := opts.Source
	if src == nil {
		src = gm.nextSource()
	}
	strategy, err := opponent.Lookup(name, src)
	if err != nil {
		return nil, errors.Wrapf(ErrUnknownStrategy, "%q", name)
	}

	board, err := gm.board(opts)
	if err != nil {
		return nil, err
	}

	game := newGame(uuid.New().String(), ownerID, board, strategy, gameOptions{
		buffer:        gm.cfg.EventBuffer,
		writeDeadline: gm.cfg.WriteDeadline,
		sinks:         gm.sinks,
	})
	game.playOpening()

	gm.mu.Lock()
	gm.games[game.ID] = game
	gm.mu.Unlock()

	log.Infow("created game", "game", game.ID, "owner", ownerID, "strategy", strategy.Name())
	return game, nil
}

func (gm *GameManager) GetGame(gameID string) (*Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, errors.Wrapf(ErrGameNotFound, "game %s", gameID)
	}

	return game, nil
}

// RemoveGame ends and forgets a game. Only the owner may remove it.
func (gm *GameManager) RemoveGame(gameID, playerID string) error {
	gm.mu.Lock()
	game, exists := gm.games[gameID]
	if !exists {
		gm.mu.Unlock()
		return errors.Wrapf(ErrGameNotFound, "game %s", gameID)
	}
	if game.OwnerID != playerID {
		gm.mu.Unlock()
		return ErrNotYourGame
	}
	delete(gm.games, gameID)
	gm.mu.Unlock()

	game.Close()
	log.Infow("removed game", "game", gameID)
	return nil
}

func (gm *GameManager) Len() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}

// Close stops the reaper and closes every game.
func (gm *GameManager) Close() {
	gm.once.Do(func() {
		close(gm.stop)
		gm.mu.Lock()
		defer gm.mu.Unlock()
		for id, game := range gm.games {
			game.Close()
			delete(gm.games, id)
		}
	})
}
