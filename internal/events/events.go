// Package events carries human-readable game notifications from the game
// loop to whoever is listening. Delivery is fire-and-forget: nothing in the
// game depends on a notifier succeeding.
package events

import (
	"fmt"
	"sync"
	"time"

	"github.com/Undropout/Chesstropia-sub002/internal/model"
	"github.com/gofiber/fiber/v2/log"
	"github.com/hashicorp/go-multierror"
)

type Kind string

const (
	KindMove         Kind = "move"
	KindCapture      Kind = "capture"
	KindPromotion    Kind = "promotion"
	KindGameOver     Kind = "game_over"
	KindOpponentMove Kind = "opponent_move"
)

type Event struct {
	Kind      Kind       `json:"kind"`
	GameID    string     `json:"gameId,omitempty"`
	Message   string     `json:"message"`
	PieceName string     `json:"pieceName,omitempty"`
	From      string     `json:"from,omitempty"`
	To        string     `json:"to,omitempty"`
	Side      model.Side `json:"side,omitempty"`
	Time      time.Time  `json:"time"`
}

// Notifier receives events. Implementations must not block the caller.
type Notifier interface {
	Emit(Event)
}

type NotifierFunc func(Event)

func (f NotifierFunc) Emit(e Event) { f(e) }

// Nop discards every event.
var Nop Notifier = NotifierFunc(func(Event) {})

// Recorder keeps every event it receives. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Kinds returns the kinds of the recorded events in order.
func (r *Recorder) Kinds() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]Kind, len(r.events))
	for i, e := range r.events {
		kinds[i] = e.Kind
	}
	return kinds
}

// LogNotifier writes events to the fiber logger.
type LogNotifier struct{}

func (LogNotifier) Emit(e Event) {
	log.Infow(e.Message, "kind", e.Kind, "game", e.GameID, "piece", e.PieceName, "from", e.From, "to", e.To)
}

// Fanout delivers each event to every notifier. A panicking notifier is
// recovered and reported, and does not stop delivery to the others.
type Fanout []Notifier

func (f Fanout) Emit(e Event) {
	var errs *multierror.Error
	for _, n := range f {
		if err := safeEmit(n, e); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		log.Warnw("event delivery failed", "kind", e.Kind, "game", e.GameID, "error", err)
	}
}

func safeEmit(n Notifier, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notifier %T panicked: %v", n, r)
		}
	}()
	n.Emit(e)
	return nil
}

// Safe wraps n so that a panic inside Emit is logged and swallowed.
func Safe(n Notifier) Notifier {
	return NotifierFunc(func(e Event) {
		if err := safeEmit(n, e); err != nil {
			log.Warnw("event delivery failed", "kind", e.Kind, "game", e.GameID, "error", err)
		}
	})
}
