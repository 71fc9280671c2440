package opponent

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/Undropout/Chesstropia-sub002/internal/model"
)

// RandomSource yields numbers in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// NewRandSource returns a seeded source. It is not safe for concurrent use;
// each game gets its own.
func NewRandSource(seed int64) RandomSource {
	return rand.New(rand.NewSource(seed))
}

// FixedSource replays Values in a loop. An empty FixedSource always yields 0.
type FixedSource struct {
	mu     sync.Mutex
	Values []float64
	next   int
}

func (f *FixedSource) Float64() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Values) == 0 {
		return 0
	}
	v := f.Values[f.next%len(f.Values)]
	f.next++
	return v
}

// pick maps one draw from src onto [0, n).
func pick(src RandomSource, n int) int {
	i := int(src.Float64() * float64(n))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Strategy chooses one candidate from a non-empty list. Strategies must not
// modify the candidates.
type Strategy interface {
	Name() string
	SelectMove(candidates []model.Candidate) model.Candidate
}

// Random picks uniformly among the candidates.
type Random struct {
	src RandomSource
}

func NewRandom(src RandomSource) *Random {
	return &Random{src: src}
}

func (r *Random) Name() string { return "random" }

func (r *Random) SelectMove(candidates []model.Candidate) model.Candidate {
	return candidates[pick(r.src, len(candidates))]
}

// scored picks uniformly among the best-scoring candidates.
type scored struct {
	name  string
	src   RandomSource
	score func(model.Candidate) int
}

func (s *scored) Name() string { return s.name }

func (s *scored) SelectMove(candidates []model.Candidate) model.Candidate {
	best := s.score(candidates[0])
	var top []model.Candidate
	for _, c := range candidates {
		switch v := s.score(c); {
		case v > best:
			best = v
			top = append(top[:0], c)
		case v == best:
			top = append(top, c)
		}
	}
	return top[pick(s.src, len(top))]
}

// NewRuthless prefers captures, and among captures the most valuable target.
// Pieces have no resilience of their own, so role value stands in for it and
// the capture that costs the other side most wins.
func NewRuthless(src RandomSource) Strategy {
	return &scored{
		name: "ruthless",
		src:  src,
		score: func(c model.Candidate) int {
			if !c.Move.Capture {
				return 0
			}
			return 1 + c.Move.CapturedRole.Value()
		},
	}
}

// NewReluctant avoids captures when it can; when every candidate captures it
// takes the least valuable target.
func NewReluctant(src RandomSource) Strategy {
	return &scored{
		name: "reluctant",
		src:  src,
		score: func(c model.Candidate) int {
			if !c.Move.Capture {
				return 0
			}
			return -c.Move.CapturedRole.Value()
		},
	}
}

var registry = map[string]func(RandomSource) Strategy{
	"random":    func(src RandomSource) Strategy { return NewRandom(src) },
	"ruthless":  NewRuthless,
	"reluctant": NewReluctant,
}

// Lookup builds the named strategy.
func Lookup(name string, src RandomSource) (Strategy, error) {
	build, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
	return build(src), nil
}

// Names lists the registered strategies in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
