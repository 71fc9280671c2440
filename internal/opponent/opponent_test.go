package opponent

import (
	"testing"

	"github.com/Undropout/Chesstropia-sub002/internal/events"
	"github.com/Undropout/Chesstropia-sub002/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func board(t *testing.T, fen string) *model.BoardState {
	t.Helper()
	b, err := model.FromFEN(fen)
	require.NoError(t, err)
	return b
}

func candidate(capture bool, target model.Role, id string) model.Candidate {
	m := model.Move{PieceID: id, Capture: capture}
	if capture {
		m.CapturedRole = target
		m.CapturedID = "victim-" + id
	}
	return model.Candidate{Piece: model.Piece{ID: id, Name: id}, Move: m}
}

func TestChooseMoveFixedSourcePicksFirstCandidate(t *testing.T) {
	b := board(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1")
	want := model.AllMovesFor(b, model.Opponent)[0]

	c := NewController(NewRandom(&FixedSource{}), nil, "g")
	got, ok := c.ChooseMove(b, model.Opponent)
	require.True(t, ok)
	assert.Equal(t, want, got)

	// repeated calls with the same source are reproducible
	again, _ := c.ChooseMove(b, model.Opponent)
	assert.Equal(t, got, again)
}

func TestChooseMoveLastIndex(t *testing.T) {
	b := board(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1")
	all := model.AllMovesFor(b, model.Opponent)

	c := NewController(NewRandom(&FixedSource{Values: []float64{0.9999999}}), nil, "g")
	got, ok := c.ChooseMove(b, model.Opponent)
	require.True(t, ok)
	assert.Equal(t, all[len(all)-1], got)
}

func TestChooseMoveRespectsForcedCapture(t *testing.T) {
	b := board(t, "4k3/8/8/8/p7/8/8/R3K1N1 w - - 0 1")
	for _, v := range []float64{0, 0.3, 0.6, 0.99} {
		c := NewController(NewRandom(&FixedSource{Values: []float64{v}}), nil, "g")
		got, ok := c.ChooseMove(b, model.Opponent)
		require.True(t, ok)
		assert.True(t, got.Move.Capture)
		assert.Equal(t, "a4", got.Move.To.String())
	}
}

func TestChooseMoveNoLegalMoves(t *testing.T) {
	b := board(t, "4k3/8/8/8/8/8/8/4K3 w")
	b.Status = model.StatusEnded

	rec := &events.Recorder{}
	c := NewController(NewRandom(&FixedSource{}), rec, "g")
	_, ok := c.ChooseMove(b, model.Opponent)
	assert.False(t, ok)
	assert.Empty(t, rec.Events())
}

func TestChooseMoveNotifies(t *testing.T) {
	b := board(t, "4k3/8/8/8/p7/8/8/R3K1N1 w - - 0 1")
	rec := &events.Recorder{}
	c := NewController(NewRandom(&FixedSource{}), rec, "game-7")

	_, ok := c.ChooseMove(b, model.Opponent)
	require.True(t, ok)

	evs := rec.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, events.KindOpponentMove, evs[0].Kind)
	assert.Equal(t, "game-7", evs[0].GameID)
	assert.Equal(t, "opponent rook a1", evs[0].PieceName)
	assert.Equal(t, "a1", evs[0].From)
	assert.Equal(t, "a4", evs[0].To)
}

func TestBrokenNotifierDoesNotChangeChoice(t *testing.T) {
	b := board(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1")
	quiet := NewController(NewRandom(&FixedSource{Values: []float64{0.5}}), nil, "g")
	want, _ := quiet.ChooseMove(b, model.Opponent)

	broken := NewController(NewRandom(&FixedSource{Values: []float64{0.5}}), events.NotifierFunc(func(events.Event) {
		panic("observer down")
	}), "g")
	var got model.Candidate
	require.NotPanics(t, func() { got, _ = broken.ChooseMove(b, model.Opponent) })
	assert.Equal(t, want, got)
}

func TestChooseMoveDoesNotMutateBoard(t *testing.T) {
	b := board(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1")
	before := b.Clone()
	c := NewController(NewRuthless(&FixedSource{Values: []float64{0.42}}), nil, "g")
	_, ok := c.ChooseMove(b, model.Opponent)
	require.True(t, ok)
	assert.Equal(t, before, b)
}

func TestRuthlessPrefersValuableCaptures(t *testing.T) {
	cands := []model.Candidate{
		candidate(false, "", "quiet"),
		candidate(true, model.Pawn, "pawn"),
		candidate(true, model.Queen, "queen"),
		candidate(true, model.Knight, "knight"),
	}
	got := NewRuthless(&FixedSource{Values: []float64{0.9}}).SelectMove(cands)
	assert.Equal(t, "queen", got.Piece.ID)
}

func TestReluctantPrefersQuietThenMercy(t *testing.T) {
	s := NewReluctant(&FixedSource{})
	got := s.SelectMove([]model.Candidate{
		candidate(true, model.Rook, "rook"),
		candidate(false, "", "quiet"),
	})
	assert.Equal(t, "quiet", got.Piece.ID)

	got = s.SelectMove([]model.Candidate{
		candidate(true, model.Rook, "rook"),
		candidate(true, model.Pawn, "pawn"),
		candidate(true, model.Queen, "queen"),
	})
	assert.Equal(t, "pawn", got.Piece.ID)
}

func TestScoredTieBreakUsesSource(t *testing.T) {
	cands := []model.Candidate{
		candidate(true, model.Rook, "first"),
		candidate(false, "", "quiet"),
		candidate(true, model.Rook, "second"),
	}
	assert.Equal(t, "first", NewRuthless(&FixedSource{Values: []float64{0.1}}).SelectMove(cands).Piece.ID)
	assert.Equal(t, "second", NewRuthless(&FixedSource{Values: []float64{0.7}}).SelectMove(cands).Piece.ID)
}

func TestLookup(t *testing.T) {
	assert.Equal(t, []string{"random", "reluctant", "ruthless"}, Names())
	for _, name := range Names() {
		s, err := Lookup(name, &FixedSource{})
		require.NoError(t, err)
		assert.Equal(t, name, s.Name())
	}
	_, err := Lookup("merciful", &FixedSource{})
	assert.Error(t, err)
}

func TestSeededSourceIsReproducible(t *testing.T) {
	a, b := NewRandSource(11), NewRandSource(11)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestFixedSourceCycles(t *testing.T) {
	f := &FixedSource{Values: []float64{0.1, 0.2}}
	assert.Equal(t, []float64{0.1, 0.2, 0.1}, []float64{f.Float64(), f.Float64(), f.Float64()})
}
