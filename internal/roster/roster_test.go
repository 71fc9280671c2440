package roster

import (
	"strings"
	"testing"

	"github.com/Undropout/Chesstropia-sub002/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	teams := c.Teams()
	require.GreaterOrEqual(t, len(teams), 2)
	for _, team := range teams {
		assert.Len(t, team.Members, 16, team.ID)
		got, ok := c.Team(team.ID)
		require.True(t, ok)
		assert.Equal(t, team.Name, got.Name)
	}
	_, ok := c.Team("nobody")
	assert.False(t, ok)
}

func TestLoadRejectsBadCatalogs(t *testing.T) {
	tests := map[string]string{
		"not json":     `{"teams": [`,
		"missing id":   `{"teams": [{"name": "Nameless"}]}`,
		"duplicate id": `{"teams": [{"id": "a"}, {"id": "a"}]}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(body))
			assert.Error(t, err)
		})
	}
}

func TestLayoutSquares(t *testing.T) {
	team, ok := Default().Team("lanternfolk")
	require.True(t, ok)

	theirs, err := Layout(team, model.Opponent)
	require.NoError(t, err)
	ours, err := Layout(team, model.Player)
	require.NoError(t, err)

	at := func(ps []model.Placement, role model.Role) []string {
		var out []string
		for _, p := range ps {
			if p.Role == role {
				out = append(out, p.Square.String())
			}
		}
		return out
	}
	assert.Equal(t, []string{"e1"}, at(theirs, model.King))
	assert.Equal(t, []string{"d1"}, at(theirs, model.Queen))
	assert.Equal(t, []string{"a1", "h1"}, at(theirs, model.Rook))
	assert.Equal(t, []string{"a2", "b2", "c2", "d2", "e2", "f2", "g2", "h2"}, at(theirs, model.Pawn))
	assert.Equal(t, []string{"e8"}, at(ours, model.King))
	assert.Equal(t, []string{"b8", "g8"}, at(ours, model.Knight))
	assert.Equal(t, []string{"a7", "b7", "c7", "d7", "e7", "f7", "g7", "h7"}, at(ours, model.Pawn))

	assert.Equal(t, "Old Wick", theirs[0].Name)
	assert.Equal(t, "opponent-lanternfolk-0", theirs[0].ID)
	assert.Equal(t, "player-lanternfolk-0", ours[0].ID)
}

func TestLayoutErrors(t *testing.T) {
	tests := []struct {
		name    string
		members []Member
		want    string
	}{
		{"no king", []Member{{Name: "a", Role: model.Queen}}, "exactly one king"},
		{"two kings", []Member{{Name: "a", Role: model.King}, {Name: "b", Role: model.King}}, "too many kings"},
		{"three rooks", []Member{
			{Name: "k", Role: model.King},
			{Name: "a", Role: model.Rook}, {Name: "b", Role: model.Rook}, {Name: "c", Role: model.Rook},
		}, "too many rooks"},
		{"unknown role", []Member{{Name: "k", Role: model.King}, {Name: "x", Role: "jester"}}, "unknown role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Layout(Team{ID: "t", Members: tt.members}, model.Player)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSetupBuildsPlayableBoard(t *testing.T) {
	c := Default()
	p, _ := c.Team("lanternfolk")
	o, _ := c.Team("tidewardens")

	b, err := Setup(p, o, model.Player)
	require.NoError(t, err)
	assert.Len(t, b.Pieces, 32)
	assert.Equal(t, model.Player, b.SideToMove)
	assert.Equal(t, model.StatusOngoing, b.Status)
	assert.Len(t, model.AllMovesFor(b, model.Player), 20)
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b - - 0 1", b.FEN())
}

func TestSetupSameTeamTwice(t *testing.T) {
	team, _ := Default().Team("tidewardens")
	_, err := Setup(team, team, model.Opponent)
	assert.NoError(t, err)
}
