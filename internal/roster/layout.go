package roster

import (
	"fmt"

	"github.com/Undropout/Chesstropia-sub002/internal/model"
)

// back rank files per role, filled left to right
var backRankFiles = map[model.Role][]int{
	model.Rook:   {0, 7},
	model.Knight: {1, 6},
	model.Bishop: {2, 5},
	model.Queen:  {3},
	model.King:   {4},
}

func homeRanks(side model.Side) (back, pawns int) {
	if side == model.Opponent {
		return 0, 1
	}
	return model.BoardSize - 1, model.BoardSize - 2
}

// Layout places the members of team on the standard starting squares of
// side, in catalog order. Teams may be short of pieces but never of kings.
func Layout(team Team, side model.Side) ([]model.Placement, error) {
	back, pawnRank := homeRanks(side)
	used := map[model.Role]int{}
	kings := 0

	out := make([]model.Placement, 0, len(team.Members))
	for i, m := range team.Members {
		var files []int
		rank := back
		if m.Role == model.Pawn {
			files = []int{0, 1, 2, 3, 4, 5, 6, 7}
			rank = pawnRank
		} else {
			var ok bool
			files, ok = backRankFiles[m.Role]
			if !ok {
				return nil, fmt.Errorf("team %s: member %q has unknown role %q", team.ID, m.Name, m.Role)
			}
		}
		n := used[m.Role]
		if n >= len(files) {
			return nil, fmt.Errorf("team %s: too many %ss (max %d)", team.ID, m.Role, len(files))
		}
		used[m.Role] = n + 1
		if m.Role == model.King {
			kings++
		}

		out = append(out, model.Placement{
			ID:     fmt.Sprintf("%s-%s-%d", side, team.ID, i),
			Name:   m.Name,
			Role:   m.Role,
			Side:   side,
			Square: model.Square{File: files[n], Rank: rank},
			Icon:   m.Icon,
		})
	}
	if kings != 1 {
		return nil, fmt.Errorf("team %s: needs exactly one king, has %d", team.ID, kings)
	}
	return out, nil
}

// Setup lays out both teams and builds the first board with first to move.
func Setup(playerTeam, opponentTeam Team, first model.Side, opts ...model.Option) (*model.BoardState, error) {
	theirs, err := Layout(opponentTeam, model.Opponent)
	if err != nil {
		return nil, err
	}
	ours, err := Layout(playerTeam, model.Player)
	if err != nil {
		return nil, err
	}
	return model.NewBoard(append(theirs, ours...), first, opts...)
}
