// Package roster is the read-only team catalog used to set up new boards.
package roster

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Undropout/Chesstropia-sub002/internal/model"
)

//go:embed teams.json
var defaultTeams []byte

type Member struct {
	Name string     `json:"name"`
	Role model.Role `json:"role"`
	Icon string     `json:"icon,omitempty"`
}

type Team struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members []Member `json:"members"`
}

// Provider looks teams up by id.
type Provider interface {
	Team(id string) (Team, bool)
	Teams() []Team
}

type Catalog struct {
	teams map[string]Team
	order []string
}

type catalogFile struct {
	Teams []Team `json:"teams"`
}

// Load reads a catalog in the {"teams": [...]} format.
func Load(r io.Reader) (*Catalog, error) {
	var f catalogFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode team catalog: %w", err)
	}
	c := &Catalog{teams: make(map[string]Team, len(f.Teams))}
	for _, t := range f.Teams {
		if t.ID == "" {
			return nil, fmt.Errorf("team %q has no id", t.Name)
		}
		if _, dup := c.teams[t.ID]; dup {
			return nil, fmt.Errorf("duplicate team id %q", t.ID)
		}
		c.teams[t.ID] = t
		c.order = append(c.order, t.ID)
	}
	return c, nil
}

// LoadFile reads a catalog from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Default returns the catalog bundled with the binary.
func Default() *Catalog {
	c, err := Load(bytes.NewReader(defaultTeams))
	if err != nil {
		panic(fmt.Sprintf("embedded team catalog: %v", err))
	}
	return c
}

func (c *Catalog) Team(id string) (Team, bool) {
	t, ok := c.teams[id]
	return t, ok
}

// Teams returns the teams in catalog order.
func (c *Catalog) Teams() []Team {
	out := make([]Team, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.teams[id])
	}
	return out
}
