// Package config loads server settings from flags, falling back to
// CHESSTROPIA_* environment variables and then to built-in defaults.
package config

import (
	"flag"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Undropout/Chesstropia-sub002/internal/model"
	"github.com/Undropout/Chesstropia-sub002/internal/opponent"
)

type Config struct {
	Addr         string
	AllowOrigins string
	LogLevel     string
	// Strategy is the default opponent strategy for new games.
	Strategy string
	// Seed feeds the opponent's random source; zero means time based.
	Seed          int64
	RosterPath    string
	Stalemate     model.StalemateRule
	FirstMove     model.Side
	EventBuffer   int
	WriteDeadline time.Duration
	// IdleTimeout is how long an untouched game is kept before it is
	// removed. Zero keeps games forever.
	IdleTimeout time.Duration
}

func Default() Config {
	return Config{
		Addr:          ":3000",
		AllowOrigins:  "http://localhost:5173",
		LogLevel:      "info",
		Strategy:      "random",
		Stalemate:     model.StalemateLoses,
		FirstMove:     model.Player,
		EventBuffer:   64,
		WriteDeadline: 5 * time.Second,
		IdleTimeout:   30 * time.Minute,
	}
}

// Load parses args on top of the environment. getenv is usually os.Getenv.
func Load(args []string, getenv func(string) string) (Config, error) {
	cfg := Default()
	env := func(key, fallback string) string {
		if v := getenv("CHESSTROPIA_" + key); v != "" {
			return v
		}
		return fallback
	}

	seed, err := strconv.ParseInt(env("SEED", "0"), 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("CHESSTROPIA_SEED: %w", err)
	}
	buffer, err := strconv.Atoi(env("EVENT_BUFFER", strconv.Itoa(cfg.EventBuffer)))
	if err != nil {
		return Config{}, fmt.Errorf("CHESSTROPIA_EVENT_BUFFER: %w", err)
	}
	deadline, err := time.ParseDuration(env("WRITE_DEADLINE", cfg.WriteDeadline.String()))
	if err != nil {
		return Config{}, fmt.Errorf("CHESSTROPIA_WRITE_DEADLINE: %w", err)
	}
	idle, err := time.ParseDuration(env("IDLE_TIMEOUT", cfg.IdleTimeout.String()))
	if err != nil {
		return Config{}, fmt.Errorf("CHESSTROPIA_IDLE_TIMEOUT: %w", err)
	}

	fs := flag.NewFlagSet("chesstropia", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", env("ADDR", cfg.Addr), "listen address")
	fs.StringVar(&cfg.AllowOrigins, "origins", env("ALLOW_ORIGINS", cfg.AllowOrigins), "comma separated CORS origins")
	fs.StringVar(&cfg.LogLevel, "log-level", env("LOG_LEVEL", cfg.LogLevel), "debug, info, warn or error")
	fs.StringVar(&cfg.Strategy, "strategy", env("STRATEGY", cfg.Strategy), "default opponent strategy: "+strings.Join(opponent.Names(), ", "))
	fs.Int64Var(&cfg.Seed, "seed", seed, "opponent random seed, 0 for time based")
	fs.StringVar(&cfg.RosterPath, "roster", env("ROSTER", ""), "team catalog JSON file, empty for the built-in catalog")
	stalemate := fs.String("stalemate", env("STALEMATE", string(cfg.Stalemate)), "result when the side to move is stuck: loss or draw")
	first := fs.String("first", env("FIRST", string(cfg.FirstMove)), "side that moves first: player or opponent")
	fs.IntVar(&cfg.EventBuffer, "event-buffer", buffer, "per game websocket event queue length")
	fs.DurationVar(&cfg.WriteDeadline, "write-deadline", deadline, "websocket write deadline")
	fs.DurationVar(&cfg.IdleTimeout, "idle-timeout", idle, "remove games untouched for this long, 0 to keep them")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.Stalemate = model.StalemateRule(*stalemate)
	cfg.FirstMove = model.Side(*first)

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if _, err := opponent.Lookup(c.Strategy, &opponent.FixedSource{}); err != nil {
		return err
	}
	if !c.Stalemate.Valid() {
		return fmt.Errorf("unknown stalemate rule %q", c.Stalemate)
	}
	if c.FirstMove != model.Player && c.FirstMove != model.Opponent {
		return fmt.Errorf("unknown first side %q", c.FirstMove)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	origins := c.OriginList()
	if len(origins) == 0 {
		return fmt.Errorf("at least one allowed origin is required")
	}
	for _, o := range origins {
		if o == "*" {
			continue
		}
		u, err := url.Parse(o)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" || (u.Path != "" && u.Path != "/") {
			return fmt.Errorf("invalid origin %q, want scheme://host[:port]", o)
		}
	}
	if c.IdleTimeout < 0 {
		return fmt.Errorf("idle timeout must not be negative, got %s", c.IdleTimeout)
	}
	if c.EventBuffer < 1 {
		return fmt.Errorf("event buffer must be positive, got %d", c.EventBuffer)
	}
	return nil
}

// OriginList splits AllowOrigins on commas, dropping blanks. A "*" anywhere
// in the list stands for every origin and replaces the rest.
func (c Config) OriginList() []string {
	var out []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		o = strings.TrimSpace(o)
		switch o {
		case "":
		case "*":
			return []string{"*"}
		default:
			out = append(out, o)
		}
	}
	return out
}

// AllowCredentials is false when any origin is the "*" wildcard; the CORS
// middleware refuses credentials for wildcard origins.
func (c Config) AllowCredentials() bool {
	for _, o := range c.OriginList() {
		if o == "*" {
			return false
		}
	}
	return true
}
