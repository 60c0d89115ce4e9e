package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"naval-chess/internal/game"
)

type Config struct {
	HTTPAddr string

	BoardSize     int
	Fleet         []int
	AllowTouching bool

	DisconnectGrace time.Duration
	ComputerThink   time.Duration
	RatingBand      int

	StoreDriver  string
	DataDir      string
	StoreTimeout time.Duration

	PolicyURL     string
	PolicyTimeout time.Duration

	LogLevel  string
	LogPretty bool
}

// Default returns the configuration used when no environment is set.
func Default() Config {
	return Config{
		HTTPAddr:        ":8080",
		BoardSize:       game.DefaultBoardSize,
		Fleet:           append([]int(nil), game.DefaultFleet...),
		DisconnectGrace: 30 * time.Second,
		ComputerThink:   600 * time.Millisecond,
		StoreDriver:     "memory",
		DataDir:         "data",
		StoreTimeout:    2 * time.Second,
		PolicyTimeout:   300 * time.Millisecond,
		LogLevel:        "info",
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// getenvDuration accepts Go durations ("30s") or bare seconds ("30").
func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if s, err := strconv.Atoi(v); err == nil {
		return time.Duration(s) * time.Second
	}
	return def
}

// getenvInts parses a comma separated list of positive ints.
func getenvInts(key string, def []int) []int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []int
	for _, part := range strings.Split(v, ",") {
		i, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || i <= 0 {
			return def
		}
		out = append(out, i)
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// Load reads the environment over Default. A board too small for the fleet,
// by area or by the longest ship, falls back to the default board and fleet.
func Load() Config {
	d := Default()
	cfg := Config{
		HTTPAddr:        getenv("HTTP_ADDR", d.HTTPAddr),
		BoardSize:       getenvInt("BOARD_SIZE", d.BoardSize),
		Fleet:           getenvInts("FLEET", d.Fleet),
		AllowTouching:   getenvBool("ALLOW_TOUCHING", d.AllowTouching),
		DisconnectGrace: getenvDuration("DISCONNECT_GRACE", d.DisconnectGrace),
		ComputerThink:   getenvDuration("COMPUTER_THINK", d.ComputerThink),
		RatingBand:      getenvInt("RATING_BAND", d.RatingBand),
		StoreDriver:     getenv("STORE_DRIVER", d.StoreDriver),
		DataDir:         getenv("DATA_DIR", d.DataDir),
		StoreTimeout:    getenvDuration("STORE_TIMEOUT", d.StoreTimeout),
		PolicyURL:       getenv("POLICY_URL", d.PolicyURL),
		PolicyTimeout:   getenvDuration("POLICY_TIMEOUT", d.PolicyTimeout),
		LogLevel:        getenv("LOG_LEVEL", d.LogLevel),
		LogPretty:       getenvBool("LOG_PRETTY", d.LogPretty),
	}
	if !fits(cfg.BoardSize, cfg.Fleet) {
		cfg.BoardSize, cfg.Fleet = d.BoardSize, d.Fleet
	}
	return cfg
}

// fits reports whether every ship fits along a side and the fleet's segments
// fit on the board.
func fits(size int, fleet []int) bool {
	if size <= 0 {
		return false
	}
	for _, n := range fleet {
		if n <= 0 || n > size {
			return false
		}
	}
	return game.FleetSegments(fleet) <= size*size
}
