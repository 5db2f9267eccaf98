package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the binary needs to host or join a game.
// Values come from the environment (optionally a .env file); flags in
// main override them.
type Config struct {
	Addr     string // TCP game endpoint
	HTTPAddr string // ops endpoint (health, stats, websocket attach)

	MaxPlayers    int
	TimerLength   time.Duration // base turn window
	TimeIncrease  time.Duration // added per successful turn
	StartingLives int

	TickInterval time.Duration // game loop resolution
	WriteTimeout time.Duration // per-connection send bound

	Debug bool
}

// Load reads configuration from the environment. A missing .env file
// is fine; exported variables still apply.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:          getEnv("BOOM_ADDR", ":1234"),
		HTTPAddr:      getEnv("BOOM_HTTP_ADDR", ":8080"),
		MaxPlayers:    getEnvInt("BOOM_MAX_PLAYERS", 10),
		TimerLength:   getEnvDuration("BOOM_TIMER_LENGTH", 10*time.Second),
		TimeIncrease:  getEnvDuration("BOOM_TIME_INCREASE", 5*time.Second),
		StartingLives: getEnvInt("BOOM_STARTING_LIVES", 3),
		TickInterval:  getEnvDuration("BOOM_TICK_INTERVAL", 10*time.Millisecond),
		WriteTimeout:  getEnvDuration("BOOM_WRITE_TIMEOUT", 5*time.Second),
		Debug:         getEnvBool("BOOM_DEBUG", false),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

// getEnvDuration accepts Go duration syntax ("10s") or a bare number
// of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
