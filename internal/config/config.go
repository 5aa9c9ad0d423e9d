package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the CLI needs to reach its collaborators: the
// decision backend, the AI suggestion provider and the local workspace.
type Config struct {
	// APIURL is the base URL of the decision backend. Empty means offline:
	// the local workspace store is used instead of the remote API.
	APIURL string

	// WorkspacePath is the JSON file backing the offline workspace.
	WorkspacePath string
	// WorkspaceDSN, when set, switches the workspace to Postgres.
	WorkspaceDSN string

	// SessionPath is where the last session token is kept between runs.
	SessionPath string

	AI AIConfig
}

// AIConfig selects and tunes the AI suggestion provider.
type AIConfig struct {
	// Provider is "gemini" for the direct model provider, "remote" for the
	// backend's /ai endpoints, or "" to pick gemini when a key is present
	// and remote otherwise.
	Provider string
	Model    string
	Timeout  time.Duration
	// CacheTTL bounds how long identical suggestion requests are served
	// from cache.
	CacheTTL time.Duration
	Retries  int
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	home, _ := os.UserHomeDir()
	cfg := &Config{
		APIURL:        strings.TrimRight(strings.TrimSpace(os.Getenv("DECANA_API_URL")), "/"),
		WorkspacePath: firstNonEmpty(strings.TrimSpace(os.Getenv("DECANA_WORKSPACE")), defaultPath(home, "workspace.json")),
		WorkspaceDSN:  strings.TrimSpace(os.Getenv("DECANA_WORKSPACE_PG_DSN")),
		SessionPath:   firstNonEmpty(strings.TrimSpace(os.Getenv("DECANA_SESSION_FILE")), defaultPath(home, "session.json")),
		AI: AIConfig{
			Provider: strings.ToLower(strings.TrimSpace(os.Getenv("DECANA_AI_PROVIDER"))),
			Model:    firstNonEmpty(strings.TrimSpace(os.Getenv("DECANA_AI_MODEL")), "gemini-2.5-flash"),
			Timeout:  envDuration("DECANA_AI_TIMEOUT_MS", 30*time.Second),
			CacheTTL: envDuration("DECANA_AI_CACHE_TTL_MS", 5*time.Minute),
			Retries:  envInt("DECANA_AI_RETRIES", 2),
		},
	}

	if cfg.AI.Provider == "" {
		if os.Getenv("GEMINI_API_KEY") != "" {
			cfg.AI.Provider = "gemini"
		} else {
			cfg.AI.Provider = "remote"
		}
	}
	return cfg, nil
}

func defaultPath(home, name string) string {
	if home == "" {
		return name
	}
	return home + "/.decana/" + name
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

func envInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
