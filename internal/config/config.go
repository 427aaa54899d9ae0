package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	RedisAddr     string
	RedisPassword string
	DataDir       string

	SupabaseURL        string
	SupabaseServiceKey string
	SupabaseBucket     string

	LLMProvider     string
	GeminiAPIKey    string
	DefaultLLMModel string

	// Browser extraction knobs. NavigationTimeoutMs is clamped to
	// MaxNavigationTimeoutMs so a misconfigured env cannot stall requests.
	NavigationTimeoutMs int
	ViewportWidth       int
	ViewportHeight      int
	SelectorsFile       string

	TaskMaxRetries int
}

const MaxNavigationTimeoutMs = 90_000

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func Load() Config {
	cfg := Config{
		AppEnv:        getenv("APP_ENV", "development"),
		HTTPAddr:      getenv("HTTP_ADDR", ":8082"),
		RedisAddr:     getenv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		DataDir:       getenv("DATA_DIR", "./data"),

		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseServiceKey: os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		SupabaseBucket:     getenv("SUPABASE_STORAGE_BUCKET", "snapshots"),

		LLMProvider:     getenv("LLM_PROVIDER", "gemini"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		DefaultLLMModel: getenv("DEFAULT_LLM_MODEL", "gemini-1.5-flash"),

		NavigationTimeoutMs: getenvInt("NAVIGATION_TIMEOUT_MS", 60_000),
		ViewportWidth:       getenvInt("VIEWPORT_WIDTH", 1366),
		ViewportHeight:      getenvInt("VIEWPORT_HEIGHT", 900),
		SelectorsFile:       os.Getenv("SELECTORS_FILE"),

		TaskMaxRetries: getenvInt("TASK_MAX_RETRIES", 3),
	}
	if cfg.RedisAddr == "" {
		panic(fmt.Errorf("REDIS_ADDR is required"))
	}
	if cfg.NavigationTimeoutMs <= 0 || cfg.NavigationTimeoutMs > MaxNavigationTimeoutMs {
		cfg.NavigationTimeoutMs = MaxNavigationTimeoutMs
	}
	return cfg
}
