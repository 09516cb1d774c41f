package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultAPIBaseURL       = "http://localhost:8090"
	DefaultRequestTimeout   = 30
	DefaultRetryMaxAttempts = 3
	DefaultRetryBaseDelay   = 2
	DefaultExpiryWindowDays = 3
	DefaultSelectMinRecipes = 2
	DefaultSelectMaxRecipes = 5
)

// Config holds the application configuration
type Config struct {
	APIBaseURL            string
	APIKey                string
	RequestTimeoutSeconds int
	RetryMaxAttempts      int
	RetryBaseDelaySeconds int
	ExpiryWindowDays      int
	SelectMinRecipes      int
	SelectMaxRecipes      int
	Dietary               []string
	Difficulty            string
	LogLevel              string
	LogFile               string
	DBPath                string
	ConfigPath            string
	DataDir               string
}

type fileConfig struct {
	API struct {
		BaseURL        string `toml:"base_url"`
		Key            string `toml:"key"`
		TimeoutSeconds int    `toml:"timeout_seconds"`
	} `toml:"api"`
	Retry struct {
		MaxAttempts      int `toml:"max_attempts"`
		BaseDelaySeconds int `toml:"base_delay_seconds"`
	} `toml:"retry"`
	Inventory struct {
		ExpiryWindowDays int `toml:"expiry_window_days"`
	} `toml:"inventory"`
	Recipes struct {
		MinCount   int      `toml:"min_count"`
		MaxCount   int      `toml:"max_count"`
		Dietary    []string `toml:"dietary"`
		Difficulty string   `toml:"difficulty"`
	} `toml:"recipes"`
	Logging struct {
		Level string `toml:"level"`
		File  string `toml:"file"`
	} `toml:"logging"`
	Storage struct {
		DBPath string `toml:"db_path"`
	} `toml:"storage"`
}

// LoadConfig loads configuration from file, environment variables, and defaults
func LoadConfig() (*Config, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}

	configPath := filepath.Join(dataDir, "config.toml")

	cfg := &Config{
		APIBaseURL:            DefaultAPIBaseURL,
		RequestTimeoutSeconds: DefaultRequestTimeout,
		RetryMaxAttempts:      DefaultRetryMaxAttempts,
		RetryBaseDelaySeconds: DefaultRetryBaseDelay,
		ExpiryWindowDays:      DefaultExpiryWindowDays,
		SelectMinRecipes:      DefaultSelectMinRecipes,
		SelectMaxRecipes:      DefaultSelectMaxRecipes,
		LogLevel:              "info",
		DBPath:                filepath.Join(dataDir, "inventory.sqlite3"),
		ConfigPath:            configPath,
		DataDir:               dataDir,
	}

	// Try to load config from file if it exists
	if _, err := os.Stat(configPath); err == nil {
		fileData, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		var parsed fileConfig
		if err := toml.Unmarshal(fileData, &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
		}

		if parsed.API.BaseURL != "" {
			cfg.APIBaseURL = parsed.API.BaseURL
		}
		if parsed.API.Key != "" {
			cfg.APIKey = parsed.API.Key
		}
		if parsed.API.TimeoutSeconds > 0 {
			cfg.RequestTimeoutSeconds = parsed.API.TimeoutSeconds
		}
		if parsed.Retry.MaxAttempts > 0 {
			cfg.RetryMaxAttempts = parsed.Retry.MaxAttempts
		}
		if parsed.Retry.BaseDelaySeconds > 0 {
			cfg.RetryBaseDelaySeconds = parsed.Retry.BaseDelaySeconds
		}
		if parsed.Inventory.ExpiryWindowDays > 0 {
			cfg.ExpiryWindowDays = parsed.Inventory.ExpiryWindowDays
		}
		if parsed.Recipes.MinCount > 0 {
			cfg.SelectMinRecipes = parsed.Recipes.MinCount
		}
		if parsed.Recipes.MaxCount > 0 {
			cfg.SelectMaxRecipes = parsed.Recipes.MaxCount
		}
		if len(parsed.Recipes.Dietary) > 0 {
			cfg.Dietary = parsed.Recipes.Dietary
		}
		if parsed.Recipes.Difficulty != "" {
			cfg.Difficulty = parsed.Recipes.Difficulty
		}
		if parsed.Logging.Level != "" {
			cfg.LogLevel = parsed.Logging.Level
		}
		if parsed.Logging.File != "" {
			cfg.LogFile = parsed.Logging.File
		}
		if parsed.Storage.DBPath != "" {
			cfg.DBPath = parsed.Storage.DBPath
		}
	}

	// Pick up a .env file before reading environment overrides.
	_ = godotenv.Load()

	if baseURL := os.Getenv("FRIDGEWISE_API_BASE_URL"); baseURL != "" {
		cfg.APIBaseURL = baseURL
	}
	if apiKey := os.Getenv("FRIDGEWISE_API_KEY"); apiKey != "" {
		cfg.APIKey = apiKey
	}
	if timeout := os.Getenv("FRIDGEWISE_API_TIMEOUT_SECONDS"); timeout != "" {
		if v, err := strconv.Atoi(timeout); err == nil {
			cfg.RequestTimeoutSeconds = v
		}
	}
	if attempts := os.Getenv("FRIDGEWISE_RETRY_MAX_ATTEMPTS"); attempts != "" {
		if v, err := strconv.Atoi(attempts); err == nil {
			cfg.RetryMaxAttempts = v
		}
	}
	if delay := os.Getenv("FRIDGEWISE_RETRY_BASE_DELAY_SECONDS"); delay != "" {
		if v, err := strconv.Atoi(delay); err == nil {
			cfg.RetryBaseDelaySeconds = v
		}
	}
	if window := os.Getenv("FRIDGEWISE_EXPIRY_WINDOW_DAYS"); window != "" {
		if v, err := strconv.Atoi(window); err == nil {
			cfg.ExpiryWindowDays = v
		}
	}
	if minCount := os.Getenv("FRIDGEWISE_SELECT_MIN_RECIPES"); minCount != "" {
		if v, err := strconv.Atoi(minCount); err == nil {
			cfg.SelectMinRecipes = v
		}
	}
	if maxCount := os.Getenv("FRIDGEWISE_SELECT_MAX_RECIPES"); maxCount != "" {
		if v, err := strconv.Atoi(maxCount); err == nil {
			cfg.SelectMaxRecipes = v
		}
	}
	if dietary := os.Getenv("FRIDGEWISE_DIETARY"); dietary != "" {
		var prefs []string
		for _, part := range strings.Split(dietary, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				prefs = append(prefs, part)
			}
		}
		if len(prefs) > 0 {
			cfg.Dietary = prefs
		}
	}
	if difficulty := os.Getenv("FRIDGEWISE_DIFFICULTY"); difficulty != "" {
		cfg.Difficulty = difficulty
	}
	if level := os.Getenv("FRIDGEWISE_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if logFile := os.Getenv("FRIDGEWISE_LOG_FILE"); logFile != "" {
		cfg.LogFile = logFile
	}
	if dbPath := os.Getenv("FRIDGEWISE_DB_PATH"); dbPath != "" {
		cfg.DBPath = dbPath
	}

	cfg.APIBaseURL = normalizeBaseURL(cfg.APIBaseURL)

	return cfg, nil
}

func resolveDataDir() (string, error) {
	if dir := os.Getenv("FRIDGEWISE_DATA_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".fridgewise"), nil
}

func normalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return baseURL
	}
	return strings.TrimRight(baseURL, "/")
}

// Validate verifies the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return fmt.Errorf("API base URL is empty")
	}
	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if c.RetryMaxAttempts <= 0 {
		return fmt.Errorf("retry max attempts must be positive")
	}
	if c.RetryBaseDelaySeconds <= 0 {
		return fmt.Errorf("retry base delay must be positive")
	}
	if c.ExpiryWindowDays <= 0 {
		return fmt.Errorf("expiry window days must be positive")
	}
	if c.SelectMinRecipes <= 0 {
		return fmt.Errorf("minimum recipe count must be positive")
	}
	if c.SelectMaxRecipes < c.SelectMinRecipes {
		return fmt.Errorf("maximum recipe count %d is below minimum %d", c.SelectMaxRecipes, c.SelectMinRecipes)
	}
	return nil
}
