package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	LaTeX    LaTeXConfig
	Files    FilesConfig
	Scraper  ScraperConfig
	Auth     AuthConfig
	Database DatabaseConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type LaTeXConfig struct {
	Engine      string
	PassTimeout time.Duration
	OutputDir   string
	CloudURL    string
}

type FilesConfig struct {
	ResumePath string
	NotesPath  string
}

type ScraperConfig struct {
	Timeout             time.Duration
	MaxDescriptionChars int
	HeadlessEnabled     bool
	CacheTTL            time.Duration
	BatchRateLimit      int
}

type AuthConfig struct {
	Secret         string
	PassphraseHash string
	TokenTTL       time.Duration
}

func (a AuthConfig) Enabled() bool {
	return strings.TrimSpace(a.Secret) != ""
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout      time.Duration
	PoolMaxConns        int32
	PoolMinConns        int32
	PoolMaxConnLifetime time.Duration
	PoolMaxConnIdleTime time.Duration
}

func (d DatabaseConfig) Enabled() bool {
	return strings.TrimSpace(d.DBHost) != ""
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{}

	var missing []string
	opt := func(key, def string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     opt("APP_NAME", "tailor-resume-ai"),
		Environment: opt("APP_ENV", "development"),
		HTTPPort:    opt("HTTP_PORT", "5000"),
	}

	cfg.LaTeX = LaTeXConfig{
		Engine:      opt("LATEX_ENGINE", "pdflatex"),
		PassTimeout: optDuration("LATEX_PASS_TIMEOUT", 60*time.Second),
		OutputDir:   opt("LATEX_OUTPUT_DIR", "output"),
		CloudURL:    opt("LATEX_CLOUD_URL", ""),
	}

	cfg.Files = FilesConfig{
		ResumePath: opt("RESUME_TEX_PATH", "data_science_resume.tex"),
		NotesPath:  opt("RESUME_NOTES_PATH", "resume.txt"),
	}

	cfg.Scraper = ScraperConfig{
		Timeout:             optDuration("SCRAPE_TIMEOUT", 30*time.Second),
		MaxDescriptionChars: optInt("SCRAPE_MAX_DESCRIPTION_CHARS", 15000),
		HeadlessEnabled:     optBool("SCRAPE_HEADLESS_ENABLED", true),
		CacheTTL:            optDuration("SCRAPE_CACHE_TTL", 6*time.Hour),
		BatchRateLimit:      optInt("SCRAPE_BATCH_RATE_LIMIT", 3),
	}

	cfg.Auth = AuthConfig{
		Secret:         opt("AUTH_SECRET", ""),
		PassphraseHash: opt("AUTH_PASSPHRASE_HASH", ""),
		TokenTTL:       optDuration("AUTH_TOKEN_TTL", 12*time.Hour),
	}
	if cfg.Auth.Enabled() && cfg.Auth.PassphraseHash == "" {
		missing = append(missing, "AUTH_PASSPHRASE_HASH")
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST", ""),
		DBPort:     opt("DB_PORT", "5432"),
		DBName:     opt("DB_NAME", ""),
		DBUser:     opt("DB_USER", ""),
		DBPassword: opt("DB_PASSWORD", ""),
		DBSSLMode:  opt("DB_SSL_MODE", "disable"),

		ConnectTimeout:      optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:        int32(optInt("DB_POOL_MAX_CONNS", 4)),
		PoolMinConns:        int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime: optDuration("DB_POOL_MAX_CONN_LIFETIME", 30*time.Minute),
		PoolMaxConnIdleTime: optDuration("DB_POOL_MAX_CONN_IDLE_TIME", 5*time.Minute),
	}
	if cfg.Database.Enabled() {
		if cfg.Database.DBName == "" {
			missing = append(missing, "DB_NAME")
		}
		if cfg.Database.DBUser == "" {
			missing = append(missing, "DB_USER")
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func optDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func optInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func optBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
