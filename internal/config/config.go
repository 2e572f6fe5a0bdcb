package config

import (
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Qdrant   QdrantConfig
	Gemini   GeminiConfig
	Storage  StorageConfig
	Worker   WorkerConfig
	Logging  LoggingConfig
	Scoring  ScoringConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

type GeminiConfig struct {
	APIKey     string
	Model      string
	EmbedModel string
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type WorkerConfig struct {
	Concurrency       int
	RetryMaxAttempts  int
	RetryInitialDelay time.Duration
	PollInterval      time.Duration
}

type LoggingConfig struct {
	JSON  bool
	Debug bool
}

// ScoringConfig drives the similarity aggregation and the decision fusion
// table. Thresholds and weights are deliberately external configuration, not
// constants in the fusion code.
type ScoringConfig struct {
	PassThreshold   float64        `yaml:"pass_threshold"`
	ReviewThreshold float64        `yaml:"review_threshold"`
	Weights         SectionWeights `yaml:"weights"`
}

// SectionWeights combines the three per-section similarity scores into
// overall.mean. The defaults are an equal-weight average.
type SectionWeights struct {
	Requirements     float64 `yaml:"requirements"`
	Responsibilities float64 `yaml:"responsibilities"`
	Qualifications   float64 `yaml:"qualifications"`
}

const scoringConfigPathEnv = "SCORING_CONFIG_PATH"

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "resume_screener"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", "http://localhost:6333"),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "screened_candidates"),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			Model:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			EmbedModel: getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Worker: WorkerConfig{
			Concurrency:       getEnvAsInt("WORKER_CONCURRENCY", 3),
			RetryMaxAttempts:  getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
			RetryInitialDelay: getEnvAsDuration("RETRY_INITIAL_DELAY", "2s"),
			PollInterval:      getEnvAsDuration("WORKER_POLL_INTERVAL", "10s"),
		},
		Logging: LoggingConfig{
			JSON:  getEnvAsBool("LOG_JSON", false),
			Debug: getEnvAsBool("LOG_DEBUG", false),
		},
		Scoring: defaultScoring(),
	}

	if path := os.Getenv(scoringConfigPathEnv); path != "" {
		if err := cfg.Scoring.mergeFile(path); err != nil {
			log.Printf("config: cannot apply %s: %v (keeping defaults)", path, err)
		}
	}
	cfg.Scoring.applyEnvOverrides()

	return cfg
}

func defaultScoring() ScoringConfig {
	return ScoringConfig{
		PassThreshold:   0.75,
		ReviewThreshold: 0.60,
		Weights: SectionWeights{
			Requirements:     1.0 / 3.0,
			Responsibilities: 1.0 / 3.0,
			Qualifications:   1.0 / 3.0,
		},
	}
}

func (s *ScoringConfig) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read scoring config: %w", err)
	}

	var fileCfg ScoringConfig
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return fmt.Errorf("parse scoring config: %w", err)
	}

	if fileCfg.PassThreshold > 0 {
		s.PassThreshold = fileCfg.PassThreshold
	}
	if fileCfg.ReviewThreshold > 0 {
		s.ReviewThreshold = fileCfg.ReviewThreshold
	}
	if fileCfg.Weights != (SectionWeights{}) {
		s.Weights = fileCfg.Weights
	}

	return nil
}

func (s *ScoringConfig) applyEnvOverrides() {
	if v, err := strconv.ParseFloat(os.Getenv("PASS_THRESHOLD"), 64); err == nil {
		s.PassThreshold = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("REVIEW_THRESHOLD"), 64); err == nil {
		s.ReviewThreshold = v
	}
}

// Validate rejects scoring policies that would break the fusion table or the
// weighted-average boundedness of overall.mean.
func (s ScoringConfig) Validate() error {
	if s.PassThreshold <= s.ReviewThreshold {
		return fmt.Errorf("pass threshold %.4f must be greater than review threshold %.4f",
			s.PassThreshold, s.ReviewThreshold)
	}

	w := s.Weights
	if w.Requirements < 0 || w.Responsibilities < 0 || w.Qualifications < 0 {
		return fmt.Errorf("section weights must be non-negative")
	}

	sum := w.Requirements + w.Responsibilities + w.Qualifications
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("section weights must sum to 1, got %.6f", sum)
	}

	return nil
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
