package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"bioez-be/internal/constant"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DataSourceLive    = "live"
	DataSourceFixture = "fixture"

	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Bio      BioConfig
	Search   SearchConfig
	Storage  StorageConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	RealtimeLogPath    string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string

	// DataSource selects live services or the fixture set. DevFixtureFallback is opt-in and
	// wraps live services with the fixture set in development only.
	DataSource         string
	DevFixtureFallback bool
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	Prediction string
	LLM        string
	NCBI       string
}

type AIConfig struct {
	LLMProvider   string // "openai" or "ollama"
	LLMBaseURL    string
	LLMModel      string
	LLMTimeout    time.Duration
	OllamaBaseURL string
}

type BioConfig struct {
	PredictionURL     string
	PredictionTimeout time.Duration
	RCSBSearchURL     string
	RCSBDataURL       string
	RCSBFilesURL      string
	UniProtURL        string
	NCBIURL           string
	NCBIDatabase      string
	PubChemURL        string
	EnsemblURL        string
	DatabaseTimeout   time.Duration
}

type SearchConfig struct {
	Databases   []string
	Delay       time.Duration
	ResultLimit int
	CacheTTL    time.Duration
}

type StorageConfig struct {
	Backend       string
	WorkspaceTTL  time.Duration
	EventsEnabled bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	env := getEnv("GO_ENV", EnvDevelopment)

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        env,
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			RealtimeLogPath:    getEnv("REALTIME_LOG_FILE_PATH", "logs/realtime.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			JWTSecret:          getEnv("JWT_SECRET", ""),
			DataSource:         getEnv("DATA_SOURCE", DataSourceLive),
			DevFixtureFallback: getEnvAsBool("DEV_FIXTURE_FALLBACK", false),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			Prediction: getEnv("PREDICTION_API_KEY", ""),
			LLM:        getEnv("LLM_API_KEY", ""),
			NCBI:       getEnv("NCBI_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "openai"),
			LLMBaseURL:    getEnv("LLM_API_URL", "https://api.openai.com/v1"),
			LLMModel:      getEnv("LLM_MODEL", constant.ChatDefaultModel),
			LLMTimeout:    getEnvAsDuration("LLM_TIMEOUT", constant.LLMTimeout),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", constant.OllamaDefaultBaseURL),
		},
		Bio: BioConfig{
			PredictionURL:     getEnv("PREDICTION_API_URL", "https://api.bioez.ai"),
			PredictionTimeout: getEnvAsDuration("PREDICTION_TIMEOUT", constant.PredictionTimeout),
			RCSBSearchURL:     getEnv("RCSB_SEARCH_URL", constant.DefaultRCSBSearchURL),
			RCSBDataURL:       getEnv("RCSB_DATA_URL", constant.DefaultRCSBDataURL),
			RCSBFilesURL:      getEnv("RCSB_FILES_URL", constant.DefaultRCSBFilesURL),
			UniProtURL:        getEnv("UNIPROT_API_URL", constant.DefaultUniProtURL),
			NCBIURL:           getEnv("NCBI_API_URL", constant.DefaultNCBIURL),
			NCBIDatabase:      getEnv("NCBI_DATABASE", "pubmed"),
			PubChemURL:        getEnv("PUBCHEM_API_URL", constant.DefaultPubChemURL),
			EnsemblURL:        getEnv("ENSEMBL_API_URL", constant.DefaultEnsemblURL),
			DatabaseTimeout:   getEnvAsDuration("DATABASE_TIMEOUT", constant.DatabaseTimeout),
		},
		Search: SearchConfig{
			Databases:   getEnvAsList("SEARCH_DATABASES", constant.DefaultSearchDatabases),
			Delay:       getEnvAsDuration("SEARCH_RATE_DELAY", constant.SearchRateDelay),
			ResultLimit: getEnvAsInt("SEARCH_RESULT_LIMIT", constant.SearchResultLimit),
			CacheTTL:    getEnvAsDuration("SEARCH_CACHE_TTL", constant.SearchCacheTTL),
		},
		Storage: StorageConfig{
			Backend:       getEnv("STORAGE_BACKEND", StorageMemory),
			WorkspaceTTL:  getEnvAsDuration("WORKSPACE_TTL", time.Hour),
			EventsEnabled: getEnvAsBool("EVENTS_ENABLED", true),
		},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == EnvDevelopment
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	strValue := strings.TrimSpace(getEnv(key, ""))
	if strValue == "" {
		return append([]string(nil), fallback...)
	}
	var out []string
	for _, part := range strings.Split(strValue, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
