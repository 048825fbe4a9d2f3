package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Mongo       MongoConfig
	Neo4j       Neo4jConfig
	Redis       RedisConfig
	Influx      InfluxConfig
	JWT         JWTConfig
	Session     SessionConfig
	Cache       CacheConfig
	Credentials CredentialsConfig
	Analytics   AnalyticsConfig
	CORS        CORSConfig
	Log         LogConfig

	// StoreTimeout bounds every downstream store round trip. A stuck store
	// must not block a user interaction indefinitely.
	StoreTimeout time.Duration
}

type MongoConfig struct {
	URI      string
	Database string
}

type Neo4jConfig struct {
	URI      string
	User     string
	Password string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type InfluxConfig struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

type JWTConfig struct {
	Secret string
	Issuer string
}

type SessionConfig struct {
	TTL time.Duration
}

type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// CredentialsConfig controls the plaintext credential export written on
// account creation. This is an intentional side channel for initial password
// distribution; it is logged with a warning at startup.
type CredentialsConfig struct {
	Enabled bool
	Dir     string
}

// AnalyticsConfig governs the trailing windows for behavioural aggregates.
type AnalyticsConfig struct {
	ActivityWindow time.Duration
	RankingWindow  time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Mongo = MongoConfig{
		URI:      v.GetString("MONGO_URI"),
		Database: v.GetString("MONGO_DATABASE"),
	}

	cfg.Neo4j = Neo4jConfig{
		URI:      v.GetString("NEO4J_URI"),
		User:     v.GetString("NEO4J_USER"),
		Password: v.GetString("NEO4J_PASSWORD"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Influx = InfluxConfig{
		URL:    v.GetString("INFLUX_URL"),
		Token:  v.GetString("INFLUX_TOKEN"),
		Org:    v.GetString("INFLUX_ORG"),
		Bucket: v.GetString("INFLUX_BUCKET"),
	}

	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
		Issuer: v.GetString("JWT_ISSUER"),
	}

	cfg.Session = SessionConfig{
		TTL: parseDuration(v.GetString("SESSION_TTL"), 10*time.Minute),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("CACHE_ENABLED"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), 10*time.Minute),
	}

	cfg.Credentials = CredentialsConfig{
		Enabled: v.GetBool("CREDENTIALS_EXPORT_ENABLED"),
		Dir:     v.GetString("CREDENTIALS_EXPORT_DIR"),
	}

	cfg.Analytics = AnalyticsConfig{
		ActivityWindow: parseDuration(v.GetString("ANALYTICS_ACTIVITY_WINDOW"), 7*24*time.Hour),
		RankingWindow:  parseDuration(v.GetString("ANALYTICS_RANKING_WINDOW"), 30*24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.StoreTimeout = parseDuration(v.GetString("STORE_TIMEOUT"), 5*time.Second)

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "university_portal")

	v.SetDefault("NEO4J_URI", "bolt://localhost:7687")
	v.SetDefault("NEO4J_USER", "neo4j")
	v.SetDefault("NEO4J_PASSWORD", "")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("INFLUX_URL", "http://localhost:8086")
	v.SetDefault("INFLUX_TOKEN", "")
	v.SetDefault("INFLUX_ORG", "university")
	v.SetDefault("INFLUX_BUCKET", "portal-activity")

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "university-portal-api")

	v.SetDefault("SESSION_TTL", "10m")
	v.SetDefault("CACHE_ENABLED", true)
	v.SetDefault("CACHE_TTL", "10m")

	v.SetDefault("CREDENTIALS_EXPORT_ENABLED", false)
	v.SetDefault("CREDENTIALS_EXPORT_DIR", "./credentials")

	v.SetDefault("ANALYTICS_ACTIVITY_WINDOW", "168h")
	v.SetDefault("ANALYTICS_RANKING_WINDOW", "720h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("STORE_TIMEOUT", "5s")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
