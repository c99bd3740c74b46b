package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Security SecurityConfig `mapstructure:"security"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int           `mapstructure:"max_connections"`
	MaxIdleTime    time.Duration `mapstructure:"max_idle_time"`
	MaxLifetime    time.Duration `mapstructure:"max_lifetime"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type RedisConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	URL        string        `mapstructure:"url"`
	MaxRetries int           `mapstructure:"max_retries"`
	PoolSize   int           `mapstructure:"pool_size"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topics  struct {
		UserInteractions string `mapstructure:"user_interactions"`
	} `mapstructure:"topics"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EngineConfig holds every tunable of the ranking pipeline.
type EngineConfig struct {
	CollaborativeWeight float64 `mapstructure:"collaborative_weight"`
	ContentWeight       float64 `mapstructure:"content_weight"`
	PopularityBoost     float64 `mapstructure:"popularity_boost"`

	NeighborLimit   int     `mapstructure:"neighbor_limit"`
	SimilarityFloor float64 `mapstructure:"similarity_floor"`

	LikeThreshold      int     `mapstructure:"like_threshold"`
	ImplicitLikeWeight float64 `mapstructure:"implicit_like_weight"`

	GenreOverlapBoost float64 `mapstructure:"genre_overlap_boost"`
	FallbackFillRatio float64 `mapstructure:"fallback_fill_ratio"`
	MaxCandidates     int     `mapstructure:"max_candidates"`

	Cache CacheConfig `mapstructure:"cache"`
}

type CacheConfig struct {
	RecommendTTL time.Duration `mapstructure:"recommend_ttl"`
	SimilarTTL   time.Duration `mapstructure:"similar_ttl"`
}

type SecurityConfig struct {
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

func Load() (*Config, error) {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional, continue with env vars and defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultEngineConfig returns the production defaults without touching
// viper; tests and library consumers build on it.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		CollaborativeWeight: 0.6,
		ContentWeight:       0.4,
		PopularityBoost:     0.1,
		NeighborLimit:       50,
		SimilarityFloor:     0.1,
		LikeThreshold:       4,
		ImplicitLikeWeight:  0.6,
		GenreOverlapBoost:   0.1,
		FallbackFillRatio:   0.7,
		MaxCandidates:       2000,
		Cache: CacheConfig{
			RecommendTTL: 30 * time.Minute,
			SimilarTTL:   60 * time.Minute,
		},
	}
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "development")

	// Database defaults
	viper.SetDefault("database.max_connections", 25)
	viper.SetDefault("database.max_idle_time", "15m")
	viper.SetDefault("database.max_lifetime", "1h")
	viper.SetDefault("database.connect_timeout", "10s")

	// Redis defaults
	viper.SetDefault("redis.enabled", true)
	viper.SetDefault("redis.url", "localhost:6379")
	viper.SetDefault("redis.max_retries", 3)
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.timeout", "5s")

	// Kafka defaults
	viper.SetDefault("kafka.enabled", false)
	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})
	viper.SetDefault("kafka.topics.user_interactions", "user-interactions")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")

	// Engine defaults
	def := DefaultEngineConfig()
	viper.SetDefault("engine.collaborative_weight", def.CollaborativeWeight)
	viper.SetDefault("engine.content_weight", def.ContentWeight)
	viper.SetDefault("engine.popularity_boost", def.PopularityBoost)
	viper.SetDefault("engine.neighbor_limit", def.NeighborLimit)
	viper.SetDefault("engine.similarity_floor", def.SimilarityFloor)
	viper.SetDefault("engine.like_threshold", def.LikeThreshold)
	viper.SetDefault("engine.implicit_like_weight", def.ImplicitLikeWeight)
	viper.SetDefault("engine.genre_overlap_boost", def.GenreOverlapBoost)
	viper.SetDefault("engine.fallback_fill_ratio", def.FallbackFillRatio)
	viper.SetDefault("engine.max_candidates", def.MaxCandidates)
	viper.SetDefault("engine.cache.recommend_ttl", "30m")
	viper.SetDefault("engine.cache.similar_ttl", "60m")

	// Security defaults
	viper.SetDefault("security.cors.allowed_origins", []string{"*"})
	viper.SetDefault("security.cors.allowed_methods", []string{"GET", "OPTIONS"})
	viper.SetDefault("security.cors.allowed_headers", []string{"*"})
}
