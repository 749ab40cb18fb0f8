// Package config provides configuration loading for taranad.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for taranad.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Logging     LoggingConfig     `koanf:"logging"`
	Embeddings  EmbeddingsConfig  `koanf:"embeddings"`
	VectorStore VectorStoreConfig `koanf:"vectorstore"`
	Postgres    PostgresConfig    `koanf:"postgres"`
	Retrieval   RetrievalConfig   `koanf:"retrieval"`
	Scoring     ScoringConfig     `koanf:"scoring"`
	Catalog     CatalogConfig     `koanf:"catalog"`
	Telemetry   TelemetryConfig   `koanf:"telemetry"`
}

// TelemetryConfig holds OpenTelemetry export settings. Disabled by
// default; instrumentation degrades to no-ops without a collector.
type TelemetryConfig struct {
	Enabled bool `koanf:"enabled"`
	// Endpoint is the OTLP collector address, host:port.
	Endpoint string `koanf:"endpoint"`
	// Protocol is "grpc" or "http/protobuf".
	Protocol       string   `koanf:"protocol"`
	ServiceName    string   `koanf:"service_name"`
	ServiceVersion string   `koanf:"service_version"`
	Insecure       bool     `koanf:"insecure"`
	SamplingRate   float64  `koanf:"sampling_rate"`
	ExportInterval Duration `koanf:"export_interval"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `koanf:"level"`
	// Format is json or console.
	Format string `koanf:"format"`
}

// EmbeddingsConfig holds embedding provider settings.
type EmbeddingsConfig struct {
	// Provider is the provider type: "tei" (OpenAI-compatible HTTP endpoint)
	// or "openai" (via langchaingo).
	Provider string `koanf:"provider"`
	BaseURL  string `koanf:"base_url"`
	Model    string `koanf:"model"`
	APIKey   Secret `koanf:"api_key"`
	// Dimension is the expected embedding width. Must match the model output.
	Dimension int `koanf:"dimension"`
	// RequestsPerSecond rate-limits calls to the metered upstream API.
	// Zero disables limiting.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`
}

// VectorStoreConfig selects and configures the vector store backend.
type VectorStoreConfig struct {
	// Provider is "chromem" (embedded) or "postgres" (hosted pgvector).
	Provider   string        `koanf:"provider"`
	Collection string        `koanf:"collection"`
	Chromem    ChromemConfig `koanf:"chromem"`
}

// ChromemConfig holds settings for the embedded chromem-go backend.
type ChromemConfig struct {
	Path     string `koanf:"path"`
	Compress bool   `koanf:"compress"`
}

// PostgresConfig holds settings for the hosted pgvector backend.
// The DSN carries a service-role credential and must never leave the server.
type PostgresConfig struct {
	DSN   Secret `koanf:"dsn"`
	Table string `koanf:"table"`
}

// RetrievalConfig holds query cache and fan-out settings.
type RetrievalConfig struct {
	CacheTTL          Duration `koanf:"cache_ttl"`
	CacheMaxEntries   int      `koanf:"cache_max_entries"`
	DefaultMatchCount int      `koanf:"default_match_count"`
}

// ScoringConfig holds ranking weights and peak-hour windows.
type ScoringConfig struct {
	Weights WeightsConfig `koanf:"weights"`
	// PeakHours are local congestion windows in "HH-HH" 24h format,
	// e.g. "17-20". Activities whose ideal visit overlaps these windows
	// score lower on the temporal dimension.
	PeakHours []string `koanf:"peak_hours"`
}

// WeightsConfig holds the raw (pre-normalization) scoring weights.
// Weights express relative emphasis and are normalized to sum to 1
// before use.
type WeightsConfig struct {
	Semantic   float64 `koanf:"semantic"`
	Vector     float64 `koanf:"vector"`
	Fuzzy      float64 `koanf:"fuzzy"`
	Contextual float64 `koanf:"contextual"`
	Temporal   float64 `koanf:"temporal"`
	Diversity  float64 `koanf:"diversity"`
}

// CatalogConfig holds the activity catalog source.
type CatalogConfig struct {
	Path string `koanf:"path"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8090
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = Duration(10 * time.Second)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Embeddings.Provider == "" {
		c.Embeddings.Provider = "tei"
	}
	if c.Embeddings.BaseURL == "" {
		c.Embeddings.BaseURL = "http://localhost:8080"
	}
	if c.Embeddings.Model == "" {
		c.Embeddings.Model = "text-embedding-004"
	}
	if c.Embeddings.Dimension == 0 {
		c.Embeddings.Dimension = 768
	}
	if c.Embeddings.Burst == 0 {
		c.Embeddings.Burst = 4
	}
	if c.VectorStore.Provider == "" {
		c.VectorStore.Provider = "chromem"
	}
	if c.VectorStore.Collection == "" {
		c.VectorStore.Collection = "tarana_activities"
	}
	if c.VectorStore.Chromem.Path == "" {
		c.VectorStore.Chromem.Path = "~/.config/taranad/vectorstore"
	}
	if c.Postgres.Table == "" {
		c.Postgres.Table = "activity_embeddings"
	}
	if c.Retrieval.CacheTTL == 0 {
		c.Retrieval.CacheTTL = Duration(10 * time.Minute)
	}
	if c.Retrieval.CacheMaxEntries == 0 {
		c.Retrieval.CacheMaxEntries = 50
	}
	if c.Retrieval.DefaultMatchCount == 0 {
		c.Retrieval.DefaultMatchCount = 5
	}
	zero := WeightsConfig{}
	if c.Scoring.Weights == zero {
		c.Scoring.Weights = WeightsConfig{
			Semantic:   0.40,
			Vector:     0.25,
			Fuzzy:      0.20,
			Contextual: 0.20,
			Temporal:   0.15,
			Diversity:  0.05,
		}
	}
	if len(c.Scoring.PeakHours) == 0 {
		c.Scoring.PeakHours = []string{"7-9", "17-20"}
	}
	if c.Catalog.Path == "" {
		c.Catalog.Path = "catalog.json"
	}
	if c.Telemetry.Endpoint == "" {
		c.Telemetry.Endpoint = "localhost:4317"
	}
	if c.Telemetry.Protocol == "" {
		c.Telemetry.Protocol = "grpc"
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = "taranad"
	}
	if c.Telemetry.ServiceVersion == "" {
		c.Telemetry.ServiceVersion = "dev"
	}
	if c.Telemetry.SamplingRate == 0 {
		c.Telemetry.SamplingRate = 1.0
	}
	if c.Telemetry.ExportInterval == 0 {
		c.Telemetry.ExportInterval = Duration(15 * time.Second)
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %s", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format: %s", c.Logging.Format)
	}
	switch c.Embeddings.Provider {
	case "tei", "openai":
	default:
		return fmt.Errorf("unknown embeddings provider: %s", c.Embeddings.Provider)
	}
	if c.Embeddings.Dimension <= 0 {
		return fmt.Errorf("embedding dimension must be positive, got %d", c.Embeddings.Dimension)
	}
	switch c.VectorStore.Provider {
	case "chromem", "postgres":
	default:
		return fmt.Errorf("unknown vectorstore provider: %s", c.VectorStore.Provider)
	}
	if c.VectorStore.Provider == "postgres" && !c.Postgres.DSN.IsSet() {
		return fmt.Errorf("postgres vectorstore requires postgres.dsn")
	}
	if c.Retrieval.DefaultMatchCount <= 0 {
		return fmt.Errorf("default match count must be positive, got %d", c.Retrieval.DefaultMatchCount)
	}
	w := c.Scoring.Weights
	for _, v := range []float64{w.Semantic, w.Vector, w.Fuzzy, w.Contextual, w.Temporal, w.Diversity} {
		if v < 0 {
			return fmt.Errorf("scoring weights cannot be negative")
		}
	}
	if w.Semantic+w.Vector+w.Fuzzy+w.Contextual+w.Temporal+w.Diversity == 0 {
		return fmt.Errorf("scoring weights cannot all be zero")
	}
	if c.Telemetry.Enabled {
		if c.Telemetry.Endpoint == "" {
			return fmt.Errorf("telemetry endpoint is required when telemetry is enabled")
		}
		switch c.Telemetry.Protocol {
		case "grpc", "http/protobuf":
		default:
			return fmt.Errorf("unknown telemetry protocol: %s", c.Telemetry.Protocol)
		}
		if c.Telemetry.SamplingRate < 0 || c.Telemetry.SamplingRate > 1 {
			return fmt.Errorf("telemetry sampling rate must be between 0 and 1, got %f", c.Telemetry.SamplingRate)
		}
	}
	return nil
}
