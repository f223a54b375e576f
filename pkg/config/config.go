package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/platinummonkey/kgsearch/pkg/citation"
	"github.com/platinummonkey/kgsearch/pkg/elastic"
	"github.com/platinummonkey/kgsearch/pkg/indexing"
	"github.com/platinummonkey/kgsearch/pkg/kgclient"
	"github.com/platinummonkey/kgsearch/pkg/model"
	"github.com/platinummonkey/kgsearch/pkg/observability"
	"github.com/platinummonkey/kgsearch/pkg/sitemap"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	KG            kgclient.Config
	Elastic       elastic.Config
	Auth          AuthConfig
	Citation      citation.Config
	Redis         citation.RedisConfig
	Sitemap       sitemap.Config
	Indexing      IndexingConfig
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	// CORSOrigins lists the origins allowed to call the API
	CORSOrigins  []string
	MaxBodyBytes int64
}

// Addr is the listen address of the server
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// AuthConfig holds the bearer token verification settings. Without an
// issuer every caller is anonymous.
type AuthConfig struct {
	IssuerURL string
	ClientID  string
}

// IndexingConfig holds the settings of the indexer
type IndexingConfig struct {
	indexing.Config
	// Schedule is the cron expression of scheduled runs
	Schedule string
	Stages   []model.Stage
	// Types restricts the indexed types, all of them when empty
	Types     []string
	Temporary bool
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool

	OTelEnabled        bool
	OTelEndpoint       string
	OTelServiceName    string
	OTelServiceVersion string
	OTelInsecure       bool
	OTelSampleRatio    float64
}

// LoadConfig loads configuration from KGSEARCH_* environment variables
func LoadConfig() (*Config, error) {
	observabilityConfig, err := loadObservabilityConfig()
	if err != nil {
		return nil, err
	}
	indexingConfig, err := loadIndexingConfig()
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		Server:        loadServerConfig(),
		KG:            loadKGConfig(),
		Elastic:       loadElasticConfig(),
		Auth:          loadAuthConfig(),
		Citation:      loadCitationConfig(),
		Redis:         loadRedisConfig(),
		Sitemap:       loadSitemapConfig(),
		Indexing:      indexingConfig,
		Observability: observabilityConfig,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("KGSEARCH_HOST", "0.0.0.0"),
		Port:            getEnv("KGSEARCH_PORT", "8080"),
		ReadTimeout:     getEnvDuration("KGSEARCH_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("KGSEARCH_WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:     getEnvDuration("KGSEARCH_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("KGSEARCH_SHUTDOWN_TIMEOUT", 30*time.Second),
		CORSOrigins:     getEnvList("KGSEARCH_CORS_ORIGINS", nil),
		MaxBodyBytes:    getEnvInt64("KGSEARCH_MAX_BODY_BYTES", 1<<20),
	}
}

func loadKGConfig() kgclient.Config {
	return kgclient.Config{
		Endpoint:     getEnv("KGSEARCH_KG_ENDPOINT", "https://core.kg.ebrains.eu/v3"),
		TokenURL:     getEnv("KGSEARCH_KG_TOKEN_URL", "https://iam.ebrains.eu/auth/realms/hbp/protocol/openid-connect/token"),
		ClientID:     getEnv("KGSEARCH_KG_CLIENT_ID", ""),
		ClientSecret: getEnv("KGSEARCH_KG_CLIENT_SECRET", ""),
		Scopes:       getEnvList("KGSEARCH_KG_SCOPES", nil),
		Timeout:      getEnvDuration("KGSEARCH_KG_TIMEOUT", 2*time.Minute),
	}
}

func loadElasticConfig() elastic.Config {
	return elastic.Config{
		Endpoint: getEnv("KGSEARCH_ELASTIC_URL", "http://localhost:9200"),
		Timeout:  getEnvDuration("KGSEARCH_ELASTIC_TIMEOUT", time.Minute),
	}
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		IssuerURL: getEnv("KGSEARCH_OIDC_ISSUER", ""),
		ClientID:  getEnv("KGSEARCH_OIDC_CLIENT_ID", ""),
	}
}

func loadCitationConfig() citation.Config {
	cfg := citation.DefaultConfig()
	cfg.ResolveDOIs = getEnvBool("KGSEARCH_CITATION_RESOLVE", cfg.ResolveDOIs)
	cfg.DataCiteURL = getEnv("KGSEARCH_DATACITE_URL", cfg.DataCiteURL)
	cfg.DOIResolverURL = getEnv("KGSEARCH_DOI_RESOLVER_URL", cfg.DOIResolverURL)
	if size := getEnvInt("KGSEARCH_CITATION_CACHE_SIZE", 0); size > 0 {
		cfg.CacheSize = size
	}
	cfg.CacheTTL = getEnvDuration("KGSEARCH_CITATION_CACHE_TTL", cfg.CacheTTL)
	cfg.Timeout = getEnvDuration("KGSEARCH_CITATION_TIMEOUT", cfg.Timeout)
	return cfg
}

func loadRedisConfig() citation.RedisConfig {
	return citation.RedisConfig{
		URL:        getEnv("KGSEARCH_REDIS_URL", ""),
		Password:   getEnv("KGSEARCH_REDIS_PASSWORD", ""),
		DB:         getEnvInt("KGSEARCH_REDIS_DB", 0),
		MaxRetries: getEnvInt("KGSEARCH_REDIS_MAX_RETRIES", 3),
		PoolSize:   getEnvInt("KGSEARCH_REDIS_POOL_SIZE", 10),
		TTL:        getEnvDuration("KGSEARCH_REDIS_TTL", 7*24*time.Hour),
	}
}

func loadSitemapConfig() sitemap.Config {
	return sitemap.Config{
		BaseURL:  getEnv("KGSEARCH_SITEMAP_BASE_URL", "https://search.kg.ebrains.eu"),
		Types:    getEnvList("KGSEARCH_SITEMAP_TYPES", []string{model.TypeDataset, model.TypeModel, model.TypeSoftware, model.TypeProject, model.TypeContributor}),
		Schedule: getEnv("KGSEARCH_SITEMAP_SCHEDULE", sitemap.DefaultSchedule),
		TTL:      getEnvDuration("KGSEARCH_SITEMAP_TTL", 48*time.Hour),
	}
}

func loadIndexingConfig() (IndexingConfig, error) {
	var stages []model.Stage
	for _, name := range getEnvList("KGSEARCH_INDEXING_STAGES", []string{string(model.StageReleased), string(model.StageInProgress)}) {
		stage, err := ParseStage(name)
		if err != nil {
			return IndexingConfig{}, err
		}
		stages = append(stages, stage)
	}
	return IndexingConfig{
		Config: indexing.Config{
			PageSize:     getEnvInt("KGSEARCH_INDEXING_PAGE_SIZE", 1000),
			AutoReleased: getEnvList("KGSEARCH_INDEXING_AUTO_RELEASED", []string{model.TypeFile}),
			Parallelism:  getEnvInt("KGSEARCH_INDEXING_PARALLELISM", 2),
		},
		Schedule:  getEnv("KGSEARCH_INDEXING_SCHEDULE", "0 3 * * *"),
		Stages:    stages,
		Types:     getEnvList("KGSEARCH_INDEXING_TYPES", nil),
		Temporary: getEnvBool("KGSEARCH_INDEXING_TEMPORARY", false),
	}, nil
}

func loadObservabilityConfig() (ObservabilityConfig, error) {
	level, err := observability.ParseLevel(getEnv("KGSEARCH_LOG_LEVEL", "info"))
	if err != nil {
		return ObservabilityConfig{}, err
	}
	return ObservabilityConfig{
		LogLevel:           level,
		MetricsEnabled:     getEnvBool("KGSEARCH_METRICS_ENABLED", true),
		OTelEnabled:        getEnvBool("KGSEARCH_OTEL_ENABLED", false),
		OTelEndpoint:       getEnv("KGSEARCH_OTEL_ENDPOINT", "localhost:4317"),
		OTelServiceName:    getEnv("KGSEARCH_OTEL_SERVICE_NAME", "kgsearch"),
		OTelServiceVersion: getEnv("KGSEARCH_OTEL_SERVICE_VERSION", "dev"),
		OTelInsecure:       getEnvBool("KGSEARCH_OTEL_INSECURE", true),
		OTelSampleRatio:    getEnvFloat("KGSEARCH_OTEL_SAMPLE_RATIO", 1),
	}, nil
}

// OTel returns the OpenTelemetry settings
func (o ObservabilityConfig) OTel() observability.OTelConfig {
	return observability.OTelConfig{
		Enabled:        o.OTelEnabled,
		Endpoint:       o.OTelEndpoint,
		ServiceName:    o.OTelServiceName,
		ServiceVersion: o.OTelServiceVersion,
		Insecure:       o.OTelInsecure,
		SampleRatio:    o.OTelSampleRatio,
	}
}

// ParseStage reads a stage name, accepting the group names too
func ParseStage(name string) (model.Stage, error) {
	name = strings.TrimSpace(name)
	if stage, err := model.StageForGroup(name); err == nil {
		return stage, nil
	}
	return model.ParseStage(name)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if err := requireURL("kg endpoint", c.KG.Endpoint); err != nil {
		return err
	}
	if c.KG.ClientID != "" && c.KG.TokenURL == "" {
		return fmt.Errorf("kg token url is required with a client id")
	}
	if err := requireURL("elastic url", c.Elastic.Endpoint); err != nil {
		return err
	}
	if c.Auth.IssuerURL != "" {
		if err := requireURL("oidc issuer", c.Auth.IssuerURL); err != nil {
			return err
		}
	}
	if err := requireURL("sitemap base url", c.Sitemap.BaseURL); err != nil {
		return err
	}

	if c.Indexing.PageSize <= 0 {
		return fmt.Errorf("indexing page size must be positive")
	}
	if c.Indexing.Parallelism <= 0 {
		return fmt.Errorf("indexing parallelism must be positive")
	}
	if len(c.Indexing.Stages) == 0 {
		return fmt.Errorf("at least one indexing stage is required")
	}

	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
	}

	return nil
}

func requireURL(name, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(value)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s is not a valid url: %s", name, value)
	}
	return nil
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvInt64 returns an int64 environment variable or a default
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvList returns a comma separated environment variable or a default
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
