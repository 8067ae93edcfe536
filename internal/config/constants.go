package config

import "time"

// Application constants
const (
	AppName = "genaidash"

	// EnvPrefix namespaces every environment override (GENAI_*)
	EnvPrefix = "GENAI"

	// InsecureDefaultSalt is the compiled-in PII hash salt. It is public, so
	// hashing with it is reversible by dictionary attack.
	InsecureDefaultSalt = "change-me"

	// Inference defaults
	DefaultModelID     = "anthropic.claude-v2"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1000

	// Dashboard service defaults
	DefaultRegion       = "us-east-1"
	DefaultTemplateName = "sales-template"

	// Runtime defaults
	DefaultLogLevel              = "info"
	DefaultLogFormat             = "json"
	DefaultRequestTimeoutSeconds = 30
	DefaultMaxRetries            = 3

	// HTTP server defaults
	DefaultServerAddr             = ":8080"
	DefaultRateLimitRPS           = 10.0
	DefaultRateLimitBurst         = 20
	DefaultShutdownTimeoutSeconds = 10
	DefaultReadTimeout            = 15 * time.Second
	DefaultWriteTimeout           = 60 * time.Second

	// API Endpoints
	APIBasePath        = "/api"
	HealthEndpoint     = "/api/health"
	SettingsEndpoint   = "/api/settings"
	ProcessEndpoint    = "/api/process"
	DashboardsEndpoint = "/api/dashboards"
	MetricsEndpoint    = "/metrics"
)

// Log formats accepted by GENAI_LOG_FORMAT
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)
