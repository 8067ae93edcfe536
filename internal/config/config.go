package config

import (
	"fmt"
	"math"
	"time"
)

// Settings is the resolved configuration snapshot. It is built once per
// Resolve call and handed around by value; nothing mutates it afterwards.
type Settings struct {
	AWS        AWSConfig        `yaml:"aws" json:"aws"`
	Bedrock    BedrockConfig    `yaml:"bedrock" json:"bedrock"`
	QuickSight QuickSightConfig `yaml:"quicksight" json:"quicksight"`
	Privacy    PrivacyConfig    `yaml:"privacy" json:"privacy"`
	Runtime    RuntimeConfig    `yaml:"runtime" json:"runtime"`
	Server     ServerConfig     `yaml:"server" json:"server"`
}

// AWSConfig contains the cloud region shared by both managed services
type AWSConfig struct {
	Region string `yaml:"region" json:"region"`
}

// BedrockConfig contains inference model parameters
type BedrockConfig struct {
	ModelID     string  `yaml:"model_id" json:"model_id"`
	Temperature float64 `yaml:"temperature" json:"temperature"`
	MaxTokens   int     `yaml:"max_tokens" json:"max_tokens"`
}

// QuickSightConfig contains dashboard service parameters
type QuickSightConfig struct {
	TemplateName   string `yaml:"template_name" json:"template_name"`
	CapacityRegion string `yaml:"capacity_region" json:"capacity_region"`
	AccountID      string `yaml:"account_id" json:"account_id"`
}

// PrivacyConfig controls how personally identifiable columns are treated
type PrivacyConfig struct {
	AllowPII        bool     `yaml:"allow_pii" json:"allow_pii"`
	HashSalt        string   `yaml:"hash_salt" json:"hash_salt"`
	AnonymizeFields []string `yaml:"anonymize_fields" json:"anonymize_fields"`
	DropFields      []string `yaml:"drop_fields" json:"drop_fields"`
	AggregationOnly bool     `yaml:"aggregation_only" json:"aggregation_only"`
}

// RuntimeConfig contains feature toggles and process-wide knobs
type RuntimeConfig struct {
	EnableBedrock         bool   `yaml:"enable_bedrock" json:"enable_bedrock"`
	EnableQuickSight      bool   `yaml:"enable_quicksight" json:"enable_quicksight"`
	EnableBenchmarking    bool   `yaml:"enable_benchmarking" json:"enable_benchmarking"`
	LogFormat             string `yaml:"log_format" json:"log_format"`
	LogLevel              string `yaml:"log_level" json:"log_level"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds" json:"request_timeout_seconds"`
	MaxRetries            int    `yaml:"max_retries" json:"max_retries"`
	HistoryPath           string `yaml:"history_path" json:"history_path"`
	TraceExporter         string `yaml:"trace_exporter" json:"trace_exporter"`
	LogFile               string `yaml:"log_file" json:"log_file"`
}

// ServerConfig contains HTTP server configuration for the serve command
type ServerConfig struct {
	Addr                   string  `yaml:"addr" json:"addr"`
	RateLimitRPS           float64 `yaml:"rate_limit_rps" json:"rate_limit_rps"`
	RateLimitBurst         int     `yaml:"rate_limit_burst" json:"rate_limit_burst"`
	ShutdownTimeoutSeconds int     `yaml:"shutdown_timeout_seconds" json:"shutdown_timeout_seconds"`
}

// Defaults returns the compiled-in configuration. Each call builds fresh
// slices, so callers may modify the result freely.
func Defaults() Settings {
	return Settings{
		AWS: AWSConfig{
			Region: DefaultRegion,
		},
		Bedrock: BedrockConfig{
			ModelID:     DefaultModelID,
			Temperature: DefaultTemperature,
			MaxTokens:   DefaultMaxTokens,
		},
		QuickSight: QuickSightConfig{
			TemplateName:   DefaultTemplateName,
			CapacityRegion: DefaultRegion,
		},
		Privacy: PrivacyConfig{
			HashSalt:        InsecureDefaultSalt,
			AnonymizeFields: []string{"customer_name", "email", "phone"},
			DropFields:      []string{"ssn", "credit_card"},
		},
		Runtime: RuntimeConfig{
			EnableBedrock:         true,
			LogFormat:             DefaultLogFormat,
			LogLevel:              DefaultLogLevel,
			RequestTimeoutSeconds: DefaultRequestTimeoutSeconds,
			MaxRetries:            DefaultMaxRetries,
		},
		Server: ServerConfig{
			Addr:                   DefaultServerAddr,
			RateLimitRPS:           DefaultRateLimitRPS,
			RateLimitBurst:         DefaultRateLimitBurst,
			ShutdownTimeoutSeconds: DefaultShutdownTimeoutSeconds,
		},
	}
}

// RequestTimeout returns the configured per-request timeout
func (s Settings) RequestTimeout() time.Duration {
	return time.Duration(s.Runtime.RequestTimeoutSeconds) * time.Second
}

// ShutdownTimeout returns how long the server waits for in-flight requests
func (s Settings) ShutdownTimeout() time.Duration {
	return time.Duration(s.Server.ShutdownTimeoutSeconds) * time.Second
}

// Warnings returns the advisory findings for risky but valid settings.
// It never fails; an empty result means nothing to report.
func (s Settings) Warnings() []string {
	var warnings []string

	if s.Runtime.EnableQuickSight && s.QuickSight.AccountID == "" {
		warnings = append(warnings, fmt.Sprintf(
			"QuickSight integration is enabled but %s_QUICKSIGHT_ACCOUNT_ID is not set", EnvPrefix))
	}

	if s.Privacy.AllowPII && (s.Privacy.HashSalt == "" || s.Privacy.HashSalt == InsecureDefaultSalt) {
		warnings = append(warnings, fmt.Sprintf(
			"PII processing is allowed with an empty or default hash salt; set %s_PII_HASH_SALT", EnvPrefix))
	}

	return warnings
}

// Redacted returns a copy safe to display: the hash salt is masked and the
// field lists are copied so the original snapshot cannot be altered.
func (s Settings) Redacted() Settings {
	out := s
	if out.Privacy.HashSalt != "" {
		out.Privacy.HashSalt = "********"
	}
	out.Privacy.AnonymizeFields = append([]string(nil), s.Privacy.AnonymizeFields...)
	out.Privacy.DropFields = append([]string(nil), s.Privacy.DropFields...)
	return out
}

// normalize repairs values that may not survive into a snapshot: blank
// strings take their default, max tokens must stay positive and floats must
// be finite.
func (s *Settings) normalize() {
	def := Defaults()

	fillString(&s.AWS.Region, def.AWS.Region)
	fillString(&s.Bedrock.ModelID, def.Bedrock.ModelID)
	fillString(&s.QuickSight.TemplateName, def.QuickSight.TemplateName)
	fillString(&s.QuickSight.CapacityRegion, def.QuickSight.CapacityRegion)
	fillString(&s.Runtime.LogFormat, def.Runtime.LogFormat)
	fillString(&s.Runtime.LogLevel, def.Runtime.LogLevel)
	fillString(&s.Server.Addr, def.Server.Addr)

	if s.Bedrock.MaxTokens <= 0 {
		s.Bedrock.MaxTokens = DefaultMaxTokens
	}
	fillFinite(&s.Bedrock.Temperature, def.Bedrock.Temperature)
	fillFinite(&s.Server.RateLimitRPS, def.Server.RateLimitRPS)
}

// fillFinite replaces NaN and infinities, which a YAML file can still
// express, since they cannot be encoded as JSON
func fillFinite(dst *float64, def float64) {
	if math.IsInf(*dst, 0) || math.IsNaN(*dst) {
		*dst = def
	}
}

func fillString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}
