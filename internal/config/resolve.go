package config

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "genaidash/internal/errors"
)

// overrides mirrors Settings with lenient field types. envconfig derives each
// key from the field path (GENAI_BEDROCK_MAX_TOKENS); field names are used
// instead of envconfig tags because a tag also makes envconfig consult the
// bare, unprefixed name.
type overrides struct {
	AWS struct {
		Region stringValue `desc:"AWS region for Bedrock and QuickSight (default us-east-1)"`
	}
	Bedrock struct {
		ModelID     stringValue `split_words:"true" desc:"Inference model id (default anthropic.claude-v2)"`
		Temperature floatValue  `desc:"Sampling temperature (default 0.7)"`
		MaxTokens   intValue    `split_words:"true" desc:"Response token limit; values <= 0 use 1000"`
	}
	Quicksight struct {
		TemplateName   stringValue `split_words:"true" desc:"Dashboard template name (default sales-template)"`
		CapacityRegion stringValue `split_words:"true" desc:"QuickSight capacity region (default us-east-1)"`
		AccountID      stringValue `split_words:"true" desc:"AWS account id owning the dashboards"`
	}
	Pii struct {
		Allowed         boolValue   `desc:"Allow raw PII columns through (default false)"`
		HashSalt        stringValue `split_words:"true" desc:"Salt for PII hashing (default change-me, insecure)"`
		AnonymizeFields listValue   `split_words:"true" desc:"Comma list of columns to hash (default customer_name,email,phone)"`
		DropFields      listValue   `split_words:"true" desc:"Comma list of columns to drop (default ssn,credit_card)"`
		AggregationOnly boolValue   `split_words:"true" desc:"Restrict output to aggregates (default false)"`
	}
	EnableBedrock         boolValue   `split_words:"true" desc:"Enable the inference integration (default true)"`
	EnableQuicksight      boolValue   `split_words:"true" desc:"Enable the dashboard integration (default false)"`
	EnableBenchmarking    boolValue   `split_words:"true" desc:"Trace and time each generation stage (default false)"`
	LogFormat             stringValue `split_words:"true" desc:"json or text (default json)"`
	LogLevel              stringValue `split_words:"true" desc:"debug, info, warn or error (default info)"`
	RequestTimeoutSeconds intValue    `split_words:"true" desc:"Request timeout in seconds (default 30)"`
	MaxRetries            intValue    `split_words:"true" desc:"Retry budget for service calls (default 3)"`
	HistoryPath           stringValue `split_words:"true" desc:"SQLite file recording generation runs (disabled when empty)"`
	TraceExporter         stringValue `split_words:"true" desc:"Span exporter, none or stdout (default stdout when benchmarking, else none)"`
	LogFile               stringValue `split_words:"true" desc:"Also append logs to this file (disabled when empty)"`
	Server                struct {
		Addr                   stringValue `desc:"HTTP listen address (default :8080)"`
		RateLimitRps           floatValue  `split_words:"true" desc:"Requests per second per client (default 10)"`
		RateLimitBurst         intValue    `split_words:"true" desc:"Burst size per client (default 20)"`
		ShutdownTimeoutSeconds intValue    `split_words:"true" desc:"Graceful shutdown timeout in seconds (default 10)"`
	}
}

// Resolve builds a snapshot from the compiled-in defaults and the GENAI_*
// environment. It never fails: malformed overrides fall back to defaults and
// risky combinations are logged as warnings.
func Resolve(logger *slog.Logger) Settings {
	logger = componentLogger(logger)

	s := Defaults()
	applyEnv(&s, logger)
	s.normalize()
	logWarnings(s, logger)
	return s
}

// ResolveFile layers a YAML file between the defaults and the environment;
// environment overrides still win. Only an unreadable or malformed file is an
// error.
func ResolveFile(path string, logger *slog.Logger) (Settings, error) {
	logger = componentLogger(logger)

	s := Defaults()
	if err := loadFromFile(path, &s); err != nil {
		return Settings{}, err
	}
	logger.Debug("settings file loaded", slog.String("path", path))

	applyEnv(&s, logger)
	s.normalize()
	logWarnings(s, logger)
	return s, nil
}

// PrintUsage writes the table of recognised environment variables.
func PrintUsage(w io.Writer) error {
	const format = "KEY\tDESCRIPTION\n{{range .}}{{usage_key .}}\t{{usage_description .}}\n{{end}}"

	tabs := tabwriter.NewWriter(w, 1, 0, 4, ' ', 0)
	if err := envconfig.Usagef(EnvPrefix, &overrides{}, tabs, format); err != nil {
		return fmt.Errorf("render env usage: %w", err)
	}
	return tabs.Flush()
}

// loadFromFile decodes YAML onto s, leaving absent keys at their current value
func loadFromFile(path string, s *Settings) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.NewConfigError("cannot read settings file", err).WithContext("path", path)
	}

	if err := yaml.UnmarshalStrict(data, s); err != nil {
		return apperrors.NewConfigError("invalid settings file", err).WithContext("path", path)
	}

	return nil
}

func applyEnv(s *Settings, logger *slog.Logger) {
	var ov overrides
	// Decoders never fail, so Process can only report a malformed spec.
	if err := envconfig.Process(EnvPrefix, &ov); err != nil {
		logger.Error("environment overrides skipped", slog.String("error", err.Error()))
		return
	}

	a := applier{logger: logger}

	a.setString(&s.AWS.Region, ov.AWS.Region)

	a.setString(&s.Bedrock.ModelID, ov.Bedrock.ModelID)
	a.setFloat(&s.Bedrock.Temperature, ov.Bedrock.Temperature, "BEDROCK_TEMPERATURE")
	a.setInt(&s.Bedrock.MaxTokens, ov.Bedrock.MaxTokens, "BEDROCK_MAX_TOKENS")

	a.setString(&s.QuickSight.TemplateName, ov.Quicksight.TemplateName)
	a.setString(&s.QuickSight.CapacityRegion, ov.Quicksight.CapacityRegion)
	a.setString(&s.QuickSight.AccountID, ov.Quicksight.AccountID)

	a.setBool(&s.Privacy.AllowPII, ov.Pii.Allowed, "PII_ALLOWED")
	a.setString(&s.Privacy.HashSalt, ov.Pii.HashSalt)
	a.setList(&s.Privacy.AnonymizeFields, ov.Pii.AnonymizeFields)
	a.setList(&s.Privacy.DropFields, ov.Pii.DropFields)
	a.setBool(&s.Privacy.AggregationOnly, ov.Pii.AggregationOnly, "PII_AGGREGATION_ONLY")

	a.setBool(&s.Runtime.EnableBedrock, ov.EnableBedrock, "ENABLE_BEDROCK")
	a.setBool(&s.Runtime.EnableQuickSight, ov.EnableQuicksight, "ENABLE_QUICKSIGHT")
	a.setBool(&s.Runtime.EnableBenchmarking, ov.EnableBenchmarking, "ENABLE_BENCHMARKING")
	a.setString(&s.Runtime.LogFormat, ov.LogFormat)
	a.setString(&s.Runtime.LogLevel, ov.LogLevel)
	a.setInt(&s.Runtime.RequestTimeoutSeconds, ov.RequestTimeoutSeconds, "REQUEST_TIMEOUT_SECONDS")
	a.setInt(&s.Runtime.MaxRetries, ov.MaxRetries, "MAX_RETRIES")
	a.setString(&s.Runtime.HistoryPath, ov.HistoryPath)
	a.setString(&s.Runtime.TraceExporter, ov.TraceExporter)
	a.setString(&s.Runtime.LogFile, ov.LogFile)

	a.setString(&s.Server.Addr, ov.Server.Addr)
	a.setFloat(&s.Server.RateLimitRPS, ov.Server.RateLimitRps, "SERVER_RATE_LIMIT_RPS")
	a.setInt(&s.Server.RateLimitBurst, ov.Server.RateLimitBurst, "SERVER_RATE_LIMIT_BURST")
	a.setInt(&s.Server.ShutdownTimeoutSeconds, ov.Server.ShutdownTimeoutSeconds, "SERVER_SHUTDOWN_TIMEOUT_SECONDS")
}

func logWarnings(s Settings, logger *slog.Logger) {
	for _, w := range s.Warnings() {
		logger.Warn(w)
	}
}

func componentLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return logger.With(slog.String("component", "config"))
}

// applier copies decoded overrides onto a snapshot. Values that were set but
// did not parse are reported at debug level and leave the field untouched.
type applier struct {
	logger *slog.Logger
}

func (a applier) invalid(key, raw string) {
	a.logger.Debug("ignoring unparsable override",
		slog.String("key", EnvPrefix+"_"+key),
		slog.String("value", raw),
	)
}

func (a applier) setString(dst *string, v stringValue) {
	if v.set {
		*dst = v.val
	}
}

func (a applier) setList(dst *[]string, v listValue) {
	if v.set {
		*dst = v.val
	}
}

func (a applier) setBool(dst *bool, v boolValue, key string) {
	switch {
	case v.set:
		*dst = v.val
	case v.raw != "":
		a.invalid(key, v.raw)
	}
}

func (a applier) setInt(dst *int, v intValue, key string) {
	switch {
	case v.set:
		*dst = v.val
	case v.raw != "":
		a.invalid(key, v.raw)
	}
}

func (a applier) setFloat(dst *float64, v floatValue, key string) {
	switch {
	case v.set:
		*dst = v.val
	case v.raw != "":
		a.invalid(key, v.raw)
	}
}

// The value types below implement envconfig.Decoder and never return an
// error; set reports whether the raw text produced a usable value.

type stringValue struct {
	val string
	set bool
}

func (v *stringValue) Decode(s string) error {
	if s = strings.TrimSpace(s); s != "" {
		v.val, v.set = s, true
	}
	return nil
}

type listValue struct {
	val []string
	set bool
}

func (v *listValue) Decode(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	v.val = []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			v.val = append(v.val, part)
		}
	}
	v.set = true
	return nil
}

type boolValue struct {
	val bool
	set bool
	raw string
}

func (v *boolValue) Decode(s string) error {
	v.raw = strings.TrimSpace(s)
	switch strings.ToLower(v.raw) {
	case "1", "true", "yes", "on":
		v.val, v.set = true, true
	case "0", "false", "no", "off":
		v.val, v.set = false, true
	}
	return nil
}

type intValue struct {
	val int
	set bool
	raw string
}

func (v *intValue) Decode(s string) error {
	v.raw = strings.TrimSpace(s)
	if n, err := strconv.Atoi(v.raw); err == nil {
		v.val, v.set = n, true
	}
	return nil
}

type floatValue struct {
	val float64
	set bool
	raw string
}

func (v *floatValue) Decode(s string) error {
	v.raw = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(v.raw, 64)
	if err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		v.val, v.set = f, true
	}
	return nil
}
