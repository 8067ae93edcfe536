package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "genaidash/internal/errors"
	"genaidash/internal/shared/testutil"
)

func TestResolve_Defaults(t *testing.T) {
	testutil.ClearGenAIEnv(t)
	logger, logs := testutil.NewTestLogger(t)

	s := Resolve(logger)

	assert.Equal(t, "us-east-1", s.AWS.Region)
	assert.Equal(t, "anthropic.claude-v2", s.Bedrock.ModelID)
	assert.Equal(t, 0.7, s.Bedrock.Temperature)
	assert.Equal(t, 1000, s.Bedrock.MaxTokens)
	assert.Equal(t, "sales-template", s.QuickSight.TemplateName)
	assert.Equal(t, "us-east-1", s.QuickSight.CapacityRegion)
	assert.Empty(t, s.QuickSight.AccountID)
	assert.False(t, s.Privacy.AllowPII)
	assert.Equal(t, "change-me", s.Privacy.HashSalt)
	assert.Equal(t, []string{"customer_name", "email", "phone"}, s.Privacy.AnonymizeFields)
	assert.Equal(t, []string{"ssn", "credit_card"}, s.Privacy.DropFields)
	assert.True(t, s.Runtime.EnableBedrock)
	assert.False(t, s.Runtime.EnableQuickSight)
	assert.False(t, s.Runtime.EnableBenchmarking)
	assert.Equal(t, "json", s.Runtime.LogFormat)
	assert.Equal(t, 30, s.Runtime.RequestTimeoutSeconds)
	assert.Equal(t, 30*time.Second, s.RequestTimeout())
	assert.Equal(t, 3, s.Runtime.MaxRetries)

	assert.Equal(t, Defaults(), s)
	assert.Empty(t, logs.GetRecordsByLevel(slog.LevelWarn))
}

func TestResolve_Overrides(t *testing.T) {
	testutil.ClearGenAIEnv(t)
	t.Setenv("GENAI_AWS_REGION", " eu-west-1 ")
	t.Setenv("GENAI_BEDROCK_MODEL_ID", "anthropic.claude-3")
	t.Setenv("GENAI_BEDROCK_TEMPERATURE", "0.2")
	t.Setenv("GENAI_BEDROCK_MAX_TOKENS", "2048")
	t.Setenv("GENAI_QUICKSIGHT_ACCOUNT_ID", "123456789012")
	t.Setenv("GENAI_PII_DROP_FIELDS", "ssn, iban ,")
	t.Setenv("GENAI_ENABLE_BENCHMARKING", "on")
	t.Setenv("GENAI_LOG_FORMAT", "text")
	t.Setenv("GENAI_REQUEST_TIMEOUT_SECONDS", "45")
	t.Setenv("GENAI_MAX_RETRIES", "5")
	t.Setenv("GENAI_SERVER_ADDR", ":9090")

	s := Resolve(nil)

	assert.Equal(t, "eu-west-1", s.AWS.Region)
	assert.Equal(t, "anthropic.claude-3", s.Bedrock.ModelID)
	assert.Equal(t, 0.2, s.Bedrock.Temperature)
	assert.Equal(t, 2048, s.Bedrock.MaxTokens)
	assert.Equal(t, "123456789012", s.QuickSight.AccountID)
	assert.Equal(t, []string{"ssn", "iban"}, s.Privacy.DropFields)
	assert.True(t, s.Runtime.EnableBenchmarking)
	assert.Equal(t, "text", s.Runtime.LogFormat)
	assert.Equal(t, 45, s.Runtime.RequestTimeoutSeconds)
	assert.Equal(t, 5, s.Runtime.MaxRetries)
	assert.Equal(t, ":9090", s.Server.Addr)
}

func TestResolve_MaxTokensClamp(t *testing.T) {
	for _, value := range []string{"0", "-5"} {
		t.Run(value, func(t *testing.T) {
			testutil.ClearGenAIEnv(t)
			t.Setenv("GENAI_BEDROCK_MAX_TOKENS", value)

			s := Resolve(nil)

			assert.Equal(t, 1000, s.Bedrock.MaxTokens)
		})
	}
}

func TestResolve_NumericFallback(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		check func(t *testing.T, s Settings)
	}{
		{
			name:  "unparsable timeout",
			key:   "GENAI_REQUEST_TIMEOUT_SECONDS",
			value: "soon",
			check: func(t *testing.T, s Settings) { assert.Equal(t, 30, s.Runtime.RequestTimeoutSeconds) },
		},
		{
			name:  "empty retries",
			key:   "GENAI_MAX_RETRIES",
			value: "",
			check: func(t *testing.T, s Settings) { assert.Equal(t, 3, s.Runtime.MaxRetries) },
		},
		{
			name:  "unparsable temperature",
			key:   "GENAI_BEDROCK_TEMPERATURE",
			value: "warm",
			check: func(t *testing.T, s Settings) { assert.Equal(t, 0.7, s.Bedrock.Temperature) },
		},
		{
			name:  "NaN temperature",
			key:   "GENAI_BEDROCK_TEMPERATURE",
			value: "NaN",
			check: func(t *testing.T, s Settings) { assert.Equal(t, 0.7, s.Bedrock.Temperature) },
		},
		{
			name:  "infinite rate limit",
			key:   "GENAI_SERVER_RATE_LIMIT_RPS",
			value: "+Inf",
			check: func(t *testing.T, s Settings) { assert.Equal(t, DefaultRateLimitRPS, s.Server.RateLimitRPS) },
		},
		{
			name:  "fractional max tokens",
			key:   "GENAI_BEDROCK_MAX_TOKENS",
			value: "12.5",
			check: func(t *testing.T, s Settings) { assert.Equal(t, 1000, s.Bedrock.MaxTokens) },
		},
		{
			name:  "padded retries",
			key:   "GENAI_MAX_RETRIES",
			value: "  7 ",
			check: func(t *testing.T, s Settings) { assert.Equal(t, 7, s.Runtime.MaxRetries) },
		},
		{
			name:  "empty region",
			key:   "GENAI_AWS_REGION",
			value: "",
			check: func(t *testing.T, s Settings) { assert.Equal(t, "us-east-1", s.AWS.Region) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.ClearGenAIEnv(t)
			t.Setenv(tt.key, tt.value)
			logger, logs := testutil.NewTestLogger(t)

			tt.check(t, Resolve(logger))
			assert.Empty(t, logs.GetRecordsByLevel(slog.LevelWarn))
		})
	}
}

func TestResolve_Booleans(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"Yes", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"No", false},
		{"OFF", false},
		{"maybe", true}, // unrecognised keeps the default
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			testutil.ClearGenAIEnv(t)
			t.Setenv("GENAI_ENABLE_BEDROCK", tt.value)

			assert.Equal(t, tt.want, Resolve(nil).Runtime.EnableBedrock)
		})
	}
}

func TestResolve_QuickSightWithoutAccount(t *testing.T) {
	testutil.ClearGenAIEnv(t)
	t.Setenv("GENAI_ENABLE_QUICKSIGHT", "true")
	logger, logs := testutil.NewTestLogger(t)

	s := Resolve(logger)

	assert.True(t, s.Runtime.EnableQuickSight)
	warnings := logs.GetRecordsByLevel(slog.LevelWarn)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "GENAI_QUICKSIGHT_ACCOUNT_ID")
	assert.Equal(t, "config", warnings[0].Attrs["component"])
}

func TestSettings_Warnings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		want   int
	}{
		{name: "defaults", mutate: func(*Settings) {}, want: 0},
		{
			name:   "quicksight with account",
			mutate: func(s *Settings) { s.Runtime.EnableQuickSight = true; s.QuickSight.AccountID = "1" },
			want:   0,
		},
		{
			name:   "pii with default salt",
			mutate: func(s *Settings) { s.Privacy.AllowPII = true },
			want:   1,
		},
		{
			name:   "pii with empty salt",
			mutate: func(s *Settings) { s.Privacy.AllowPII = true; s.Privacy.HashSalt = "" },
			want:   1,
		},
		{
			name:   "pii with custom salt",
			mutate: func(s *Settings) { s.Privacy.AllowPII = true; s.Privacy.HashSalt = "s3cr3t" },
			want:   0,
		},
		{
			name: "both",
			mutate: func(s *Settings) {
				s.Privacy.AllowPII = true
				s.Runtime.EnableQuickSight = true
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.mutate(&s)
			assert.Len(t, s.Warnings(), tt.want)
		})
	}
}

func TestResolve_PIIWarningFromEnv(t *testing.T) {
	testutil.ClearGenAIEnv(t)
	t.Setenv("GENAI_PII_ALLOWED", "yes")
	logger, logs := testutil.NewTestLogger(t)

	Resolve(logger)

	testutil.AssertLogContains(t, logs, slog.LevelWarn, "GENAI_PII_HASH_SALT")
}

func TestResolveFile(t *testing.T) {
	testutil.ClearGenAIEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "genaidash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
aws:
  region: ap-south-1
bedrock:
  max_tokens: 500
privacy:
  hash_salt: from-file
runtime:
  max_retries: 9
`), 0644))

	t.Run("file over defaults", func(t *testing.T) {
		s, err := ResolveFile(path, nil)
		require.NoError(t, err)

		assert.Equal(t, "ap-south-1", s.AWS.Region)
		assert.Equal(t, 500, s.Bedrock.MaxTokens)
		assert.Equal(t, "from-file", s.Privacy.HashSalt)
		assert.Equal(t, 9, s.Runtime.MaxRetries)
		assert.Equal(t, "anthropic.claude-v2", s.Bedrock.ModelID)
		assert.Equal(t, []string{"ssn", "credit_card"}, s.Privacy.DropFields)
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv("GENAI_AWS_REGION", "eu-central-1")
		t.Setenv("GENAI_MAX_RETRIES", "broken")

		s, err := ResolveFile(path, nil)
		require.NoError(t, err)

		assert.Equal(t, "eu-central-1", s.AWS.Region)
		assert.Equal(t, 9, s.Runtime.MaxRetries)
	})
}

func TestResolveFile_NonFiniteFloats(t *testing.T) {
	testutil.ClearGenAIEnv(t)
	path := filepath.Join(t.TempDir(), "genaidash.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bedrock:\n  temperature: .nan\nserver:\n  rate_limit_rps: .inf\n"), 0644))

	s, err := ResolveFile(path, nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultTemperature, s.Bedrock.Temperature)
	assert.Equal(t, DefaultRateLimitRPS, s.Server.RateLimitRPS)
	_, err = json.Marshal(s)
	require.NoError(t, err)
}

func TestResolveFile_Errors(t *testing.T) {
	testutil.ClearGenAIEnv(t)
	dir := t.TempDir()

	invalid := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("aws: [unterminated"), 0644))

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("aws:\n  zone: a\n"), 0644))

	for name, path := range map[string]string{
		"missing": filepath.Join(dir, "absent.yaml"),
		"invalid": invalid,
		"unknown": unknown,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ResolveFile(path, nil)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
		})
	}
}

func TestSettings_Redacted(t *testing.T) {
	s := Defaults()
	s.Privacy.HashSalt = "s3cr3t"

	r := s.Redacted()
	r.Privacy.DropFields[0] = "changed"

	assert.Equal(t, "********", r.Privacy.HashSalt)
	assert.Equal(t, "s3cr3t", s.Privacy.HashSalt)
	assert.Equal(t, "ssn", s.Privacy.DropFields[0])
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, PrintUsage(&buf))

	out := buf.String()
	for _, key := range []string{
		"GENAI_AWS_REGION",
		"GENAI_BEDROCK_MODEL_ID",
		"GENAI_BEDROCK_MAX_TOKENS",
		"GENAI_QUICKSIGHT_ACCOUNT_ID",
		"GENAI_PII_ALLOWED",
		"GENAI_PII_HASH_SALT",
		"GENAI_ENABLE_QUICKSIGHT",
		"GENAI_LOG_FORMAT",
		"GENAI_REQUEST_TIMEOUT_SECONDS",
		"GENAI_SERVER_RATE_LIMIT_RPS",
	} {
		assert.Contains(t, out, key)
	}
}
