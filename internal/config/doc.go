// Package config resolves the genaidash settings snapshot.
//
// # Configuration Sources
//
// Values are layered in the following order of precedence:
//
//  1. Environment variables prefixed GENAI_ (highest priority)
//  2. An optional YAML settings file (ResolveFile)
//  3. Compiled-in defaults (Defaults)
//
// # Environment Variables
//
// Keys follow the section layout of Settings:
//
//	GENAI_AWS_REGION=eu-west-1
//	GENAI_BEDROCK_MAX_TOKENS=2000
//	GENAI_ENABLE_QUICKSIGHT=true
//	GENAI_QUICKSIGHT_ACCOUNT_ID=123456789012
//	GENAI_PII_ALLOWED=yes
//	GENAI_LOG_FORMAT=text
//
// Run "genaidash env" for the full table.
//
// Resolution is lenient. Booleans accept 1/true/yes/on and 0/false/no/off in
// any case; numbers are trimmed and parsed; anything blank or malformed keeps
// the default. Max tokens at or below zero is reset to 1000.
//
// # Warnings
//
// Two combinations are valid but risky and are logged at WARN level:
//
//   - QuickSight enabled without an account id
//   - PII allowed while the hash salt is empty or the public default
//
// Settings.Warnings returns the same list without logging.
//
// # Usage
//
//	settings := config.Resolve(logger)
//	logger.Info("settings resolved", slog.Any("settings", settings.Redacted()))
package config
