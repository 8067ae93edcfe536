// Package history keeps an optional SQLite ledger of dashboard generation
// runs, one row per run, for the CLI and the HTTP history endpoint.
package history
