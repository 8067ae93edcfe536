// Package shared holds code used across genaidash packages that belongs to no
// single layer.
//
// # Test Utilities
//
// The testutil subpackage provides:
//
//   - BufferedSlogHandler, a slog.Handler that records every entry so tests can
//     assert on messages, levels and attributes (including loggers derived with
//     With/WithGroup)
//   - CSV, TSV and XLSX fixture writers for data processing tests
//   - ClearGenAIEnv to isolate settings resolution from the developer's shell
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    path := testutil.WriteCSV(t, t.TempDir(), "sales.csv", testutil.SalesHeader, rows)
//	    ...
//	    testutil.AssertLogContains(t, logs, slog.LevelInfo, "loaded source")
//	}
//
// Packages here must not import other internal packages.
package shared
