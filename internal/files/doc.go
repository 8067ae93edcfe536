// Package files turns data source arguments into concrete file paths.
//
// Discovery.Resolve expands glob patterns such as "sales_data_*.csv" in the
// order they were given, and a directory argument becomes every loadable file
// directly inside it (Discovery.FindDataFiles). Neither checks readability: that is left to the validation
// package so that a missing source is reported as a validation error.
//
// Example usage:
//
//	discovery := files.NewDiscovery("")
//	paths, err := discovery.Resolve([]string{"data/sales_*.csv", "data/returns.xlsx"})
package files
