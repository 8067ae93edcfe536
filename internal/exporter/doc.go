// Package exporter writes processed tables to disk.
//
// CSVWriter writes comma separated text, optionally prefixed with a UTF-8
// BOM so spreadsheet applications detect the encoding. XLSXWriter writes a
// single "Data" worksheet with numeric columns stored as numbers. Exporter
// picks one of the two from the output file extension.
//
// Example usage:
//
//	exp := exporter.New(logger, true)
//	if err := exp.Export("out/cleaned.xlsx", table); err != nil {
//	    return err
//	}
//
// Write failures are STORAGE AppErrors carrying the output path.
package exporter
