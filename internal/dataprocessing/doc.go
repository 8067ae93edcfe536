// Package dataprocessing turns CSV, TSV and XLSX files into one cleaned table.
//
// # Pipeline
//
// Processor.Process runs these steps in order and stops at the first error:
//
//  1. Validate: every source must exist, be a regular file and be readable.
//  2. Load: each source is read by extension (.tsv tab separated, .xlsx first
//     worksheet, anything else comma separated) and the tables are
//     concatenated in source order. Columns are the union of all headers in
//     order of first appearance; a source missing a column contributes nulls.
//  3. Pre-clean: an optional TransformFunc, typically PrivacyTransform, runs
//     on the concatenated table so dropped columns take no part in cleaning.
//  4. Clean: nulls in numeric columns are replaced by the column mean taken
//     over the concatenated table, then exact duplicate rows are dropped.
//  5. Transform: an optional TransformFunc runs last.
//
// A column is numeric when every non-null cell parses as a float and at least
// one cell is non-null. Cells matching the usual null tokens (NA, NaN, null,
// None, empty, ...) are null.
//
// # Usage
//
//	p := dataprocessing.NewProcessor(
//	    dataprocessing.WithLogger(logger),
//	    dataprocessing.WithPreClean(dataprocessing.PrivacyTransform(settings.Privacy)),
//	    dataprocessing.WithTransform(dataprocessing.Chain(
//	        dataprocessing.DerivedProduct("revenue", "quantity", "price"),
//	        dataprocessing.DerivedProduct("weighted", "revenue", "weight"),
//	    )),
//	)
//	table, err := p.Process(ctx, []string{"q1.csv", "q2.xlsx"})
//
// # Errors
//
// Validation failures are VALIDATION AppErrors and unreadable or malformed
// files are PARSING AppErrors, both carrying the offending source in their
// context.
package dataprocessing
