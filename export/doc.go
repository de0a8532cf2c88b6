// Package export renders segmentation results as audit reports for the
// accuracy-review workflow. JSON and JSONL suit programmatic diffing,
// CSV and XLSX suit spreadsheet review by non-engineers.
package export
