package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/tsawler/figura"
	"github.com/tsawler/figura/model"
)

// ExportFormat defines the available export formats
type ExportFormat int

const (
	// ExportFormatJSON exports the report as a single JSON object
	ExportFormatJSON ExportFormat = iota
	// ExportFormatJSONL exports one JSON object per region, one per line
	ExportFormatJSONL
	// ExportFormatCSV exports regions as comma-separated values
	ExportFormatCSV
	// ExportFormatXLSX exports a workbook with Regions and Masks sheets
	ExportFormatXLSX
)

// String returns a human-readable representation of the export format
func (ef ExportFormat) String() string {
	switch ef {
	case ExportFormatJSON:
		return "json"
	case ExportFormatJSONL:
		return "jsonl"
	case ExportFormatCSV:
		return "csv"
	case ExportFormatXLSX:
		return "xlsx"
	default:
		return "unknown"
	}
}

// FileExtension returns the typical file extension for this format
func (ef ExportFormat) FileExtension() string {
	switch ef {
	case ExportFormatJSON:
		return ".json"
	case ExportFormatJSONL:
		return ".jsonl"
	case ExportFormatCSV:
		return ".csv"
	case ExportFormatXLSX:
		return ".xlsx"
	default:
		return ".txt"
	}
}

// ExportConfig holds configuration options for export
type ExportConfig struct {
	// Format specifies the export format
	Format ExportFormat

	// IncludeMasks includes the planned letter masks in the report
	IncludeMasks bool

	// IncludeWarnings includes non-fatal warnings in the report
	IncludeWarnings bool

	// IncludeThresholds includes the threshold values the pass ran with
	IncludeThresholds bool

	// IncludeHeader includes a header row in CSV exports
	IncludeHeader bool

	// CSVDelimiter specifies the delimiter for CSV export (default: comma)
	CSVDelimiter rune

	// PrettyPrint enables pretty printing for JSON formats
	PrettyPrint bool
}

// DefaultExportConfig returns sensible defaults for export configuration
func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		Format:            ExportFormatJSON,
		IncludeMasks:      true,
		IncludeWarnings:   true,
		IncludeThresholds: true,
		IncludeHeader:     true,
		CSVDelimiter:      ',',
		PrettyPrint:       false,
	}
}

// CSVExportConfig returns config optimized for CSV export
func CSVExportConfig() ExportConfig {
	config := DefaultExportConfig()
	config.Format = ExportFormatCSV
	return config
}

// XLSXExportConfig returns config optimized for spreadsheet review
func XLSXExportConfig() ExportConfig {
	config := DefaultExportConfig()
	config.Format = ExportFormatXLSX
	return config
}

// Exporter renders segmentation results in the configured format
type Exporter struct {
	config ExportConfig
}

// NewExporter creates a new exporter with default configuration
func NewExporter() *Exporter {
	return &Exporter{config: DefaultExportConfig()}
}

// NewExporterWithConfig creates an exporter with custom configuration
func NewExporterWithConfig(config ExportConfig) *Exporter {
	return &Exporter{config: config}
}

// ExportedRegion is one region row of the audit report
type ExportedRegion struct {
	// ID is the region's sequential id within the page
	ID int `json:"id"`

	// Kind is "prompt_visual" or "choice_visual"
	Kind string `json:"kind"`

	// ChoiceLetter is set for choice regions only
	ChoiceLetter string `json:"choice_letter,omitempty"`

	// Bounding box in page pixel coordinates, origin top-left
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`

	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Confidence is the engine's score for the region
	Confidence float64 `json:"confidence"`

	// Degraded marks regions whose refinement hit the size floor
	Degraded bool `json:"degraded,omitempty"`

	// MemberCount is the number of source blocks folded into the region
	MemberCount int `json:"member_count"`
}

// ExportedMask is one planned letter mask of the audit report
type ExportedMask struct {
	// BlockID is the anchor block the mask belongs to
	BlockID int `json:"block_id"`

	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`

	// Reason explains why the area must be whitened out
	Reason string `json:"reason,omitempty"`
}

// Report is the complete audit report for one segmentation pass
type Report struct {
	// ChoiceLayout is the detected choice arrangement, empty when the
	// page produced no choice regions
	ChoiceLayout string `json:"choice_layout,omitempty"`

	// ChoiceCount is the number of choice regions produced
	ChoiceCount int `json:"choice_count"`

	Regions []ExportedRegion `json:"regions"`

	Masks []ExportedMask `json:"masks,omitempty"`

	Warnings []string `json:"warnings,omitempty"`

	// Thresholds are the engine threshold values the pass ran with
	Thresholds map[string]float64 `json:"thresholds,omitempty"`
}

// BuildReport flattens a segmentation result into an audit report
func (e *Exporter) BuildReport(result *figura.SegmentResult) Report {
	var report Report

	if result.ChoiceCount > 0 {
		report.ChoiceLayout = result.ChoiceLayout.String()
	}
	report.ChoiceCount = result.ChoiceCount

	for _, r := range result.Regions {
		report.Regions = append(report.Regions, ExportedRegion{
			ID:           r.ID,
			Kind:         r.Kind.String(),
			ChoiceLetter: r.ChoiceLetter,
			X0:           r.BBox.X0,
			Y0:           r.BBox.Y0,
			X1:           r.BBox.X1,
			Y1:           r.BBox.Y1,
			Width:        r.BBox.Width(),
			Height:       r.BBox.Height(),
			Confidence:   r.Confidence,
			Degraded:     r.Degraded,
			MemberCount:  len(r.MemberBlockIDs),
		})
	}

	if e.config.IncludeMasks {
		ids := make([]model.BlockID, 0, len(result.Masks))
		for id := range result.Masks {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			for _, m := range result.Masks[id] {
				report.Masks = append(report.Masks, ExportedMask{
					BlockID: int(id),
					X0:      m.BBox.X0,
					Y0:      m.BBox.Y0,
					X1:      m.BBox.X1,
					Y1:      m.BBox.Y1,
					Reason:  m.Reason,
				})
			}
		}
	}

	if e.config.IncludeWarnings {
		for _, w := range result.Warnings {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("%s: %s", w.Kind, w.Message))
		}
	}

	if e.config.IncludeThresholds && len(result.Thresholds) > 0 {
		report.Thresholds = make(map[string]float64, len(result.Thresholds))
		for k, v := range result.Thresholds {
			report.Thresholds[k] = v
		}
	}

	return report
}

// Export writes the result to w in the configured format
func (e *Exporter) Export(result *figura.SegmentResult, w io.Writer) error {
	if result == nil {
		return fmt.Errorf("export: result is nil")
	}

	report := e.BuildReport(result)
	switch e.config.Format {
	case ExportFormatJSON:
		return e.exportJSON(report, w)
	case ExportFormatJSONL:
		return e.exportJSONL(report, w)
	case ExportFormatCSV:
		return e.exportCSV(report, w)
	case ExportFormatXLSX:
		return e.exportXLSX(report, w)
	default:
		return fmt.Errorf("unsupported export format: %v", e.config.Format)
	}
}

// ExportToFile writes the result to a file
func (e *Exporter) ExportToFile(result *figura.SegmentResult, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	return e.Export(result, f)
}

// ExportToString renders the result as a string
func (e *Exporter) ExportToString(result *figura.SegmentResult) (string, error) {
	var buf bytes.Buffer
	if err := e.Export(result, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// exportJSON writes the report as a single JSON object
func (e *Exporter) exportJSON(report Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if e.config.PrettyPrint {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(report)
}

// exportJSONL writes one JSON object per region, one per line
func (e *Exporter) exportJSONL(report Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for i, r := range report.Regions {
		if err := encoder.Encode(r); err != nil {
			return fmt.Errorf("encoding region %d: %w", i, err)
		}
	}
	return nil
}

// csvColumns is the fixed region column set for CSV and XLSX output.
var csvColumns = []string{
	"id", "kind", "choice_letter",
	"x0", "y0", "x1", "y1", "width", "height",
	"confidence", "degraded", "member_count",
}

func regionRow(r ExportedRegion) []string {
	return []string{
		strconv.Itoa(r.ID),
		r.Kind,
		r.ChoiceLetter,
		formatCoord(r.X0),
		formatCoord(r.Y0),
		formatCoord(r.X1),
		formatCoord(r.Y1),
		formatCoord(r.Width),
		formatCoord(r.Height),
		strconv.FormatFloat(r.Confidence, 'f', 2, 64),
		strconv.FormatBool(r.Degraded),
		strconv.Itoa(r.MemberCount),
	}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// exportCSV writes regions as delimited rows
func (e *Exporter) exportCSV(report Report, w io.Writer) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = e.config.CSVDelimiter

	if e.config.IncludeHeader {
		if err := csvWriter.Write(csvColumns); err != nil {
			return fmt.Errorf("writing CSV header: %w", err)
		}
	}

	for i, r := range report.Regions {
		if err := csvWriter.Write(regionRow(r)); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// exportXLSX writes a workbook with a Regions sheet and, when masks are
// included, a Masks sheet.
func (e *Exporter) exportXLSX(report Report, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	const regionSheet = "Regions"
	if err := f.SetSheetName("Sheet1", regionSheet); err != nil {
		return fmt.Errorf("renaming region sheet: %w", err)
	}

	if err := writeSheetRow(f, regionSheet, 1, csvColumns); err != nil {
		return err
	}
	for i, r := range report.Regions {
		if err := writeSheetRow(f, regionSheet, i+2, regionRow(r)); err != nil {
			return err
		}
	}

	if e.config.IncludeMasks && len(report.Masks) > 0 {
		const maskSheet = "Masks"
		if _, err := f.NewSheet(maskSheet); err != nil {
			return fmt.Errorf("creating mask sheet: %w", err)
		}
		header := []string{"block_id", "x0", "y0", "x1", "y1", "reason"}
		if err := writeSheetRow(f, maskSheet, 1, header); err != nil {
			return err
		}
		for i, m := range report.Masks {
			row := []string{
				strconv.Itoa(m.BlockID),
				formatCoord(m.X0),
				formatCoord(m.Y0),
				formatCoord(m.X1),
				formatCoord(m.Y1),
				m.Reason,
			}
			if err := writeSheetRow(f, maskSheet, i+2, row); err != nil {
				return err
			}
		}
	}

	if len(report.Thresholds) > 0 {
		const thresholdSheet = "Thresholds"
		if _, err := f.NewSheet(thresholdSheet); err != nil {
			return fmt.Errorf("creating threshold sheet: %w", err)
		}
		if err := writeSheetRow(f, thresholdSheet, 1, []string{"name", "value"}); err != nil {
			return err
		}
		names := make([]string, 0, len(report.Thresholds))
		for name := range report.Thresholds {
			names = append(names, name)
		}
		sort.Strings(names)
		for i, name := range names {
			row := []string{name, formatCoord(report.Thresholds[name])}
			if err := writeSheetRow(f, thresholdSheet, i+2, row); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSheetRow(f *excelize.File, sheet string, row int, values []string) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("cell name for column %d: %w", col+1, err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("setting cell %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
