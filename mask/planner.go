// Package mask plans redaction rectangles for choice-letter labels.
// When a choice's diagram region contains its own letter label ("A.",
// "B)"), the letter must be whitened out before rendering so it is not
// baked into the extracted image. The planner only ever masks a letter
// it can justify from the label text itself; it never guesses.
package mask

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/figura/internal/textfold"
	"github.com/tsawler/figura/model"
)

// PlannerConfig holds configuration for mask planning.
type PlannerConfig struct {
	// PadPx is the extra width added to the estimated letter extent, in
	// pixels. Default: 5.
	PadPx float64

	// MaxWidthFraction caps the mask width as a fraction of the label
	// block's width. Default: 0.2.
	MaxWidthFraction float64
}

// DefaultPlannerConfig returns sensible default configuration.
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		PadPx:            5.0,
		MaxWidthFraction: 0.2,
	}
}

// Planner computes mask areas for choice-letter labels.
type Planner struct {
	config PlannerConfig
}

// NewPlanner creates a planner with default configuration.
func NewPlanner() *Planner {
	return &Planner{config: DefaultPlannerConfig()}
}

// NewPlannerWithConfig creates a planner with custom configuration.
func NewPlannerWithConfig(config PlannerConfig) *Planner {
	return &Planner{config: config}
}

// punctuation runes that may trail a choice letter ("A.", "B)", "C:").
func isLetterPunct(r rune) bool {
	return r == '.' || r == ')' || r == ':'
}

// ComputeMasks returns the mask rectangles needed to hide choiceLetter
// at the start of the label block with the given text and box. The mask
// width is estimated proportionally: the block width divided over its
// rune count times the number of runes to hide, plus padding, capped at
// MaxWidthFraction of the block width.
//
// An empty result means the label text does not start with the letter,
// so there is nothing the planner can justify masking.
func (p *Planner) ComputeMasks(blockText string, bbox model.BBox, choiceLetter string) []model.MaskArea {
	if choiceLetter == "" || !bbox.IsValid() {
		return nil
	}

	folded := textfold.Fold(blockText)
	letter := textfold.Fold(choiceLetter)
	if folded == "" || letter == "" {
		return nil
	}
	if !strings.HasPrefix(strings.ToUpper(folded), strings.ToUpper(letter)) {
		return nil
	}

	letterRunes := utf8.RuneCountInString(letter)
	covered := letterRunes
	rest := []rune(folded)[letterRunes:]
	if len(rest) > 0 && isLetterPunct(rest[0]) {
		covered++
	}

	totalRunes := utf8.RuneCountInString(folded)
	width := bbox.Width()/float64(totalRunes)*float64(covered) + p.config.PadPx
	if max := p.config.MaxWidthFraction * bbox.Width(); width > max {
		width = max
	}

	return []model.MaskArea{{
		BBox: model.BBox{
			X0: bbox.X0,
			Y0: bbox.Y0,
			X1: bbox.X0 + width,
			Y1: bbox.Y1,
		},
		SourceText: blockText,
		Reason:     fmt.Sprintf("choice letter %q at start of label", letter),
	}}
}
