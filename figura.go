// Package figura computes the diagram regions to extract from a
// classified exam page: given text and image blocks already tagged with
// a semantic category by an external classifier, it finds the bounding
// boxes of prompt and answer-choice diagrams, resolves them against the
// surrounding text, and plans the letter masks the renderer must whiten
// out.
//
// Basic usage:
//
//	result, err := figura.NewSegmenter(page).Segment()
//	if err != nil {
//	    // handle error (choice-count mismatch is fatal for the question)
//	}
//	if len(result.Warnings) > 0 {
//	    log.Println("Warnings:", figura.FormatWarnings(result.Warnings))
//	}
//
// With options:
//
//	result, err := figura.NewSegmenter(page).
//	    Margin(12).
//	    FlexibleGaps().
//	    Segment()
//
// The engine is pure and deterministic: identical input always yields
// an identical region list. It holds no state across pages, so callers
// may run one invocation per page concurrently without locking.
package figura

import (
	"fmt"
	"strings"
)

// WarningKind classifies a non-fatal issue found during segmentation.
type WarningKind int

const (
	// WarnDegradedRegion marks a region whose shrink pass hit the size
	// floor while excluded text still overlapped it.
	WarnDegradedRegion WarningKind = iota
	// WarnNoPromptRegion means label clusters or gaps existed but none
	// produced a usable prompt region.
	WarnNoPromptRegion
	// WarnUnassignedLabels means some diagram labels could not be
	// attributed to any region.
	WarnUnassignedLabels
)

func (k WarningKind) String() string {
	switch k {
	case WarnDegradedRegion:
		return "degraded_region"
	case WarnNoPromptRegion:
		return "no_prompt_region"
	case WarnUnassignedLabels:
		return "unassigned_labels"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal issue the caller may want to log.
type Warning struct {
	Kind    WarningKind
	Message string
}

// FormatWarnings renders warnings as a single semicolon-separated
// string for logging.
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = fmt.Sprintf("%s: %s", w.Kind, w.Message)
	}
	return strings.Join(parts, "; ")
}

// Must is a helper that wraps a call to a function returning
// (T, error) and panics if the error is non-nil. It is intended for
// scripts and tests where error handling would be cumbersome.
//
// Example:
//
//	result := figura.Must(figura.NewSegmenter(page).Segment())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
