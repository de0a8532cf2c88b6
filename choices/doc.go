// Package choices analyzes the arrangement of answer-choice diagrams:
// it classifies the layout as a vertical list or a grid, partitions the
// page into one region per choice, assigns stray diagram labels to the
// choice they belong to, and extracts the deterministic choice letter
// from each anchor block.
//
// The package enforces the choice-count invariant: it either produces
// exactly one region per anchor block or fails with
// ErrChoiceCountMismatch. A partial set is never returned, because a
// misaligned set would associate the wrong diagram with the wrong
// choice downstream.
package choices
