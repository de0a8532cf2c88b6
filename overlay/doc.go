// Package overlay draws segmentation results on top of a page image
// for visual QA. Region rectangles are stroked in a per-kind color,
// planned letter masks are filled, and each region gets a small text
// tag so a reviewer can match rectangles to the audit report.
package overlay
