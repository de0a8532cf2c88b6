//go:build ocr

// Package ocr verifies choice letters on cropped anchor images.
//
// Scanned exam pages sometimes carry classifier text that disagrees
// with the pixels (smudged letters, fullwidth glyphs read as other
// characters). This package re-reads the cropped anchor image with
// Tesseract so the mask planner can be double-checked before a region
// ships.
//
// This package wraps the Tesseract OCR engine via gosseract and
// requires Tesseract to be installed. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/tsawler/figura/internal/textfold"
)

// Client wraps Tesseract for letter verification.
type Client struct {
	client *gosseract.Client
}

// New creates a new OCR client configured for single-word reading,
// which suits cropped anchor labels like "A." or "Ｂ．".
// The client should be closed when no longer needed.
func New() (*Client, error) {
	client := gosseract.NewClient()
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_WORD); err != nil {
		client.Close()
		return nil, fmt.Errorf("setting page segmentation mode: %w", err)
	}
	return &Client{client: client}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// SetLanguage sets the language(s) for recognition. Multiple languages
// can be "+" separated (e.g. "eng+jpn"). Default is "eng".
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}

// ReadText performs OCR on image data (PNG, TIFF, JPEG, etc.) and
// returns the recognized text, whitespace-folded.
func (c *Client) ReadText(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("setting image: %w", err)
	}
	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return textfold.Fold(strings.TrimSpace(text)), nil
}

// VerifyLetter re-reads the cropped anchor image and reports whether
// the first recognized letter matches the expected choice letter. The
// recognized text is returned for logging either way.
func (c *Client) VerifyLetter(imageData []byte, expected string) (bool, string, error) {
	text, err := c.ReadText(imageData)
	if err != nil {
		return false, "", err
	}
	got := textfold.FirstAlnum(text)
	want := textfold.FirstAlnum(expected)
	return got != "" && got == want, text, nil
}
