package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/tsawler/figura"
	"github.com/tsawler/figura/model"
)

// RenderConfig holds configuration for QA rendering.
type RenderConfig struct {
	// StrokeWidth is the region outline thickness in pixels. Default: 2.
	StrokeWidth int

	// PromptColor outlines prompt diagram regions. Default: red.
	PromptColor color.Color

	// ChoiceColor outlines per-choice diagram regions. Default: blue.
	ChoiceColor color.Color

	// DegradedColor outlines regions whose refinement hit the size
	// floor. Default: orange.
	DegradedColor color.Color

	// MaskColor fills planned letter masks. Default: white, matching
	// what the downstream renderer will paint.
	MaskColor color.Color

	// DrawLabels draws a short text tag at each region's top-left
	// corner. Default: true.
	DrawLabels bool

	// DrawMasks fills the planned letter masks. Default: true.
	DrawMasks bool
}

// DefaultRenderConfig returns sensible defaults for QA rendering.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		StrokeWidth:   2,
		PromptColor:   color.RGBA{R: 0xd0, G: 0x20, B: 0x20, A: 0xff},
		ChoiceColor:   color.RGBA{R: 0x20, G: 0x40, B: 0xd0, A: 0xff},
		DegradedColor: color.RGBA{R: 0xe0, G: 0x90, B: 0x10, A: 0xff},
		MaskColor:     color.White,
		DrawLabels:    true,
		DrawMasks:     true,
	}
}

// Renderer draws segmentation results over page images.
type Renderer struct {
	config RenderConfig
}

// NewRenderer creates a renderer with default configuration.
func NewRenderer() *Renderer {
	return &Renderer{config: DefaultRenderConfig()}
}

// NewRendererWithConfig creates a renderer with custom configuration.
func NewRendererWithConfig(config RenderConfig) *Renderer {
	return &Renderer{config: config}
}

// Render draws the result over a copy of base and returns the copy.
// The base image is typically the rasterized page the blocks were
// measured on; coordinates are taken as already being in image pixels.
func (r *Renderer) Render(base image.Image, result *figura.SegmentResult) (*image.RGBA, error) {
	if base == nil {
		return nil, fmt.Errorf("overlay: base image is nil")
	}
	if result == nil {
		return nil, fmt.Errorf("overlay: result is nil")
	}

	out := image.NewRGBA(base.Bounds())
	draw.Draw(out, out.Bounds(), base, base.Bounds().Min, draw.Src)

	if r.config.DrawMasks {
		for _, masks := range result.Masks {
			for _, m := range masks {
				fillRect(out, toRect(m.BBox), r.config.MaskColor)
			}
		}
	}

	for _, region := range result.Regions {
		rect := toRect(region.BBox)
		r.strokeRect(out, rect, r.regionColor(region))
		if r.config.DrawLabels {
			drawLabel(out, rect.Min.X+r.config.StrokeWidth+2, rect.Min.Y,
				regionTag(region), r.regionColor(region))
		}
	}

	return out, nil
}

// RenderBlank renders the result on a white page of the given pixel
// size, for QA when the source raster is not at hand.
func (r *Renderer) RenderBlank(width, height int, result *figura.SegmentResult) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("overlay: degenerate page size %dx%d", width, height)
	}
	base := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(base, base.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return r.Render(base, result)
}

// EncodePNG writes img to w as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding overlay PNG: %w", err)
	}
	return nil
}

func (r *Renderer) regionColor(region model.Region) color.Color {
	if region.Degraded {
		return r.config.DegradedColor
	}
	if region.Kind == model.ChoiceVisual {
		return r.config.ChoiceColor
	}
	return r.config.PromptColor
}

// regionTag returns the short reviewer-facing tag for a region: the
// choice letter when known, otherwise the region id prefixed by kind.
func regionTag(region model.Region) string {
	if region.Kind == model.ChoiceVisual && region.ChoiceLetter != "" {
		return region.ChoiceLetter
	}
	if region.Kind == model.ChoiceVisual {
		return fmt.Sprintf("C%d", region.ID)
	}
	return fmt.Sprintf("P%d", region.ID)
}

// toRect converts a page-space box to an image rectangle, rounding
// outward so thin regions never collapse.
func toRect(b model.BBox) image.Rectangle {
	return image.Rect(
		int(math.Floor(b.X0)),
		int(math.Floor(b.Y0)),
		int(math.Ceil(b.X1)),
		int(math.Ceil(b.Y1)),
	)
}

func (r *Renderer) strokeRect(img *image.RGBA, rect image.Rectangle, c color.Color) {
	w := r.config.StrokeWidth
	if w < 1 {
		w = 1
	}
	// Four edge bands, drawn inside the rectangle.
	fillRect(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+w), c)
	fillRect(img, image.Rect(rect.Min.X, rect.Max.Y-w, rect.Max.X, rect.Max.Y), c)
	fillRect(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+w, rect.Max.Y), c)
	fillRect(img, image.Rect(rect.Max.X-w, rect.Min.Y, rect.Max.X, rect.Max.Y), c)
}

func fillRect(img *image.RGBA, rect image.Rectangle, c color.Color) {
	draw.Draw(img, rect.Intersect(img.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

func drawLabel(img *image.RGBA, x, y int, text string, c color.Color) {
	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		// Baseline sits just below the region's top edge.
		Dot: fixed.P(x, y+face.Ascent),
	}
	drawer.DrawString(text)
}
