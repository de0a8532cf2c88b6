package figura

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/figura/choices"
	"github.com/tsawler/figura/layout"
	"github.com/tsawler/figura/mask"
	"github.com/tsawler/figura/model"
)

// ErrChoiceCountMismatch is the fatal error returned when the engine
// cannot produce exactly one region per answer-choice anchor. See the
// choices package for the underlying invariant.
var ErrChoiceCountMismatch = choices.ErrChoiceCountMismatch

// Segmenter configures and runs one segmentation pass over a page.
// Chain methods return a new Segmenter, so a configured instance can be
// reused and further specialized safely.
type Segmenter struct {
	page    *model.Page
	options Options
}

// NewSegmenter creates a segmenter for the given page with default
// thresholds.
func NewSegmenter(page *model.Page) *Segmenter {
	return &Segmenter{
		page:    page,
		options: defaultOptions(),
	}
}

// clone creates a copy of the Segmenter so each chain method returns a
// new instance.
func (s *Segmenter) clone() *Segmenter {
	return &Segmenter{
		page:    s.page,
		options: s.options,
	}
}

// Margin sets the clearance, in pixels, kept from protected blocks and
// page edges.
func (s *Segmenter) Margin(px float64) *Segmenter {
	c := s.clone()
	c.options.margin = px
	return c
}

// GapThreshold sets the maximum vertical whitespace between label
// blocks in one cluster.
func (s *Segmenter) GapThreshold(px float64) *Segmenter {
	c := s.clone()
	c.options.gapThreshold = px
	return c
}

// FlexibleGaps lowers the gap-fallback minimum from the strict
// full-page value (100px) to the flexible one (30px), trading precision
// for recall when no labels anchor a diagram.
func (s *Segmenter) FlexibleGaps() *Segmenter {
	c := s.clone()
	c.options.flexibleGaps = true
	return c
}

// OverlapThreshold sets the own-area overlap fraction above which a
// region is dropped as a duplicate.
func (s *Segmenter) OverlapThreshold(f float64) *Segmenter {
	c := s.clone()
	c.options.overlapThreshold = f
	return c
}

// StdevFactor sets the vertical-vs-grid layout decision factor.
func (s *Segmenter) StdevFactor(f float64) *Segmenter {
	c := s.clone()
	c.options.stdevFactor = f
	return c
}

// MinRegionSize sets the prompt-region size floor.
func (s *Segmenter) MinRegionSize(w, h float64) *Segmenter {
	c := s.clone()
	c.options.minRegionWidth = w
	c.options.minRegionHeight = h
	return c
}

// MinChoiceSize sets the per-choice region size floor.
func (s *Segmenter) MinChoiceSize(w, h float64) *Segmenter {
	c := s.clone()
	c.options.minChoiceWidth = w
	c.options.minChoiceHeight = h
	return c
}

// SegmentResult is the output of one segmentation pass.
type SegmentResult struct {
	// Regions are the diagram regions to extract, ordered by
	// (top edge, left edge), with sequential IDs.
	Regions []model.Region

	// Masks maps an anchor block id to the mask rectangles the renderer
	// must whiten out before rasterizing that anchor's region.
	Masks map[model.BlockID][]model.MaskArea

	// ChoiceLayout is the detected choice arrangement; only meaningful
	// when ChoiceCount > 0.
	ChoiceLayout model.LayoutMode

	// ChoiceCount is the number of choice regions produced.
	ChoiceCount int

	// Thresholds records the threshold values the pass ran with, for
	// audit reports.
	Thresholds map[string]float64

	// Warnings are non-fatal issues found during the pass.
	Warnings []Warning
}

// Segment runs the full pipeline: prompt-label clustering (or gap
// fallback), boundary resolution, refinement, choice layout analysis,
// deduplication, and mask planning.
//
// A nil-region result is normal when the page holds no extractable
// diagram. The only error condition short of bad input is the fatal
// choice-count mismatch.
func (s *Segmenter) Segment() (*SegmentResult, error) {
	if s.page == nil {
		return nil, fmt.Errorf("segment: page is nil")
	}
	if s.page.Width <= 0 || s.page.Height <= 0 {
		return nil, fmt.Errorf("segment: page has degenerate dimensions %gx%g",
			s.page.Width, s.page.Height)
	}

	in := s.partition()
	result := &SegmentResult{Thresholds: s.options.snapshot()}

	promptRegions := s.promptRegions(in, result)

	choiceRegions, err := s.choiceRegions(in, result)
	if err != nil {
		return nil, err
	}

	all := append(promptRegions, choiceRegions...)
	sortRegions(all)

	deduper := layout.NewDeduperWithConfig(layout.DedupeConfig{
		Threshold: s.options.overlapThreshold,
	})
	all = deduper.Dedupe(all)

	// Deduplication must never eat into the choice set: a dropped
	// choice region means the remaining set is mismatched, which is the
	// fatal condition, not a silent partial result.
	kept := 0
	for _, r := range all {
		if r.Kind == model.ChoiceVisual {
			kept++
		}
	}
	if kept != len(choiceRegions) {
		return nil, fmt.Errorf("%w: %d choice regions survived deduplication, %d produced",
			ErrChoiceCountMismatch, kept, len(choiceRegions))
	}

	bounds := s.page.Bounds()
	for i := range all {
		all[i].BBox = all[i].BBox.Clamp(bounds)
		all[i].ID = i
	}

	result.Regions = all
	result.ChoiceCount = kept
	return result, nil
}

// partitioned holds the page's blocks split by engine role.
type partitioned struct {
	// protected blocks must never be swallowed by a region: question
	// prose and long-form answer-choice text.
	protected []model.Block

	// anchors are the short answer-choice blocks that anchor choice
	// diagrams.
	anchors []model.Block

	// promptLabels anchor prompt diagrams: visual titles and labels.
	promptLabels []model.Block

	// choiceLabels are diagram-adjacent labels belonging to choices.
	choiceLabels []model.Block

	// prose is the remaining text content (part headers, unclassified
	// text) used to trim gaps and pull the effective page bottom.
	prose []model.Block

	// images are the page's image blocks, folded into region membership.
	images []model.Block
}

func (s *Segmenter) partition() partitioned {
	var in partitioned
	for _, b := range s.page.Blocks {
		if b.Kind == model.KindImage {
			in.images = append(in.images, b)
			continue
		}
		switch b.Category {
		case model.CategoryQuestionText:
			in.protected = append(in.protected, b)
		case model.CategoryAnswerChoice:
			if runeLen(b.Text) >= s.options.longTextRunes {
				in.protected = append(in.protected, b)
			} else {
				in.anchors = append(in.anchors, b)
			}
		case model.CategoryVisualContentTitle, model.CategoryVisualContentLabel,
			model.CategoryOtherLabel:
			in.promptLabels = append(in.promptLabels, b)
		case model.CategoryChoiceVisualLabel:
			in.choiceLabels = append(in.choiceLabels, b)
		default:
			in.prose = append(in.prose, b)
		}
	}
	return in
}

func runeLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

// promptRegions finds prompt diagram regions: label clusters resolved
// against protected text, or the best empty gap when no labels exist.
func (s *Segmenter) promptRegions(in partitioned, result *SegmentResult) []model.Region {
	refiner := s.refiner(s.options.minRegionWidth, s.options.minRegionHeight)

	if len(in.promptLabels) == 0 {
		return s.gapFallback(in, refiner, result)
	}

	clusterer := layout.NewClustererWithConfig(layout.ClusterConfig{
		GapThreshold: s.options.gapThreshold,
	})
	resolver := layout.NewBoundaryResolverWithConfig(layout.BoundaryConfig{
		Margin:    s.options.margin,
		MinWidth:  s.options.minRegionWidth,
		MinHeight: s.options.minRegionHeight,
	})

	var regions []model.Region
	for _, cluster := range clusterer.Cluster(in.promptLabels) {
		members := model.NewBlockIDSet(cluster...)

		box, ok := resolver.ResolveCluster(cluster, in.protected, s.page)
		if !ok {
			continue
		}

		box = refiner.ExpandToBoundaries(box, s.page.Blocks, s.page, members)
		box, degraded := refiner.ShrinkAwayFromText(box, s.page.Blocks, s.page, members)
		if !box.MeetsMinSize(s.options.minRegionWidth, s.options.minRegionHeight) {
			continue
		}

		region := model.Region{
			Kind:           model.PromptVisual,
			BBox:           box,
			MemberBlockIDs: members,
			Confidence:     0.9,
			Degraded:       degraded,
		}
		s.addImageMembers(&region, in.images)
		if degraded {
			region.Confidence -= 0.2
			result.Warnings = append(result.Warnings, Warning{
				Kind:    WarnDegradedRegion,
				Message: fmt.Sprintf("prompt region at (%.0f,%.0f) still overlaps excluded text at the size floor", box.X0, box.Y0),
			})
		}
		regions = append(regions, region)
	}

	if len(regions) == 0 {
		result.Warnings = append(result.Warnings, Warning{
			Kind:    WarnNoPromptRegion,
			Message: fmt.Sprintf("%d label cluster(s) resolved to no usable region", len(clusterer.Cluster(in.promptLabels))),
		})
	}
	return regions
}

// gapFallback finds a prompt region from the best empty gap between
// protected blocks. Returning nothing is the normal "no diagram here"
// outcome.
func (s *Segmenter) gapFallback(in partitioned, refiner *layout.Refiner, result *SegmentResult) []model.Region {
	if len(in.protected) == 0 {
		return nil
	}

	detector := layout.NewGapDetectorWithConfig(layout.GapConfig{
		MinGap: s.options.minGap(),
		Margin: s.options.margin,
	})

	gaps := detector.FindGaps(in.protected, in.prose, s.page)
	best := detector.Best(gaps, in.prose)
	if best == nil {
		return nil
	}

	box, degraded := refiner.ShrinkAwayFromText(best.BBox(), s.page.Blocks, s.page, nil)
	if !box.MeetsMinSize(s.options.minRegionWidth, s.options.minRegionHeight) {
		return nil
	}

	region := model.Region{
		Kind:           model.PromptVisual,
		BBox:           box,
		MemberBlockIDs: make(model.BlockIDSet),
		Confidence:     0.5,
		Degraded:       degraded,
	}
	s.addImageMembers(&region, in.images)
	if degraded {
		region.Confidence -= 0.2
		result.Warnings = append(result.Warnings, Warning{
			Kind:    WarnDegradedRegion,
			Message: "gap-fallback region still overlaps excluded text at the size floor",
		})
	}
	return []model.Region{region}
}

// choiceRegions runs the choice layout analysis and mask planning.
// A count mismatch from the analyzer is fatal and aborts the question.
func (s *Segmenter) choiceRegions(in partitioned, result *SegmentResult) ([]model.Region, error) {
	if len(in.choiceLabels) == 0 || len(in.anchors) == 0 {
		return nil, nil
	}

	analyzer := choices.NewAnalyzerWithConfig(choices.AnalyzerConfig{
		StdevFactor: s.options.stdevFactor,
		Margin:      s.options.margin,
		GridPad:     s.options.gridPad,
		MinWidth:    s.options.minChoiceWidth,
		MinHeight:   s.options.minChoiceHeight,
		Confidence:  0.85,
	})

	mode := analyzer.DetectLayout(in.anchors, s.page.Width)
	result.ChoiceLayout = mode

	regions, err := analyzer.ComputeRegions(in.anchors, in.choiceLabels, in.protected, s.page, mode)
	if err != nil {
		return nil, fmt.Errorf("choice layout analysis: %w", err)
	}
	if len(regions) == 0 {
		return nil, nil
	}

	refiner := s.refiner(s.options.minChoiceWidth, s.options.minChoiceHeight)
	planner := mask.NewPlannerWithConfig(mask.PlannerConfig{
		PadPx:            s.options.maskPad,
		MaxWidthFraction: s.options.maskMaxFraction,
	})
	result.Masks = make(map[model.BlockID][]model.MaskArea)

	for i := range regions {
		region := &regions[i]

		box, degraded := refiner.ShrinkAwayFromText(region.BBox, s.page.Blocks, s.page, region.MemberBlockIDs)
		region.BBox = box
		if degraded {
			region.Degraded = true
			region.Confidence -= 0.2
			result.Warnings = append(result.Warnings, Warning{
				Kind:    WarnDegradedRegion,
				Message: fmt.Sprintf("choice %q region still overlaps excluded text at the size floor", region.ChoiceLetter),
			})
		}
		s.addImageMembers(region, in.images)

		anchor, ok := s.regionAnchor(*region, in.anchors)
		if !ok || !region.BBox.Intersects(anchor.BBox) {
			// The letter is not inside the diagram; nothing to mask.
			continue
		}
		masks := planner.ComputeMasks(anchor.Text, anchor.BBox, region.ChoiceLetter)
		if len(masks) > 0 {
			result.Masks[anchor.ID] = masks
		}
	}

	return regions, nil
}

// regionAnchor returns the answer-choice anchor block belonging to the
// region.
func (s *Segmenter) regionAnchor(region model.Region, anchors []model.Block) (model.Block, bool) {
	for _, a := range anchors {
		if region.MemberBlockIDs.Has(a.ID) {
			return a, true
		}
	}
	return model.Block{}, false
}

// addImageMembers folds image blocks whose center lies inside the
// region into its member set.
func (s *Segmenter) addImageMembers(region *model.Region, images []model.Block) {
	for _, img := range images {
		cx, cy := img.BBox.CenterX(), img.BBox.CenterY()
		if cx >= region.BBox.X0 && cx <= region.BBox.X1 &&
			cy >= region.BBox.Y0 && cy <= region.BBox.Y1 {
			region.MemberBlockIDs.Add(img.ID)
		}
	}
}

func (s *Segmenter) refiner(minW, minH float64) *layout.Refiner {
	return layout.NewRefinerWithConfig(layout.RefineConfig{
		Margin:    s.options.margin,
		MinWidth:  minW,
		MinHeight: minH,
		ExcludedCategories: []model.Category{
			model.CategoryQuestionText,
			model.CategoryAnswerChoice,
		},
	})
}

func sortRegions(regions []model.Region) {
	sort.SliceStable(regions, func(i, j int) bool {
		if regions[i].BBox.Y0 != regions[j].BBox.Y0 {
			return regions[i].BBox.Y0 < regions[j].BBox.Y0
		}
		return regions[i].BBox.X0 < regions[j].BBox.X0
	})
}
