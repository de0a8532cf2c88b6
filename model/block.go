package model

// BlockID is a stable integer identifier assigned to a block once at
// ingestion. All "keep these blocks / skip these blocks" bookkeeping in
// the engine is keyed on BlockID, never on value equality.
type BlockID int

// BlockKind distinguishes text blocks from embedded image blocks.
type BlockKind int

const (
	KindText BlockKind = iota
	KindImage
)

func (k BlockKind) String() string {
	if k == KindImage {
		return "image"
	}
	return "text"
}

// Category is the semantic role assigned to a block by the external
// classifier. The engine takes categories as a given input contract.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryQuestionText
	CategoryAnswerChoice
	CategoryQuestionPartHeader
	CategoryVisualContentTitle
	CategoryVisualContentLabel
	CategoryChoiceVisualLabel
	CategoryOtherLabel
)

func (c Category) String() string {
	switch c {
	case CategoryQuestionText:
		return "question_text"
	case CategoryAnswerChoice:
		return "answer_choice"
	case CategoryQuestionPartHeader:
		return "question_part_header"
	case CategoryVisualContentTitle:
		return "visual_content_title"
	case CategoryVisualContentLabel:
		return "visual_content_label"
	case CategoryChoiceVisualLabel:
		return "choice_visual_label"
	case CategoryOtherLabel:
		return "other_label"
	default:
		return "unknown"
	}
}

// ParseCategory converts a classifier wire string to a Category.
// Unrecognized strings map to CategoryUnknown.
func ParseCategory(s string) Category {
	switch s {
	case "question_text":
		return CategoryQuestionText
	case "answer_choice":
		return CategoryAnswerChoice
	case "question_part_header":
		return CategoryQuestionPartHeader
	case "visual_content_title":
		return CategoryVisualContentTitle
	case "visual_content_label":
		return CategoryVisualContentLabel
	case "choice_visual_label":
		return CategoryChoiceVisualLabel
	case "other_label":
		return CategoryOtherLabel
	default:
		return CategoryUnknown
	}
}

// IsLabel reports whether the category marks a block as diagram-adjacent
// label material (titles, axis labels, choice-letter labels) rather than
// question prose.
func (c Category) IsLabel() bool {
	switch c {
	case CategoryVisualContentTitle, CategoryVisualContentLabel,
		CategoryChoiceVisualLabel, CategoryOtherLabel:
		return true
	default:
		return false
	}
}

// Block is a classified text or image region on a page. Blocks are
// immutable after creation; the engine only ever reads them.
type Block struct {
	ID         BlockID
	Kind       BlockKind
	BBox       BBox
	Category   Category
	Text       string
	PageNumber int
}

// BlockIDSet is a set of block ids, used wherever the engine must treat
// some blocks as exempt or already consumed.
type BlockIDSet map[BlockID]struct{}

// NewBlockIDSet builds a set from the given blocks.
func NewBlockIDSet(blocks ...Block) BlockIDSet {
	s := make(BlockIDSet, len(blocks))
	for _, b := range blocks {
		s[b.ID] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set. A nil set contains nothing.
func (s BlockIDSet) Has(id BlockID) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id into the set.
func (s BlockIDSet) Add(id BlockID) {
	s[id] = struct{}{}
}
