package model

type BlockID string

// BlockKind is the closed set of content block kinds. There is no
// extensibility point: the editor, mapper and renderer all switch over
// exactly these four values.
type BlockKind string

const (
	KindParagraph BlockKind = "paragraph"
	KindHeading2  BlockKind = "heading-2"
	KindHeading3  BlockKind = "heading-3"
	KindImage     BlockKind = "image"
)

func (k BlockKind) Valid() bool {
	switch k {
	case KindParagraph, KindHeading2, KindHeading3, KindImage:
		return true
	}
	return false
}

// ContentBlock is the atomic unit of post body content. For image blocks
// Text holds the image URL and AltText the alternative text; AltText is
// empty for every other kind.
type ContentBlock struct {
	ID      BlockID   `json:"id"`
	Kind    BlockKind `json:"kind"`
	Text    string    `json:"text"`
	AltText string    `json:"altText,omitempty"`
}
