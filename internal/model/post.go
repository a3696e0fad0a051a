// Package model defines core data structures and types for the blog application.
package model

import (
	"fmt"
	"regexp"
	"time"
)

type PostID string

// Post aggregates post metadata and the ordered content block sequence.
// Block order in Blocks is display order and is preserved exactly through
// every round trip to and from storage.
type Post struct {
	ID PostID `json:"id"`

	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	CoverImage  string `json:"coverImage"`

	Author      string `json:"author,omitempty"`
	ReadingTime string `json:"readingTime,omitempty"`

	Published bool `json:"published"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Blocks []ContentBlock `json:"blocks"`
}

// PostPatch is a partial update payload. Nil fields are left untouched by
// the repository; a nil Blocks slice means "keep the stored content", a
// non-nil (even empty) slice replaces it wholesale.
type PostPatch struct {
	Title       *string `json:"title,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
	CoverImage  *string `json:"coverImage,omitempty"`
	Author      *string `json:"author,omitempty"`
	ReadingTime *string `json:"readingTime,omitempty"`
	Published   *bool   `json:"published,omitempty"`

	Blocks []ContentBlock `json:"blocks,omitempty"`
}

// ValidationError reports a metadata field that fails the publish-time
// invariants. It is detected before the repository is invoked.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

var slugRe = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]*[a-z0-9])?$`)

// ValidSlug reports whether s is URL-safe: lowercase alphanumerics and
// hyphens only, no leading or trailing hyphen. Interior hyphen runs are
// allowed; manually entered slugs are taken as-is.
func ValidSlug(s string) bool {
	return slugRe.MatchString(s)
}

// ValidateBlocks rejects any block whose kind falls outside the closed
// enum. The write path calls this for both full documents and patch
// replacements, so unknown kinds never reach the store.
func ValidateBlocks(blocks []ContentBlock) error {
	for _, b := range blocks {
		if !b.Kind.Valid() {
			return &ValidationError{Field: "blocks", Reason: fmt.Sprintf("unknown block kind %q", b.Kind)}
		}
	}
	return nil
}

// Validate enforces the document invariants. A published post must carry a
// non-empty title, description and cover image and a valid slug; drafts only
// need a title and a valid slug.
func (p *Post) Validate() error {
	if p.Title == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if !ValidSlug(p.Slug) {
		return &ValidationError{Field: "slug", Reason: "must be lowercase alphanumerics and hyphens"}
	}
	if p.Published {
		if p.Description == "" {
			return &ValidationError{Field: "description", Reason: "required for published posts"}
		}
		if p.CoverImage == "" {
			return &ValidationError{Field: "coverImage", Reason: "required for published posts"}
		}
	}
	return ValidateBlocks(p.Blocks)
}
