package repository

import (
	"database/sql"
	"sort"
	"time"

	"github.com/Rahuman122003/blogify-module/internal/model"
)

// postRow mirrors the posts table. Nullable columns scan through
// sql.NullString and default to empty strings on the document side.
type postRow struct {
	ID          string
	Title       string
	Slug        string
	Description sql.NullString
	CoverImage  sql.NullString
	Author      sql.NullString
	ReadingTime sql.NullString
	Published   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// contentRow mirrors the post_content table. Position establishes display
// order; it is assigned from slice index on the way in and sorted on the
// way out, so the store may hand rows back in any order.
type contentRow struct {
	ID       string
	PostID   string
	Kind     string
	Content  string
	Alt      sql.NullString
	Position int
}

func docFromRows(p postRow, content []contentRow) model.Post {
	sort.Slice(content, func(i, j int) bool {
		return content[i].Position < content[j].Position
	})

	blocks := make([]model.ContentBlock, 0, len(content))
	for _, c := range content {
		blocks = append(blocks, model.ContentBlock{
			ID:      model.BlockID(c.ID),
			Kind:    model.BlockKind(c.Kind),
			Text:    c.Content,
			AltText: c.Alt.String,
		})
	}

	return model.Post{
		ID:          model.PostID(p.ID),
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description.String,
		CoverImage:  p.CoverImage.String,
		Author:      p.Author.String,
		ReadingTime: p.ReadingTime.String,
		Published:   p.Published,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Blocks:      blocks,
	}
}

func rowFromDoc(post *model.Post) postRow {
	return postRow{
		ID:          string(post.ID),
		Title:       post.Title,
		Slug:        post.Slug,
		Description: nullable(post.Description),
		CoverImage:  nullable(post.CoverImage),
		Author:      nullable(post.Author),
		ReadingTime: nullable(post.ReadingTime),
		Published:   post.Published,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}
}

// contentRowsFromBlocks emits a full replacement row set with position set
// to slice index. Row IDs are left empty; the store assigns fresh identity
// on insert (block IDs are a client-side concern and are replaced by row
// IDs on the next read, as positions are the durable ordering).
func contentRowsFromBlocks(postID model.PostID, blocks []model.ContentBlock) []contentRow {
	rows := make([]contentRow, 0, len(blocks))
	for i, b := range blocks {
		rows = append(rows, contentRow{
			PostID:   string(postID),
			Kind:     string(b.Kind),
			Content:  b.Text,
			Alt:      nullable(b.AltText),
			Position: i,
		})
	}
	return rows
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
