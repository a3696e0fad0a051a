// Package editor holds the transient composition state for a single post:
// scalar metadata plus a mutable ordered block sequence. Nothing here is
// durable; Submit is the only path from session state to the repository,
// and abandoned sessions are simply lost.
package editor

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/Rahuman122003/blogify-module/internal/model"
	"github.com/Rahuman122003/blogify-module/internal/repository"
	"github.com/Rahuman122003/blogify-module/internal/util"
)

type Direction int

const (
	Up Direction = iota
	Down
)

// wordsPerMinute is the reading-speed constant for the reading-time estimate.
const wordsPerMinute = 200

type Session struct {
	postID model.PostID // empty for a new post

	title       string
	slug        string
	description string
	coverImage  string
	author      string
	published   bool

	blocks []model.ContentBlock

	// Once the slug has ever been supplied or manually edited, title changes
	// stop deriving it. Sessions seeded from an existing post start locked,
	// and clearing the field does not unlock it.
	slugLocked bool
}

// NewSession starts a blank session for composing a new post.
func NewSession() *Session {
	return &Session{}
}

// EditSession seeds a session from an existing post. Slug auto-derivation
// is disabled from the start.
func EditSession(post *model.Post) *Session {
	return &Session{
		postID:      post.ID,
		title:       post.Title,
		slug:        post.Slug,
		description: post.Description,
		coverImage:  post.CoverImage,
		author:      post.Author,
		published:   post.Published,
		blocks:      append([]model.ContentBlock(nil), post.Blocks...),
		slugLocked:  true,
	}
}

func (s *Session) SetTitle(title string) {
	s.title = title
	if !s.slugLocked {
		s.slug = util.Slugify(title)
	}
}

// SetSlug records a manual slug edit and permanently disables derivation
// for this session, even when the new value is empty.
func (s *Session) SetSlug(slug string) {
	s.slug = slug
	s.slugLocked = true
}

func (s *Session) SetDescription(v string) { s.description = v }
func (s *Session) SetCoverImage(v string)  { s.coverImage = v }
func (s *Session) SetAuthor(v string)      { s.author = v }
func (s *Session) SetPublished(v bool)     { s.published = v }

func (s *Session) Title() string                { return s.title }
func (s *Session) Slug() string                 { return s.slug }
func (s *Session) Blocks() []model.ContentBlock { return s.blocks }

// AddBlock appends a new empty block of the given kind and returns its id.
func (s *Session) AddBlock(kind model.BlockKind) model.BlockID {
	block := model.ContentBlock{
		ID:   model.BlockID(uuid.New().String()),
		Kind: kind,
	}
	s.blocks = append(s.blocks, block)
	return block.ID
}

// BlockPatch updates a subset of a block's fields; nil fields keep the
// current value. Kind is fixed at creation.
type BlockPatch struct {
	Text    *string
	AltText *string
}

// UpdateBlock applies the patch to the block matching id; unknown ids are
// a no-op.
func (s *Session) UpdateBlock(id model.BlockID, patch BlockPatch) {
	for i := range s.blocks {
		if s.blocks[i].ID != id {
			continue
		}
		if patch.Text != nil {
			s.blocks[i].Text = *patch.Text
		}
		if patch.AltText != nil {
			s.blocks[i].AltText = *patch.AltText
		}
		return
	}
}

// RemoveBlock deletes the block matching id; position is implicit in slice
// order, so the remaining blocks re-index on their own.
func (s *Session) RemoveBlock(id model.BlockID) {
	for i := range s.blocks {
		if s.blocks[i].ID == id {
			s.blocks = append(s.blocks[:i], s.blocks[i+1:]...)
			return
		}
	}
}

// MoveBlock swaps the block matching id with its immediate neighbor.
// Moving the first block up or the last block down is a silent no-op.
func (s *Session) MoveBlock(id model.BlockID, dir Direction) {
	idx := -1
	for i := range s.blocks {
		if s.blocks[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}
	if dir == Up && idx == 0 {
		return
	}
	if dir == Down && idx == len(s.blocks)-1 {
		return
	}

	swap := idx - 1
	if dir == Down {
		swap = idx + 1
	}
	s.blocks[idx], s.blocks[swap] = s.blocks[swap], s.blocks[idx]
}

// ReadingTime estimates reading time for the session's current blocks.
func (s *Session) ReadingTime() string {
	return ReadingTime(s.blocks)
}

// ReadingTime estimates reading time from the whitespace-delimited word
// count of paragraph blocks only, at 200 words per minute, rounded up with
// a floor of one minute.
func ReadingTime(blocks []model.ContentBlock) string {
	words := 0
	for _, b := range blocks {
		if b.Kind == model.KindParagraph {
			words += len(strings.Fields(b.Text))
		}
	}

	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

// Submit assembles the session into a durable write: a create for fresh
// sessions, a full update for sessions seeded from an existing post. The
// returned post carries the stored state.
func (s *Session) Submit(ctx context.Context, repo repository.PostRepository) (*model.Post, error) {
	readingTime := s.ReadingTime()

	if s.postID == "" {
		post := &model.Post{
			Title:       s.title,
			Slug:        s.slug,
			Description: s.description,
			CoverImage:  s.coverImage,
			Author:      s.author,
			ReadingTime: readingTime,
			Published:   s.published,
			Blocks:      s.blocks,
		}
		return repo.Create(ctx, post)
	}

	patch := model.PostPatch{
		Title:       &s.title,
		Slug:        &s.slug,
		Description: &s.description,
		CoverImage:  &s.coverImage,
		Author:      &s.author,
		ReadingTime: &readingTime,
		Published:   &s.published,
		Blocks:      s.blocks,
	}
	if patch.Blocks == nil {
		patch.Blocks = []model.ContentBlock{}
	}
	if err := repo.Update(ctx, s.postID, patch); err != nil {
		return nil, err
	}
	return repo.GetByID(ctx, s.postID)
}
