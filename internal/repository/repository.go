// Package repository persists and retrieves blog posts. Two implementations
// exist: the SQLite-backed DBPostRepository (the system of record) and the
// MemoryPostRepository used for local development and tests. The choice is
// made at composition time.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rahuman122003/blogify-module/internal/model"
	"github.com/rs/zerolog"
)

var (
	ErrStore    = errors.New("store")
	ErrNotFound = fmt.Errorf("%w.not_found", ErrStore)
	ErrConflict = fmt.Errorf("%w.conflict", ErrStore)
)

type PostRepository interface {
	// ListPublished returns published posts only, newest first. It backs the
	// public reading surface and must never leak unpublished content.
	ListPublished(ctx context.Context) ([]model.Post, error)
	// ListAll returns every post, newest first. Admin surface only.
	ListAll(ctx context.Context) ([]model.Post, error)

	GetBySlug(ctx context.Context, slug string) (*model.Post, error)
	GetByID(ctx context.Context, id model.PostID) (*model.Post, error)

	// Create assigns identity and both timestamps, then persists the
	// metadata row and the content rows with positions taken from slice
	// order.
	Create(ctx context.Context, post *model.Post) (*model.Post, error)
	// Update applies only the fields present in the patch. A non-nil block
	// slice replaces the stored content wholesale. CreatedAt is never
	// touched; UpdatedAt always refreshes.
	Update(ctx context.Context, id model.PostID, patch model.PostPatch) error
	Delete(ctx context.Context, id model.PostID) error
	SetPublished(ctx context.Context, id model.PostID, value bool) error
}

var repoLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	repoLogger = l
}
