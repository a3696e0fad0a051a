package repository

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/Rahuman122003/blogify-module/internal/model"
)

// MemoryPostRepository holds the whole collection in process memory with a
// monotonically increasing id token. It has no persistence across restarts
// and must not be used as the system of record; it exists for local
// development and tests.
type MemoryPostRepository struct { // implements PostRepository
	mu     sync.RWMutex
	posts  map[model.PostID]*model.Post
	nextID int64
}

func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{
		posts: make(map[model.PostID]*model.Post),
	}
}

func (r *MemoryPostRepository) ListPublished(ctx context.Context) ([]model.Post, error) {
	return r.list(func(p *model.Post) bool { return p.Published }), nil
}

func (r *MemoryPostRepository) ListAll(ctx context.Context) ([]model.Post, error) {
	return r.list(func(p *model.Post) bool { return true }), nil
}

func (r *MemoryPostRepository) list(keep func(*model.Post) bool) []model.Post {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := make([]model.Post, 0, len(r.posts))
	for _, p := range r.posts {
		if keep(p) {
			posts = append(posts, clonePost(p))
		}
	}

	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})

	return posts
}

func (r *MemoryPostRepository) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.posts {
		if p.Slug == slug {
			post := clonePost(p)
			return &post, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryPostRepository) GetByID(ctx context.Context, id model.PostID) (*model.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.posts[id]; ok {
		post := clonePost(p)
		return &post, nil
	}
	return nil, ErrNotFound
}

func (r *MemoryPostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	if err := post.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.posts {
		if p.Slug == post.Slug {
			return nil, ErrConflict
		}
	}

	now := time.Now().UTC()
	created := clonePost(post)
	r.nextID++
	created.ID = model.PostID(strconv.FormatInt(r.nextID, 10))
	created.CreatedAt = now
	created.UpdatedAt = now

	r.posts[created.ID] = &created

	out := clonePost(&created)
	return &out, nil
}

func (r *MemoryPostRepository) Update(ctx context.Context, id model.PostID, patch model.PostPatch) error {
	if patch.Slug != nil && !model.ValidSlug(*patch.Slug) {
		return &model.ValidationError{Field: "slug", Reason: "must be lowercase alphanumerics and hyphens"}
	}
	if err := model.ValidateBlocks(patch.Blocks); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return ErrNotFound
	}

	if patch.Slug != nil {
		for otherID, other := range r.posts {
			if otherID != id && other.Slug == *patch.Slug {
				return ErrConflict
			}
		}
		p.Slug = *patch.Slug
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.CoverImage != nil {
		p.CoverImage = *patch.CoverImage
	}
	if patch.Author != nil {
		p.Author = *patch.Author
	}
	if patch.ReadingTime != nil {
		p.ReadingTime = *patch.ReadingTime
	}
	if patch.Published != nil {
		p.Published = *patch.Published
	}
	if patch.Blocks != nil {
		p.Blocks = append([]model.ContentBlock(nil), patch.Blocks...)
	}

	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryPostRepository) Delete(ctx context.Context, id model.PostID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *MemoryPostRepository) SetPublished(ctx context.Context, id model.PostID, value bool) error {
	return r.Update(ctx, id, model.PostPatch{Published: &value})
}

func clonePost(p *model.Post) model.Post {
	out := *p
	out.Blocks = append([]model.ContentBlock(nil), p.Blocks...)
	return out
}
