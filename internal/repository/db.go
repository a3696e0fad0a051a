package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/Rahuman122003/blogify-module/internal/db"
	"github.com/Rahuman122003/blogify-module/internal/model"
)

const postColumns = `id, title, slug, description, cover_image, author, reading_time, published, created_at, updated_at`

type DBPostRepository struct { // implements PostRepository
	db db.DB
}

func NewDBPostRepository(db db.DB) *DBPostRepository {
	return &DBPostRepository{db: db}
}

func (r *DBPostRepository) ListPublished(ctx context.Context) ([]model.Post, error) {
	return r.list(ctx, `SELECT `+postColumns+` FROM posts WHERE published = 1 ORDER BY created_at DESC, id DESC`)
}

func (r *DBPostRepository) ListAll(ctx context.Context) ([]model.Post, error) {
	return r.list(ctx, `SELECT `+postColumns+` FROM posts ORDER BY created_at DESC, id DESC`)
}

func (r *DBPostRepository) list(ctx context.Context, query string) ([]model.Post, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying posts: %w", err)
	}
	defer rows.Close()

	var metas []postRow
	for rows.Next() {
		meta, err := scanPostRow(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning post: %w", err)
		}
		metas = append(metas, meta)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	content, err := r.loadContent(ctx, metas)
	if err != nil {
		return nil, err
	}

	posts := make([]model.Post, 0, len(metas))
	for _, meta := range metas {
		posts = append(posts, docFromRows(meta, content[meta.ID]))
	}
	return posts, nil
}

func (r *DBPostRepository) loadContent(ctx context.Context, metas []postRow) (map[string][]contentRow, error) {
	if len(metas) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(metas)), ",")
	args := make([]interface{}, 0, len(metas))
	for _, meta := range metas {
		args = append(args, meta.ID)
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, post_id, kind, content, alt, position FROM post_content WHERE post_id IN (`+placeholders+`)`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("error querying post content: %w", err)
	}
	defer rows.Close()

	content := make(map[string][]contentRow)
	for rows.Next() {
		var c contentRow
		if err := rows.Scan(&c.ID, &c.PostID, &c.Kind, &c.Content, &c.Alt, &c.Position); err != nil {
			return nil, fmt.Errorf("error scanning content row: %w", err)
		}
		content[c.PostID] = append(content[c.PostID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating content rows: %w", err)
	}

	return content, nil
}

func (r *DBPostRepository) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	return r.getOne(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = ?`, slug)
}

func (r *DBPostRepository) GetByID(ctx context.Context, id model.PostID) (*model.Post, error) {
	return r.getOne(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, string(id))
}

func (r *DBPostRepository) getOne(ctx context.Context, query string, arg string) (*model.Post, error) {
	row := r.db.Get().QueryRowContext(ctx, query, arg)

	meta, err := scanPostRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error scanning post: %w", err)
	}

	content, err := r.loadContent(ctx, []postRow{meta})
	if err != nil {
		return nil, err
	}

	post := docFromRows(meta, content[meta.ID])
	return &post, nil
}

func (r *DBPostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	if err := post.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := *post
	created.ID = model.PostID(uuid.New().String())
	created.CreatedAt = now
	created.UpdatedAt = now

	// Metadata row and content rows commit together; a failure on either
	// side leaves no orphaned post behind.
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	meta := rowFromDoc(&created)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.ID, meta.Title, meta.Slug, meta.Description, meta.CoverImage,
		meta.Author, meta.ReadingTime, meta.Published, meta.CreatedAt, meta.UpdatedAt,
	)
	if err != nil {
		return nil, storeErr("error inserting post", err)
	}

	if err := insertContent(ctx, tx, contentRowsFromBlocks(created.ID, created.Blocks)); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing post: %w", err)
	}

	repoLogger.Debug().Str("post_id", string(created.ID)).Str("slug", created.Slug).Msg("Post created")

	return &created, nil
}

func (r *DBPostRepository) Update(ctx context.Context, id model.PostID, patch model.PostPatch) error {
	if patch.Slug != nil && !model.ValidSlug(*patch.Slug) {
		return &model.ValidationError{Field: "slug", Reason: "must be lowercase alphanumerics and hyphens"}
	}
	if err := model.ValidateBlocks(patch.Blocks); err != nil {
		return err
	}

	sets := []string{"updated_at = ?"}
	args := []interface{}{time.Now().UTC()}

	addSet := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if patch.Title != nil {
		addSet("title", *patch.Title)
	}
	if patch.Slug != nil {
		addSet("slug", *patch.Slug)
	}
	if patch.Description != nil {
		addSet("description", nullable(*patch.Description))
	}
	if patch.CoverImage != nil {
		addSet("cover_image", nullable(*patch.CoverImage))
	}
	if patch.Author != nil {
		addSet("author", nullable(*patch.Author))
	}
	if patch.ReadingTime != nil {
		addSet("reading_time", nullable(*patch.ReadingTime))
	}
	if patch.Published != nil {
		addSet("published", *patch.Published)
	}
	args = append(args, string(id))

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE posts SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return storeErr("error updating post", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	// Content replacement is wholesale: the old rows go, the new sequence
	// comes in with fresh positions. Both steps share the transaction, so a
	// failed replacement never leaves the post without content.
	if patch.Blocks != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM post_content WHERE post_id = ?`, string(id)); err != nil {
			return storeErr("error clearing post content", err)
		}
		if err := insertContent(ctx, tx, contentRowsFromBlocks(id, patch.Blocks)); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing update: %w", err)
	}

	repoLogger.Debug().Str("post_id", string(id)).Msg("Post updated")

	return nil
}

func (r *DBPostRepository) Delete(ctx context.Context, id model.PostID) error {
	// Content rows are removed by the schema's ON DELETE CASCADE.
	res, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = ?`, string(id))
	if err != nil {
		return storeErr("error deleting post", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *DBPostRepository) SetPublished(ctx context.Context, id model.PostID, value bool) error {
	return r.Update(ctx, id, model.PostPatch{Published: &value})
}

func insertContent(ctx context.Context, tx *sql.Tx, rows []contentRow) error {
	for _, c := range rows {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO post_content (id, post_id, kind, content, alt, position) VALUES (?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), c.PostID, c.Kind, c.Content, c.Alt, c.Position,
		)
		if err != nil {
			return storeErr("error inserting content row", err)
		}
	}
	return nil
}

func scanPostRow(s interface{ Scan(...interface{}) error }) (postRow, error) {
	var p postRow
	err := s.Scan(&p.ID, &p.Title, &p.Slug, &p.Description, &p.CoverImage,
		&p.Author, &p.ReadingTime, &p.Published, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// storeErr wraps driver errors, surfacing unique-constraint violations
// (duplicate slug) as ErrConflict.
func storeErr(msg string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return fmt.Errorf("%s: %w", msg, ErrConflict)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
