package repository

import (
	"context"

	"iptvsite/internal/logger"
	"iptvsite/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type BlogRepository struct {
	db *pgxpool.Pool
}

func NewBlogRepository(db *pgxpool.Pool) *BlogRepository {
	return &BlogRepository{db: db}
}

const blogColumns = `id, title, slug, content, excerpt, featured_image, author, status, published_at, created_at, updated_at`

func (r *BlogRepository) ListPublished(ctx context.Context, limit, offset int) ([]*models.Blog, int, error) {
	blogs := []*models.Blog{}
	err := pgxscan.Select(ctx, r.db, &blogs, `
		SELECT `+blogColumns+` FROM blogs
		WHERE status = 'published'
		ORDER BY published_at DESC NULLS LAST, id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		logger.Log.Error("list published blogs failed (repo)", zap.Error(err))
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM blogs WHERE status = 'published'`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return blogs, total, nil
}

// ListAll lists blogs of any status; an empty status means all.
func (r *BlogRepository) ListAll(ctx context.Context, status string, limit, offset int) ([]*models.Blog, int, error) {
	blogs := []*models.Blog{}
	err := pgxscan.Select(ctx, r.db, &blogs, `
		SELECT `+blogColumns+` FROM blogs
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, status, limit, offset)
	if err != nil {
		logger.Log.Error("list blogs failed (repo)", zap.Error(err))
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM blogs WHERE ($1 = '' OR status = $1)`, status).Scan(&total); err != nil {
		return nil, 0, err
	}
	return blogs, total, nil
}

func (r *BlogRepository) GetPublishedBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	var b models.Blog
	err := pgxscan.Get(ctx, r.db, &b,
		`SELECT `+blogColumns+` FROM blogs WHERE slug = $1 AND status = 'published'`, slug)
	if err != nil {
		return nil, mapErr(err)
	}
	return &b, nil
}

func (r *BlogRepository) GetByID(ctx context.Context, id int64) (*models.Blog, error) {
	var b models.Blog
	if err := pgxscan.Get(ctx, r.db, &b, `SELECT `+blogColumns+` FROM blogs WHERE id = $1`, id); err != nil {
		return nil, mapErr(err)
	}
	return &b, nil
}

// SlugExists reports whether slug is used by a blog other than excludeID (0 excludes nothing).
func (r *BlogRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM blogs WHERE slug = $1 AND id <> $2)`, slug, excludeID).Scan(&exists)
	return exists, err
}

func (r *BlogRepository) Create(ctx context.Context, b *models.Blog) (*models.Blog, error) {
	var out models.Blog
	err := pgxscan.Get(ctx, r.db, &out, `
		INSERT INTO blogs (title, slug, content, excerpt, featured_image, author, status, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+blogColumns,
		b.Title, b.Slug, b.Content, b.Excerpt, b.FeaturedImage, b.Author, b.Status, b.PublishedAt)
	if err != nil {
		logger.Log.Error("create blog failed (repo)", zap.Error(err))
		return nil, mapErr(err)
	}
	return &out, nil
}

// Update overwrites every editable column of b.
func (r *BlogRepository) Update(ctx context.Context, b *models.Blog) (*models.Blog, error) {
	var out models.Blog
	err := pgxscan.Get(ctx, r.db, &out, `
		UPDATE blogs SET title = $1, slug = $2, content = $3, excerpt = $4, featured_image = $5,
			author = $6, status = $7, published_at = $8, updated_at = now()
		WHERE id = $9
		RETURNING `+blogColumns,
		b.Title, b.Slug, b.Content, b.Excerpt, b.FeaturedImage, b.Author, b.Status, b.PublishedAt, b.ID)
	if err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (r *BlogRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// PublishedSlugs is used by the sitemap.
func (r *BlogRepository) PublishedSlugs(ctx context.Context) ([]models.BlogRef, error) {
	refs := []models.BlogRef{}
	err := pgxscan.Select(ctx, r.db, &refs, `
		SELECT slug, COALESCE(updated_at, published_at) AS updated_at
		FROM blogs WHERE status = 'published'
		ORDER BY published_at DESC NULLS LAST`)
	return refs, err
}
