package services

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"iptvsite/internal/apperr"
	"iptvsite/internal/logger"
	"iptvsite/internal/models"
	"iptvsite/internal/repository"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

const (
	DefaultPublicBlogLimit = 10
	DefaultAdminBlogLimit  = 20
	MaxBlogLimit           = 100

	maxBlogPage = math.MaxInt32 / MaxBlogLimit
)

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapse = regexp.MustCompile(`[\s_-]+`)
)

// Slugify turns a title into a URL slug: "Hello, World! 2024" -> "hello-world-2024".
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugCollapse.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "post"
	}
	return s
}

type BlogRepo interface {
	ListPublished(ctx context.Context, limit, offset int) ([]*models.Blog, int, error)
	ListAll(ctx context.Context, status string, limit, offset int) ([]*models.Blog, int, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.Blog, error)
	GetByID(ctx context.Context, id int64) (*models.Blog, error)
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	Create(ctx context.Context, b *models.Blog) (*models.Blog, error)
	Update(ctx context.Context, b *models.Blog) (*models.Blog, error)
	Delete(ctx context.Context, id int64) error
}

type BlogService struct {
	repo   BlogRepo
	policy *bluemonday.Policy
	now    func() time.Time
}

func NewBlogService(repo BlogRepo) *BlogService {
	p := bluemonday.UGCPolicy()
	p.AllowElements("img")
	p.AllowAttrs("src", "alt", "width", "height").OnElements("img")
	return &BlogService{repo: repo, policy: p, now: time.Now}
}

func pageParams(page, limit, def int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = def
	}
	if limit > MaxBlogLimit {
		limit = MaxBlogLimit
	}
	// Keeps the offset inside Postgres' int4 range.
	if page > maxBlogPage {
		page = maxBlogPage
	}
	return page, limit, (page - 1) * limit
}

func newPage(blogs []*models.Blog, page, limit, total int) *models.BlogPage {
	return &models.BlogPage{
		Blogs: blogs,
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + limit - 1) / limit,
		},
	}
}

func (s *BlogService) ListPublished(ctx context.Context, page, limit int) (*models.BlogPage, error) {
	page, limit, offset := pageParams(page, limit, DefaultPublicBlogLimit)
	blogs, total, err := s.repo.ListPublished(ctx, limit, offset)
	if err != nil {
		return nil, apperr.Server("Failed to fetch blogs", err)
	}
	return newPage(blogs, page, limit, total), nil
}

// ListAll is the admin listing; status is "all", "draft" or "published".
func (s *BlogService) ListAll(ctx context.Context, status string, page, limit int) (*models.BlogPage, error) {
	switch status {
	case "", "all":
		status = ""
	case models.BlogStatusDraft, models.BlogStatusPublished:
	default:
		return nil, apperr.Validation("status must be one of all, draft, published")
	}
	page, limit, offset := pageParams(page, limit, DefaultAdminBlogLimit)
	blogs, total, err := s.repo.ListAll(ctx, status, limit, offset)
	if err != nil {
		return nil, apperr.Server("Failed to fetch blogs", err)
	}
	return newPage(blogs, page, limit, total), nil
}

func (s *BlogService) GetBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	b, err := s.repo.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, blogErr(err, "Failed to fetch blog")
	}
	return b, nil
}

func (s *BlogService) GetByID(ctx context.Context, id int64) (*models.Blog, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, blogErr(err, "Failed to fetch blog")
	}
	return b, nil
}

// uniqueSlug returns base, or base with a millisecond timestamp suffix if base is taken.
func (s *BlogService) uniqueSlug(ctx context.Context, base string, excludeID int64) (string, error) {
	taken, err := s.repo.SlugExists(ctx, base, excludeID)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}
	return base + "-" + strconv.FormatInt(s.now().UnixMilli(), 10), nil
}

func validStatus(st string) bool {
	return st == models.BlogStatusDraft || st == models.BlogStatusPublished
}

func (s *BlogService) Create(ctx context.Context, in models.CreateBlogRequest) (*models.Blog, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || strings.TrimSpace(in.Content) == "" {
		return nil, apperr.Validation("Title and content are required")
	}
	status := in.Status
	if status == "" {
		status = models.BlogStatusDraft
	}
	if !validStatus(status) {
		return nil, apperr.Validation("status must be draft or published")
	}
	author := strings.TrimSpace(in.Author)
	if author == "" {
		author = "Admin"
	}

	slug, err := s.uniqueSlug(ctx, Slugify(title), 0)
	if err != nil {
		return nil, apperr.Server("Failed to create blog", err)
	}

	b := &models.Blog{
		Title:         title,
		Slug:          slug,
		Content:       s.policy.Sanitize(in.Content),
		Excerpt:       in.Excerpt,
		FeaturedImage: in.FeaturedImage,
		Author:        author,
		Status:        status,
	}
	if status == models.BlogStatusPublished {
		now := s.now()
		b.PublishedAt = &now
	}

	out, err := s.repo.Create(ctx, b)
	if err != nil {
		return nil, apperr.Server("Failed to create blog", err)
	}
	logger.WithCtx(ctx).Info("blog created", zap.Int64("blog_id", out.ID), zap.String("slug", out.Slug))
	return out, nil
}

func (s *BlogService) Update(ctx context.Context, id int64, in models.UpdateBlogRequest) (*models.Blog, error) {
	cur, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, blogErr(err, "Failed to update blog")
	}

	next := *cur
	if in.Title != nil {
		next.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		next.Content = s.policy.Sanitize(*in.Content)
	}
	if next.Title == "" || strings.TrimSpace(next.Content) == "" {
		return nil, apperr.Validation("Title and content are required")
	}
	if in.Excerpt != nil {
		next.Excerpt = *in.Excerpt
	}
	if in.FeaturedImage != nil {
		next.FeaturedImage = *in.FeaturedImage
	}
	if in.Author != nil {
		next.Author = strings.TrimSpace(*in.Author)
		if next.Author == "" {
			next.Author = "Admin"
		}
	}
	if in.Status != nil {
		if !validStatus(*in.Status) {
			return nil, apperr.Validation("status must be draft or published")
		}
		next.Status = *in.Status
	}

	if next.Title != cur.Title {
		slug, err := s.uniqueSlug(ctx, Slugify(next.Title), id)
		if err != nil {
			return nil, apperr.Server("Failed to update blog", err)
		}
		next.Slug = slug
	}
	if next.Status == models.BlogStatusPublished && cur.Status != models.BlogStatusPublished {
		now := s.now()
		next.PublishedAt = &now
	}

	out, err := s.repo.Update(ctx, &next)
	if err != nil {
		return nil, blogErr(err, "Failed to update blog")
	}
	return out, nil
}

func (s *BlogService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return blogErr(err, "Failed to delete blog")
	}
	logger.WithCtx(ctx).Info("blog deleted", zap.Int64("blog_id", id))
	return nil
}

func blogErr(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("Blog not found")
	}
	return apperr.Server(msg, err)
}
