package models

import "time"

const (
	BlogStatusDraft     = "draft"
	BlogStatusPublished = "published"
)

type Blog struct {
	ID            int64      `db:"id"             json:"id"`
	Title         string     `db:"title"          json:"title"`
	Slug          string     `db:"slug"           json:"slug"`
	Content       string     `db:"content"        json:"content"`
	Excerpt       string     `db:"excerpt"        json:"excerpt"`
	FeaturedImage string     `db:"featured_image" json:"featured_image"`
	Author        string     `db:"author"         json:"author"`
	Status        string     `db:"status"         json:"status"`
	PublishedAt   *time.Time `db:"published_at"   json:"published_at"`
	CreatedAt     time.Time  `db:"created_at"     json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"     json:"updated_at"`
}

type CreateBlogRequest struct {
	Title         string `json:"title"          example:"Best IPTV apps for Firestick"`
	Content       string `json:"content"        example:"<p>...</p>"`
	Excerpt       string `json:"excerpt"`
	FeaturedImage string `json:"featured_image"`
	Author        string `json:"author"`
	Status        string `json:"status"         example:"draft"`
}

type UpdateBlogRequest struct {
	Title         *string `json:"title,omitempty"`
	Content       *string `json:"content,omitempty"`
	Excerpt       *string `json:"excerpt,omitempty"`
	FeaturedImage *string `json:"featured_image,omitempty"`
	Author        *string `json:"author,omitempty"`
	Status        *string `json:"status,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type BlogPage struct {
	Blogs      []*Blog    `json:"blogs"`
	Pagination Pagination `json:"pagination"`
}

// BlogRef is a published slug with its last modification time.
type BlogRef struct {
	Slug      string    `db:"slug"`
	UpdatedAt time.Time `db:"updated_at"`
}
