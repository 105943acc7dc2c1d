package models

import (
	"time"

	"github.com/google/uuid"
)

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived:
		return true
	}
	return false
}

// Post is a flat content item. News, events, portfolio entries and services
// are all posts told apart by their category.
type Post struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	Title           string     `db:"title" json:"title"`
	Slug            string     `db:"slug" json:"slug"`
	Excerpt         string     `db:"excerpt" json:"excerpt"`
	Content         string     `db:"content" json:"content"`
	Status          PostStatus `db:"status" json:"status"`
	PostType        string     `db:"post_type" json:"postType"`
	IsFeatured      bool       `db:"is_featured" json:"isFeatured"`
	Thumbnail       string     `db:"thumbnail" json:"thumbnail"`
	MetaTitle       string     `db:"meta_title" json:"metaTitle"`
	MetaDescription string     `db:"meta_description" json:"metaDescription"`
	MetaKeyword     string     `db:"meta_keyword" json:"metaKeyword"`
	CategoryID      uuid.UUID  `db:"category_id" json:"categoryId"`
	AuthorID        uuid.UUID  `db:"author_id" json:"authorId"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updatedAt"`
	PublishedAt     *time.Time `db:"published_at" json:"publishedAt"`

	Author   *AuthorSummary   `json:"author,omitempty"`
	Category *CategorySummary `json:"category,omitempty"`
}

type AuthorSummary struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"fullName"`
	AvatarURL string    `json:"avatarUrl"`
}

type CategorySummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// SetStatus moves the post to status and keeps PublishedAt in step with it:
// stamped when the post becomes published, kept while it stays published,
// cleared for every other status.
func (p *Post) SetStatus(status PostStatus, now time.Time) {
	switch {
	case status != PostStatusPublished:
		p.PublishedAt = nil
	case p.Status != PostStatusPublished || p.PublishedAt == nil:
		t := now
		p.PublishedAt = &t
	}

	p.Status = status
}

func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// PostFilter narrows a post listing. Zero values mean "no filter".
type PostFilter struct {
	Slugs      []string
	PostType   string
	CategoryID *uuid.UUID
	Status     PostStatus
	IsFeatured *bool
	Limit      int
	Offset     int
}
