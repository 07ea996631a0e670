package models

import "time"

// Article is the reader-facing record produced when a story is published.
// Author name and email are denormalized from the identity provider so the
// public surface never joins against profile data.
type Article struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"    validate:"required"`
	Excerpt         *string    `json:"excerpt,omitempty"`
	Content         string     `json:"content"  validate:"required"`
	ImageURL        *string    `json:"image_url,omitempty"`
	Category        string     `json:"category" validate:"required"`
	AuthorID        string     `json:"author_id"`
	AuthorName      *string    `json:"author_name,omitempty"`
	AuthorEmail     *string    `json:"author_email,omitempty"`
	Published       bool       `json:"published"`
	Featured        bool       `json:"featured"`
	Slug            string     `json:"slug"`
	PublicationDate time.Time  `json:"publication_date"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`
}

// Visible reports whether the article should appear on public pages at the
// given instant: published and past its publication date.
func (a *Article) Visible(now time.Time) bool {
	return a.Published && !a.PublicationDate.After(now) && a.DeletedAt == nil
}
