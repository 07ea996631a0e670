// Package models defines the core domain models for the editorial workflow.
package models

import (
	"regexp"
	"strings"
	"time"
)

// StoryStatus represents the review lifecycle state of a story.
type StoryStatus string

const (
	StoryStatusPending   StoryStatus = "pending"   // Awaiting review, editable by its author
	StoryStatusApproved  StoryStatus = "approved"  // Accepted by a reviewer, not yet live
	StoryStatusPublished StoryStatus = "published" // Live, terminal
	StoryStatusRejected  StoryStatus = "rejected"  // Declined by a reviewer, terminal
)

// ValidStoryStatus reports whether s is one of the known lifecycle states.
func ValidStoryStatus(s StoryStatus) bool {
	switch s {
	case StoryStatusPending, StoryStatusApproved, StoryStatusPublished, StoryStatusRejected:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transition is defined from s.
func (s StoryStatus) Terminal() bool {
	return s == StoryStatusPublished || s == StoryStatusRejected
}

// ReviewAction is a reviewer-requested operation on a pending or approved story.
type ReviewAction string

const (
	ReviewActionApprove ReviewAction = "approve"
	ReviewActionReject  ReviewAction = "reject"
	ReviewActionPublish ReviewAction = "publish"
)

// Story is a unit of editorial content progressing through review.
//
// ReviewedBy, ReviewedAt and ReviewNotes are nil until a reviewer moves the
// story out of pending; they are always written together with Status.
type Story struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"    validate:"required"`
	Content     string      `json:"content"  validate:"required"`
	Excerpt     *string     `json:"excerpt,omitempty"`
	Category    string      `json:"category" validate:"required"`
	AuthorID    string      `json:"author_id"`
	Status      StoryStatus `json:"status"`
	ImageURL    *string     `json:"image_url,omitempty"`
	Slug        *string     `json:"slug,omitempty"`
	ReviewedBy  *string     `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time  `json:"reviewed_at,omitempty"`
	ReviewNotes *string     `json:"review_notes,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

const slugMaxLen = 50

var (
	slugStrip    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces   = regexp.MustCompile(`\s+`)
	slugCollapse = regexp.MustCompile(`-+`)
)

// Slugify derives a URL slug from a story title: lowercase, alphanumerics and
// dashes only, runs of whitespace and dashes collapsed, capped at 50 characters.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugCollapse.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > slugMaxLen {
		s = strings.Trim(s[:slugMaxLen], "-")
	}

	return s
}
