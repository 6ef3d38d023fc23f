package model

import (
	"errors"
	"regexp"
)

// Group is an administrator-managed community that posts can be tagged with.
type Group struct {
	ID          int64  `db:"id" json:"id"`
	Title       string `db:"title" json:"title"`
	Slug        string `db:"slug" json:"slug"`
	Description string `db:"description" json:"description"`
}

// GroupRef is the short form of a group attached to a post.
type GroupRef struct {
	ID    int64  `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// GroupChoice is one option of the group select on the post form.
type GroupChoice struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

const (
	MaxGroupTitleLength = 200
	MaxGroupSlugLength  = 50
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// ValidSlug reports whether s consists of letters, digits, underscores or hyphens.
func ValidSlug(s string) bool {
	return len(s) <= MaxGroupSlugLength && slugPattern.MatchString(s)
}

var (
	ErrGroupNotFound = errors.New("group not found")
	ErrSlugExists    = errors.New("group slug already exists")
	ErrInvalidSlug   = errors.New("slug must contain only letters, numbers, underscores or hyphens")
	ErrTitleRequired = errors.New("group title is required")
	ErrTitleTooLong  = errors.New("group title too long")
)
