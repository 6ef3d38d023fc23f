package model

import "errors"

// Post is a text entry written by a user, optionally tagged with a group
// and carrying an image.
type Post struct {
	ID   int64  `db:"id" json:"id"`
	Text string `db:"text" json:"text"`
	Authored
	GroupID  *int64  `db:"group_id" json:"group_id"`
	ImageURL *string `db:"image_url" json:"image_url"`
	ImageKey *string `db:"image_key" json:"-"`

	// Joined fields (not in posts table)
	Author *UserSummary `db:"-" json:"author,omitempty"`
	Group  *GroupRef    `db:"-" json:"group,omitempty"`
}

// PostRequest carries the submitted fields of the create and edit forms.
type PostRequest struct {
	Text    string
	GroupID *int64
	Image   *ImageUpload
}

// PostDetail is the single post page: the post, how many posts its author
// has written, and a page of its comments.
type PostDetail struct {
	Post            Post          `json:"post"`
	AuthorPostCount int           `json:"author_post_count"`
	Comments        Page[Comment] `json:"comments"`
	CommentForm     *CommentForm  `json:"comment_form,omitempty"`
}

// GroupFeed is the group page.
type GroupFeed struct {
	Group Group      `json:"group"`
	Page  Page[Post] `json:"page"`
}

// ProfileFeed is an author's profile page.
type ProfileFeed struct {
	Author    UserSummary `json:"author"`
	PostCount int         `json:"post_count"`
	Following bool        `json:"following"`
	Page      Page[Post]  `json:"page"`
}

var (
	ErrPostNotFound = errors.New("post not found")
	ErrNotPostOwner = errors.New("not the owner of this post")
)
