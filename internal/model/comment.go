package model

// Comment is a reply to a post.
type Comment struct {
	ID     int64  `db:"id" json:"id"`
	PostID int64  `db:"post_id" json:"post_id"`
	Text   string `db:"text" json:"text"`
	Authored

	// Joined fields (not in comments table)
	Author *UserSummary `db:"-" json:"author,omitempty"`
}
