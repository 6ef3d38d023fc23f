package model

import "time"

// Follow is a directed edge: UserID follows AuthorID.
type Follow struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	AuthorID  int64     `db:"author_id" json:"author_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// FollowResponse is returned by the follow and unfollow endpoints.
type FollowResponse struct {
	Author    UserSummary `json:"author"`
	Following bool        `json:"following"`
}
