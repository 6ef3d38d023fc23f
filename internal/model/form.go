package model

// PostForm is the create/edit form document: submitted values, the group
// choices and, after a rejected submission, per-field errors.
type PostForm struct {
	PostID   *int64              `json:"post_id,omitempty"`
	IsEdit   bool                `json:"is_edit"`
	Text     string              `json:"text"`
	Group    *int64              `json:"group"`
	ImageURL *string             `json:"image_url,omitempty"`
	Choices  []GroupChoice       `json:"group_choices"`
	Errors   map[string][]string `json:"errors,omitempty"`
}

// CommentForm is the comment form shown on the post page.
type CommentForm struct {
	Text   string              `json:"text"`
	Errors map[string][]string `json:"errors,omitempty"`
}
