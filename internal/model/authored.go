package model

import "time"

// Authored holds the fields shared by everything a user writes.
// Embedded into Post and Comment; sqlx and encoding/json flatten it.
type Authored struct {
	AuthorID  int64     `db:"author_id" json:"author_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
