package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the activity stream
const (
	EventPostCreated       = "post_created"
	EventPostDeleted       = "post_deleted"
	EventPostImageReplaced = "post_image_replaced"
	EventUserFollowed      = "user_followed"
	EventUserUnfollowed    = "user_unfollowed"
)

const (
	StreamActivity = "stream:activity"

	ConsumerGroupActivity = "activity_workers"
)

// Event is a domain event published after a write commits.
type Event struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`

	// Post events
	PostID   int64  `json:"post_id,omitempty"`
	AuthorID int64  `json:"author_id,omitempty"`
	ImageKey string `json:"image_key,omitempty"` // object no longer referenced by any post

	// Follow events; AuthorID is the followed user
	FollowerID int64 `json:"follower_id,omitempty"`
}

func NewPostCreatedEvent(postID, authorID int64) Event {
	return Event{
		Type:      EventPostCreated,
		Timestamp: time.Now().Unix(),
		PostID:    postID,
		AuthorID:  authorID,
	}
}

// NewPostDeletedEvent carries the deleted post's image key, if any, so the
// worker can remove the object from storage.
func NewPostDeletedEvent(postID, authorID int64, imageKey string) Event {
	return Event{
		Type:      EventPostDeleted,
		Timestamp: time.Now().Unix(),
		PostID:    postID,
		AuthorID:  authorID,
		ImageKey:  imageKey,
	}
}

// NewPostImageReplacedEvent carries the key of the image an edit replaced.
func NewPostImageReplacedEvent(postID, authorID int64, oldKey string) Event {
	return Event{
		Type:      EventPostImageReplaced,
		Timestamp: time.Now().Unix(),
		PostID:    postID,
		AuthorID:  authorID,
		ImageKey:  oldKey,
	}
}

func NewUserFollowedEvent(followerID, authorID int64) Event {
	return Event{
		Type:       EventUserFollowed,
		Timestamp:  time.Now().Unix(),
		FollowerID: followerID,
		AuthorID:   authorID,
	}
}

func NewUserUnfollowedEvent(followerID, authorID int64) Event {
	return Event{
		Type:       EventUserUnfollowed,
		Timestamp:  time.Now().Unix(),
		FollowerID: followerID,
		AuthorID:   authorID,
	}
}

// ToMap converts the event to XADD field-value pairs. The payload is JSON
// in the "data" field; "type" is duplicated for XRANGE inspection.
func (e Event) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseEvent parses an Event from Redis stream message values.
func ParseEvent(values map[string]interface{}) (Event, error) {
	data, ok := values["data"].(string)
	if !ok {
		return Event{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event Event
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return Event{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
