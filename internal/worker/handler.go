package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"yatube/internal/queue"
)

// ObjectDeleter removes stored objects by key.
type ObjectDeleter interface {
	DeleteObject(ctx context.Context, key string) error
}

// Handler processes activity events. Image cleanup is the only side effect;
// the remaining events are logged as an activity trail.
type Handler struct {
	objects ObjectDeleter // nil when object storage is not configured
}

func NewHandler(objects ObjectDeleter) *Handler {
	return &Handler{objects: objects}
}

func (h *Handler) HandleEvent(ctx context.Context, event queue.Event) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventPostDeleted, queue.EventPostImageReplaced:
		err = h.removeImage(ctx, event)
	case queue.EventPostCreated:
		log.Printf("[Worker] Post %d created by user %d", event.PostID, event.AuthorID)
	case queue.EventUserFollowed:
		log.Printf("[Worker] User %d followed %d", event.FollowerID, event.AuthorID)
	case queue.EventUserUnfollowed:
		log.Printf("[Worker] User %d unfollowed %d", event.FollowerID, event.AuthorID)
	default:
		log.Printf("[Worker] Unknown event type: %s", event.Type)
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.Printf("[Worker] HandleEvent FAILED: type=%s duration=%v err=%v", event.Type, time.Since(startTime), err)
		return err
	}
	return nil
}

func (h *Handler) removeImage(ctx context.Context, event queue.Event) error {
	if event.ImageKey == "" {
		return nil
	}
	if h.objects == nil {
		log.Printf("[Worker] No object storage configured, leaving %s for post %d", event.ImageKey, event.PostID)
		return nil
	}
	if err := h.objects.DeleteObject(ctx, event.ImageKey); err != nil {
		return fmt.Errorf("delete image %s: %w", event.ImageKey, err)
	}
	log.Printf("[Worker] Removed image %s of post %d", event.ImageKey, event.PostID)
	return nil
}
