package service

import (
	"context"
	"log"

	"yatube/internal/queue"
)

// publish sends event to the activity stream after a commit. Failures are
// logged and reported; the write that produced the event stands.
func publish(ctx context.Context, publisher queue.Publisher, component string, event queue.Event) bool {
	if publisher == nil {
		return false
	}
	msgID, err := publisher.Publish(ctx, queue.StreamActivity, event)
	if err != nil {
		log.Printf("[%s] Failed to publish %s event: %v", component, event.Type, err)
		return false
	}
	log.Printf("[%s] Published %s: msgID=%s", component, event.Type, msgID)
	return true
}
