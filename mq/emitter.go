package mq

import (
	"context"
	"encoding/json"
	"log"

	"kerbside/models"
	"kerbside/rdx"
)

// Channel carrying occupancy changes from the toggle workflow to the
// live feed worker.
const SlotEventsChannel = "slot-events"

// Emit publishes a slot occupancy change to Redis. Failures are logged
// and dropped; the feed is best-effort.
func Emit(ctx context.Context, event models.SlotEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Emit] Failed to marshal slot event: %v", err)
		return
	}

	if err := rdx.Conn.Publish(ctx, SlotEventsChannel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish slot event: %v", err)
	}
}

// StartFeedWorker forwards published slot events to sink until ctx is
// cancelled. Malformed payloads are skipped.
func StartFeedWorker(ctx context.Context, sink func(models.SlotEvent)) {
	sub := rdx.Conn.Subscribe(ctx, SlotEventsChannel)
	defer sub.Close()
	ch := sub.Channel()

	log.Println("[FeedWorker] Listening for slot events...")

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event models.SlotEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("[FeedWorker] Failed to parse slot event: %v", err)
				continue
			}
			sink(event)
		}
	}
}
