package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/appetiteclub/apt"

	"github.com/edotat/edotat/pkg"
	"github.com/edotat/edotat/pkg/event"
)

// WatchEvents tails the ordering event topics and logs each event as it
// arrives. Blocks until the context is cancelled.
func WatchEvents(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	natsURL := config.GetStringOrDef("nats.url", "nats://localhost:4222")

	sub, err := pkg.NewNATSSubscriber(natsURL)
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	defer sub.Close()

	for _, topic := range []string{event.OrderSubordersTopic, event.OrdersTopic} {
		err := sub.Subscribe(ctx, topic, func(ctx context.Context, msg []byte) error {
			logger.Info("event received", "topic", topic, "summary", eventSummary(msg))
			return nil
		})
		if err != nil {
			return fmt.Errorf("subscribe to %s: %w", topic, err)
		}
		logger.Info("Watching topic", "topic", topic)
	}

	<-ctx.Done()
	return nil
}

// eventSummary renders a one-line description of a published event, falling
// back to the raw payload when the type is unrecognized.
func eventSummary(msg []byte) string {
	var head struct {
		EventType string `json:"event_type"`
	}
	if err := json.Unmarshal(msg, &head); err != nil {
		return string(msg)
	}

	switch head.EventType {
	case event.EventSuborderSent:
		var evt event.SuborderSentEvent
		if err := json.Unmarshal(msg, &evt); err != nil {
			return string(msg)
		}
		return fmt.Sprintf("%s order=%s seq=%d entries=%d", evt.EventType, evt.OrderID, evt.Seq, len(evt.Entries))
	case event.EventOrderEnded:
		var evt event.OrderEndedEvent
		if err := json.Unmarshal(msg, &evt); err != nil {
			return string(msg)
		}
		return fmt.Sprintf("%s order=%s suborders=%d total=%d %s", evt.EventType, evt.OrderID, evt.SuborderCount, evt.TotalUnits, evt.Currency)
	default:
		return string(msg)
	}
}
