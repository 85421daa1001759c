package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/purfacted/purfacted/internal/domain"
)

const eventChannel = "purfacted:events"

// SignalService fans consensus and dispute events out over redis pub/sub.
// Publishing is fire-and-forget: it happens after the producing transaction
// commits and is never awaited by it.
type SignalService struct {
	rdb *redis.Client
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb: redisClient,
	}
}

func (s *SignalService) Publish(ctx context.Context, event domain.Event) error {
	jsonstr, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.rdb.Publish(ctx, eventChannel, jsonstr).Err()
}

// Realtime subscribes to the event channel and forwards events whose kind is
// in the filter set to output. An empty filter forwards everything. The
// filter channel replaces the set; the loop ends with the context.
func (s *SignalService) Realtime(ctx context.Context, filters <-chan []string, output chan<- domain.Event) {
	pubsub := s.rdb.Subscribe(ctx, eventChannel)
	defer pubsub.Close()

	allowed := map[string]bool{}

	for {
		select {
		case <-ctx.Done():
			return
		case kinds := <-filters:
			allowed = map[string]bool{}
			for _, kind := range kinds {
				allowed[kind] = true
			}
		case msg, ok := <-pubsub.Channel():
			if !ok {
				return
			}
			var event domain.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				slog.ErrorContext(ctx, "failed to decode event",
					slog.String("error", err.Error()),
					slog.String("module", "signal"),
				)
				continue
			}
			if len(allowed) > 0 && !allowed[event.Kind] {
				continue
			}
			select {
			case output <- event:
			case <-ctx.Done():
				return
			}
		}
	}
}
