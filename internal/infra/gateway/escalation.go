package gateway

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const escalationQueueKey = "purfacted:moderation:queue"

// EscalationGateway pushes moderation tickets onto the queue consumed by the
// external moderation subsystem. Ticket assignment and lifecycle live on the
// other side of the queue.
type EscalationGateway struct {
	rdb *redis.Client
}

func NewEscalationGateway(rdb *redis.Client) *EscalationGateway {
	return &EscalationGateway{rdb: rdb}
}

type escalationTicket struct {
	Kind       string    `json:"kind"`
	TargetID   string    `json:"targetId"`
	Priority   int       `json:"priority"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
}

func (g *EscalationGateway) Enqueue(ctx context.Context, kind string, targetID string, priority int) error {
	payload, err := json.Marshal(escalationTicket{
		Kind:       kind,
		TargetID:   targetID,
		Priority:   priority,
		EnqueuedAt: time.Now(),
	})
	if err != nil {
		return errors.Wrap(err, "marshal escalation ticket")
	}

	if err := g.rdb.LPush(ctx, escalationQueueKey, payload).Err(); err != nil {
		return errors.Wrap(err, "enqueue escalation ticket")
	}
	return nil
}
