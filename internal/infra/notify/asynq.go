package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"fitbook/internal/pkg/config"
	"fitbook/internal/pkg/errs"
	"fitbook/internal/usecase/shared"

	"github.com/hibiken/asynq"
)

// TypeBookingEvent fans a committed booking_events row out to live-feed
// consumers. The queue is a delivery vehicle only; the database row is the
// source of truth and LiveFeed reads it back regardless.
const TypeBookingEvent = "booking:event"

func redisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// Enqueuer publishes audit events onto the asynq queue after commit.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(cfg config.RedisConfig) *Enqueuer {
	return &Enqueuer{client: asynq.NewClient(redisOpt(cfg))}
}

func (e *Enqueuer) Publish(ctx context.Context, ev shared.AuditEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return errs.Wrap(err, "failed to marshal booking event")
	}

	task := asynq.NewTask(TypeBookingEvent, payload)
	if _, err := e.client.EnqueueContext(ctx, task, asynq.MaxRetry(3), asynq.Queue("feed")); err != nil {
		return errs.Wrap(err, "failed to enqueue booking event")
	}
	return nil
}

func (e *Enqueuer) Close() error {
	return e.client.Close()
}

// FeedDelivery is the consumer side extension point; the default delivery
// just logs, real-time transports (websocket hub, push) hang off it.
type FeedDelivery interface {
	Deliver(ctx context.Context, ev shared.AuditEvent) error
}

type LogDelivery struct{}

func (LogDelivery) Deliver(_ context.Context, ev shared.AuditEvent) error {
	slog.Info("booking event",
		"event_type", ev.EventType,
		"booking_id", ev.BookingID,
		"member_id", ev.MemberID,
		"branch_id", ev.BranchID,
	)
	return nil
}

// NewWorker builds the asynq server consuming the feed queue.
func NewWorker(cfg config.RedisConfig, delivery FeedDelivery) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(redisOpt(cfg), asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"feed": 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingEvent, handleBookingEvent(delivery))
	return srv, mux
}

func handleBookingEvent(delivery FeedDelivery) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var ev shared.AuditEvent
		if err := json.Unmarshal(task.Payload(), &ev); err != nil {
			slog.Error("invalid booking event payload", "error", err.Error())
			// Malformed payloads never succeed; drop instead of retrying.
			return nil
		}
		return delivery.Deliver(ctx, ev)
	}
}
