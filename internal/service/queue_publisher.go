// Package service publishes domain events to RabbitMQ. Errors are logged
// and returned so callers can ignore failures without interrupting the
// main request flow.
package service

import (
	"cmp"
	"context"
	"encoding/json"
	"log"
	"slices"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/exam-seat-allocation/internal/allocation"
	q "github.com/iliyamo/exam-seat-allocation/internal/queue"
)

// Publisher sends AllocationCompletedEvent messages to one broker.
type Publisher struct {
	url string
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

// AllocationCompleted turns a run result into its event payload. Rooms
// are listed in room_no order.
func AllocationCompleted(res *allocation.Result, completedAt time.Time) q.AllocationCompletedEvent {
	ev := q.AllocationCompletedEvent{
		RunID:       res.RunID,
		Strategy:    string(res.Strategy),
		Seated:      res.Seats(),
		DurationMS:  res.Duration.Milliseconds(),
		StartedAt:   res.StartedAt.UTC().Format(time.RFC3339),
		CompletedAt: completedAt.UTC().Format(time.RFC3339),
	}
	for roomNo, as := range res.ByRoom() {
		ev.Rooms = append(ev.Rooms, q.RoomSummary{RoomNo: roomNo, Seated: len(as)})
	}
	slices.SortFunc(ev.Rooms, func(a, b q.RoomSummary) int { return cmp.Compare(a.RoomNo, b.RoomNo) })
	return ev
}

// PublishAllocationCompleted publishes event to the allocation.completed
// queue. Messages are marked as persistent.
func (p *Publisher) PublishAllocationCompleted(ctx context.Context, event q.AllocationCompletedEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		q.AllocationCompletedQueue, // name
		true,                       // durable
		false,                      // autoDelete
		false,                      // exclusive
		false,                      // noWait
		nil,                        // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.RunID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",                         // default exchange
		q.AllocationCompletedQueue, // routing key = queue name
		false,                      // mandatory
		false,                      // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
