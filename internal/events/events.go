// Package events publishes edit request lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"crewhub/internal/models"
	"crewhub/internal/moderation"
)

// Event types.
const (
	TypeSubmitted = "edit_request.submitted"
	TypeDecided   = "edit_request.decided"
	TypeCancelled = "edit_request.cancelled"
)

const publishTimeout = 5 * time.Second

// Event is the message value written for every lifecycle change.
type Event struct {
	Type      string    `json:"type"`
	RequestID uuid.UUID `json:"request_id"`
	CrewID    uuid.UUID `json:"crew_id"`
	Status    string    `json:"status"`
	Fields    []string  `json:"fields"`
	Failed    []string  `json:"failed_fields,omitempty"`
	At        time.Time `json:"at"`
}

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher implements moderation.Notifier on top of a Kafka topic.
// Messages are keyed by crew so one crew's events stay ordered.
type Publisher struct {
	writer MessageWriter
	now    func() time.Time
}

var _ moderation.Notifier = (*Publisher)(nil)

// NewPublisher creates a publisher writing to topic on brokers.
func NewPublisher(brokers []string, topic string) *Publisher {
	return NewPublisherWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	})
}

// NewPublisherWithWriter wraps an existing writer.
func NewPublisherWithWriter(w MessageWriter) *Publisher {
	return &Publisher{writer: w, now: time.Now}
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func (p *Publisher) EditRequestSubmitted(ctx context.Context, req *models.EditRequest) {
	p.publish(ctx, TypeSubmitted, req, nil)
}

func (p *Publisher) EditRequestDecided(ctx context.Context, req *models.EditRequest, report *moderation.Report) {
	p.publish(ctx, TypeDecided, req, report.FailedFields())
}

func (p *Publisher) EditRequestCancelled(ctx context.Context, req *models.EditRequest) {
	p.publish(ctx, TypeCancelled, req, nil)
}

// publish never fails the caller; the moderation outcome is already stored.
func (p *Publisher) publish(ctx context.Context, typ string, req *models.EditRequest, failed []string) {
	fields := req.Fields()
	if fields == nil {
		fields = []string{}
	}
	value, err := json.Marshal(Event{
		Type:      typ,
		RequestID: req.ID,
		CrewID:    req.CrewID,
		Status:    req.Status,
		Fields:    fields,
		Failed:    failed,
		At:        p.now().UTC(),
	})
	if err != nil {
		slog.Error("failed to encode edit request event", "request_id", req.ID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(req.CrewID.String()),
		Value: value,
	}); err != nil {
		slog.Error("failed to publish edit request event",
			"type", typ, "request_id", req.ID, "crew_id", req.CrewID, "error", err)
	}
}
