// Package event publishes catalog change notifications after successful writes.
package event

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/metrics"
	"github.com/fekuna/omnipos-catalog-service/internal/reqctx"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Type string

const (
	CategoryCreated Type = "category.created"
	CategoryUpdated Type = "category.updated"
	CategoryDeleted Type = "category.deleted"
	ProductCreated  Type = "product.created"
	ProductUpdated  Type = "product.updated"
	ProductDeleted  Type = "product.deleted"
)

type Event struct {
	EventID    string      `json:"event_id"`
	EventType  Type        `json:"event_type"`
	EntityID   int64       `json:"entity_id"`
	Payload    interface{} `json:"payload"`
	OccurredAt time.Time   `json:"occurred_at"`
}

func New(t Type, entityID int64, payload interface{}) Event {
	return Event{
		EventID:    uuid.New().String(),
		EventType:  t,
		EntityID:   entityID,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}

// Key groups events of one entity so they keep their order on the topic.
func (e Event) Key() string {
	entity := "product"
	switch e.EventType {
	case CategoryCreated, CategoryUpdated, CategoryDeleted:
		entity = "category"
	}
	return entity + ":" + strconv.FormatInt(e.EntityID, 10)
}

// Publisher never fails the caller; delivery problems are logged.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}

type Producer interface {
	Publish(ctx context.Context, key string, value []byte) error
}

type KafkaPublisher struct {
	producer Producer
	logger   logger.ZapLogger
	timeout  time.Duration
	wg       sync.WaitGroup
}

func NewKafkaPublisher(producer Producer, log logger.ZapLogger) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		logger:   log,
		timeout:  5 * time.Second,
	}
}

// Publish sends in the background so a slow broker never holds up a request.
func (p *KafkaPublisher) Publish(ctx context.Context, e Event) {
	value, err := json.Marshal(e)
	if err != nil {
		p.logger.Error("failed to marshal catalog event", zap.String("event_type", string(e.EventType)), zap.Error(err))
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
		defer cancel()

		err := p.producer.Publish(sendCtx, e.Key(), value)
		metrics.RecordEventPublish(string(e.EventType), err)
		if err != nil {
			p.logger.Error("failed to publish catalog event",
				zap.String("event_id", e.EventID),
				zap.String("event_type", string(e.EventType)),
				zap.String("request_id", reqctx.RequestID(ctx)),
				zap.Error(err),
			)
		}
	}()
}

// Wait blocks until in-flight publishes finish. Call before closing the producer.
func (p *KafkaPublisher) Wait() {
	p.wg.Wait()
}
