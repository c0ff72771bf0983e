package event

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeProducer struct {
	mu       sync.Mutex
	keys     []string
	messages [][]byte
	err      error
}

func (f *fakeProducer) Publish(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	f.messages = append(f.messages, value)
	return f.err
}

func TestKey(t *testing.T) {
	assert.Equal(t, "category:3", New(CategoryDeleted, 3, nil).Key())
	assert.Equal(t, "product:9", New(ProductUpdated, 9, nil).Key())
}

func TestKafkaPublisherSendsJSON(t *testing.T) {
	producer := &fakeProducer{}
	pub := NewKafkaPublisher(producer, logger.NewNop())

	pub.Publish(context.Background(), New(ProductCreated, 12, map[string]string{"title": "Pen"}))
	pub.Wait()

	require.Len(t, producer.messages, 1)
	assert.Equal(t, "product:12", producer.keys[0])

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(producer.messages[0], &decoded))
	assert.Equal(t, "product.created", decoded["event_type"])
	assert.Equal(t, float64(12), decoded["entity_id"])
	assert.NotEmpty(t, decoded["event_id"])
}

func TestKafkaPublisherLogsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	producer := &fakeProducer{err: errors.New("broker unavailable")}
	pub := NewKafkaPublisher(producer, logger.NewFromZap(zap.New(core)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pub.Publish(ctx, New(CategoryCreated, 1, nil))
	pub.Wait()

	assert.Equal(t, 1, logs.FilterMessage("failed to publish catalog event").Len())
}
