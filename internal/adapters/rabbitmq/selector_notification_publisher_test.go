package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	routingKeys []string
	messages    []amqp.Publishing
	err         error
}

func (p *recordingPublisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	p.routingKeys = append(p.routingKeys, routingKey)
	p.messages = append(p.messages, msg)
	return p.err
}

func TestNewSelectorNotificationPublisher_Validation(t *testing.T) {
	_, err := NewSelectorNotificationPublisher(nil, "key")
	assert.Error(t, err)
	_, err = NewSelectorNotificationPublisher(&recordingPublisher{}, "")
	assert.Error(t, err)
}

func TestSelectorNotificationPublisher_Notify(t *testing.T) {
	producer := &recordingPublisher{}
	publisher, err := NewSelectorNotificationPublisher(producer, "region_selector.notifications")
	require.NoError(t, err)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	publisher.now = func() time.Time { return fixed }

	sessionID := uuid.New()
	region := domain.Region{ID: "32", Name: "JAWA BARAT", Level: domain.LevelProvince}
	ctx := contextkeys.ContextWithTraceID(context.Background(), "trace-1")

	publisher.Notify(ctx, domain.SelectorNotification{
		SessionID: sessionID,
		Type:      domain.NotificationRegionAdded,
		Region:    &region,
		Message:   "Wilayah ditambahkan: JAWA BARAT",
	})

	require.Len(t, producer.messages, 1)
	assert.Equal(t, "region_selector.notifications", producer.routingKeys[0])
	msg := producer.messages[0]
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, "region_added", msg.Type)
	assert.Equal(t, "trace-1", msg.Headers["x-trace-id"])

	var dto SelectorNotificationDTO
	require.NoError(t, json.Unmarshal(msg.Body, &dto))
	assert.Equal(t, sessionID.String(), dto.SessionID)
	assert.Equal(t, "region_added", dto.Type)
	require.NotNil(t, dto.Region)
	assert.Equal(t, region, *dto.Region)
	assert.True(t, fixed.Equal(dto.OccurredAt))
}

func TestSelectorNotificationPublisher_PublishErrorIsSwallowed(t *testing.T) {
	producer := &recordingPublisher{err: errors.New("channel closed")}
	publisher, err := NewSelectorNotificationPublisher(producer, "k")
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		publisher.Notify(context.Background(), domain.SelectorNotification{
			SessionID: uuid.New(),
			Type:      domain.NotificationFetchFailed,
			Message:   "Gagal memuat data wilayah, coba buka kembali daftar",
		})
	})
	assert.Len(t, producer.messages, 1)
}

func TestPkgLoggerBridge_ToFields(t *testing.T) {
	b := &PkgLoggerBridge{}
	fields := b.toFields("name", "x", 42, "skipped", "dangling")
	assert.Equal(t, "x", fields["name"])
	assert.Len(t, fields, 1)
}
