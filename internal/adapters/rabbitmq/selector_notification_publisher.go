package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// messagePublisher - то, что адаптеру нужно от pkg/rabbitmq.Publisher
type messagePublisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// SelectorNotificationDTO - тело сообщения для подписчиков (аналитика, рекомендации)
type SelectorNotificationDTO struct {
	SessionID  string         `json:"session_id"`
	Type       string         `json:"type"`
	Region     *domain.Region `json:"region,omitempty"`
	Message    string         `json:"message"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// SelectorNotificationPublisher реализует port.NotifierPort публикацией в RabbitMQ.
type SelectorNotificationPublisher struct {
	producer   messagePublisher
	routingKey string
	now        func() time.Time
}

func NewSelectorNotificationPublisher(producer messagePublisher, routingKey string) (*SelectorNotificationPublisher, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	return &SelectorNotificationPublisher{
		producer:   producer,
		routingKey: routingKey,
		now:        time.Now,
	}, nil
}

// Notify публикует уведомление. Ошибка публикации только логируется:
// работа селектора от брокера не зависит.
func (a *SelectorNotificationPublisher) Notify(ctx context.Context, n domain.SelectorNotification) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "SelectorNotificationPublisher",
		"routing_key": a.routingKey,
		"session_id":  n.SessionID.String(),
		"type":        string(n.Type),
	})

	dto := SelectorNotificationDTO{
		SessionID:  n.SessionID.String(),
		Type:       string(n.Type),
		Region:     n.Region,
		Message:    n.Message,
		OccurredAt: a.now().UTC(),
	}
	body, err := json.Marshal(dto)
	if err != nil {
		logger.Error("Failed to marshal selector notification", err, nil)
		return
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Transient,
		Timestamp:    dto.OccurredAt,
		Type:         string(n.Type),
		Headers:      make(amqp.Table),
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	// запрос мог уже завершиться, публикуем с собственным таймаутом
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		logger.Error("Failed to publish selector notification", err, nil)
		return
	}
	logger.Debug("Selector notification published", nil)
}
