package rabbitmq

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// PublisherConfig - обменник, в который публикует сервис.
type PublisherConfig struct {
	ExchangeName string
	ExchangeType string // direct, fanout, topic, headers
	Durable      bool
	// DeclareExchange - объявить обменник при старте, иначе он должен уже существовать
	DeclareExchange bool
	Logger          Logger
}

func (c PublisherConfig) validate() error {
	if c.DeclareExchange && (c.ExchangeName == "" || c.ExchangeType == "") {
		return fmt.Errorf("publisher: exchange name and type are required to declare an exchange")
	}
	return nil
}

// Publisher публикует сообщения в один обменник через свой канал.
type Publisher struct {
	config  PublisherConfig
	manager *ConnectionManager
	logger  Logger

	mu      sync.Mutex
	channel *amqp.Channel
}

func NewPublisher(cfg PublisherConfig, manager *ConnectionManager) (*Publisher, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = NewNoopLogger()
	}

	p := &Publisher{
		config:  cfg,
		manager: manager,
		logger:  logger,
	}
	if _, err := p.openChannel(); err != nil {
		return nil, err
	}
	return p, nil
}

// openChannel вызывается под p.mu или до публикации конструктора.
func (p *Publisher) openChannel() (*amqp.Channel, error) {
	_, ch, err := p.manager.Channel()
	if err != nil {
		return nil, fmt.Errorf("publisher: failed to get channel: %w", err)
	}

	if p.config.DeclareExchange {
		p.logger.Debug("Declaring exchange", "name", p.config.ExchangeName, "type", p.config.ExchangeType)
		err = ch.ExchangeDeclare(
			p.config.ExchangeName,
			p.config.ExchangeType,
			p.config.Durable,
			false, // auto-delete
			false, // internal
			false, // no-wait
			nil,
		)
		if err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("publisher: failed to declare exchange '%s': %w", p.config.ExchangeName, err)
		}
	}
	p.channel = ch
	return ch, nil
}

// Publish отправляет сообщение; закрытый канал переоткрывается один раз.
func (p *Publisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := p.channel
	if ch == nil || ch.IsClosed() {
		var err error
		if ch, err = p.openChannel(); err != nil {
			return err
		}
	}

	if err := ch.PublishWithContext(ctx, p.config.ExchangeName, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("publisher: failed to publish message: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		return nil
	}
	err := p.channel.Close()
	p.channel = nil
	if err != nil {
		p.logger.Error(err, "publisher: failed to close channel")
		return err
	}
	p.logger.Debug("publisher closed")
	return nil
}
