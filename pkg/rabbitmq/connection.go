package rabbitmq

import (
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const defaultReconnectInterval = 10 * time.Second

// Dialer открывает соединение. Подменяется в тестах.
type Dialer func(url string) (*amqp.Connection, error)

// ConnectionManager держит одно соединение на сервис и переподключается в фоне.
type ConnectionManager struct {
	url               string
	dial              Dialer
	reconnectInterval time.Duration
	logger            Logger

	mu         sync.RWMutex
	connection *amqp.Connection

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewConnectionManager подключается сразу; при неудаче возвращает ошибку.
func NewConnectionManager(url string, logger Logger) (*ConnectionManager, error) {
	return newConnectionManager(url, logger, amqp.Dial, defaultReconnectInterval)
}

func newConnectionManager(url string, logger Logger, dial Dialer, interval time.Duration) (*ConnectionManager, error) {
	if url == "" {
		return nil, fmt.Errorf("ConnectionManager: url is required")
	}
	if logger == nil {
		logger = NewNoopLogger()
	}
	m := &ConnectionManager{
		url:               url,
		dial:              dial,
		reconnectInterval: interval,
		logger:            logger,
		stop:              make(chan struct{}),
	}

	if _, err := m.getConnection(); err != nil {
		logger.Error(err, "ConnectionManager: initial connection failed")
		return nil, fmt.Errorf("initial connection failed: %w", err)
	}

	m.wg.Add(1)
	go m.watch()
	return m, nil
}

func (m *ConnectionManager) getConnection() (*amqp.Connection, error) {
	m.mu.RLock()
	if m.connection != nil && !m.connection.IsClosed() {
		conn := m.connection
		m.mu.RUnlock()
		return conn, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// другой поток мог успеть переподключиться
	if m.connection != nil && !m.connection.IsClosed() {
		return m.connection, nil
	}

	m.logger.Debug("ConnectionManager: connecting")
	conn, err := m.dial(m.url)
	if err != nil {
		return nil, fmt.Errorf("ConnectionManager: failed to dial RabbitMQ: %w", err)
	}
	m.connection = conn
	m.logger.Info("ConnectionManager: connected")
	return conn, nil
}

// Channel открывает новый канал поверх общего соединения.
func (m *ConnectionManager) Channel() (*amqp.Connection, *amqp.Channel, error) {
	conn, err := m.getConnection()
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return conn, nil, fmt.Errorf("ConnectionManager: failed to open a channel: %w", err)
	}
	return conn, ch, nil
}

func (m *ConnectionManager) watch() {
	defer m.wg.Done()
	ticker := time.NewTicker(m.reconnectInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
		}

		m.mu.RLock()
		healthy := m.connection != nil && !m.connection.IsClosed()
		m.mu.RUnlock()
		if healthy {
			continue
		}

		m.logger.Warn("ConnectionManager: connection is closed, reconnecting")
		if _, err := m.getConnection(); err != nil {
			m.logger.Error(err, "ConnectionManager: reconnect failed")
		}
	}
}

// Close останавливает фоновое переподключение и закрывает соединение.
func (m *ConnectionManager) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })
	m.wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connection == nil || m.connection.IsClosed() {
		m.logger.Debug("ConnectionManager: connection already closed")
		return nil
	}
	if err := m.connection.Close(); err != nil {
		m.logger.Error(err, "ConnectionManager: failed to close connection")
		return err
	}
	m.logger.Info("ConnectionManager: connection closed")
	return nil
}
