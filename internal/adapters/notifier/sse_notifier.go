package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"
	"sync"

	"github.com/google/uuid"
)

// ClientChannel - поток SSE-сообщений одного подключения (одной вкладки браузера)
type ClientChannel chan []byte

type notificationWithContext struct {
	ctx          context.Context
	notification domain.SelectorNotification
}

// SSENotifier рассылает уведомления селектора подписчикам его сессии.
type SSENotifier struct {
	// ключ - id сессии селектора
	clients map[uuid.UUID][]ClientChannel
	mu      sync.RWMutex

	events chan notificationWithContext
	logger port.LoggerPort
	done   chan struct{}
}

// NewSSENotifier создает нотификатор; диспетчер работает, пока не отменен ctx.
func NewSSENotifier(ctx context.Context, baseLogger port.LoggerPort) *SSENotifier {
	n := &SSENotifier{
		clients: make(map[uuid.UUID][]ClientChannel),
		events:  make(chan notificationWithContext, 100),
		logger:  baseLogger.WithFields(port.Fields{"component": "SSENotifier"}),
		done:    make(chan struct{}),
	}
	go n.dispatcher(ctx)
	return n
}

func (n *SSENotifier) dispatcher(ctx context.Context) {
	defer close(n.done)
	n.logger.Debug("Notifier dispatcher started", nil)

	for {
		select {
		case <-ctx.Done():
			n.logger.Debug("Notifier dispatcher stopped", nil)
			return
		case item := <-n.events:
			n.dispatch(item)
		}
	}
}

func (n *SSENotifier) dispatch(item notificationWithContext) {
	event := item.notification
	eventLogger := contextkeys.LoggerFromContext(item.ctx).WithFields(port.Fields{
		"component":  "SSENotifier.dispatcher",
		"event_type": string(event.Type),
		"session_id": event.SessionID.String(),
	})

	payload, err := json.Marshal(event)
	if err != nil {
		eventLogger.Error("Failed to marshal notification", err, nil)
		return
	}
	message := []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", event.Type, payload))

	n.mu.RLock()
	defer n.mu.RUnlock()

	channels, found := n.clients[event.SessionID]
	if !found {
		eventLogger.Debug("No active clients for session, notification dropped", nil)
		return
	}
	for _, ch := range channels {
		select {
		case ch <- message:
		default:
			eventLogger.Warn("Client channel is full, skipping", nil)
		}
	}
}

// Notify ставит уведомление в очередь и не блокирует селектор.
func (n *SSENotifier) Notify(ctx context.Context, notification domain.SelectorNotification) {
	select {
	case n.events <- notificationWithContext{ctx: ctx, notification: notification}:
	default:
		contextkeys.LoggerFromContext(ctx).Warn("Notifier queue is full, notification dropped", port.Fields{
			"component":  "SSENotifier",
			"session_id": notification.SessionID.String(),
		})
	}
}

// AddClient регистрирует SSE-подключение к сессии.
func (n *SSENotifier) AddClient(sessionID uuid.UUID) ClientChannel {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(ClientChannel, 16)
	n.clients[sessionID] = append(n.clients[sessionID], ch)

	n.logger.Info("Client connected to session", port.Fields{
		"session_id":  sessionID.String(),
		"connections": len(n.clients[sessionID]),
	})
	return ch
}

// RemoveClient снимает подключение, когда клиент закрыл поток.
func (n *SSENotifier) RemoveClient(sessionID uuid.UUID, ch ClientChannel) {
	n.mu.Lock()
	defer n.mu.Unlock()

	channels, found := n.clients[sessionID]
	if !found {
		return
	}
	remaining := channels[:0:0]
	for _, c := range channels {
		if c != ch {
			remaining = append(remaining, c)
		}
	}
	if len(remaining) == 0 {
		delete(n.clients, sessionID)
	} else {
		n.clients[sessionID] = remaining
	}
	n.logger.Info("Client disconnected from session", port.Fields{
		"session_id":  sessionID.String(),
		"connections": len(remaining),
	})
}

// Done закрывается после остановки диспетчера.
func (n *SSENotifier) Done() <-chan struct{} {
	return n.done
}
