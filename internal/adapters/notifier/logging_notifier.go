package notifier

import (
	"context"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"
)

// LoggingNotifier пишет уведомления в лог запроса. Используется, когда
// других каналов доставки нет, и как аудит рядом с ними.
type LoggingNotifier struct{}

func NewLoggingNotifier() *LoggingNotifier {
	return &LoggingNotifier{}
}

func (LoggingNotifier) Notify(ctx context.Context, n domain.SelectorNotification) {
	fields := port.Fields{
		"component":  "LoggingNotifier",
		"session_id": n.SessionID.String(),
		"type":       string(n.Type),
	}
	if n.Region != nil {
		fields["region_id"] = n.Region.ID
	}
	logger := contextkeys.LoggerFromContext(ctx)
	if n.Type == domain.NotificationFetchFailed {
		logger.Warn(n.Message, fields)
		return
	}
	logger.Info(n.Message, fields)
}
