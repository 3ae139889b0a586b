package port

import (
	"context"
	"marketplace-service/internal/core/domain"
)

// NotifierPort - контракт для отправки уведомлений селектора.
type NotifierPort interface {
	Notify(ctx context.Context, notification domain.SelectorNotification)
}
