package notifier

import (
	"context"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"
)

// FanoutNotifier передает уведомление всем вложенным нотификаторам по порядку.
type FanoutNotifier struct {
	notifiers []port.NotifierPort
}

func NewFanoutNotifier(notifiers ...port.NotifierPort) *FanoutNotifier {
	active := make([]port.NotifierPort, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			active = append(active, n)
		}
	}
	return &FanoutNotifier{notifiers: active}
}

func (f *FanoutNotifier) Notify(ctx context.Context, notification domain.SelectorNotification) {
	for _, n := range f.notifiers {
		n.Notify(ctx, notification)
	}
}
