package domain

import "github.com/google/uuid"

type NotificationType string

const (
	NotificationRegionAdded NotificationType = "region_added"
	NotificationFetchFailed NotificationType = "fetch_failed"
)

// SelectorNotification - кратковременное уведомление пользователю селектора.
type SelectorNotification struct {
	SessionID uuid.UUID        `json:"session_id"`
	Type      NotificationType `json:"type"`
	Region    *Region          `json:"region,omitempty"`
	Message   string           `json:"message"`
}
