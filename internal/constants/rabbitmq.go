package constants

const (
	SelectorExchange = "marketplace_exchange"

	RoutingKeySelectorNotifications = "region_selector.notifications"
)
