package domain

import "context"

// GatewayValidator corroborates a webhook out of band by re-posting it
// to the payment processor. Implementations fail closed: transport
// errors and timeouts report false, never true.
type GatewayValidator interface {
	Confirm(ctx context.Context, fields map[string]string) (bool, error)
}

// BuyerNotifier delivers the post-settlement email. Best effort; the
// settlement outcome never depends on it.
type BuyerNotifier interface {
	NotifySettled(order *Order) error
}
