package notifier

import (
	"log/slog"

	"github.com/mveldsman/storefront-service/internal/domain"
)

// LogBuyerNotifier is the stubbed email channel: it records what would
// have been sent and always succeeds. Swap in an SMTP/ESP-backed
// implementation behind the same interface when outbound mail exists.
type LogBuyerNotifier struct{}

func NewLogBuyerNotifier() *LogBuyerNotifier {
	return &LogBuyerNotifier{}
}

func (n *LogBuyerNotifier) NotifySettled(order *domain.Order) error {
	slog.Info("buyer notification (stub)",
		"order_id", order.ID,
		"email", order.Email,
		"status", string(order.Status),
		"amount", domain.FormatCents(order.AmountCents),
	)
	return nil
}
