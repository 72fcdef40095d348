package domain

// Processor payment_status values. Anything else is treated as an
// intermediate state and leaves the order PENDING.
const (
	NotificationComplete  = "COMPLETE"
	NotificationFailed    = "FAILED"
	NotificationCancelled = "CANCELLED"
)

// PaymentNotification is the typed view of a webhook payload. It is
// only constructed after the raw field set passed signature and
// gateway verification; the raw map stays untrusted.
type PaymentNotification struct {
	PaymentReference string
	GatewayPaymentID string
	PaymentStatus    string
	GrossAmountCents int64
	BuyerEmail       string
}
