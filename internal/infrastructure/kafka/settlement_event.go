package kafka

type SettlementEvent struct {
	OrderID          string `json:"order_id"`
	PaymentReference string `json:"payment_reference"`
	Status           string `json:"status"`
	AmountCents      int64  `json:"amount_cents"`
	Email            string `json:"email"`
}
