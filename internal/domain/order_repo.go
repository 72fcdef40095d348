package domain

type OrderRepository interface {
	CreateOrder(order *Order) error
	GetOrderByID(orderID string) (*Order, error)
	GetOrderByPaymentReference(paymentReference string) (*Order, error)
	// TransitionStatus is a compare-and-set: the order moves from `from`
	// to `to` only if it is still in `from`. Returns true when this
	// caller performed the transition, false when someone else already
	// moved the order. ErrOrderNotFound when the id is unknown.
	TransitionStatus(orderID string, from, to OrderStatus) (bool, error)
}
