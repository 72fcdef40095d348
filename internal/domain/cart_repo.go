package domain

type CartRepository interface {
	GetCart(sessionID string) (*Cart, error)
	SaveCart(cart *Cart) error
	DeleteCart(sessionID string) error
}
