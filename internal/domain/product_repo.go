package domain

type ProductRepository interface {
	GetProduct(productID string) (*Product, error)
	ListProducts() ([]*Product, error)
	SaveProduct(product *Product) error
	// AdjustStock applies delta atomically and clamps the result at zero.
	// Stock is never reserved at initiation, so a late decrement after a
	// concurrent sell-out floors at 0 rather than going negative.
	AdjustStock(productID string, delta int64) (*Product, error)
}
