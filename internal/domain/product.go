package domain

type Product struct {
	ID          string
	Name        string
	Description string
	ImageURL    string
	PriceCents  int64
	Stock       int64
	Variants    []string
}
