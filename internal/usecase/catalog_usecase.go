package usecase

import (
	"github.com/mveldsman/storefront-service/internal/domain"
)

type CatalogUsecase interface {
	ListProducts() ([]*domain.Product, error)
	GetProduct(productID string) (*domain.Product, error)
}

type DefaultCatalogUsecase struct {
	ProductRepo domain.ProductRepository
}

func NewDefaultCatalogUsecase(productRepo domain.ProductRepository) *DefaultCatalogUsecase {
	return &DefaultCatalogUsecase{ProductRepo: productRepo}
}

func (uc *DefaultCatalogUsecase) ListProducts() ([]*domain.Product, error) {
	return uc.ProductRepo.ListProducts()
}

func (uc *DefaultCatalogUsecase) GetProduct(productID string) (*domain.Product, error) {
	return uc.ProductRepo.GetProduct(productID)
}

// SeedDefaultCatalog loads the shipped catalog when the store is
// empty: the flagship lantern plus its up-sell accessories.
func (uc *DefaultCatalogUsecase) SeedDefaultCatalog() error {
	existing, err := uc.ProductRepo.ListProducts()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, p := range defaultCatalog() {
		if err := uc.ProductRepo.SaveProduct(p); err != nil {
			return err
		}
	}
	return nil
}

func defaultCatalog() []*domain.Product {
	return []*domain.Product{
		{
			ID:          "firefly-lantern",
			Name:        "Firefly Solar Lantern",
			Description: "Collapsible solar lantern, 12h runtime on a full charge.",
			ImageURL:    "/static/img/firefly-lantern.jpg",
			PriceCents:  44900,
			Stock:       120,
			Variants:    []string{"graphite", "sand", "olive"},
		},
		{
			ID:          "firefly-battery",
			Name:        "Firefly Spare Battery",
			Description: "Swappable 18650 cell pack for the Firefly lantern.",
			ImageURL:    "/static/img/firefly-battery.jpg",
			PriceCents:  12950,
			Stock:       300,
		},
		{
			ID:          "firefly-case",
			Name:        "Canvas Carry Case",
			Description: "Waxed canvas case, fits lantern and two batteries.",
			ImageURL:    "/static/img/firefly-case.jpg",
			PriceCents:  8999,
			Stock:       180,
		},
		{
			ID:          "firefly-mount",
			Name:        "Wall Mount Kit",
			Description: "Stainless bracket and fasteners for fixed installs.",
			ImageURL:    "/static/img/firefly-mount.jpg",
			PriceCents:  5999,
			Stock:       220,
		},
	}
}
