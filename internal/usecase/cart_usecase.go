package usecase

import (
	"fmt"

	"github.com/mveldsman/storefront-service/internal/domain"
)

type CartUsecase interface {
	GetCart(sessionID string) (*domain.Cart, error)
	AddItem(sessionID, productID string, quantity int64, variant string) (*domain.Cart, error)
	UpdateItem(sessionID, productID string, quantity int64, variant string) (*domain.Cart, error)
	Clear(sessionID string) error
}

type DefaultCartUsecase struct {
	CartRepo    domain.CartRepository
	ProductRepo domain.ProductRepository
}

func NewDefaultCartUsecase(cartRepo domain.CartRepository, productRepo domain.ProductRepository) *DefaultCartUsecase {
	return &DefaultCartUsecase{
		CartRepo:    cartRepo,
		ProductRepo: productRepo,
	}
}

func (uc *DefaultCartUsecase) GetCart(sessionID string) (*domain.Cart, error) {
	return uc.CartRepo.GetCart(sessionID)
}

func (uc *DefaultCartUsecase) AddItem(sessionID, productID string, quantity int64, variant string) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrValidation)
	}
	if _, err := uc.ProductRepo.GetProduct(productID); err != nil {
		return nil, err
	}

	cart, err := uc.CartRepo.GetCart(sessionID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID && cart.Items[i].Variant == variant {
			cart.Items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: productID,
			Quantity:  quantity,
			Variant:   variant,
		})
	}

	if err := uc.CartRepo.SaveCart(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateItem sets the quantity of a line; zero removes it.
func (uc *DefaultCartUsecase) UpdateItem(sessionID, productID string, quantity int64, variant string) (*domain.Cart, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", domain.ErrValidation)
	}

	cart, err := uc.CartRepo.GetCart(sessionID)
	if err != nil {
		return nil, err
	}

	items := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID == productID && item.Variant == variant {
			if quantity == 0 {
				continue
			}
			item.Quantity = quantity
		}
		items = append(items, item)
	}
	cart.Items = items

	if err := uc.CartRepo.SaveCart(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (uc *DefaultCartUsecase) Clear(sessionID string) error {
	return uc.CartRepo.DeleteCart(sessionID)
}
