package mappers

import (
	"encoding/json"

	"github.com/mveldsman/storefront-service/internal/domain"
	"github.com/mveldsman/storefront-service/internal/infrastructure/postgres/models"
)

func ToDomainProduct(model *models.ProductModel) (*domain.Product, error) {
	var variants []string
	if model.VariantsJSON != "" {
		if err := json.Unmarshal([]byte(model.VariantsJSON), &variants); err != nil {
			return nil, err
		}
	}
	return &domain.Product{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		ImageURL:    model.ImageURL,
		PriceCents:  model.PriceCents,
		Stock:       model.Stock,
		Variants:    variants,
	}, nil
}

func ToGORMProduct(product *domain.Product) (*models.ProductModel, error) {
	variants, err := json.Marshal(product.Variants)
	if err != nil {
		return nil, err
	}
	return &models.ProductModel{
		ID:           product.ID,
		Name:         product.Name,
		Description:  product.Description,
		ImageURL:     product.ImageURL,
		PriceCents:   product.PriceCents,
		Stock:        product.Stock,
		VariantsJSON: string(variants),
	}, nil
}
