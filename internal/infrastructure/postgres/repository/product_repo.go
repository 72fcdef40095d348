package repository

import (
	"errors"

	"github.com/mveldsman/storefront-service/internal/domain"
	"github.com/mveldsman/storefront-service/internal/infrastructure/postgres/mappers"
	"github.com/mveldsman/storefront-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultProductRepository struct {
	DB *gorm.DB
}

func NewDefaultProductRepository(db *gorm.DB) *DefaultProductRepository {
	return &DefaultProductRepository{DB: db}
}

func (r *DefaultProductRepository) GetProduct(productID string) (*domain.Product, error) {
	var product models.ProductModel
	if err := r.DB.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return mappers.ToDomainProduct(&product)
}

func (r *DefaultProductRepository) ListProducts() ([]*domain.Product, error) {
	var productModels []models.ProductModel
	if err := r.DB.Order("created_at ASC").Find(&productModels).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(productModels))
	for i := range productModels {
		product, err := mappers.ToDomainProduct(&productModels[i])
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

func (r *DefaultProductRepository) SaveProduct(product *domain.Product) error {
	productModel, err := mappers.ToGORMProduct(product)
	if err != nil {
		return err
	}
	return r.DB.Save(productModel).Error
}

// AdjustStock applies the delta in a single UPDATE and clamps at zero
// on the database side, then re-reads the row.
func (r *DefaultProductRepository) AdjustStock(productID string, delta int64) (*domain.Product, error) {
	res := r.DB.Model(&models.ProductModel{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("GREATEST(stock + ?, 0)", delta))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrProductNotFound
	}
	return r.GetProduct(productID)
}
