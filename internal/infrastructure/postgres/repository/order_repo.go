package repository

import (
	"errors"
	"time"

	"github.com/mveldsman/storefront-service/internal/domain"
	"github.com/mveldsman/storefront-service/internal/infrastructure/postgres/mappers"
	"github.com/mveldsman/storefront-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{DB: db}
}

func (r *DefaultOrderRepository) CreateOrder(order *domain.Order) error {
	orderModel, err := mappers.ToGORMOrder(order)
	if err != nil {
		return err
	}
	if err := r.DB.Create(orderModel).Error; err != nil {
		return err
	}
	return nil
}

func (r *DefaultOrderRepository) GetOrderByID(orderID string) (*domain.Order, error) {
	var order models.OrderModel
	if err := r.DB.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return mappers.ToDomainOrder(&order)
}

func (r *DefaultOrderRepository) GetOrderByPaymentReference(paymentReference string) (*domain.Order, error) {
	var order models.OrderModel
	if err := r.DB.First(&order, "payment_reference = ?", paymentReference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return mappers.ToDomainOrder(&order)
}

// TransitionStatus performs the compare-and-set as a conditional
// UPDATE; RowsAffected tells us whether this caller won the race.
func (r *DefaultOrderRepository) TransitionStatus(orderID string, from, to domain.OrderStatus) (bool, error) {
	// Terminal states are final; a CAS out of one never succeeds.
	if from.Terminal() {
		return false, nil
	}
	res := r.DB.Model(&models.OrderModel{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	var count int64
	if err := r.DB.Model(&models.OrderModel{}).Where("id = ?", orderID).Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, domain.ErrOrderNotFound
	}
	return false, nil
}
