package mappers

import (
	"encoding/json"

	"github.com/mveldsman/storefront-service/internal/domain"
	"github.com/mveldsman/storefront-service/internal/infrastructure/postgres/models"
)

func ToDomainOrder(model *models.OrderModel) (*domain.Order, error) {
	var snapshot domain.CartSnapshot
	if model.SnapshotJSON != "" {
		if err := json.Unmarshal([]byte(model.SnapshotJSON), &snapshot); err != nil {
			return nil, err
		}
	}
	return &domain.Order{
		ID:               model.ID,
		PaymentReference: model.PaymentReference,
		Email:            model.Email,
		SessionID:        model.SessionID,
		AmountCents:      model.AmountCents,
		Status:           model.Status,
		Snapshot:         snapshot,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}, nil
}

func ToGORMOrder(order *domain.Order) (*models.OrderModel, error) {
	snapshot, err := json.Marshal(order.Snapshot)
	if err != nil {
		return nil, err
	}
	return &models.OrderModel{
		ID:               order.ID,
		PaymentReference: order.PaymentReference,
		Email:            order.Email,
		SessionID:        order.SessionID,
		AmountCents:      order.AmountCents,
		Status:           order.Status,
		SnapshotJSON:     string(snapshot),
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
	}, nil
}
