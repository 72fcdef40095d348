package models

import (
	"time"

	"github.com/mveldsman/storefront-service/internal/domain"
)

type OrderModel struct {
	ID               string             `gorm:"primaryKey"`
	PaymentReference string             `gorm:"uniqueIndex;not null"`
	Email            string             `gorm:"not null"`
	SessionID        string             `gorm:"index"`
	AmountCents      int64              `gorm:"not null"`
	Status           domain.OrderStatus `gorm:"index;not null"`
	SnapshotJSON     string             `gorm:"type:jsonb;not null"`
	CreatedAt        time.Time          `gorm:"index"`
	UpdatedAt        time.Time
}
