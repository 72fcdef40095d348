package models

import "time"

type ProductModel struct {
	ID           string `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Description  string
	ImageURL     string
	PriceCents   int64  `gorm:"not null"`
	Stock        int64  `gorm:"not null;default:0"`
	VariantsJSON string `gorm:"type:jsonb;default:'[]'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
