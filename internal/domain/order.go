package domain

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusFailed    OrderStatus = "FAILED"
)

// Terminal reports whether the status can never change again.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

type CustomerInfo struct {
	FirstName string
	LastName  string
	Email     string
}

type Order struct {
	ID               string
	PaymentReference string
	Email            string
	SessionID        string
	AmountCents      int64
	Status           OrderStatus
	Snapshot         CartSnapshot
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
