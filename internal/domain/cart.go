package domain

import "time"

type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	Variant   string `json:"variant,omitempty"`
}

type Cart struct {
	SessionID string     `json:"session_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// SnapshotLine is one line of a cart frozen at payment initiation.
// Name and unit price are copied so later catalog edits cannot alter
// what a settled order says was bought.
type SnapshotLine struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	Variant        string `json:"variant,omitempty"`
	Quantity       int64  `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

type CartSnapshot struct {
	Lines      []SnapshotLine `json:"lines"`
	CapturedAt time.Time      `json:"captured_at"`
}

func (s *CartSnapshot) TotalCents() int64 {
	var total int64
	for _, line := range s.Lines {
		total += line.UnitPriceCents * line.Quantity
	}
	return total
}
