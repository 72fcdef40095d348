package settlement

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mveldsman/storefront-service/internal/domain"
	"github.com/mveldsman/storefront-service/internal/infrastructure/signature"
	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
)

type InitiateInput struct {
	SessionID string
	Customer  domain.CustomerInfo
	Items     []domain.CartItem
	// ExpectedTotal is the client-advisory total ("69.98"). Optional;
	// when present it must agree with the server-computed total within
	// one cent. The server total is authoritative either way.
	ExpectedTotal string
}

type InitiateOutput struct {
	OrderID          string
	PaymentReference string
	ProcessURL       string
	Fields           map[string]string
}

// Initiate freezes the cart, writes the PENDING order and returns the
// signed redirect payload. The order row exists before the payload is
// handed out, so an abandoned redirect still leaves an audit trail.
func (uc *DefaultSettlementUsecase) Initiate(input *InitiateInput) (*InitiateOutput, error) {
	if input.Customer.Email == "" {
		uc.countRejected("validation")
		return nil, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	if len(input.Items) == 0 {
		uc.countRejected("empty_cart")
		return nil, domain.ErrEmptyCart
	}

	// Authoritative total, line by line from the ledger store.
	snapshot := domain.CartSnapshot{CapturedAt: time.Now()}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			uc.countRejected("validation")
			return nil, fmt.Errorf("%w: quantity for %s must be positive", domain.ErrValidation, item.ProductID)
		}
		product, err := uc.ProductRepo.GetProduct(item.ProductID)
		if err != nil {
			uc.countRejected("product_not_found")
			return nil, fmt.Errorf("line %s: %w", item.ProductID, err)
		}
		snapshot.Lines = append(snapshot.Lines, domain.SnapshotLine{
			ProductID:      product.ID,
			Name:           product.Name,
			Variant:        item.Variant,
			Quantity:       item.Quantity,
			UnitPriceCents: product.PriceCents,
		})
	}
	totalCents := snapshot.TotalCents()

	if input.ExpectedTotal != "" {
		expectedCents, err := domain.ParseCents(input.ExpectedTotal)
		if err != nil {
			uc.countRejected("validation")
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		if !domain.CentsWithin(expectedCents, totalCents, 1) {
			uc.countRejected("amount_mismatch")
			return nil, fmt.Errorf("%w: client total %s, server total %s",
				domain.ErrAmountMismatch, input.ExpectedTotal, domain.FormatCents(totalCents))
		}
	}

	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:               idGenerator(),
		PaymentReference: uuid.New().String(),
		Email:            input.Customer.Email,
		SessionID:        input.SessionID,
		AmountCents:      totalCents,
		Status:           domain.StatusPending,
		Snapshot:         snapshot,
		CreatedAt:        time.Now(),
	}

	// All validation has passed; this write must be the last thing
	// that can fail so a rejected initiate never leaves a PENDING row.
	if err := uc.OrderRepo.CreateOrder(order); err != nil {
		return nil, err
	}

	fields := uc.buildPaymentFields(order, input.Customer)
	fields[signature.SignatureField] = signature.Sign(fields, uc.Cfg.Passphrase)

	if uc.Metrics != nil {
		uc.Metrics.CheckoutsInitiatedTotal.Inc()
	}
	slog.Info("checkout initiated",
		"order_id", order.ID,
		"payment_reference", order.PaymentReference,
		"amount", domain.FormatCents(totalCents),
	)

	return &InitiateOutput{
		OrderID:          order.ID,
		PaymentReference: order.PaymentReference,
		ProcessURL:       uc.Cfg.ProcessURL,
		Fields:           fields,
	}, nil
}

func (uc *DefaultSettlementUsecase) buildPaymentFields(order *domain.Order, customer domain.CustomerInfo) map[string]string {
	base := strings.TrimRight(uc.Cfg.CallbackBaseURL, "/")

	itemName := order.Snapshot.Lines[0].Name
	if extra := len(order.Snapshot.Lines) - 1; extra > 0 {
		itemName = fmt.Sprintf("%s +%d more", itemName, extra)
	}

	// The return/cancel pages carry the reference so they can query the
	// real order status; the redirect outcome itself proves nothing.
	return map[string]string{
		"merchant_id":   uc.Cfg.MerchantID,
		"merchant_key":  uc.Cfg.MerchantKey,
		"return_url":    base + "/payment/return?ref=" + order.PaymentReference,
		"cancel_url":    base + "/payment/cancel?ref=" + order.PaymentReference,
		"notify_url":    base + "/payment/notify",
		"name_first":    customer.FirstName,
		"name_last":     customer.LastName,
		"email_address": customer.Email,
		"m_payment_id":  order.PaymentReference,
		"amount":        domain.FormatCents(order.AmountCents),
		"item_name":     itemName,
	}
}

func (uc *DefaultSettlementUsecase) countRejected(reason string) {
	if uc.Metrics != nil {
		uc.Metrics.CheckoutsRejectedTotal.WithLabelValues(reason).Inc()
	}
}
