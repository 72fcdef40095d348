package settlement

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mveldsman/storefront-service/internal/domain"
	"github.com/mveldsman/storefront-service/internal/infrastructure/kafka"
	"github.com/mveldsman/storefront-service/internal/infrastructure/signature"
)

// Notification field names, as posted by the processor.
const (
	fieldPaymentReference = "m_payment_id"
	fieldGatewayPaymentID = "pf_payment_id"
	fieldPaymentStatus    = "payment_status"
	fieldGrossAmount      = "amount_gross"
	fieldBuyerEmail       = "email_address"
)

// HandleNotification applies one webhook delivery. Idempotent:
// replaying a delivery for an already-terminal order is a no-op
// success, and concurrent duplicates elect exactly one winner for the
// stock decrement. Every error return leaves the order untouched.
func (uc *DefaultSettlementUsecase) HandleNotification(ctx context.Context, raw map[string]string) error {
	// 1. Signature over everything except the signature field itself.
	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		fields[k] = v
	}
	provided := fields[signature.SignatureField]
	delete(fields, signature.SignatureField)

	if !signature.Verify(fields, uc.Cfg.Passphrase, provided) {
		if uc.Metrics != nil {
			uc.Metrics.SignatureFailuresTotal.Inc()
		}
		uc.countNotification("invalid_signature")
		slog.Warn("notification rejected: signature mismatch",
			"payment_reference", raw[fieldPaymentReference])
		return domain.ErrInvalidSignature
	}

	// 2. Out-of-band corroboration, exact fields as received.
	start := time.Now()
	confirmed, err := uc.Validator.Confirm(ctx, raw)
	if uc.Metrics != nil {
		uc.Metrics.GatewayValidateDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		uc.countNotification("unverified")
		return fmt.Errorf("%w: %v", domain.ErrUnverifiedNotification, err)
	}
	if !confirmed {
		uc.countNotification("unverified")
		return domain.ErrUnverifiedNotification
	}

	// The raw payload is trusted from here on; narrow it.
	notification, err := parseNotification(raw)
	if err != nil {
		uc.countNotification("malformed")
		return err
	}

	// 3. Join to the order.
	order, err := uc.OrderRepo.GetOrderByPaymentReference(notification.PaymentReference)
	if err != nil {
		uc.countNotification("order_not_found")
		slog.Warn("notification for unknown order",
			"payment_reference", notification.PaymentReference)
		return err
	}

	lock := uc.orderLock(order.ID)
	lock.Lock()
	defer lock.Unlock()

	// Re-read under the lock; a concurrent duplicate may have already
	// settled the order.
	order, err = uc.OrderRepo.GetOrderByID(order.ID)
	if err != nil {
		return err
	}

	// 4. Terminal orders swallow replays.
	if order.Status.Terminal() {
		uc.countNotification("replay")
		return nil
	}

	// 5. Amount check. A mismatch may be a forged or corrupted
	// notification, so the order stays PENDING rather than FAILED.
	if !domain.CentsWithin(notification.GrossAmountCents, order.AmountCents, 1) {
		uc.countNotification("amount_mismatch")
		return fmt.Errorf("%w: notification gross %s, order total %s",
			domain.ErrAmountMismatch,
			domain.FormatCents(notification.GrossAmountCents),
			domain.FormatCents(order.AmountCents))
	}

	// 6. Map the claimed status onto a transition.
	var target domain.OrderStatus
	switch notification.PaymentStatus {
	case domain.NotificationComplete:
		target = domain.StatusCompleted
	case domain.NotificationFailed, domain.NotificationCancelled:
		target = domain.StatusFailed
	default:
		// Intermediate processor state; acknowledge and wait for the
		// next delivery.
		uc.countNotification("intermediate")
		slog.Info("notification with intermediate status",
			"order_id", order.ID, "payment_status", notification.PaymentStatus)
		return nil
	}

	won, err := uc.OrderRepo.TransitionStatus(order.ID, domain.StatusPending, target)
	if err != nil {
		return err
	}
	if !won {
		// Lost the race to another delivery; its effects stand.
		uc.countNotification("replay")
		return nil
	}
	order.Status = target

	// 7. Winner-only side effects.
	if target == domain.StatusCompleted {
		uc.applyStockDecrements(order)
		uc.clearOriginatingCart(order)
	}
	uc.recordSettled(order)

	slog.Info("order settled",
		"order_id", order.ID,
		"status", string(target),
		"gateway_payment_id", notification.GatewayPaymentID,
	)
	return nil
}

func parseNotification(raw map[string]string) (*domain.PaymentNotification, error) {
	grossCents, err := domain.ParseCents(raw[fieldGrossAmount])
	if err != nil {
		return nil, fmt.Errorf("%w: unparseable gross amount: %v", domain.ErrAmountMismatch, err)
	}
	return &domain.PaymentNotification{
		PaymentReference: raw[fieldPaymentReference],
		GatewayPaymentID: raw[fieldGatewayPaymentID],
		PaymentStatus:    strings.ToUpper(strings.TrimSpace(raw[fieldPaymentStatus])),
		GrossAmountCents: grossCents,
		BuyerEmail:       raw[fieldBuyerEmail],
	}, nil
}

// applyStockDecrements runs at most once per order: only the CAS
// winner reaches it. Stock was not reserved at initiation, so the
// store clamps at zero instead of failing the settlement.
func (uc *DefaultSettlementUsecase) applyStockDecrements(order *domain.Order) {
	for _, line := range order.Snapshot.Lines {
		product, err := uc.ProductRepo.AdjustStock(line.ProductID, -line.Quantity)
		if err != nil {
			slog.Error("stock decrement failed",
				"order_id", order.ID, "product_id", line.ProductID, "error", err.Error())
			continue
		}
		if uc.Metrics != nil {
			uc.Metrics.ProductStockGauge.WithLabelValues(product.ID).Set(float64(product.Stock))
		}
	}
}

// clearOriginatingCart is best effort: the session that built the cart
// may be long gone by the time the webhook lands.
func (uc *DefaultSettlementUsecase) clearOriginatingCart(order *domain.Order) {
	if uc.CartRepo == nil || order.SessionID == "" {
		return
	}
	if err := uc.CartRepo.DeleteCart(order.SessionID); err != nil {
		slog.Warn("cart clear failed", "order_id", order.ID, "error", err.Error())
	}
}

func (uc *DefaultSettlementUsecase) recordSettled(order *domain.Order) {
	if uc.Metrics != nil {
		switch order.Status {
		case domain.StatusCompleted:
			uc.Metrics.OrdersCompletedTotal.Inc()
			uc.Metrics.CompletedAmountTotal.Add(float64(order.AmountCents))
		case domain.StatusFailed:
			uc.Metrics.OrdersFailedTotal.Inc()
		}
		uc.countNotification("settled")
	}

	if uc.Notifier != nil {
		if err := uc.Notifier.NotifySettled(order); err != nil {
			slog.Warn("buyer notification failed", "order_id", order.ID, "error", err.Error())
		}
	}

	if uc.Publisher != nil {
		go func(event kafka.SettlementEvent) {
			if err := uc.Publisher.PublishSettlement(event); err != nil {
				slog.Error("failed to publish settlement event", "order_id", event.OrderID, "error", err.Error())
			}
		}(kafka.SettlementEvent{
			OrderID:          order.ID,
			PaymentReference: order.PaymentReference,
			Status:           string(order.Status),
			AmountCents:      order.AmountCents,
			Email:            order.Email,
		})
	}
}

func (uc *DefaultSettlementUsecase) countNotification(result string) {
	if uc.Metrics != nil {
		uc.Metrics.NotificationsTotal.WithLabelValues(result).Inc()
	}
}
