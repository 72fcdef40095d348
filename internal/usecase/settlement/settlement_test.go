package settlement

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mveldsman/storefront-service/internal/domain"
	"github.com/mveldsman/storefront-service/internal/infrastructure/kafka"
	"github.com/mveldsman/storefront-service/internal/infrastructure/memstore"
	"github.com/mveldsman/storefront-service/internal/infrastructure/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassphrase = "jt7NOE43FZPn"

type fakeValidator struct {
	ok  bool
	err error
}

func (f *fakeValidator) Confirm(ctx context.Context, fields map[string]string) (bool, error) {
	return f.ok, f.err
}

type fakePublisher struct {
	mu     sync.Mutex
	events []kafka.SettlementEvent
}

func (f *fakePublisher) PublishSettlement(event kafka.SettlementEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func newTestUsecase(t *testing.T) (*DefaultSettlementUsecase, *memstore.Store) {
	t.Helper()

	store := memstore.NewStore()
	require.NoError(t, store.SaveProduct(&domain.Product{
		ID:         "A",
		Name:       "Widget A",
		PriceCents: 3499,
		Stock:      10,
	}))
	require.NoError(t, store.SaveProduct(&domain.Product{
		ID:         "B",
		Name:       "Widget B",
		PriceCents: 1250,
		Stock:      5,
	}))

	uc := NewDefaultSettlementUsecase(
		Config{
			MerchantID:      "10000100",
			MerchantKey:     "46f0cd694581a",
			Passphrase:      testPassphrase,
			CallbackBaseURL: "https://shop.example",
			ProcessURL:      "https://sandbox.payfast.co.za/eng/process",
		},
		store, store, store,
		&fakeValidator{ok: true},
		nil, nil, nil,
	)
	return uc, store
}

func initiateOrder(t *testing.T, uc *DefaultSettlementUsecase, items []domain.CartItem) *InitiateOutput {
	t.Helper()
	output, err := uc.Initiate(&InitiateInput{
		SessionID: "sess-1",
		Customer:  domain.CustomerInfo{FirstName: "Thandi", LastName: "Mokoena", Email: "thandi@example.com"},
		Items:     items,
	})
	require.NoError(t, err)
	return output
}

// completeNotification builds a correctly signed COMPLETE webhook for
// the given initiate output.
func completeNotification(output *InitiateOutput, status, gross string) map[string]string {
	raw := map[string]string{
		"m_payment_id":   output.PaymentReference,
		"pf_payment_id":  "1089250",
		"payment_status": status,
		"amount_gross":   gross,
		"email_address":  "thandi@example.com",
	}
	raw["signature"] = signature.Sign(raw, testPassphrase)
	return raw
}

func TestInitiate(t *testing.T) {
	t.Run("computes total server-side and persists a pending order", func(t *testing.T) {
		uc, _ := newTestUsecase(t)

		output := initiateOrder(t, uc, []domain.CartItem{{ProductID: "A", Quantity: 2}})

		order, err := uc.GetOrderByID(output.OrderID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, order.Status)
		assert.Equal(t, int64(6998), order.AmountCents)
		assert.Equal(t, "69.98", output.Fields["amount"])
		assert.Equal(t, output.PaymentReference, output.Fields["m_payment_id"])
		assert.Len(t, order.Snapshot.Lines, 1)
		assert.Equal(t, int64(3499), order.Snapshot.Lines[0].UnitPriceCents)

		// Outbound fields must verify with the same engine the webhook uses.
		provided := output.Fields["signature"]
		assert.True(t, signature.Verify(output.Fields, testPassphrase, provided))
	})

	t.Run("stock is untouched by initiation", func(t *testing.T) {
		uc, store := newTestUsecase(t)

		initiateOrder(t, uc, []domain.CartItem{{ProductID: "A", Quantity: 2}})

		product, err := store.GetProduct("A")
		require.NoError(t, err)
		assert.Equal(t, int64(10), product.Stock)
	})

	t.Run("rejects empty cart", func(t *testing.T) {
		uc, _ := newTestUsecase(t)
		_, err := uc.Initiate(&InitiateInput{
			Customer: domain.CustomerInfo{Email: "thandi@example.com"},
		})
		assert.ErrorIs(t, err, domain.ErrEmptyCart)
	})

	t.Run("rejects missing email", func(t *testing.T) {
		uc, _ := newTestUsecase(t)
		_, err := uc.Initiate(&InitiateInput{
			Items: []domain.CartItem{{ProductID: "A", Quantity: 1}},
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("rejects unknown product", func(t *testing.T) {
		uc, _ := newTestUsecase(t)
		_, err := uc.Initiate(&InitiateInput{
			Customer: domain.CustomerInfo{Email: "thandi@example.com"},
			Items:    []domain.CartItem{{ProductID: "missing", Quantity: 1}},
		})
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("rejects client total off by more than one cent", func(t *testing.T) {
		uc, _ := newTestUsecase(t)
		_, err := uc.Initiate(&InitiateInput{
			Customer:      domain.CustomerInfo{Email: "thandi@example.com"},
			Items:         []domain.CartItem{{ProductID: "A", Quantity: 2}},
			ExpectedTotal: "69.95",
		})
		assert.ErrorIs(t, err, domain.ErrAmountMismatch)
	})

	t.Run("accepts client total within one cent", func(t *testing.T) {
		uc, _ := newTestUsecase(t)
		_, err := uc.Initiate(&InitiateInput{
			Customer:      domain.CustomerInfo{Email: "thandi@example.com"},
			Items:         []domain.CartItem{{ProductID: "A", Quantity: 2}},
			ExpectedTotal: "69.97",
		})
		assert.NoError(t, err)
	})

	t.Run("payment references are unique per attempt", func(t *testing.T) {
		uc, _ := newTestUsecase(t)
		first := initiateOrder(t, uc, []domain.CartItem{{ProductID: "A", Quantity: 1}})
		second := initiateOrder(t, uc, []domain.CartItem{{ProductID: "A", Quantity: 1}})
		assert.NotEqual(t, first.PaymentReference, second.PaymentReference)
	})
}

func TestHandleNotification(t *testing.T) {
	t.Run("COMPLETE settles the order and decrements stock", func(t *testing.T) {
		uc, store := newTestUsecase(t)
		output := initiateOrder(t, uc, []domain.CartItem{{ProductID: "A", Quantity: 2}})

		raw := completeNotification(output, "COMPLETE", "69.98")
		require.NoError(t, uc.HandleNotification(context.Background(), raw))

		order, err := uc.GetOrderByID(output.OrderID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, order.Status)

		product, err := store.GetProduct("A")
		require.NoError(t, err)
		assert.Equal(t, int64(8), product.Stock)
	})

	t.Run("replaying a COMPLETE notification is a no-op success", func(t *testing.T) {
		uc, store := newTestUsecase(t)
		output := initiateOrder(t, uc, []domain.CartItem{{ProductID: "A", Quantity: 2}})
		raw := completeNotification(output, "COMPLETE", "69.98")

		require.NoError(t, uc.HandleNotification(context.Background(), raw))
		require.NoError(t, uc.HandleNotification(context.Background(), raw))

		product, err := store.GetProduct("A")
		require.NoError(t, err)
		assert.Equal(t, int64(8), product.Stock, "stock must decrement exactly once")
	})

	t.Run("tampered field fails signature and leaves order pending", func(t *testing.T) {
		uc, store := newTestUsecase(t)
		output := initiateOrder(t, uc, []domain.CartItem{{ProductID: "A", Quantity: 2}})

		raw := completeNotification(output, "COMPLETE", "69.98")
		raw["amount_gross"] = "0.98"

		err := uc.HandleNotification(context.Background(), raw)
		assert.ErrorIs(t, err, domain.ErrInvalidSignature)

		order, err := uc.GetOrderByID(output.OrderID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, order.Status)

		product, _ := store.GetProduct("A")
		assert.Equal(t, int64(10), product.Stock)
	})

	t.Run("gateway refusal rejects without state change", func(t *testing.T) {
		uc, _ := newTestUsecase(t)
		uc.Validator = &fakeValidator{ok: false}
		output := initiateOrder(t, uc, []domain.CartItem{{ProductID: "A", Quantity: 2}})

		raw := completeNotification(output, "COMPLETE", "69.98")
		err := uc.HandleNotification(context.Background(), raw)
		assert.ErrorIs(t, err, domain.ErrUnverifiedNotification)

		order, _ := uc.GetOrderByID(output.OrderID)
		assert.Equal(t, domain.StatusPending, order.Status)
	})

	t.Run("unknown payment reference is rejected", func(t *testing.T) {
		uc, _ := newTestUsecase(t)
		raw := map[string]string{
			"m_payment_id":   "no-such-reference",
			"payment_status": "COMPLETE",
			"amount_gross":   "69.98",
		}
		raw["signature"] = signature.Sign(raw, testPassphrase)

		err := uc.HandleNotification(context.Background(), raw)
		assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	})

	t.Run("gross amount off by more than a cent leaves order pending", func(t *testing.T) {
		uc, store := newTestUsecase(t)
		output := initiateOrder(t, uc, []domain.CartItem{{ProductID: "A", Quantity: 2}})

		raw := completeNotification(output, "COMPLETE", "60.00")
		err := uc.HandleNotification(context.Background(), raw)
		assert.ErrorIs(t, err, domain.ErrAmountMismatch)

		order, _ := uc.GetOrderByID(output.OrderID)
		assert.Equal(t, domain.StatusPending, order.Status, "a mismatch must not fail the order")

		product, _ := store.GetProduct("A")
		assert.Equal(t, int64(10), product.Stock)
	})

	t.Run("CANCELLED fails the order and leaves stock unchanged", func(t *testing.T) {
		uc, store := newTestUsecase(t)
		output := initiateOrder(t, uc, []domain.CartItem{{ProductID: "A", Quantity: 2}})

		raw := completeNotification(output, "CANCELLED", "69.98")
		require.NoError(t, uc.HandleNotification(context.Background(), raw))

		order, _ := uc.GetOrderByID(output.OrderID)
		assert.Equal(t, domain.StatusFailed, order.Status)

		product, _ := store.GetProduct("A")
		assert.Equal(t, int64(10), product.Stock)
	})

	t.Run("unrecognized status is acknowledged and leaves order pending", func(t *testing.T) {
		uc, _ := newTestUsecase(t)
		output := initiateOrder(t, uc, []domain.CartItem{{ProductID: "A", Quantity: 2}})

		raw := completeNotification(output, "PENDING_REVIEW", "69.98")
		require.NoError(t, uc.HandleNotification(context.Background(), raw))

		order, _ := uc.GetOrderByID(output.OrderID)
		assert.Equal(t, domain.StatusPending, order.Status)
	})

	t.Run("a failed order does not complete on a late COMPLETE", func(t *testing.T) {
		uc, store := newTestUsecase(t)
		output := initiateOrder(t, uc, []domain.CartItem{{ProductID: "A", Quantity: 2}})

		require.NoError(t, uc.HandleNotification(context.Background(), completeNotification(output, "CANCELLED", "69.98")))
		require.NoError(t, uc.HandleNotification(context.Background(), completeNotification(output, "COMPLETE", "69.98")))

		order, _ := uc.GetOrderByID(output.OrderID)
		assert.Equal(t, domain.StatusFailed, order.Status)

		product, _ := store.GetProduct("A")
		assert.Equal(t, int64(10), product.Stock)
	})

	t.Run("concurrent duplicate deliveries decrement stock once", func(t *testing.T) {
		uc, store := newTestUsecase(t)
		output := initiateOrder(t, uc, []domain.CartItem{{ProductID: "A", Quantity: 2}})
		raw := completeNotification(output, "COMPLETE", "69.98")

		const deliveries = 16
		var wg sync.WaitGroup
		errs := make([]error, deliveries)
		for i := 0; i < deliveries; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = uc.HandleNotification(context.Background(), raw)
			}(i)
		}
		wg.Wait()

		for i, err := range errs {
			assert.NoError(t, err, "delivery %d", i)
		}

		order, _ := uc.GetOrderByID(output.OrderID)
		assert.Equal(t, domain.StatusCompleted, order.Status)

		product, _ := store.GetProduct("A")
		assert.Equal(t, int64(8), product.Stock)
	})

	t.Run("completion clears the originating cart best effort", func(t *testing.T) {
		uc, store := newTestUsecase(t)
		require.NoError(t, store.SaveCart(&domain.Cart{
			SessionID: "sess-1",
			Items:     []domain.CartItem{{ProductID: "A", Quantity: 2}},
		}))

		output := initiateOrder(t, uc, []domain.CartItem{{ProductID: "A", Quantity: 2}})
		require.NoError(t, uc.HandleNotification(context.Background(), completeNotification(output, "COMPLETE", "69.98")))

		cart, err := store.GetCart("sess-1")
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
	})

	t.Run("settlement events are published for terminal transitions", func(t *testing.T) {
		uc, _ := newTestUsecase(t)
		pub := &fakePublisher{}
		uc.Publisher = pub

		output := initiateOrder(t, uc, []domain.CartItem{{ProductID: "A", Quantity: 2}})
		require.NoError(t, uc.HandleNotification(context.Background(), completeNotification(output, "COMPLETE", "69.98")))

		// Publishing is fire-and-forget; wait for it.
		assert.Eventually(t, func() bool {
			pub.mu.Lock()
			defer pub.mu.Unlock()
			return len(pub.events) == 1
		}, time.Second, 10*time.Millisecond)

		pub.mu.Lock()
		defer pub.mu.Unlock()
		assert.Equal(t, output.OrderID, pub.events[0].OrderID)
		assert.Equal(t, "COMPLETED", pub.events[0].Status)
	})

	t.Run("multi-line orders decrement every line", func(t *testing.T) {
		uc, store := newTestUsecase(t)
		output := initiateOrder(t, uc, []domain.CartItem{
			{ProductID: "A", Quantity: 1},
			{ProductID: "B", Quantity: 3},
		})

		// 34.99 + 3*12.50 = 72.49
		raw := completeNotification(output, "COMPLETE", "72.49")
		require.NoError(t, uc.HandleNotification(context.Background(), raw))

		a, _ := store.GetProduct("A")
		b, _ := store.GetProduct("B")
		assert.Equal(t, int64(9), a.Stock)
		assert.Equal(t, int64(2), b.Stock)
	})
}
