package settlement

import (
	"context"
	"sync"

	"github.com/mveldsman/storefront-service/internal/domain"
	"github.com/mveldsman/storefront-service/internal/infrastructure/kafka"
	"github.com/mveldsman/storefront-service/internal/infrastructure/metrics"
)

type SettlementUsecase interface {
	Initiate(input *InitiateInput) (*InitiateOutput, error)
	HandleNotification(ctx context.Context, raw map[string]string) error
	GetOrderByID(orderID string) (*domain.Order, error)
	GetOrderByPaymentReference(paymentReference string) (*domain.Order, error)
}

// Config carries the merchant identity and callback locations baked
// into every outbound payment request.
type Config struct {
	MerchantID      string
	MerchantKey     string
	Passphrase      string
	CallbackBaseURL string
	ProcessURL      string
}

// SettlementPublisher is the slice of the kafka publisher the
// settlement machine needs.
type SettlementPublisher interface {
	PublishSettlement(event kafka.SettlementEvent) error
}

type DefaultSettlementUsecase struct {
	Cfg         Config
	ProductRepo domain.ProductRepository
	OrderRepo   domain.OrderRepository
	CartRepo    domain.CartRepository
	Validator   domain.GatewayValidator
	Publisher   SettlementPublisher
	Notifier    domain.BuyerNotifier
	Metrics     *metrics.SettlementMetrics

	// one mutex per order id, so concurrent duplicate notifications
	// for the same order serialize while distinct orders do not.
	orderLocks sync.Map
}

func NewDefaultSettlementUsecase(
	cfg Config,
	productRepo domain.ProductRepository,
	orderRepo domain.OrderRepository,
	cartRepo domain.CartRepository,
	validator domain.GatewayValidator,
	publisher SettlementPublisher,
	buyerNotifier domain.BuyerNotifier,
	settlementMetrics *metrics.SettlementMetrics) *DefaultSettlementUsecase {

	return &DefaultSettlementUsecase{
		Cfg:         cfg,
		ProductRepo: productRepo,
		OrderRepo:   orderRepo,
		CartRepo:    cartRepo,
		Validator:   validator,
		Publisher:   publisher,
		Notifier:    buyerNotifier,
		Metrics:     settlementMetrics,
	}
}

func (uc *DefaultSettlementUsecase) orderLock(orderID string) *sync.Mutex {
	lock, _ := uc.orderLocks.LoadOrStore(orderID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
