package settlement

import "github.com/mveldsman/storefront-service/internal/domain"

// The return/cancel pages query order status here instead of trusting
// the redirect outcome: only a verified notification moves an order.

func (uc *DefaultSettlementUsecase) GetOrderByID(orderID string) (*domain.Order, error) {
	return uc.OrderRepo.GetOrderByID(orderID)
}

func (uc *DefaultSettlementUsecase) GetOrderByPaymentReference(paymentReference string) (*domain.Order, error) {
	return uc.OrderRepo.GetOrderByPaymentReference(paymentReference)
}
