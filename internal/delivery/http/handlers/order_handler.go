package handlers

import (
	"net/http"
	"time"

	"github.com/mveldsman/storefront-service/internal/domain"
	"github.com/mveldsman/storefront-service/internal/usecase/settlement"
	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	settlementUsecase settlement.SettlementUsecase
}

func NewOrderHandler(settlementUsecase settlement.SettlementUsecase) *OrderHandler {
	return &OrderHandler{settlementUsecase: settlementUsecase}
}

type orderResponse struct {
	ID               string                `json:"id"`
	PaymentReference string                `json:"payment_reference"`
	Status           string                `json:"status"`
	Amount           string                `json:"amount"`
	Lines            []domain.SnapshotLine `json:"lines"`
	CreatedAt        time.Time             `json:"created_at"`
}

func toOrderResponse(order *domain.Order) orderResponse {
	return orderResponse{
		ID:               order.ID,
		PaymentReference: order.PaymentReference,
		Status:           string(order.Status),
		Amount:           domain.FormatCents(order.AmountCents),
		Lines:            order.Snapshot.Lines,
		CreatedAt:        order.CreatedAt,
	}
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.settlementUsecase.GetOrderByID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) GetOrderByReference(w http.ResponseWriter, r *http.Request) {
	order, err := h.settlementUsecase.GetOrderByPaymentReference(chi.URLParam(r, "ref"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

type redirectOutcomeResponse struct {
	Outcome string        `json:"outcome"`
	Order   orderResponse `json:"order"`
}

// PaymentReturn and PaymentCancel land the browser after the
// processor redirect. The order status they show comes from the
// store, which only a verified notification can move; until that
// notification arrives the order still reads PENDING here.

func (h *OrderHandler) PaymentReturn(w http.ResponseWriter, r *http.Request) {
	h.redirectOutcome(w, r, "return")
}

func (h *OrderHandler) PaymentCancel(w http.ResponseWriter, r *http.Request) {
	h.redirectOutcome(w, r, "cancel")
}

func (h *OrderHandler) redirectOutcome(w http.ResponseWriter, r *http.Request, outcome string) {
	order, err := h.settlementUsecase.GetOrderByPaymentReference(r.URL.Query().Get("ref"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, redirectOutcomeResponse{
		Outcome: outcome,
		Order:   toOrderResponse(order),
	})
}
