package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mveldsman/storefront-service/internal/delivery/http/middleware"
	"github.com/mveldsman/storefront-service/internal/domain"
	"github.com/mveldsman/storefront-service/internal/usecase"
	"github.com/mveldsman/storefront-service/internal/usecase/settlement"
)

type CheckoutHandler struct {
	settlementUsecase settlement.SettlementUsecase
	cartUsecase       usecase.CartUsecase
}

func NewCheckoutHandler(settlementUsecase settlement.SettlementUsecase, cartUsecase usecase.CartUsecase) *CheckoutHandler {
	return &CheckoutHandler{
		settlementUsecase: settlementUsecase,
		cartUsecase:       cartUsecase,
	}
}

type checkoutRequest struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	ExpectedTotal string `json:"expected_total,omitempty"`
}

type checkoutResponse struct {
	OrderID          string            `json:"order_id"`
	PaymentReference string            `json:"payment_reference"`
	ProcessURL       string            `json:"process_url"`
	Fields           map[string]string `json:"fields"`
}

// Checkout snapshots the session cart and initiates settlement. The
// response carries everything the browser needs to build the
// auto-submitting redirect form.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	sessionID := middleware.SessionID(r.Context())
	cart, err := h.cartUsecase.GetCart(sessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	output, err := h.settlementUsecase.Initiate(&settlement.InitiateInput{
		SessionID: sessionID,
		Customer: domain.CustomerInfo{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
		},
		Items:         cart.Items,
		ExpectedTotal: req.ExpectedTotal,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, checkoutResponse{
		OrderID:          output.OrderID,
		PaymentReference: output.PaymentReference,
		ProcessURL:       output.ProcessURL,
		Fields:           output.Fields,
	})
}
