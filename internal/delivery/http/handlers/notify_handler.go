package handlers

import (
	"errors"
	"net/http"

	"github.com/mveldsman/storefront-service/internal/domain"
	"github.com/mveldsman/storefront-service/internal/usecase/settlement"
)

type NotifyHandler struct {
	settlementUsecase settlement.SettlementUsecase
}

func NewNotifyHandler(settlementUsecase settlement.SettlementUsecase) *NotifyHandler {
	return &NotifyHandler{settlementUsecase: settlementUsecase}
}

// Notify receives the processor's webhook. Anything other than the
// bare "OK" acknowledgement makes the processor retry delivery, and
// the acknowledgement is only written after the transition persisted.
func (h *NotifyHandler) Notify(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	raw := make(map[string]string, len(r.PostForm))
	for key, values := range r.PostForm {
		if len(values) > 0 {
			raw[key] = values[0]
		}
	}

	if err := h.settlementUsecase.HandleNotification(r.Context(), raw); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSignature),
			errors.Is(err, domain.ErrUnverifiedNotification),
			errors.Is(err, domain.ErrAmountMismatch),
			errors.Is(err, domain.ErrOrderNotFound):
			w.WriteHeader(http.StatusBadRequest)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
