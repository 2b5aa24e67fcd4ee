package setting

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/payroll-management/internal/transport"
)

type ServiceAPI interface {
	GetExchangeRate(ctx context.Context) (*ExchangeRate, error)
	SetExchangeRate(ctx context.Context, dto SetExchangeRateDTO) (*ExchangeRateUpdated, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// GetExchangeRate handles GET /settings/exchange-rate
func (h *Handler) GetExchangeRate(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.CurrentUser(w, r); !ok {
		return
	}
	rate, err := h.Service.GetExchangeRate(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rate)
}

// SetExchangeRate handles PUT /settings/exchange-rate
func (h *Handler) SetExchangeRate(w http.ResponseWriter, r *http.Request) {
	user, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}

	var dto SetExchangeRateDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	updated, err := h.Service.SetExchangeRate(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.Logger.Info("exchange rate changed", "user_id", user.ID, "value", updated.Value)
	h.WriteJSON(w, http.StatusOK, updated)
}
