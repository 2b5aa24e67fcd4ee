package currency

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/payroll-management/internal/transport"
)

type ServiceAPI interface {
	Rates(ctx context.Context, base, symbols string) (*RatesResult, error)
	Convert(ctx context.Context, from, to, amount string) (*Conversion, error)
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

// GetRates handles GET /currency/rates?base=&symbols=
func (h *Handler) GetRates(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.CurrentUser(w, r); !ok {
		return
	}
	q := r.URL.Query()
	result, err := h.Service.Rates(r.Context(), q.Get("base"), q.Get("symbols"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

// Convert handles GET /currency/convert?from=&to=&amount=
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.CurrentUser(w, r); !ok {
		return
	}
	q := r.URL.Query()
	result, err := h.Service.Convert(r.Context(), q.Get("from"), q.Get("to"), q.Get("amount"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}
