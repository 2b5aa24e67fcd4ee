package company

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/transport"
)

type ServiceAPI interface {
	GetMine(ctx context.Context, user *internal.User) ([]*Company, error)
	Get(ctx context.Context, user *internal.User, id int64) (*Company, error)
	Create(ctx context.Context, user *internal.User, dto CompanyDTO) (*Company, error)
	Update(ctx context.Context, user *internal.User, id int64, dto CompanyDTO) (*Company, error)
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

// GetMine handles GET /companies
func (h *Handler) GetMine(w http.ResponseWriter, r *http.Request) {
	user, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}

	companies, err := h.Service.GetMine(r.Context(), user)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, companies)
}

// GetCompany handles GET /companies/{id}
func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	user, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}
	id, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	c, err := h.Service.Get(r.Context(), user, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

// CreateCompany handles POST /companies
func (h *Handler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	user, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}

	var dto CompanyDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	c, err := h.Service.Create(r.Context(), user, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, c)
}

// UpdateCompany handles PUT /companies/{id}
func (h *Handler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	user, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}
	id, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	var dto CompanyDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	c, err := h.Service.Update(r.Context(), user, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}
