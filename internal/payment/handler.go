package payment

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, tenantID int64, search string) ([]*Payment, error)
	Get(ctx context.Context, tenantID, id int64) (*Payment, error)
	Create(ctx context.Context, tenantID int64, dto CreatePaymentDTO) (*Payment, error)
	Update(ctx context.Context, tenantID, id int64, dto UpdatePaymentDTO) (*Payment, error)
	Delete(ctx context.Context, tenantID, id int64) error
}

type TenantResolver interface {
	EnsureTenant(ctx context.Context, user *internal.User) (int64, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Tenants TenantResolver
}

func NewHandler(service ServiceAPI, tenants TenantResolver, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
		Tenants:     tenants,
	}
}

// ListPayments handles GET /payments?search=
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	user, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}

	payments, err := h.Service.List(r.Context(), user.TenantID(), r.URL.Query().Get("search"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, payments)
}

// GetPayment handles GET /payments/{id}
func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	user, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}
	id, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	p, err := h.Service.Get(r.Context(), user.TenantID(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}

// CreatePayment handles POST /payments
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	user, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}

	var dto CreatePaymentDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	tenantID, err := h.Tenants.EnsureTenant(r.Context(), user)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	p, err := h.Service.Create(r.Context(), tenantID, dto)
	if err != nil {
		h.Logger.Warn("CreatePayment: service error", "error", err, "user_id", user.ID, "employee_id", dto.EmployeeID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, p)
}

// UpdatePayment handles PUT /payments/{id}
func (h *Handler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	user, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}
	id, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	var dto UpdatePaymentDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	p, err := h.Service.Update(r.Context(), user.TenantID(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}

// DeletePayment handles DELETE /payments/{id}
func (h *Handler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	user, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}
	id, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	if err := h.Service.Delete(r.Context(), user.TenantID(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
