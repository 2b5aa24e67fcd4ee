package employee

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, tenantID int64) ([]*Employee, error)
	Get(ctx context.Context, tenantID, id int64) (*Employee, error)
	Create(ctx context.Context, tenantID int64, dto CreateEmployeeDTO) (*Employee, error)
	Update(ctx context.Context, tenantID, id int64, dto UpdateEmployeeDTO) (*Employee, error)
	Delete(ctx context.Context, tenantID, id int64) error
}

// TenantResolver gives the caller a company before the first write.
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

// ListEmployees handles GET /employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	user, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}

	employees, err := h.Service.List(r.Context(), user.TenantID())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, employees)
}

// GetEmployee handles GET /employees/{id}
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	user, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}
	id, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	e, err := h.Service.Get(r.Context(), user.TenantID(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, e)
}

// CreateEmployee handles POST /employees
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	user, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}

	var dto CreateEmployeeDTO
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

	e, err := h.Service.Create(r.Context(), tenantID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, e)
}

// UpdateEmployee handles PUT /employees/{id}
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	user, ok := h.CurrentUser(w, r)
	if !ok {
		return
	}
	id, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	var dto UpdateEmployeeDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	e, err := h.Service.Update(r.Context(), user.TenantID(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, e)
}

// DeleteEmployee handles DELETE /employees/{id}
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
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
