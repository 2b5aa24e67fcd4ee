package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/payroll-management/internal/core/events"
	"github.com/frahmantamala/payroll-management/internal/observability/metrics"
)

// EventHandler keeps the audit trail and ledger counters for committed payment writes.
type EventHandler struct {
	logger *slog.Logger
}

func NewEventHandler(logger *slog.Logger) *EventHandler {
	return &EventHandler{logger: logger}
}

func (h *EventHandler) HandleLedgerEvent(ctx context.Context, event events.Event) error {
	paymentEvent, ok := event.(*events.PaymentEvent)
	if !ok {
		h.logger.Error("invalid event type for ledger handler", "event_type", event.EventType())
		return fmt.Errorf("expected PaymentEvent, got %T", event)
	}

	amountUSD := 0.0
	if paymentEvent.EventType() == events.EventTypePaymentRecorded {
		amountUSD = paymentEvent.AmountUSD
	}
	metrics.ObserveLedgerEvent(paymentEvent.EventType(), amountUSD)

	h.logger.InfoContext(ctx, "ledger audit",
		"event_type", paymentEvent.EventType(),
		"event_id", paymentEvent.EventID(),
		"payment_id", paymentEvent.PaymentID,
		"company_id", paymentEvent.CompanyID,
		"employee_id", paymentEvent.EmployeeID,
		"reference", paymentEvent.Reference,
		"amount_local", paymentEvent.AmountLocal,
		"amount_usd", paymentEvent.AmountUSD,
		"status", paymentEvent.Status,
		"occurred_at", paymentEvent.OccurredAt())

	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	types := []string{
		events.EventTypePaymentRecorded,
		events.EventTypePaymentUpdated,
		events.EventTypePaymentDeleted,
	}
	for _, t := range types {
		eventBus.Subscribe(t, h.HandleLedgerEvent)
	}

	h.logger.Info("payment event handlers registered", "handlers", types)
}
