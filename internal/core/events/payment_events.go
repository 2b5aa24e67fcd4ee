package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypePaymentRecorded = "payment.recorded"
	EventTypePaymentUpdated  = "payment.updated"
	EventTypePaymentDeleted  = "payment.deleted"
)

// PaymentEvent is published by the ledger after a payment write commits.
type PaymentEvent struct {
	BaseEvent
	PaymentID   int64   `json:"payment_id"`
	CompanyID   int64   `json:"company_id"`
	EmployeeID  int64   `json:"employee_id"`
	Reference   string  `json:"reference"`
	AmountLocal float64 `json:"amount_local"`
	AmountUSD   float64 `json:"amount_usd"`
	Status      string  `json:"status"`
}

func newPaymentEvent(eventType string, paymentID, companyID, employeeID int64, reference string, amountLocal, amountUSD float64, status string) *PaymentEvent {
	return &PaymentEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      eventType,
			Timestamp: time.Now().UTC(),
		},
		PaymentID:   paymentID,
		CompanyID:   companyID,
		EmployeeID:  employeeID,
		Reference:   reference,
		AmountLocal: amountLocal,
		AmountUSD:   amountUSD,
		Status:      status,
	}
}

func NewPaymentRecordedEvent(paymentID, companyID, employeeID int64, reference string, amountLocal, amountUSD float64, status string) *PaymentEvent {
	return newPaymentEvent(EventTypePaymentRecorded, paymentID, companyID, employeeID, reference, amountLocal, amountUSD, status)
}

func NewPaymentUpdatedEvent(paymentID, companyID, employeeID int64, reference string, amountLocal, amountUSD float64, status string) *PaymentEvent {
	return newPaymentEvent(EventTypePaymentUpdated, paymentID, companyID, employeeID, reference, amountLocal, amountUSD, status)
}

func NewPaymentDeletedEvent(paymentID, companyID int64) *PaymentEvent {
	return newPaymentEvent(EventTypePaymentDeleted, paymentID, companyID, 0, "", 0, 0, "")
}
