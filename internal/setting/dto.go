package setting

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	errors "github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/core/common/validation"
)

// SetExchangeRateDTO accepts the rate either as a JSON number or as a numeric string.
type SetExchangeRateDTO struct {
	Value json.RawMessage `json:"value"`
}

// Normalized returns the rate as it will be stored.
func (d *SetExchangeRateDTO) Normalized() string {
	raw := bytes.TrimSpace(d.Value)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return string(raw)
}

func (d *SetExchangeRateDTO) Validate() error {
	value := d.Normalized()

	v := validation.NewValidator()
	v.Field("value", value).Required().Custom(func(interface{}) *errors.AppError {
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil || rate <= 0 {
			return errors.NewValidationFieldError("value", "value must be a positive number", errors.ErrCodeInvalidRate)
		}
		return nil
	})
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
