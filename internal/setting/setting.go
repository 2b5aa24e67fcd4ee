package setting

import (
	"time"

	settingDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/setting"
)

// ExchangeRateKey holds the configured USD to local currency rate. It is global, not per tenant.
const ExchangeRateKey = "usd_to_local"

type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExchangeRate is the read view. Value is nil until a rate has been set.
type ExchangeRate struct {
	Key   string  `json:"key"`
	Value *string `json:"value"`
}

type ExchangeRateUpdated struct {
	Success bool   `json:"success"`
	Key     string `json:"key"`
	Value   string `json:"value"`
}

func FromDataModel(s *settingDatamodel.Setting) *Setting {
	return &Setting{
		Key:       s.Key,
		Value:     s.Value,
		UpdatedAt: s.UpdatedAt,
	}
}

func ToDataModel(s *Setting) *settingDatamodel.Setting {
	return &settingDatamodel.Setting{
		Key:       s.Key,
		Value:     s.Value,
		UpdatedAt: s.UpdatedAt,
	}
}
