package currency

import "time"

const (
	DefaultBase     = "USD"
	DefaultTarget   = "XOF"
	DefaultAPIURL   = "https://api.freecurrencyapi.com/v1/latest"
	DefaultCacheTTL = 10 * time.Minute
)

// Rates maps a currency code to the number of units of it per one unit of the base.
type Rates map[string]float64

type RatesResult struct {
	Base  string `json:"base"`
	Rates Rates  `json:"rates"`
}

type Conversion struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	Amount    float64 `json:"amount"`
	Rate      float64 `json:"rate"`
	Converted float64 `json:"converted"`
}
