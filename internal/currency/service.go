package currency

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/observability/metrics"
	"github.com/frahmantamala/payroll-management/pkg/logger"
)

type Service struct {
	provider Provider
	cache    RateCache
	logger   *slog.Logger
}

func NewService(provider Provider, rateCache RateCache, lg *slog.Logger) *Service {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	if rateCache == nil {
		rateCache = NewMemoryRateCache(DefaultCacheTTL)
	}
	return &Service{provider: provider, cache: rateCache, logger: lg}
}

func (s *Service) ratesFor(ctx context.Context, base string) (Rates, error) {
	if rates, ok := s.cache.Get(ctx, base); ok {
		metrics.ObserveCurrencyCache(true)
		return rates, nil
	}
	metrics.ObserveCurrencyCache(false)

	rates, err := s.provider.Latest(ctx, base)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, base, rates)
	return rates, nil
}

// Rates returns the rates for base, restricted to symbols when that comma separated list is non-empty.
// Unknown symbols are left out silently.
func (s *Service) Rates(ctx context.Context, base, symbols string) (*RatesResult, error) {
	base = normalizeCode(base, DefaultBase)

	all, err := s.ratesFor(ctx, base)
	if err != nil {
		return nil, err
	}

	symbols = strings.TrimSpace(symbols)
	if symbols == "" {
		return &RatesResult{Base: base, Rates: all}, nil
	}

	subset := Rates{}
	for _, sym := range strings.Split(strings.ToUpper(symbols), ",") {
		sym = strings.TrimSpace(sym)
		if rate, ok := all[sym]; ok && sym != "" {
			subset[sym] = rate
		}
	}
	return &RatesResult{Base: base, Rates: subset}, nil
}

// Convert multiplies amount by the from->to rate. An empty amount means 1.
func (s *Service) Convert(ctx context.Context, from, to, amount string) (*Conversion, error) {
	from = normalizeCode(from, DefaultBase)
	to = normalizeCode(to, DefaultTarget)

	value := 1.0
	if raw := strings.TrimSpace(amount); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return nil, internal.NewValidationError("Invalid amount", internal.ErrCodeInvalidAmount)
		}
		value = parsed
	}

	rates, err := s.ratesFor(ctx, from)
	if err != nil {
		return nil, err
	}
	rate, ok := rates[to]
	if !ok || rate == 0 {
		return nil, internal.NewValidationError(fmt.Sprintf("Rate %s->%s not available", from, to), internal.ErrCodeRateUnavailable)
	}

	return &Conversion{
		From:      from,
		To:        to,
		Amount:    value,
		Rate:      rate,
		Converted: value * rate,
	}, nil
}

func normalizeCode(code, fallback string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return fallback
	}
	return code
}
