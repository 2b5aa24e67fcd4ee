package setting

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/pkg/logger"
)

type RepositoryAPI interface {
	// Get returns internal.ErrSettingNotFound when the key was never set.
	Get(ctx context.Context, key string) (*Setting, error)
	Upsert(ctx context.Context, s *Setting) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, lg *slog.Logger) *Service {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Service{repo: repo, logger: lg}
}

func (s *Service) GetExchangeRate(ctx context.Context) (*ExchangeRate, error) {
	rate := &ExchangeRate{Key: ExchangeRateKey}
	stored, err := s.repo.Get(ctx, ExchangeRateKey)
	if errors.Is(err, internal.ErrSettingNotFound) {
		return rate, nil
	}
	if err != nil {
		s.logger.Error("failed to read exchange rate", "error", err)
		return nil, internal.NewPersistenceError("failed to read exchange rate", err)
	}
	rate.Value = &stored.Value
	return rate, nil
}

func (s *Service) SetExchangeRate(ctx context.Context, dto SetExchangeRateDTO) (*ExchangeRateUpdated, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	value := dto.Normalized()
	if err := s.repo.Upsert(ctx, &Setting{Key: ExchangeRateKey, Value: value}); err != nil {
		s.logger.Error("failed to store exchange rate", "error", err)
		return nil, internal.NewPersistenceError("failed to store exchange rate", err)
	}

	logger.From(ctx).Info("exchange rate updated", "key", ExchangeRateKey, "value", value)
	return &ExchangeRateUpdated{Success: true, Key: ExchangeRateKey, Value: value}, nil
}
