package catalog

import (
	"context"

	"github.com/avc/rifa-storefront/internal/domain"
	"go.uber.org/zap"
)

// Service управляет розыгрышами магазина из админки
type Service struct {
	api    domain.RaffleAdminAPI
	logger *zap.Logger
}

// NewService создает новый Service
func NewService(api domain.RaffleAdminAPI, logger *zap.Logger) *Service {
	return &Service{api: api, logger: logger}
}

// Create проверяет форму и создает розыгрыш.
// Ошибки формы возвращаются как domain.FieldErrors без обращения к API.
func (s *Service) Create(ctx context.Context, form RaffleForm) (*domain.Raffle, error) {
	if errs := Validate(form, true); !errs.Empty() {
		return nil, errs
	}

	raffle, err := s.api.CreateRaffle(ctx, form.Input(true))
	if err != nil {
		return nil, err
	}

	s.logger.Info("raffle created",
		zap.String("raffle_id", raffle.ID),
		zap.String("status", string(raffle.Status)),
	)
	return raffle, nil
}

// Update проверяет форму и изменяет розыгрыш. Количество номеров не меняется.
func (s *Service) Update(ctx context.Context, id string, form RaffleForm) (*domain.Raffle, error) {
	if errs := Validate(form, false); !errs.Empty() {
		return nil, errs
	}

	raffle, err := s.api.UpdateRaffle(ctx, id, form.Input(false))
	if err != nil {
		return nil, err
	}

	s.logger.Info("raffle updated", zap.String("raffle_id", id))
	return raffle, nil
}

// Delete удаляет розыгрыш
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteRaffle(ctx, id); err != nil {
		return err
	}

	s.logger.Info("raffle deleted", zap.String("raffle_id", id))
	return nil
}
