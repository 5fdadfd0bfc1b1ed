package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/avc/rifa-storefront/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StorageKey ключ хранения набора в состоянии посетителя
const StorageKey = "rifa-cart"

const lockStripes = 64

// AddResult результат добавления номера
type AddResult struct {
	Added     bool
	Switched  bool // Прежний выбор другого розыгрыша был отброшен
	Selection *Selection
}

// Service хранит набор номеров посетителя. Изменения одного посетителя
// выполняются последовательно в пределах процесса, между экземплярами
// выигрывает последняя запись.
type Service struct {
	repo       domain.StateRepository
	defaultMax int
	logger     *zap.Logger
	locks      [lockStripes]sync.Mutex
}

// NewService создает новый Service
func NewService(repo domain.StateRepository, defaultMax int, logger *zap.Logger) *Service {
	if defaultMax <= 0 {
		defaultMax = DefaultMaxNumbers
	}
	return &Service{
		repo:       repo,
		defaultMax: defaultMax,
		logger:     logger,
	}
}

func (s *Service) lock(visitorID uuid.UUID) func() {
	h := fnv.New32a()
	h.Write(visitorID[:])
	mu := &s.locks[h.Sum32()%lockStripes]
	mu.Lock()
	return mu.Unlock
}

// Get возвращает набор посетителя (пустой, если ничего не сохранено)
func (s *Service) Get(ctx context.Context, visitorID uuid.UUID) (*Selection, error) {
	return s.load(ctx, visitorID)
}

// AddNumber добавляет номер в набор посетителя.
// maxNumbers <= 0 означает лимит по умолчанию.
func (s *Service) AddNumber(ctx context.Context, visitorID uuid.UUID, number int, raffleID string, maxNumbers int) (AddResult, error) {
	if maxNumbers <= 0 {
		maxNumbers = s.defaultMax
	}

	var result AddResult
	sel, err := s.update(ctx, visitorID, func(sel *Selection) bool {
		result.Added, result.Switched = sel.Add(number, raffleID, maxNumbers)
		return result.Added
	})
	if err != nil {
		return AddResult{}, err
	}

	if result.Switched {
		s.logger.Debug("selection switched to another raffle",
			zap.String("visitor_id", visitorID.String()),
			zap.String("raffle_id", raffleID),
		)
	}

	result.Selection = sel
	return result, nil
}

// RemoveNumber удаляет номер из набора посетителя
func (s *Service) RemoveNumber(ctx context.Context, visitorID uuid.UUID, number int) (*Selection, error) {
	return s.update(ctx, visitorID, func(sel *Selection) bool {
		if !sel.IsNumberSelected(number) {
			return false
		}
		sel.RemoveNumber(number)
		return true
	})
}

// Clear очищает набор посетителя
func (s *Service) Clear(ctx context.Context, visitorID uuid.UUID) error {
	_, err := s.update(ctx, visitorID, func(sel *Selection) bool {
		sel.Clear()
		return true
	})
	return err
}

// ClearReserved убирает из набора зарезервированные номера, если набор
// все еще относится к raffleID. Номера, добавленные после снимка, остаются.
// Набор другого розыгрыша не трогается.
func (s *Service) ClearReserved(ctx context.Context, visitorID uuid.UUID, raffleID string, numbers []int) error {
	_, err := s.update(ctx, visitorID, func(sel *Selection) bool {
		if sel.RaffleID() != raffleID {
			return false
		}
		for _, n := range numbers {
			sel.RemoveNumber(n)
		}
		return true
	})
	return err
}

// update читает набор, применяет fn и сохраняет, если fn вернула true
func (s *Service) update(ctx context.Context, visitorID uuid.UUID, fn func(*Selection) bool) (*Selection, error) {
	unlock := s.lock(visitorID)
	defer unlock()

	sel, err := s.load(ctx, visitorID)
	if err != nil {
		return nil, err
	}

	if !fn(sel) {
		return sel, nil
	}

	if err := s.save(ctx, visitorID, sel); err != nil {
		return nil, err
	}
	return sel, nil
}

func (s *Service) load(ctx context.Context, visitorID uuid.UUID) (*Selection, error) {
	raw, err := s.repo.Get(ctx, visitorID, StorageKey)
	if errors.Is(err, domain.ErrStateNotFound) {
		return NewSelection(s.defaultMax), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cart: failed to load selection: %w", err)
	}

	sel := &Selection{}
	if err := json.Unmarshal(raw, sel); err != nil {
		// Поврежденное состояние отбрасываем и начинаем с пустого набора
		s.logger.Warn("corrupted selection discarded",
			zap.String("visitor_id", visitorID.String()),
			zap.Error(err),
		)
		return NewSelection(s.defaultMax), nil
	}

	return sel, nil
}

func (s *Service) save(ctx context.Context, visitorID uuid.UUID, sel *Selection) error {
	raw, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("cart: failed to encode selection: %w", err)
	}

	if err := s.repo.Put(ctx, visitorID, StorageKey, raw); err != nil {
		return fmt.Errorf("cart: failed to save selection: %w", err)
	}
	return nil
}
