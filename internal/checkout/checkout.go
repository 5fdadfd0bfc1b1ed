package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/avc/rifa-storefront/internal/cart"
	"github.com/avc/rifa-storefront/internal/domain"
	"github.com/avc/rifa-storefront/internal/utils/money"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Status состояние оформления резерва
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

// SelectionStore хранилище выбора номеров посетителя
type SelectionStore interface {
	Get(ctx context.Context, visitorID uuid.UUID) (*cart.Selection, error)
	ClearReserved(ctx context.Context, visitorID uuid.UUID, raffleID string, numbers []int) error
}

// Receipt результат успешного резерва
type Receipt struct {
	Status          Status `json:"status"`
	PurchaseID      string `json:"purchaseId"`
	Message         string `json:"message"`
	RaffleID        string `json:"raffleId"`
	ReservedNumbers []int  `json:"reservedNumbers"`
}

// Summary итог корзины для формы оформления
type Summary struct {
	RaffleID       string  `json:"raffleId"`
	RaffleName     string  `json:"raffleName"`
	Numbers        []int   `json:"numbers"`
	Count          int     `json:"count"`
	PricePerNumber float64 `json:"pricePerNumber"`
	Currency       string  `json:"currency"`
	Total          float64 `json:"total"`
	FormattedTotal string  `json:"formattedTotal"`
	FormattedPrice string  `json:"formattedPrice"`
}

// Service оформляет резерв выбранных номеров
type Service struct {
	purchases domain.PurchaseAPI
	selection SelectionStore
	logger    *zap.Logger
	newKey    func() string
	inFlight  sync.Map // uuid.UUID -> struct{}
}

// NewService создает новый Service
func NewService(purchases domain.PurchaseAPI, selection SelectionStore, logger *zap.Logger) *Service {
	return &Service{
		purchases: purchases,
		selection: selection,
		logger:    logger,
		newKey:    uuid.NewString,
	}
}

// State возвращает текущее состояние оформления для посетителя
func (s *Service) State(visitorID uuid.UUID) Status {
	if _, busy := s.inFlight.Load(visitorID); busy {
		return StatusSubmitting
	}
	return StatusIdle
}

// Submit отправляет резерв. Номера для ответа берутся из выбора до его
// очистки. При ошибке выбор не меняется, сообщение API передается как есть.
// Повторный вызов, пока первый не завершен, возвращает ErrSubmissionInFlight.
func (s *Service) Submit(ctx context.Context, visitorID uuid.UUID, raffleID string, info BuyerInfo, user *domain.AuthUser) (*Receipt, error) {
	if errs := Validate(info); !errs.Empty() {
		return nil, errs
	}

	if _, busy := s.inFlight.LoadOrStore(visitorID, struct{}{}); busy {
		return nil, domain.ErrSubmissionInFlight
	}
	defer s.inFlight.Delete(visitorID)

	sel, err := s.selection.Get(ctx, visitorID)
	if err != nil {
		return nil, fmt.Errorf("checkout: failed to read selection: %w", err)
	}
	if sel.Len() == 0 || sel.RaffleID() != raffleID {
		return nil, domain.ErrEmptySelection
	}

	// Снимок номеров до очистки выбора
	reserved := sel.Numbers()

	req := domain.PurchaseRequest{
		RaffleID:   raffleID,
		Numbers:    reserved,
		BuyerName:  info.Name,
		BuyerEmail: info.Email,
		BuyerPhone: info.Phone,
	}
	if user != nil {
		req.UserID = user.ID
	}

	key := s.newKey()
	resp, err := s.purchases.CreatePurchase(ctx, req, key)
	if err != nil {
		s.logger.Info("reservation rejected",
			zap.String("visitor_id", visitorID.String()),
			zap.String("raffle_id", raffleID),
			zap.Ints("numbers", reserved),
			zap.Error(err),
		)
		return nil, err
	}

	// Выбор мог смениться, пока запрос был в пути, поэтому снимаем только
	// зарезервированные номера и только в том же розыгрыше
	if err := s.selection.ClearReserved(ctx, visitorID, raffleID, reserved); err != nil {
		// Резерв уже создан на сервере, ошибка очистки не отменяет успех
		s.logger.Error("failed to clear selection after reservation",
			zap.String("visitor_id", visitorID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("reservation created",
		zap.String("visitor_id", visitorID.String()),
		zap.String("purchase_id", resp.PurchaseID),
		zap.String("idempotency_key", key),
		zap.Ints("numbers", reserved),
	)

	return &Receipt{
		Status:          StatusSuccess,
		PurchaseID:      resp.PurchaseID,
		Message:         resp.Message,
		RaffleID:        raffleID,
		ReservedNumbers: reserved,
	}, nil
}

// Summarize считает итог выбора для розыгрыша. Выбор другого розыгрыша
// дает пустой итог.
func Summarize(sel *cart.Selection, raffle *domain.Raffle) Summary {
	summary := Summary{
		RaffleID:       raffle.ID,
		RaffleName:     raffle.Name,
		Numbers:        []int{},
		PricePerNumber: raffle.Price,
		Currency:       raffle.Currency,
	}

	if sel != nil && sel.RaffleID() == raffle.ID {
		summary.Numbers = sel.Numbers()
	}

	summary.Count = len(summary.Numbers)
	summary.Total = money.Total(summary.Count, raffle.Price)
	summary.FormattedTotal = money.Format(summary.Total, raffle.Currency)
	summary.FormattedPrice = money.Format(raffle.Price, raffle.Currency)

	return summary
}
