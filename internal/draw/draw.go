package draw

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"

	"github.com/avc/rifa-storefront/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Phase этап розыгрыша: closed -> confirming -> drawing -> drawn | failed
type Phase string

const (
	PhaseClosed     Phase = "closed"
	PhaseConfirming Phase = "confirming"
	PhaseDrawing    Phase = "drawing"
	PhaseDrawn      Phase = "drawn"
	PhaseFailed     Phase = "failed"
)

const confirmKeyPrefix = "draw-confirm:"

// Prompt запрос подтверждения розыгрыша
type Prompt struct {
	Phase      Phase  `json:"phase"`
	RaffleID   string `json:"raffleId"`
	RaffleName string `json:"raffleName"`
	SoldCount  int    `json:"soldCount"`
	Message    string `json:"message"`
	Token      string `json:"token"`
}

// Outcome результат проведенного розыгрыша
type Outcome struct {
	Phase         Phase                `json:"phase"`
	Message       string               `json:"message"`
	WinningNumber int                  `json:"winningNumber"`
	Winner        *domain.RaffleWinner `json:"winner"`
	Raffle        *domain.Raffle       `json:"raffle"`
}

// Available сообщает, можно ли проводить розыгрыш: он активен и продан хотя бы один номер
func Available(raffle *domain.Raffle) bool {
	return raffle != nil && raffle.Status == domain.RaffleStatusActive && raffle.SoldCount() > 0
}

// Service проводит розыгрыш в два шага: Open выдает одноразовый токен,
// Confirm с этим токеном запускает розыгрыш на сервере.
type Service struct {
	raffles  domain.RaffleAPI
	state    domain.StateRepository
	logger   *zap.Logger
	newToken func() string
	inFlight sync.Map // raffleID -> struct{}
}

// NewService создает новый Service
func NewService(raffles domain.RaffleAPI, state domain.StateRepository, logger *zap.Logger) *Service {
	return &Service{
		raffles:  raffles,
		state:    state,
		logger:   logger,
		newToken: uuid.NewString,
	}
}

func confirmKey(raffleID string) string {
	return confirmKeyPrefix + raffleID
}

// Open переводит розыгрыш в confirming. Никаких действий на сервере не выполняется.
func (s *Service) Open(ctx context.Context, visitorID uuid.UUID, raffleID string) (*Prompt, error) {
	raffle, err := s.raffles.GetRaffle(ctx, raffleID)
	if err != nil {
		return nil, err
	}
	if !Available(raffle) {
		return nil, domain.ErrDrawUnavailable
	}

	token := s.newToken()
	if err := s.state.Put(ctx, visitorID, confirmKey(raffleID), []byte(token)); err != nil {
		return nil, fmt.Errorf("draw: failed to store confirmation: %w", err)
	}

	sold := raffle.SoldCount()
	return &Prompt{
		Phase:      PhaseConfirming,
		RaffleID:   raffle.ID,
		RaffleName: raffle.Name,
		SoldCount:  sold,
		Message: fmt.Sprintf(
			"Se seleccionara un numero ganador aleatorio de los %d numeros vendidos. Esta accion no se puede deshacer.",
			sold,
		),
		Token: token,
	}, nil
}

// Confirm проводит розыгрыш. Токен подтверждения расходуется при любом исходе,
// поэтому после ошибки розыгрыш снова в closed и повтор начинается с Open.
func (s *Service) Confirm(ctx context.Context, visitorID uuid.UUID, raffleID, token string) (*Outcome, error) {
	if err := s.consume(ctx, visitorID, raffleID, token); err != nil {
		return nil, err
	}

	if _, busy := s.inFlight.LoadOrStore(raffleID, struct{}{}); busy {
		return nil, domain.ErrDrawInFlight
	}
	defer s.inFlight.Delete(raffleID)

	result, err := s.raffles.PerformDraw(ctx, raffleID)
	if err != nil {
		s.logger.Warn("draw failed",
			zap.String("raffle_id", raffleID),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("draw completed",
		zap.String("raffle_id", raffleID),
		zap.Int("winning_number", result.WinningNumber),
	)

	// Розыгрыш уже проведен, при ошибке перезапроса показываем данные из ответа
	raffle, err := s.raffles.GetRaffle(ctx, raffleID)
	if err != nil {
		s.logger.Warn("failed to refetch raffle after draw",
			zap.String("raffle_id", raffleID),
			zap.Error(err),
		)
		raffle = result.Raffle
	}

	return &Outcome{
		Phase:         PhaseDrawn,
		Message:       fmt.Sprintf("Sorteo realizado! Numero ganador: #%d", result.WinningNumber),
		WinningNumber: result.WinningNumber,
		Winner:        result.Winner,
		Raffle:        raffle,
	}, nil
}

func (s *Service) consume(ctx context.Context, visitorID uuid.UUID, raffleID, token string) error {
	stored, err := s.state.Get(ctx, visitorID, confirmKey(raffleID))
	if errors.Is(err, domain.ErrStateNotFound) {
		return domain.ErrDrawNotConfirmed
	}
	if err != nil {
		return fmt.Errorf("draw: failed to read confirmation: %w", err)
	}

	if token == "" || subtle.ConstantTimeCompare(stored, []byte(token)) != 1 {
		return domain.ErrDrawNotConfirmed
	}

	if err := s.state.Delete(ctx, visitorID, confirmKey(raffleID)); err != nil {
		return fmt.Errorf("draw: failed to consume confirmation: %w", err)
	}
	return nil
}

// Cancel закрывает запрос подтверждения
func (s *Service) Cancel(ctx context.Context, visitorID uuid.UUID, raffleID string) error {
	if err := s.state.Delete(ctx, visitorID, confirmKey(raffleID)); err != nil {
		return fmt.Errorf("draw: failed to cancel confirmation: %w", err)
	}
	return nil
}

// Phase возвращает текущий этап для посетителя и розыгрыша
func (s *Service) Phase(ctx context.Context, visitorID uuid.UUID, raffleID string) (Phase, error) {
	if _, busy := s.inFlight.Load(raffleID); busy {
		return PhaseDrawing, nil
	}

	_, err := s.state.Get(ctx, visitorID, confirmKey(raffleID))
	switch {
	case errors.Is(err, domain.ErrStateNotFound):
		return PhaseClosed, nil
	case err != nil:
		return "", fmt.Errorf("draw: failed to read confirmation: %w", err)
	}
	return PhaseConfirming, nil
}
