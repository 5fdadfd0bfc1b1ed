package domain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// StateRepository определяет методы долговременного хранилища состояния посетителя
// (аналог localStorage браузера, но на стороне витрины)
type StateRepository interface {
	Get(ctx context.Context, visitorID uuid.UUID, key string) ([]byte, error)
	Put(ctx context.Context, visitorID uuid.UUID, key string, value []byte) error
	Delete(ctx context.Context, visitorID uuid.UUID, keys ...string) error
	ListStaleVisitors(ctx context.Context, before time.Time, limit int) ([]uuid.UUID, error)
	DeleteVisitor(ctx context.Context, visitorID uuid.UUID) error
	Ping(ctx context.Context) error
}

// TokenSource определяет источник bearer токена текущего посетителя
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	ClearToken(ctx context.Context) error
}

// RaffleAPI определяет методы API для работы с розыгрышами
type RaffleAPI interface {
	ListRaffles(ctx context.Context) ([]*Raffle, error)
	ListAdminRaffles(ctx context.Context) ([]*Raffle, error)
	GetRaffle(ctx context.Context, id string) (*Raffle, error)
	GetWinners(ctx context.Context) ([]*Winner, error)
	GetRaffleSales(ctx context.Context, id string) (json.RawMessage, error)
	GetRaffleParticipants(ctx context.Context, id string) (json.RawMessage, error)
	PerformDraw(ctx context.Context, id string) (*DrawResult, error)
}

// RaffleAdminAPI определяет методы API для управления розыгрышами магазина
type RaffleAdminAPI interface {
	CreateRaffle(ctx context.Context, in RaffleInput) (*Raffle, error)
	UpdateRaffle(ctx context.Context, id string, in RaffleInput) (*Raffle, error)
	DeleteRaffle(ctx context.Context, id string) error
}

// PurchaseAPI определяет методы API для работы с резервами
type PurchaseAPI interface {
	CreatePurchase(ctx context.Context, req PurchaseRequest, idempotencyKey string) (*PurchaseResponse, error)
	GetPurchase(ctx context.Context, id string) (*Purchase, error)
	ListPendingPurchases(ctx context.Context) ([]*PendingPurchase, error)
	ListPurchasesByRaffle(ctx context.Context, raffleID string) ([]*Purchase, error)
	ConfirmPurchase(ctx context.Context, id string) (*ActionResponse, error)
	CancelPurchase(ctx context.Context, id string) (*ActionResponse, error)
}

// AuthAPI определяет методы API аутентификации
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	GetSession(ctx context.Context) (*SessionResponse, error)
}

// AccountAPI определяет методы API кабинета покупателя
type AccountAPI interface {
	ListMyPurchases(ctx context.Context) ([]*UserPurchase, error)
}
