package domain

import "time"

// RaffleStatus представляет статус розыгрыша
type RaffleStatus string

const (
	RaffleStatusDraft     RaffleStatus = "DRAFT"
	RaffleStatusActive    RaffleStatus = "ACTIVE"
	RaffleStatusCompleted RaffleStatus = "COMPLETED"
	RaffleStatusCancelled RaffleStatus = "CANCELLED"
)

// NumberStatus представляет статус номера (билета) розыгрыша
type NumberStatus string

const (
	NumberStatusAvailable NumberStatus = "AVAILABLE"
	NumberStatusReserved  NumberStatus = "RESERVED"
	NumberStatusSold      NumberStatus = "SOLD"
)

// PurchaseStatus представляет статус резерва/покупки
type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "PENDING"
	PurchaseStatusCompleted PurchaseStatus = "COMPLETED"
	PurchaseStatusCancelled PurchaseStatus = "CANCELLED"
	PurchaseStatusExpired   PurchaseStatus = "EXPIRED"
)

// UserRole представляет роль пользователя API
type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPER_ADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleUser       UserRole = "USER"
)

// IsAdmin сообщает, есть ли у роли доступ в админку магазина
func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// RaffleWinner представляет победителя розыгрыша
type RaffleWinner struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Raffle представляет розыгрыш в том виде, в каком его отдает API
type Raffle struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Description   *string        `json:"description"`
	Prize         string         `json:"prize"`
	PrizeImage    *string        `json:"prizeImage"`
	Price         float64        `json:"price"`
	Currency      string         `json:"currency"`
	TotalNumbers  int            `json:"totalNumbers"`
	MaxPerUser    int            `json:"maxPerUser"`
	Status        RaffleStatus   `json:"status"`
	DrawDate      *time.Time     `json:"drawDate"`
	WinningNumber *int           `json:"winningNumber,omitempty"` // Только для COMPLETED
	WinnerID      *string        `json:"winnerId,omitempty"`
	Winner        *RaffleWinner  `json:"winner,omitempty"`
	CompletedAt   *time.Time     `json:"completedAt,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	Numbers       []RaffleNumber `json:"numbers,omitempty"`
}

// SoldCount возвращает количество проданных номеров
func (r *Raffle) SoldCount() int {
	count := 0
	for _, n := range r.Numbers {
		if n.Status == NumberStatusSold {
			count++
		}
	}
	return count
}

// RaffleNumber представляет один номер розыгрыша
type RaffleNumber struct {
	ID         string       `json:"id"`
	Number     int          `json:"number"`
	Status     NumberStatus `json:"status"`
	RaffleID   string       `json:"raffleId"`
	PurchaseID *string      `json:"purchaseId"`
}

// Purchase представляет резерв номеров покупателем
type Purchase struct {
	ID          string         `json:"id"`
	BuyerName   string         `json:"buyerName"`
	BuyerEmail  string         `json:"buyerEmail"`
	BuyerPhone  *string        `json:"buyerPhone"`
	TotalAmount float64        `json:"totalAmount"`
	Status      PurchaseStatus `json:"status"`
	RaffleID    string         `json:"raffleId"`
	Numbers     []RaffleNumber `json:"numbers,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// PendingPurchase представляет ожидающий подтверждения резерв для админки
type PendingPurchase struct {
	ID          string         `json:"id"`
	BuyerName   string         `json:"buyerName"`
	BuyerEmail  string         `json:"buyerEmail"`
	BuyerPhone  *string        `json:"buyerPhone"`
	TotalAmount float64        `json:"totalAmount"`
	Status      PurchaseStatus `json:"status"`
	RaffleID    string         `json:"raffleId"`
	CreatedAt   time.Time      `json:"createdAt"`
	Raffle      struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	} `json:"raffle"`
	Numbers []struct {
		Number int `json:"number"`
	} `json:"numbers"`
}

// PurchaseRequest представляет запрос на резерв номеров
type PurchaseRequest struct {
	RaffleID   string `json:"raffleId"`
	Numbers    []int  `json:"numbers"`
	BuyerName  string `json:"buyerName"`
	BuyerEmail string `json:"buyerEmail"`
	BuyerPhone string `json:"buyerPhone"`
	UserID     string `json:"userId,omitempty"`
}

// PurchaseResponse представляет ответ API на создание резерва
type PurchaseResponse struct {
	Success    bool   `json:"success"`
	PurchaseID string `json:"purchaseId"`
	Message    string `json:"message"`
}

// ActionResponse представляет ответ API на подтверждение/отмену резерва
type ActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DrawResult представляет результат розыгрыша
type DrawResult struct {
	Message       string        `json:"message"`
	WinningNumber int           `json:"winningNumber"`
	Winner        *RaffleWinner `json:"winner"`
	Raffle        *Raffle       `json:"raffle"`
}

// Winner представляет запись публичного списка победителей
type Winner struct {
	ID            string    `json:"id"`
	RaffleName    string    `json:"raffleName"`
	Prize         string    `json:"prize"`
	PrizeImage    *string   `json:"prizeImage"`
	WinningNumber int       `json:"winningNumber"`
	WinnerName    string    `json:"winnerName"`
	CompletedAt   time.Time `json:"completedAt"`
}

// AuthUser представляет пользователя API
type AuthUser struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	Role      UserRole `json:"role"`
	Phone     *string  `json:"phone,omitempty"`
	StoreID   *string  `json:"storeId,omitempty"`
	StoreName *string  `json:"storeName,omitempty"`
	StoreSlug *string  `json:"storeSlug,omitempty"`
}

// LoginResponse представляет ответ API на логин
type LoginResponse struct {
	User        AuthUser `json:"user"`
	AccessToken string   `json:"access_token"`
}

// SessionResponse представляет ответ API на проверку сессии
type SessionResponse struct {
	User *AuthUser `json:"user"`
}

// RaffleInput представляет тело создания или изменения розыгрыша.
// TotalNumbers nil при изменении: количество номеров после создания не меняется.
type RaffleInput struct {
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	Prize        string       `json:"prize"`
	PrizeImage   string       `json:"prizeImage,omitempty"`
	Price        float64      `json:"price"`
	Currency     string       `json:"currency"`
	TotalNumbers *int         `json:"totalNumbers,omitempty"`
	MaxPerUser   int          `json:"maxPerUser"`
	Status       RaffleStatus `json:"status"`
	DrawDate     *time.Time   `json:"drawDate"`
}

// UserPurchase представляет резерв в кабинете покупателя
type UserPurchase struct {
	ID          string         `json:"id"`
	BuyerName   string         `json:"buyerName"`
	BuyerEmail  string         `json:"buyerEmail"`
	TotalAmount float64        `json:"totalAmount"`
	Status      PurchaseStatus `json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	Raffle      struct {
		ID         string       `json:"id"`
		Name       string       `json:"name"`
		Prize      string       `json:"prize"`
		PrizeImage *string      `json:"prizeImage"`
		Status     RaffleStatus `json:"status"`
		DrawDate   *time.Time   `json:"drawDate"`
	} `json:"raffle"`
	Numbers []struct {
		Number int          `json:"number"`
		Status NumberStatus `json:"status"`
	} `json:"numbers"`
}
