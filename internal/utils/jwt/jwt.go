package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrMalformedToken возвращается, если токен API нельзя разобрать
var ErrMalformedToken = errors.New("malformed token")

// VisitorClaims представляет claims cookie посетителя
type VisitorClaims struct {
	VisitorID string `json:"vid"`
	jwt.RegisteredClaims
}

// Manager подписывает и проверяет cookie посетителя
type Manager struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewManager создает новый JWT manager
func NewManager(secretKey string, tokenTTL time.Duration) *Manager {
	return &Manager{
		secretKey: secretKey,
		tokenTTL:  tokenTTL,
	}
}

// TTL возвращает срок жизни cookie посетителя
func (m *Manager) TTL() time.Duration {
	return m.tokenTTL
}

// Generate генерирует подписанный токен для посетителя
func (m *Manager) Generate(visitorID uuid.UUID) (string, error) {
	now := time.Now()
	claims := VisitorClaims{
		VisitorID: visitorID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(m.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Validate проверяет токен и возвращает ID посетителя
func (m *Manager) Validate(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &VisitorClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Проверяем метод подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secretKey), nil
	})

	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*VisitorClaims)
	if !ok {
		return uuid.Nil, fmt.Errorf("invalid token claims")
	}

	visitorID, err := uuid.Parse(claims.VisitorID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid visitor id: %w", err)
	}

	return visitorID, nil
}

// APITokenInfo содержит данные из токена удаленного API
type APITokenInfo struct {
	Subject   string
	Role      string
	ExpiresAt time.Time // Нулевое значение, если exp отсутствует
}

// Expired сообщает, истек ли токен к моменту now
func (i APITokenInfo) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// apiClaims claims токена удаленного API
type apiClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// InspectAPIToken читает claims токена API без проверки подписи.
// Подпись проверяет только сам API.
func InspectAPIToken(tokenString string) (APITokenInfo, error) {
	claims := &apiClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return APITokenInfo{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	info := APITokenInfo{
		Subject: claims.Subject,
		Role:    claims.Role,
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}

	return info, nil
}
