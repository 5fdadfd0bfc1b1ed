package domain

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const visitorIDKey contextKey = "visitor_id"

// WithVisitorID добавляет ID посетителя в контекст
func WithVisitorID(ctx context.Context, visitorID uuid.UUID) context.Context {
	return context.WithValue(ctx, visitorIDKey, visitorID)
}

// VisitorIDFromContext извлекает ID посетителя из контекста
func VisitorIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	visitorID, ok := ctx.Value(visitorIDKey).(uuid.UUID)
	return visitorID, ok
}
