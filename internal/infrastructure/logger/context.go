package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	shopIDKey    contextKey = "shop_id"
	userIDKey    contextKey = "user_id"
)

// WithContext returns a new context carrying the logger
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext retrieves the logger from context, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// WithRequestID stores the request ID and returns a logger enriched with it
func WithRequestID(ctx context.Context, l *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	enriched := l.With(zap.String("request_id", requestID))
	return WithContext(ctx, enriched), enriched
}

// WithShopID stores the effective shop ID and returns a logger enriched with it
func WithShopID(ctx context.Context, l *zap.Logger, shopID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, shopIDKey, shopID)
	enriched := l.With(zap.String("shop_id", shopID))
	return WithContext(ctx, enriched), enriched
}

// WithUserID stores the authenticated user ID and returns a logger enriched with it
func WithUserID(ctx context.Context, l *zap.Logger, userID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, userIDKey, userID)
	enriched := l.With(zap.String("user_id", userID))
	return WithContext(ctx, enriched), enriched
}

// RequestID retrieves the request ID from context
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// ShopID retrieves the effective shop ID from context
func ShopID(ctx context.Context) string {
	v, _ := ctx.Value(shopIDKey).(string)
	return v
}

// UserID retrieves the authenticated user ID from context
func UserID(ctx context.Context) string {
	v, _ := ctx.Value(userIDKey).(string)
	return v
}
