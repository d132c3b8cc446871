package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestFromContext_FallsBackToNop(t *testing.T) {
	l := FromContext(context.Background())
	assert.NotNil(t, l)
}

func TestWithRequestID_RoundTrip(t *testing.T) {
	ctx, enriched := WithRequestID(context.Background(), zap.NewNop(), "req-123")
	assert.Equal(t, "req-123", RequestID(ctx))
	assert.Same(t, enriched, FromContext(ctx))
}

func TestWithShopAndUserID(t *testing.T) {
	ctx := context.Background()
	ctx, _ = WithShopID(ctx, zap.NewNop(), "shop-1")
	ctx, _ = WithUserID(ctx, zap.NewNop(), "user-1")

	assert.Equal(t, "shop-1", ShopID(ctx))
	assert.Equal(t, "user-1", UserID(ctx))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "debug", parseLevel("debug").String())
	assert.Equal(t, "warn", parseLevel("warning").String())
	assert.Equal(t, "info", parseLevel("bogus").String())
}
