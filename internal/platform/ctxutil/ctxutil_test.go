// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

package ctxutil_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoangbui/komiko/internal/platform/ctxutil"
	"github.com/hoangbui/komiko/internal/platform/sec"
)

/*
TestRequestID_RoundTrip checks storage and retrieval of the correlation ID.
*/
func TestRequestID_RoundTrip(t *testing.T) {
	ctx := ctxutil.WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", ctxutil.GetRequestID(ctx))
}

/*
TestRequestID_Missing checks the empty fallback for unset contexts.
*/
func TestRequestID_Missing(t *testing.T) {
	assert.Equal(t, "", ctxutil.GetRequestID(context.Background()))
}

/*
TestLogger_FallbackToDefault ensures GetLogger never returns nil.
*/
func TestLogger_FallbackToDefault(t *testing.T) {
	logger := ctxutil.GetLogger(context.Background())
	require.NotNil(t, logger)

	custom := slog.Default().With(slog.String("scope", "test"))
	ctx := ctxutil.WithLogger(context.Background(), custom)
	assert.Equal(t, custom, ctxutil.GetLogger(ctx))
}

/*
TestAuthUser_RoundTrip checks claim storage and anonymous fallback.
*/
func TestAuthUser_RoundTrip(t *testing.T) {
	assert.Nil(t, ctxutil.GetAuthUser(context.Background()))

	claims := &sec.AuthClaims{UserID: "u-1", Username: "hoang"}
	ctx := ctxutil.WithAuthUser(context.Background(), claims)

	got := ctxutil.GetAuthUser(ctx)
	require.NotNil(t, got)
	assert.Equal(t, "u-1", got.UserID)
}
