// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-tree-mirror/internal/config"
	"github.com/MKhiriev/go-tree-mirror/internal/logger"
)

func newTestAuthService(key string) AuthService {
	return NewAuthService(config.App{
		TokenSignKey:  key,
		TokenIssuer:   "tree-mirror",
		TokenDuration: time.Hour,
	}, logger.Nop())
}

func TestAuthService_CreateAndParse(t *testing.T) {
	svc := newTestAuthService("secret")
	ctx := context.Background()

	require.True(t, svc.Enabled())

	token, err := svc.CreateToken(ctx, "agent-1")
	require.NoError(t, err)
	require.NotEmpty(t, token.SignedString)

	parsed, err := svc.ParseToken(ctx, token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, "agent-1", parsed.ClientID)
}

func TestAuthService_ParseRejectsForeignKey(t *testing.T) {
	ctx := context.Background()

	token, err := newTestAuthService("other").CreateToken(ctx, "agent-1")
	require.NoError(t, err)

	_, err = newTestAuthService("secret").ParseToken(ctx, token.SignedString)
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)

	_, err = newTestAuthService("secret").ParseToken(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}

func TestAuthService_CreateRequiresClientID(t *testing.T) {
	_, err := newTestAuthService("secret").CreateToken(context.Background(), "")
	assert.ErrorIs(t, err, ErrTokenCreationFailed)
}

func TestAuthService_Disabled(t *testing.T) {
	svc := newTestAuthService("")
	ctx := context.Background()

	assert.False(t, svc.Enabled())

	_, err := svc.CreateToken(ctx, "agent-1")
	assert.ErrorIs(t, err, ErrAuthDisabled)

	_, err = svc.ParseToken(ctx, "anything")
	assert.ErrorIs(t, err, ErrAuthDisabled)
}
