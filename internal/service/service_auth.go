// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-tree-mirror/internal/config"
	"github.com/MKhiriev/go-tree-mirror/internal/logger"
	"github.com/MKhiriev/go-tree-mirror/internal/utils"
	"github.com/MKhiriev/go-tree-mirror/models"
)

// authService issues and verifies the bearer tokens of mirror clients.
// Tokens are HS256 JWTs whose subject is the client id; the sign key is
// shared between the server and its clients.
type authService struct {
	// tokenSignKey is the HMAC secret. Authentication is disabled when empty.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	tokenDuration time.Duration

	logger *logger.Logger
}

// NewAuthService constructs an AuthService from the token parameters of cfg.
// The returned service is safe for concurrent use.
func NewAuthService(cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		tokenSignKey:  cfg.TokenSignKey,
		tokenIssuer:   cfg.TokenIssuer,
		tokenDuration: cfg.TokenDuration,
		logger:        logger,
	}
}

func (a *authService) Enabled() bool {
	return a.tokenSignKey != ""
}

// CreateToken issues a signed JWT for clientID.
func (a *authService) CreateToken(ctx context.Context, clientID string) (models.Token, error) {
	if !a.Enabled() {
		return models.Token{}, ErrAuthDisabled
	}

	token, err := utils.GenerateJWTToken(a.tokenIssuer, clientID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "authService.CreateToken").Str("client_id", clientID).Msg("token creation failed")
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates tokenString. Any validation failure is reported as
// ErrTokenIsExpiredOrInvalid.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	if !a.Enabled() {
		return models.Token{}, ErrAuthDisabled
	}

	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Str("func", "authService.ParseToken").Msg("token rejected")
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}
