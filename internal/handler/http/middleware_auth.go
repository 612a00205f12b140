// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-tree-mirror/internal/app"
	"github.com/MKhiriev/go-tree-mirror/internal/logger"
	"github.com/MKhiriev/go-tree-mirror/internal/utils"
)

// auth enforces bearer JWT authentication when the server has a sign key.
// Without one every request passes through unchanged.
//
// On success the client id from the token subject is stored under
// [utils.ClientIDCtxKey] and added to the request logger. Requests are
// rejected with 401 when the header is missing or malformed, or when the
// token fails validation.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authService := h.services.AuthService
		if authService == nil || !authService.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			utils.WriteResponse(w, http.StatusUnauthorized, nil, ErrEmptyAuthorizationHeader.Error())
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Err(err).Send()
			utils.WriteResponse(w, http.StatusUnauthorized, nil, ErrInvalidAuthorizationHeader.Error())
			return
		}

		ctx := r.Context()
		token, err := authService.ParseToken(ctx, tokenString)
		if err != nil {
			log.Err(err).Msg("error occurred during parsing token")
			utils.WriteResponse(w, http.StatusUnauthorized, nil, app.MsgTokenIsExpiredOrInvalid)
			return
		}

		l := logger.FromContext(ctx).GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("client_id", token.ClientID)
		})
		ctx = context.WithValue(l.WithContext(ctx), utils.ClientIDCtxKey, token.ClientID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
