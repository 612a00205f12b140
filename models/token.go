// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a JWT used to authenticate mirror clients.
//
// The "sub" claim carries the client identifier. ClientID caches it after
// parsing so handlers do not re-read claims.
type Token struct {
	*jwt.Token `json:"-"`

	jwt.RegisteredClaims

	// SignedString is the compact JWS form sent in the Authorization header.
	SignedString string `json:"-"`

	ClientID string `json:"-"`
}

// GetClientID returns the "sub" claim.
func (t *Token) GetClientID() (string, error) {
	clientID, err := t.GetSubject()
	if err != nil {
		return "", fmt.Errorf("error extracting ClientID from token: %w", err)
	}
	if clientID == "" {
		return "", errors.New("empty subject in token")
	}

	return clientID, nil
}

// String implements [fmt.Stringer].
func (t *Token) String() string {
	return t.SignedString
}
