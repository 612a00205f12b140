// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"context"
)

type contextKey string

func (c contextKey) String() string {
	return string(c)
}

var (
	// ClientIDCtxKey holds the authenticated client identifier.
	ClientIDCtxKey = contextKey("clientID")
	// TraceIDCtxKey holds the request trace id.
	TraceIDCtxKey = contextKey("traceID")
)

// GetClientIDFromContext returns the client id stored by the auth middleware.
func GetClientIDFromContext(ctx context.Context) (string, bool) {
	clientID, ok := ctx.Value(ClientIDCtxKey).(string)
	return clientID, ok
}

// GetTraceIDFromContext returns the trace id stored by the trace-id middleware.
func GetTraceIDFromContext(ctx context.Context) (string, bool) {
	traceID, ok := ctx.Value(TraceIDCtxKey).(string)
	return traceID, ok
}
