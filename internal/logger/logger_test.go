// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("tree-mirror-server")
	l.Logger = l.Output(&buf)

	l.Info().Msg("started")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "tree-mirror-server", entry["role"])
	assert.Contains(t, entry, "time")
	assert.Equal(t, "func", zerolog.CallerFieldName)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestNop_DiscardsOutput(t *testing.T) {
	var buf bytes.Buffer
	l := Nop()
	l.Logger = l.Output(&buf)

	l.Error().Msg("dropped")

	assert.Empty(t, buf.String())
}

func TestGetChildLogger_InheritsFields(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger("sync")
	parent.Logger = parent.Output(&buf)

	child := parent.GetChildLogger()
	child.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("client_id", "laptop")
	})
	child.Info().Msg("pushed")

	assert.NotSame(t, parent, child)
	entry := decodeEntry(t, &buf)
	assert.Equal(t, "sync", entry["role"])
	assert.Equal(t, "laptop", entry["client_id"])
}

func TestFromContextAndRequest(t *testing.T) {
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).With().Str("trace_id", "abc").Logger().WithContext(context.Background())

	FromContext(ctx).Info().Msg("from context")
	assert.Equal(t, "abc", decodeEntry(t, &buf)["trace_id"])

	buf.Reset()
	req := httptest.NewRequest(http.MethodGet, "/api/structure", nil).WithContext(ctx)
	FromRequest(req).Info().Msg("from request")
	assert.Equal(t, "abc", decodeEntry(t, &buf)["trace_id"])

	require.NotNil(t, FromContext(context.Background()))
}

func TestNewCLILogger_Level(t *testing.T) {
	var buf bytes.Buffer

	l := NewCLILogger("cli", &buf, false)
	l.Debug().Msg("hidden")
	l.Info().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "role=cli")

	buf.Reset()
	NewCLILogger("cli", &buf, true).Debug().Msg("debug entry")
	assert.Contains(t, buf.String(), "debug entry")
}
