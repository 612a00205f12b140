// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-tree-mirror/internal/service"
	"github.com/MKhiriev/go-tree-mirror/internal/store"
	"github.com/MKhiriev/go-tree-mirror/internal/validators"
	"github.com/MKhiriev/go-tree-mirror/models"
)

const docsSnapshot = `{"file":{"type":"folder","name":"root","contentHash":"r1","children":[
	{"type":"folder","name":"docs","contentHash":"d1","children":[
		{"type":"file","name":"a.txt","contentHash":"h1","size":10,"lastModified":"2026-03-01T12:00:00Z"}
	]}
]}}`

func TestSetup(t *testing.T) {
	h, m := newTestHandler(t)
	m.authDisabled()

	m.tree.EXPECT().Setup(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, root *models.Folder) error {
			require.NotNil(t, root)
			assert.Equal(t, "r1", root.ContentHash)
			require.Len(t, root.Children, 1)
			return nil
		})

	rec := serve(h.Init(), http.MethodPost, "/api/setup", docsSnapshot)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.JSONEq(t, `{"total":2,"added":2,"removed":0,"modified":0,"unchanged":0}`, string(env.Data))
}

func TestSetup_InvalidJSON(t *testing.T) {
	h, m := newTestHandler(t)
	m.authDisabled()

	rec := serve(h.Init(), http.MethodPost, "/api/setup", `{"file":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Contains(t, env.Message, ErrInvalidJSON.Error())
}

func TestSetup_UnknownNodeType(t *testing.T) {
	h, m := newTestHandler(t)
	m.authDisabled()

	rec := serve(h.Init(), http.MethodPost, "/api/setup", `{"file":{"name":"root","children":[{"type":"link","name":"x"}]}}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStructure(t *testing.T) {
	t.Run("stored", func(t *testing.T) {
		h, m := newTestHandler(t)
		m.authDisabled()
		m.tree.EXPECT().Current(gomock.Any()).Return(models.NewFolder("root", "r1"), nil)

		rec := serve(h.Init(), http.MethodGet, "/api/structure", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var root models.Folder
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &root))
		assert.Equal(t, "r1", root.ContentHash)
	})

	t.Run("before setup", func(t *testing.T) {
		h, m := newTestHandler(t)
		m.authDisabled()
		m.tree.EXPECT().Current(gomock.Any()).Return(nil, service.ErrNoSnapshot)

		rec := serve(h.Init(), http.MethodGet, "/api/structure", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, service.ErrNoSnapshot.Error(), decodeEnvelope(t, rec).Message)
	})
}

func TestStoreStructure(t *testing.T) {
	h, m := newTestHandler(t)
	m.authDisabled()
	m.tree.EXPECT().StoreStructure(gomock.Any()).
		Return(models.NewFolder("root", "", models.NewFolder("docs", "")), nil)

	rec := serve(h.Init(), http.MethodGet, "/api/structure/store", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var root models.Folder
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &root))
	require.Len(t, root.Children, 1)
	assert.Equal(t, "docs", root.Children[0].NodeName())
}

func TestUpdateDiff(t *testing.T) {
	h, m := newTestHandler(t)
	m.authDisabled()

	cs := models.NewChangeSet(testTime, []models.ChangeRecord{{
		ChangeType: models.ChangeAdded,
		Path:       "root/docs",
		NewNode:    models.NewFolder("docs", "d1"),
	}})
	m.tree.EXPECT().UpdateFromSnapshot(gomock.Any(), gomock.Any()).Return(cs, nil)

	rec := serve(h.Init(), http.MethodPost, "/api/updatediff", docsSnapshot)

	require.Equal(t, http.StatusOK, rec.Code)
	var got models.ChangeSet
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &got))
	assert.Equal(t, 1, got.Summary.Added)
	require.Len(t, got.Changes, 1)
	assert.Equal(t, "root/docs", got.Changes[0].Path)
}

func TestChangeSet(t *testing.T) {
	h, m := newTestHandler(t)
	m.authDisabled()

	body := `{"timestamp":"2026-03-01T12:00:00Z","summary":{"total":1,"added":1},"changes":[
		{"changeType":"added","path":"root/docs/b.txt","newNode":{"type":"file","name":"b.txt","contentHash":"h2"}}
	]}`

	m.tree.EXPECT().ApplyChangeSet(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, cs models.ChangeSet) (*models.Folder, error) {
			require.Len(t, cs.Changes, 1)
			assert.Equal(t, models.ChangeAdded, cs.Changes[0].ChangeType)
			assert.IsType(t, &models.File{}, cs.Changes[0].NewNode)
			return models.NewFolder("root", ""), nil
		})

	rec := serve(h.Init(), http.MethodPost, "/api/changeset", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total":1,"added":1,"removed":0,"modified":0,"unchanged":0}`, string(decodeEnvelope(t, rec).Data))
}

func TestChangeSet_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "malformed",
			err:        fmt.Errorf("%w: %w", service.ErrMalformedChange, validators.ErrMissingNewNode),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "conflict",
			err:        fmt.Errorf("%w: path %q: %w", service.ErrReconcileFailed, "root/docs", store.ErrStoreConflict),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "unavailable",
			err:        fmt.Errorf("%w: path %q: %w", service.ErrReconcileFailed, "root/docs", store.ErrStoreUnavailable),
			wantStatus: http.StatusServiceUnavailable,
			wantMsg:    http.StatusText(http.StatusServiceUnavailable),
		},
		{
			name:       "unexpected",
			err:        errors.New("disk on fire"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    http.StatusText(http.StatusInternalServerError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newTestHandler(t)
			m.authDisabled()
			m.tree.EXPECT().ApplyChangeSet(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			rec := serve(h.Init(), http.MethodPost, "/api/changeset", `{"changes":[]}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.False(t, env.Success)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, env.Message)
			} else {
				assert.Equal(t, tt.err.Error(), env.Message)
			}
		})
	}
}

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrInvalidJSON, http.StatusBadRequest},
		{service.ErrMalformedChange, http.StatusBadRequest},
		{service.ErrNoSnapshot, http.StatusNotFound},
		{service.ErrTokenIsExpiredOrInvalid, http.StatusUnauthorized},
		{fmt.Errorf("%w: %w", service.ErrReconcileFailed, store.ErrStoreConflict), http.StatusConflict},
		{store.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{service.ErrReconcileFailed, http.StatusInternalServerError},
		{service.ErrCorruptedSnapshot, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFromError(tt.err))
		})
	}
}
