// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-tree-mirror/internal/config"
	"github.com/MKhiriev/go-tree-mirror/internal/logger"
)

func TestAppInfoService(t *testing.T) {
	tests := []struct {
		name    string
		version string
		wantErr error
	}{
		{name: "release", version: "1.4.0"},
		{name: "pre-release with build metadata", version: "v1.2.3-beta+build.42"},
		{name: "missing version", version: "", wantErr: ErrVersionIsNotSpecified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewAppInfoService(config.App{Version: tt.version}, logger.Nop())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, svc)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.version, svc.GetAppVersion(context.Background()))
		})
	}
}
