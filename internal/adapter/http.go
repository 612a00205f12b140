// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-tree-mirror/internal/config"
	"github.com/MKhiriev/go-tree-mirror/internal/logger"
	"github.com/MKhiriev/go-tree-mirror/internal/utils"
	"github.com/MKhiriev/go-tree-mirror/models"
)

// envelope mirrors models.APIResponse with the payload left undecoded.
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

type httpServerAdapter struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of [ServerAdapter].
// It normalises and validates the base URL from adapterCfg.HTTPAddress and
// configures the underlying HTTP client with it and the request timeout.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, logger *logger.Logger) (ServerAdapter, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	return &httpServerAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", errors.New("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Version implements [ServerAdapter] via GET /api/version.
func (h *httpServerAdapter) Version(ctx context.Context) (string, error) {
	resp, err := h.request(ctx).Get("/api/version")
	if err != nil {
		return "", fmt.Errorf("version request: %w", err)
	}

	var version models.VersionResponse
	if err = decodeData(resp, &version); err != nil {
		return "", err
	}

	return version.Version, nil
}

// Setup implements [ServerAdapter] via POST /api/setup.
func (h *httpServerAdapter) Setup(ctx context.Context, root *models.Folder) error {
	resp, err := h.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.SetupRequest{File: root}).
		Post("/api/setup")
	if err != nil {
		return fmt.Errorf("setup request: %w", err)
	}

	return mapHTTPError(resp)
}

// PushChangeSet implements [ServerAdapter] via POST /api/changeset.
func (h *httpServerAdapter) PushChangeSet(ctx context.Context, cs models.ChangeSet) (models.Summary, error) {
	resp, err := h.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(cs).
		Post("/api/changeset")
	if err != nil {
		return models.Summary{}, fmt.Errorf("push change set request: %w", err)
	}

	var summary models.Summary
	if err = decodeData(resp, &summary); err != nil {
		return models.Summary{}, err
	}

	return summary, nil
}

// UpdateDiff implements [ServerAdapter] via POST /api/updatediff.
func (h *httpServerAdapter) UpdateDiff(ctx context.Context, root *models.Folder) (models.ChangeSet, error) {
	resp, err := h.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.UpdateDiffRequest{File: root}).
		Post("/api/updatediff")
	if err != nil {
		return models.ChangeSet{}, fmt.Errorf("update diff request: %w", err)
	}

	var cs models.ChangeSet
	if err = decodeData(resp, &cs); err != nil {
		return models.ChangeSet{}, err
	}

	return cs, nil
}

// FetchStructure implements [ServerAdapter] via GET /api/structure.
func (h *httpServerAdapter) FetchStructure(ctx context.Context) (*models.Folder, error) {
	resp, err := h.request(ctx).Get("/api/structure")
	if err != nil {
		return nil, fmt.Errorf("fetch structure request: %w", err)
	}

	var root models.Folder
	if err = decodeData(resp, &root); err != nil {
		return nil, err
	}

	return &root, nil
}

func (h *httpServerAdapter) request(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

// decodeData maps error statuses and decodes the envelope payload into dst.
func decodeData(resp *resty.Response, dst any) error {
	if err := mapHTTPError(resp); err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return fmt.Errorf("decode response envelope: %w", err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return errors.New("empty response data")
	}

	if err := json.Unmarshal(env.Data, dst); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}

	return nil
}
