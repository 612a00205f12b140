// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is the resty client used by the server adapter.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns a JSON client that retries transport failures and
// 502/503/504 responses a few times with backoff.
func NewHTTPClient() *HTTPClient {
	client := resty.New().
		SetHeader("Accept", "application/json").
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			switch resp.StatusCode() {
			case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
				return true
			}
			return false
		})

	return &HTTPClient{Client: client}
}
