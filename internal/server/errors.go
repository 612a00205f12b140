// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var (
	errNoHTTPHandler = errors.New("server requires an http handler")
	errNoHTTPAddress = errors.New("server requires an http address")
)
