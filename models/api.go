// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// APIResponse is the JSON envelope returned by every API endpoint.
type APIResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// NewAPIResponse builds an envelope; Success is derived from the status code.
func NewAPIResponse(statusCode int, data any, message string) APIResponse {
	return APIResponse{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    statusCode < 400,
	}
}

// SetupRequest carries a full snapshot that replaces the last known tree.
type SetupRequest struct {
	File *Folder `json:"file"`
}

// UpdateDiffRequest carries the current snapshot; the server computes and
// applies the change set against its last known tree.
type UpdateDiffRequest struct {
	File *Folder `json:"file"`
}

// VersionResponse is returned by the version endpoint.
type VersionResponse struct {
	Version string `json:"version"`
}
