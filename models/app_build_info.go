// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "fmt"

// notAvailable stands in for build metadata the linker did not inject.
const notAvailable = "N/A"

// AppBuildInfo is the version metadata injected into a binary with -ldflags.
// Every accessor reports "N/A" for a value that was not injected.
type AppBuildInfo struct {
	version string
	date    string
	commit  string
}

func NewAppBuildInfo(version, date, commit string) AppBuildInfo {
	return AppBuildInfo{version: version, date: date, commit: commit}
}

func (a AppBuildInfo) Version() string { return orNotAvailable(a.version) }
func (a AppBuildInfo) Date() string    { return orNotAvailable(a.date) }
func (a AppBuildInfo) Commit() string  { return orNotAvailable(a.commit) }

// String renders the one-line form used by --version output.
func (a AppBuildInfo) String() string {
	return fmt.Sprintf("%s (built %s, commit %s)", a.Version(), a.Date(), a.Commit())
}

func orNotAvailable(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
