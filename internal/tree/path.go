// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tree

import "strings"

// RootSegment is the synthetic first segment of every change path.
const RootSegment = "root"

// SplitPath splits a change path into segments relative to the snapshot
// root. Empty segments are dropped, and so is a leading "root" segment.
// A folder literally named "root" deeper in the tree is kept.
func SplitPath(path string) []string {
	raw := strings.Split(path, "/")
	segments := make([]string, 0, len(raw))
	for _, s := range raw {
		if s != "" {
			segments = append(segments, s)
		}
	}

	if len(segments) > 0 && segments[0] == RootSegment {
		segments = segments[1:]
	}

	return segments
}

// JoinPath builds a change path below the synthetic root.
func JoinPath(segments ...string) string {
	return strings.Join(append([]string{RootSegment}, segments...), "/")
}
