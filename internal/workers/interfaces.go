// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers runs the client background jobs.
package workers

import "context"

// Worker is a background job. Run blocks until ctx is done or the job
// fails; a nil error means a clean shutdown.
type Worker interface {
	Run(ctx context.Context) error
}

// Notifier receives out-of-schedule wake-ups.
type Notifier interface {
	Notify()
}

// SyncRecorder observes the outcome of every sync run.
type SyncRecorder interface {
	RecordSync(err error)
}
