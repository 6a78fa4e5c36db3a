// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-shamir.
//
// go-shamir is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package correlation describes one CLI run: a uuid that appears on every
// log record the run writes, the operation it performs and when it started.
// Records of a run can then be grouped when logs are shipped as JSON.
package correlation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// RunKey is the context key for storing the current Run
	RunKey contextKey = "correlation-run"

	// Log attribute keys
	LogKeyID        = "correlation_id"
	LogKeyOperation = "operation"
)

// Run identifies one invocation
type Run struct {
	ID        string
	Operation string
	Started   time.Time
}

// NewRun starts a run with a fresh ID
func NewRun(operation string) *Run {
	return &Run{
		ID:        NewID(),
		Operation: operation,
		Started:   time.Now(),
	}
}

// NewID generates a new UUID v4 correlation ID.
func NewID() string {
	return uuid.New().String()
}

// WithRun stores run in the context.
func WithRun(ctx context.Context, run *Run) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, RunKey, run)
}

// FromContext returns the run stored in ctx, or nil.
func FromContext(ctx context.Context) *Run {
	if ctx == nil {
		return nil
	}
	run, _ := ctx.Value(RunKey).(*Run)
	return run
}

// FromContextOrNew returns the run stored in ctx, or starts a new one for
// operation.
func FromContextOrNew(ctx context.Context, operation string) *Run {
	if run := FromContext(ctx); run != nil {
		return run
	}
	return NewRun(operation)
}

// LogAttrs returns the key/value pairs to attach to a logger. The operation
// is omitted until it is known.
func (r *Run) LogAttrs() []any {
	attrs := []any{LogKeyID, r.ID}
	if r.Operation != "" {
		attrs = append(attrs, LogKeyOperation, r.Operation)
	}
	return attrs
}

// Elapsed returns the time since the run started
func (r *Run) Elapsed() time.Duration {
	return time.Since(r.Started)
}
