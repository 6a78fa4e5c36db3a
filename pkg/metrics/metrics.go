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

// Package metrics provides Prometheus instrumentation for split and recover
// operations. Metrics live on a dedicated registry so the CLI can write them
// to a node-exporter textfile at exit without the Go runtime collectors.
package metrics

import (
	"errors"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jeremyhahn/go-shamir/pkg/crypto/secretsharing"
	"github.com/jeremyhahn/go-shamir/pkg/field"
	"github.com/jeremyhahn/go-shamir/pkg/shamir"
)

const (
	// Namespace is the Prometheus namespace for all metrics
	Namespace = "shamir"

	// Label names
	LabelOperation = "operation"
	LabelField     = "field"
	LabelStatus    = "status"
	LabelErrorType = "error_type"

	// Status values
	StatusSuccess = "success"
	StatusError   = "error"

	// Operation names
	OpSplit   = "split"
	OpRecover = "recover"
	OpVerify  = "verify"

	// Error types
	ErrorTypeInvalidThreshold   = "invalid_threshold"
	ErrorTypeInsufficientShares = "insufficient_shares"
	ErrorTypeDuplicatePoints    = "duplicate_points"
	ErrorTypeInvalidPoint       = "invalid_point"
	ErrorTypeMalformedShare     = "malformed_share"
	ErrorTypeSecretTooLarge     = "secret_too_large"
	ErrorTypeEmptySecret        = "empty_secret"
	ErrorTypeField              = "field"
	ErrorTypeOther              = "other"
)

var (
	// Registry holds every metric in this package
	Registry = prometheus.NewRegistry()

	factory = promauto.With(Registry)

	// OperationsTotal tracks split and recover operations by field and status.
	OperationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "operations_total",
			Help:      "Total number of secret sharing operations by type, field, and status",
		},
		[]string{LabelOperation, LabelField, LabelStatus},
	)

	// OperationDuration tracks operation latency. Interpolation over the
	// 1279-bit field is in the sub-millisecond to millisecond range.
	OperationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of secret sharing operations in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{LabelOperation, LabelField},
	)

	// SharesTotal counts shares produced by split and consumed by recover.
	SharesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "shares_total",
			Help:      "Total number of shares produced or consumed by operation",
		},
		[]string{LabelOperation},
	)

	// ErrorsTotal tracks failures by error type.
	ErrorsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "errors_total",
			Help:      "Total number of errors by operation, field, and error type",
		},
		[]string{LabelOperation, LabelField, LabelErrorType},
	)

	// RecoveredNonText counts recoveries whose bytes were not valid UTF-8.
	RecoveredNonText = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "recovered_non_text_total",
			Help:      "Total number of recoveries that fell back to raw bytes",
		},
	)

	enabled atomic.Bool
)

func init() {
	enabled.Store(true)
}

// RecordOperation records an operation with its duration and status.
//
// Example:
//
//	start := time.Now()
//	shares, err := scheme.Split(secret, n, t)
//	metrics.RecordOperation(metrics.OpSplit, "m1279", metrics.Status(err), time.Since(start).Seconds())
func RecordOperation(operation, fieldName, status string, duration float64) {
	if !enabled.Load() {
		return
	}
	OperationsTotal.WithLabelValues(operation, fieldName, status).Inc()
	OperationDuration.WithLabelValues(operation, fieldName).Observe(duration)
}

// RecordError records a failed operation under the error type of err.
func RecordError(operation, fieldName string, err error) {
	if !enabled.Load() || err == nil {
		return
	}
	ErrorsTotal.WithLabelValues(operation, fieldName, ErrorType(err)).Inc()
}

// AddShares adds n to the share counter of operation.
func AddShares(operation string, n int) {
	if !enabled.Load() {
		return
	}
	SharesTotal.WithLabelValues(operation).Add(float64(n))
}

// RecordNonText records a raw-bytes recovery.
func RecordNonText() {
	if !enabled.Load() {
		return
	}
	RecoveredNonText.Inc()
}

// Status returns StatusError for a non-nil err and StatusSuccess otherwise.
func Status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}

// ErrorType maps an error to its error_type label value.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, shamir.ErrInvalidThreshold):
		return ErrorTypeInvalidThreshold
	case errors.Is(err, shamir.ErrInsufficientShares):
		return ErrorTypeInsufficientShares
	case errors.Is(err, shamir.ErrDuplicatePoints):
		return ErrorTypeDuplicatePoints
	case errors.Is(err, shamir.ErrInvalidPoint):
		return ErrorTypeInvalidPoint
	case errors.Is(err, secretsharing.ErrMalformedShare):
		return ErrorTypeMalformedShare
	case errors.Is(err, shamir.ErrSecretTooLarge):
		return ErrorTypeSecretTooLarge
	case errors.Is(err, shamir.ErrEmptySecret):
		return ErrorTypeEmptySecret
	case errors.Is(err, field.ErrNotPrime), errors.Is(err, field.ErrUnknownField):
		return ErrorTypeField
	default:
		return ErrorTypeOther
	}
}

// WriteTextfile writes the registry in the Prometheus text format to path,
// for collection by the node-exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}

// Enable enables metrics collection.
func Enable() {
	enabled.Store(true)
}

// Disable disables metrics collection.
// Useful for testing or when metrics are not desired.
func Disable() {
	enabled.Store(false)
}

// IsEnabled returns whether metrics collection is currently enabled.
func IsEnabled() bool {
	return enabled.Load()
}
