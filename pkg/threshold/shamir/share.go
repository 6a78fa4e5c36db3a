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

package shamir

import (
	"errors"
	"fmt"

	"github.com/jeremyhahn/go-shamir/pkg/crypto/secretsharing"
)

// ErrNilShare is returned when a nil share is passed in a share set
var ErrNilShare = errors.New("threshold: nil share")

// Share represents a single piece of a secret split using Shamir's Secret Sharing.
// Each share contains the data needed to reconstruct the secret when combined with
// M-1 other shares.
type Share struct {
	// Index is the share number (1 to N)
	Index int `json:"index" yaml:"index"`

	// Threshold is the minimum number of shares required to reconstruct (M)
	Threshold int `json:"threshold" yaml:"threshold"`

	// Total is the total number of shares created (N)
	Total int `json:"total" yaml:"total"`

	// Value is the share's y-coordinate as zero-padded hex
	Value string `json:"value" yaml:"value"`

	// Metadata contains the batch id, the field name and any caller data
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Token returns the share in its "<index>-<hex>" wire form.
func (s *Share) Token() secretsharing.Share {
	return secretsharing.Share{Index: s.Index, Value: s.Value}
}

// String returns a string representation of the share (for debugging)
func (s *Share) String() string {
	if s == nil {
		return "Share{<nil>}"
	}
	return fmt.Sprintf("Share{Index: %d, Threshold: %d/%d, Value: %s...}",
		s.Index, s.Threshold, s.Total, s.Value[:min(len(s.Value), 16)])
}

// Validate checks if the share has valid parameters
func (s *Share) Validate() error {
	if s == nil {
		return ErrNilShare
	}
	if s.Index < 1 {
		return fmt.Errorf("invalid share index: %d (must be >= 1)", s.Index)
	}
	if s.Threshold < 2 {
		return fmt.Errorf("invalid threshold: %d (must be >= 2)", s.Threshold)
	}
	if s.Total < s.Threshold {
		return fmt.Errorf("invalid total: %d (must be >= threshold %d)", s.Total, s.Threshold)
	}
	if s.Index > s.Total {
		return fmt.Errorf("invalid share index: %d (must be <= total %d)", s.Index, s.Total)
	}
	if s.Value == "" {
		return fmt.Errorf("share value is empty")
	}
	if _, err := secretsharing.ParseShare(s.Token().String()); err != nil {
		return err
	}
	return nil
}

func (s *Share) batchID() string {
	return s.Metadata[MetadataBatchID]
}
