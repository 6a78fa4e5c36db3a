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

// Package shamir enforces the share threshold on top of the field-level
// scheme in package secretsharing.
//
// The interpolation used by secretsharing accepts any two or more distinct
// shares and cannot tell whether enough of them were supplied. Shares created
// here carry their threshold, total and a batch id, and Combine refuses to
// reconstruct from fewer than threshold shares or from shares of different
// batches.
package shamir

import (
	"fmt"
	"math/big"

	"github.com/google/uuid"

	"github.com/jeremyhahn/go-shamir/pkg/crypto/secretsharing"
	"github.com/jeremyhahn/go-shamir/pkg/field"
	core "github.com/jeremyhahn/go-shamir/pkg/shamir"
)

// Metadata keys set by Split
const (
	MetadataBatchID = "batch_id"
	MetadataField   = "field"
)

// Split divides a secret into N shares where any M shares can reconstruct it.
//
// Parameters:
//   - secret: The secret data to split
//   - threshold: Minimum number of shares needed to reconstruct (M)
//   - total: Total number of shares to create (N)
//
// Example:
//
//	secret := []byte("my secret key")
//	shares, err := shamir.Split(secret, 3, 5)
//	// Creates 5 shares, any 3 can reconstruct the secret
func Split(secret []byte, threshold, total int) ([]*Share, error) {
	return SplitWithScheme(secretsharing.Default(), secret, threshold, total)
}

// SplitWithScheme is Split using the field and random source of scheme.
func SplitWithScheme(scheme *secretsharing.Scheme, secret []byte, threshold, total int) ([]*Share, error) {
	if scheme == nil {
		return nil, fmt.Errorf("scheme cannot be nil")
	}
	if len(secret) == 0 {
		return nil, core.ErrEmptySecret
	}

	tokens, err := scheme.Split(secret, total, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to split secret: %w", err)
	}

	batchID := uuid.New().String()
	shares := make([]*Share, len(tokens))
	for i, token := range tokens {
		shares[i] = &Share{
			Index:     token.Index,
			Threshold: threshold,
			Total:     total,
			Value:     token.Value,
			Metadata: map[string]string{
				MetadataBatchID: batchID,
				MetadataField:   scheme.Field().Name(),
			},
		}
	}

	return shares, nil
}

// Combine reconstructs the original secret from M or more shares.
// Any subset of M shares from the original N shares can be used.
//
// The field is taken from the shares' metadata; shares split in a custom
// field must be combined with CombineWithScheme.
func Combine(shares []*Share) ([]byte, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("%w: no shares provided", core.ErrInsufficientShares)
	}
	if shares[0] == nil {
		return nil, fmt.Errorf("share 0: %w", ErrNilShare)
	}
	scheme, err := schemeFor(shares[0])
	if err != nil {
		return nil, err
	}
	return CombineWithScheme(scheme, shares)
}

// CombineWithScheme is Combine in the field of scheme.
func CombineWithScheme(scheme *secretsharing.Scheme, shares []*Share) ([]byte, error) {
	if scheme == nil {
		return nil, fmt.Errorf("scheme cannot be nil")
	}
	if err := validateSet(shares); err != nil {
		return nil, err
	}
	if err := checkField(scheme, shares[0]); err != nil {
		return nil, err
	}

	threshold := shares[0].Threshold
	if len(shares) < threshold {
		return nil, fmt.Errorf("%w: need at least %d shares, got %d",
			core.ErrInsufficientShares, threshold, len(shares))
	}

	secret, err := scheme.Recover(tokens(shares))
	if err != nil {
		return nil, fmt.Errorf("failed to combine shares: %w", err)
	}
	return secret, nil
}

// VerifyShare checks if a share is valid and consistent with other shares.
// When at least threshold other shares are given it also checks that share
// lies on the polynomial they define, which detects corrupted or tampered
// values. The field is taken from the share's metadata; shares split in a
// custom field must be verified with VerifyShareWithScheme.
func VerifyShare(share *Share, otherShares []*Share) error {
	if err := checkConsistency(share, otherShares); err != nil {
		return err
	}
	if len(otherShares) < share.Threshold {
		return nil
	}
	scheme, err := schemeFor(share)
	if err != nil {
		return err
	}
	return checkOnPolynomial(scheme, share, otherShares)
}

// VerifyShareWithScheme is VerifyShare in the field of scheme.
func VerifyShareWithScheme(scheme *secretsharing.Scheme, share *Share, otherShares []*Share) error {
	if scheme == nil {
		return fmt.Errorf("scheme cannot be nil")
	}
	if err := checkConsistency(share, otherShares); err != nil {
		return err
	}
	if err := checkField(scheme, share); err != nil {
		return err
	}
	if len(otherShares) < share.Threshold {
		return nil
	}
	return checkOnPolynomial(scheme, share, otherShares)
}

func checkConsistency(share *Share, otherShares []*Share) error {
	if share == nil {
		return ErrNilShare
	}
	if err := share.Validate(); err != nil {
		return err
	}

	for i, other := range otherShares {
		if other == nil {
			return fmt.Errorf("share %d: %w", i, ErrNilShare)
		}
		if other.Threshold != share.Threshold {
			return fmt.Errorf("share threshold mismatch with share %d: %d != %d",
				i, other.Threshold, share.Threshold)
		}
		if other.Total != share.Total {
			return fmt.Errorf("share total mismatch with share %d: %d != %d",
				i, other.Total, share.Total)
		}
		if other.Index == share.Index {
			return fmt.Errorf("%w: duplicate share index: %d", core.ErrDuplicatePoints, share.Index)
		}
		if other.batchID() != share.batchID() {
			return fmt.Errorf("share batch mismatch with share %d", i)
		}
	}
	return nil
}

// checkField rejects a share stamped with a field other than the scheme's.
// Unstamped shares are accepted.
func checkField(scheme *secretsharing.Scheme, share *Share) error {
	if name := share.Metadata[MetadataField]; name != "" && name != scheme.Field().Name() {
		return fmt.Errorf("shares were split in field %s, scheme uses %s", name, scheme.Field().Name())
	}
	return nil
}

func checkOnPolynomial(scheme *secretsharing.Scheme, share *Share, otherShares []*Share) error {
	points, err := scheme.Points(tokens(otherShares))
	if err != nil {
		return err
	}
	want, err := core.Interpolate(scheme.Field(), points, big.NewInt(int64(share.Index)))
	if err != nil {
		return err
	}
	got, err := scheme.Points([]secretsharing.Share{share.Token()})
	if err != nil {
		return err
	}
	if got[0].Y.Cmp(want) != 0 {
		return fmt.Errorf("share %d is not consistent with the other shares", share.Index)
	}
	return nil
}

func validateSet(shares []*Share) error {
	if len(shares) == 0 {
		return fmt.Errorf("%w: no shares provided", core.ErrInsufficientShares)
	}

	first := shares[0]
	seen := make(map[int]int, len(shares))
	if first == nil {
		return fmt.Errorf("share 0: %w", ErrNilShare)
	}
	for i, share := range shares {
		if share == nil {
			return fmt.Errorf("share %d: %w", i, ErrNilShare)
		}
		if err := share.Validate(); err != nil {
			return fmt.Errorf("invalid share %d: %w", i, err)
		}
		if share.Threshold != first.Threshold {
			return fmt.Errorf("share %d has different threshold (%d) than share 0 (%d)",
				i, share.Threshold, first.Threshold)
		}
		if share.Total != first.Total {
			return fmt.Errorf("share %d has different total (%d) than share 0 (%d)",
				i, share.Total, first.Total)
		}
		if share.batchID() != first.batchID() {
			return fmt.Errorf("share %d belongs to a different batch than share 0", i)
		}
		if j, ok := seen[share.Index]; ok {
			return fmt.Errorf("%w: shares %d and %d both have index %d",
				core.ErrDuplicatePoints, j, i, share.Index)
		}
		seen[share.Index] = i
	}
	return nil
}

func schemeFor(share *Share) (*secretsharing.Scheme, error) {
	name := share.Metadata[MetadataField]
	if name == "" {
		return secretsharing.Default(), nil
	}
	if name == field.NameCustom {
		return nil, fmt.Errorf("share %d: %w: custom fields need an explicit scheme",
			share.Index, field.ErrUnknownField)
	}
	f, err := field.ByName(name)
	if err != nil {
		return nil, fmt.Errorf("share %d: %w", share.Index, err)
	}
	return secretsharing.NewScheme(&secretsharing.Config{Field: f})
}

func tokens(shares []*Share) []secretsharing.Share {
	out := make([]secretsharing.Share, len(shares))
	for i, share := range shares {
		out[i] = share.Token()
	}
	return out
}
