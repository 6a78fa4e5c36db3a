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

package secretsharing

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"unicode/utf8"

	"github.com/jeremyhahn/go-shamir/pkg/field"
	"github.com/jeremyhahn/go-shamir/pkg/shamir"
)

// Config configures a Scheme.
type Config struct {
	// Field is the prime field shares are computed in. Defaults to
	// field.Default().
	Field *field.Field

	// Rand is the source of polynomial coefficients. Defaults to
	// crypto/rand.Reader.
	Rand io.Reader
}

// Scheme splits and recovers secrets in one field.
type Scheme struct {
	field *field.Field
	rand  io.Reader
}

// Recovered is the result of RecoverText.
type Recovered struct {
	// Secret is the recovered byte sequence
	Secret []byte

	// Text is Secret as a string when IsText is true
	Text string

	// IsText reports whether Secret is valid UTF-8
	IsText bool
}

var defaultScheme = &Scheme{
	field: field.Default(),
	rand:  rand.Reader,
}

// NewScheme creates a Scheme. A nil config uses the defaults.
func NewScheme(config *Config) (*Scheme, error) {
	s := &Scheme{
		field: field.Default(),
		rand:  rand.Reader,
	}
	if config == nil {
		return s, nil
	}
	if config.Field != nil {
		s.field = config.Field
	}
	if config.Rand != nil {
		s.rand = config.Rand
	}
	return s, nil
}

// Field returns the field the scheme computes in.
func (s *Scheme) Field() *field.Field {
	return s.field
}

// MaxSecretLen returns the largest secret length in bytes that always fits
// in the field.
func (s *Scheme) MaxSecretLen() int {
	return (s.field.BitLen() - 1) / 8
}

// Split divides secret into totalShares shares, any threshold of which
// recover it.
func (s *Scheme) Split(secret []byte, totalShares, threshold int) ([]Share, error) {
	if err := shamir.ValidateThreshold(totalShares, threshold); err != nil {
		return nil, err
	}
	if len(secret) == 0 {
		return nil, shamir.ErrEmptySecret
	}

	secretInt := new(big.Int).SetBytes(secret)
	if !s.field.Contains(secretInt) {
		return nil, fmt.Errorf("%w: %d-byte secret, at most %d bytes fit in field %s",
			shamir.ErrSecretTooLarge, len(secret), s.MaxSecretLen(), s.field.Name())
	}
	defer secretInt.SetInt64(0)

	points, err := shamir.MakeShares(s.field, secretInt, totalShares, threshold, s.rand)
	if err != nil {
		return nil, err
	}
	return encodePoints(points), nil
}

// Recover reconstructs the secret bytes from shares. Shares must come from
// the same split, so they must all have the same hex width. The threshold
// is not known here; see package threshold/shamir to enforce it.
func (s *Scheme) Recover(shares []Share) ([]byte, error) {
	points, err := s.Points(shares)
	if err != nil {
		return nil, err
	}

	secretInt, err := shamir.Recover(s.field, points)
	if err != nil {
		return nil, err
	}
	return secretInt.Bytes(), nil
}

// Points parses shares into field points. Every value must be hex, lie in
// the field, and have the same width as the others.
func (s *Scheme) Points(shares []Share) ([]shamir.Point, error) {
	points := make([]shamir.Point, len(shares))
	for i, share := range shares {
		y, err := share.value()
		if err != nil {
			return nil, err
		}
		if !s.field.Contains(y) {
			return nil, fmt.Errorf("%w: share %d value exceeds field %s",
				shamir.ErrInvalidPoint, share.Index, s.field.Name())
		}
		points[i] = shamir.Point{X: share.Index, Y: y}
	}
	if _, err := Width(shares); err != nil {
		return nil, err
	}
	return points, nil
}

// RecoverText is Recover followed by a UTF-8 check. Bytes that are not valid
// UTF-8 are returned as they are with IsText false; only parsing and
// reconstruction failures are errors.
func (s *Scheme) RecoverText(shares []Share) (*Recovered, error) {
	secret, err := s.Recover(shares)
	if err != nil {
		return nil, err
	}
	return NewRecovered(secret), nil
}

// NewRecovered wraps recovered bytes.
func NewRecovered(secret []byte) *Recovered {
	r := &Recovered{Secret: secret}
	if utf8.Valid(secret) {
		r.Text = string(secret)
		r.IsText = true
	}
	return r
}

// String returns the text, or a quoted byte string when the secret is not
// UTF-8.
func (r *Recovered) String() string {
	if r.IsText {
		return r.Text
	}
	return fmt.Sprintf("%q", r.Secret)
}

// Default returns the scheme used by the package-level functions: the
// default field and crypto/rand.Reader.
func Default() *Scheme {
	return defaultScheme
}

// Split uses the default scheme.
func Split(secret []byte, totalShares, threshold int) ([]Share, error) {
	return defaultScheme.Split(secret, totalShares, threshold)
}

// Recover uses the default scheme.
func Recover(shares []Share) ([]byte, error) {
	return defaultScheme.Recover(shares)
}

// RecoverText uses the default scheme.
func RecoverText(shares []Share) (*Recovered, error) {
	return defaultScheme.RecoverText(shares)
}

// encodePoints renders every y as hex padded to the widest y in the batch.
func encodePoints(points []shamir.Point) []Share {
	width := 0
	for _, pt := range points {
		width = max(width, len(pt.Y.Text(16)))
	}

	shares := make([]Share, len(points))
	for i, pt := range points {
		shares[i] = Share{
			Index: pt.X,
			Value: fmt.Sprintf("%0*x", width, pt.Y),
		}
	}
	return shares
}
