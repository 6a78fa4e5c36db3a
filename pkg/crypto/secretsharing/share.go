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
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

const (
	// Separator divides the index from the hex value in a share token
	Separator = "-"

	// SetSeparator joins share tokens into a share set
	SetSeparator = ","
)

// ErrMalformedShare is returned when a share token cannot be parsed
var ErrMalformedShare = errors.New("secretsharing: malformed share")

// Share is one share in its external form: the x-coordinate and the
// zero-padded hex y-coordinate.
type Share struct {
	Index int    `json:"index" yaml:"index"`
	Value string `json:"value" yaml:"value"`
}

// String returns the "<index>-<hex>" token.
func (s Share) String() string {
	return strconv.Itoa(s.Index) + Separator + s.Value
}

func (s Share) value() (*big.Int, error) {
	if s.Index < 1 {
		return nil, fmt.Errorf("%w: invalid index %d", ErrMalformedShare, s.Index)
	}
	if !isHex(s.Value) {
		return nil, fmt.Errorf("%w: share %d value is not hexadecimal", ErrMalformedShare, s.Index)
	}
	y, ok := new(big.Int).SetString(s.Value, 16)
	if !ok {
		return nil, fmt.Errorf("%w: share %d value is not hexadecimal", ErrMalformedShare, s.Index)
	}
	return y, nil
}

// ParseShare parses a single "<index>-<hex>" token. Surrounding whitespace
// is ignored.
func ParseShare(token string) (Share, error) {
	token = strings.TrimSpace(token)
	indexPart, valuePart, found := strings.Cut(token, Separator)
	if !found {
		return Share{}, fmt.Errorf("%w: missing %q separator", ErrMalformedShare, Separator)
	}

	index, err := strconv.Atoi(indexPart)
	if err != nil {
		return Share{}, fmt.Errorf("%w: invalid index %q", ErrMalformedShare, indexPart)
	}
	if index < 1 {
		return Share{}, fmt.Errorf("%w: index must be positive, got %d", ErrMalformedShare, index)
	}
	if !isHex(valuePart) {
		return Share{}, fmt.Errorf("%w: share %d value is not hexadecimal", ErrMalformedShare, index)
	}

	return Share{Index: index, Value: strings.ToLower(valuePart)}, nil
}

// ParseShares parses a comma-joined share set.
func ParseShares(set string) ([]Share, error) {
	if strings.TrimSpace(set) == "" {
		return nil, fmt.Errorf("%w: empty share set", ErrMalformedShare)
	}

	tokens := strings.Split(set, SetSeparator)
	shares := make([]Share, len(tokens))
	for i, token := range tokens {
		share, err := ParseShare(token)
		if err != nil {
			return nil, fmt.Errorf("token %d: %w", i+1, err)
		}
		shares[i] = share
	}
	return shares, nil
}

// FormatShares joins shares into a share set.
func FormatShares(shares []Share) string {
	tokens := make([]string, len(shares))
	for i, share := range shares {
		tokens[i] = share.String()
	}
	return strings.Join(tokens, SetSeparator)
}

// Width returns the common hex width of shares. Shares produced by one Split
// always agree; a mismatch means a truncated token or shares from different
// splits.
func Width(shares []Share) (int, error) {
	if len(shares) == 0 {
		return 0, nil
	}
	width := len(shares[0].Value)
	for _, share := range shares[1:] {
		if len(share.Value) != width {
			return 0, fmt.Errorf("%w: share %d has width %d, share %d has width %d",
				ErrMalformedShare, share.Index, len(share.Value), shares[0].Index, width)
		}
	}
	return width, nil
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case '0' <= c && c <= '9', 'a' <= c && c <= 'f', 'A' <= c && c <= 'F':
		default:
			return false
		}
	}
	return true
}
