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
	"fmt"
	"io"
	"math/big"

	"github.com/jeremyhahn/go-shamir/pkg/field"
)

// Point is a single share: the evaluation Y of the sharing polynomial at X.
type Point struct {
	X int
	Y *big.Int
}

// ValidateThreshold checks 2 <= threshold <= total.
func ValidateThreshold(total, threshold int) error {
	switch {
	case total < 2:
		return fmt.Errorf("%w: total shares must be at least 2, got %d", ErrInvalidThreshold, total)
	case threshold < 2:
		return fmt.Errorf("%w: threshold must be at least 2, got %d", ErrInvalidThreshold, threshold)
	case threshold > total:
		return fmt.Errorf("%w: threshold (%d) cannot exceed total shares (%d)",
			ErrInvalidThreshold, threshold, total)
	}
	return nil
}

// MakeShares splits secret into total points, any threshold of which
// recover it. The polynomial has degree threshold-1 and is evaluated at
// x = 1..total. Parameters are validated before any randomness is read.
func MakeShares(f *field.Field, secret *big.Int, total, threshold int, r io.Reader) ([]Point, error) {
	if f == nil {
		return nil, fmt.Errorf("shamir: field cannot be nil")
	}
	if err := ValidateThreshold(total, threshold); err != nil {
		return nil, err
	}
	if big.NewInt(int64(total)).Cmp(f.Modulus()) >= 0 {
		return nil, fmt.Errorf("%w: %d shares do not fit in a %d-bit field",
			ErrInvalidThreshold, total, f.BitLen())
	}
	if secret == nil || !f.Contains(secret) {
		return nil, fmt.Errorf("%w: secret is %d bits, field is %d bits",
			ErrSecretTooLarge, secretBits(secret), f.BitLen())
	}

	poly, err := NewRandomPolynomial(f, threshold-1, secret, r)
	if err != nil {
		return nil, err
	}
	defer poly.Zeroize()

	points := make([]Point, total)
	for i := range points {
		x := i + 1
		points[i] = Point{
			X: x,
			Y: poly.Evaluate(big.NewInt(int64(x))),
		}
	}
	return points, nil
}

// Recover returns the constant term of the polynomial through points, which
// is the secret when at least threshold genuine shares are supplied. See the
// package documentation for the under-threshold case.
func Recover(f *field.Field, points []Point) (*big.Int, error) {
	return Interpolate(f, points, new(big.Int))
}

// Interpolate evaluates the unique polynomial of degree len(points)-1
// passing through points at x = at, using Lagrange interpolation.
//
// Rather than inverting every basis denominator, the denominators are
// multiplied into one common denominator D and each term is scaled by
// D/den_i (the product of the other denominators), so a single modular
// inverse is computed per call.
func Interpolate(f *field.Field, points []Point, at *big.Int) (*big.Int, error) {
	if f == nil {
		return nil, fmt.Errorf("shamir: field cannot be nil")
	}
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: need at least 2, got %d", ErrInsufficientShares, len(points))
	}

	xs, err := coordinates(f, points)
	if err != nil {
		return nil, err
	}
	k := len(xs)
	target := f.Reduce(at)

	nums := make([]*big.Int, k)
	dens := make([]*big.Int, k)
	for i := range k {
		num := big.NewInt(1)
		den := big.NewInt(1)
		for j := range k {
			if i == j {
				continue
			}
			num = f.Mul(num, f.Sub(target, xs[j]))
			den = f.Mul(den, f.Sub(xs[i], xs[j]))
		}
		nums[i] = num
		dens[i] = den
	}

	// prefix[i] = dens[0]*...*dens[i-1], suffix[i] = dens[i+1]*...*dens[k-1]
	prefix := make([]*big.Int, k+1)
	suffix := make([]*big.Int, k+1)
	prefix[0] = big.NewInt(1)
	suffix[k] = big.NewInt(1)
	for i := range k {
		prefix[i+1] = f.Mul(prefix[i], dens[i])
	}
	for i := k - 1; i >= 0; i-- {
		suffix[i] = f.Mul(suffix[i+1], dens[i])
	}
	den := prefix[k]

	sum := new(big.Int)
	for i := range k {
		term := f.Mul(points[i].Y, nums[i])
		term = f.Mul(term, f.Mul(prefix[i], suffix[i+1]))
		sum = f.Add(sum, term)
	}

	inv, err := f.Inverse(den)
	if err != nil {
		return nil, fmt.Errorf("shamir: singular interpolation: %w", err)
	}
	return f.Mul(sum, inv), nil
}

// coordinates validates points and returns their x-coordinates as field
// elements.
func coordinates(f *field.Field, points []Point) ([]*big.Int, error) {
	xs := make([]*big.Int, len(points))
	seen := make(map[string]int, len(points))
	for i, pt := range points {
		if pt.X <= 0 {
			return nil, fmt.Errorf("%w: share %d has x=%d, must be positive", ErrInvalidPoint, i, pt.X)
		}
		if !f.Contains(pt.Y) {
			return nil, fmt.Errorf("%w: share %d (x=%d) has a value outside the field", ErrInvalidPoint, i, pt.X)
		}
		x := f.Reduce(big.NewInt(int64(pt.X)))
		key := x.String()
		if j, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: shares %d and %d both have x=%d", ErrDuplicatePoints, j, i, pt.X)
		}
		seen[key] = i
		xs[i] = x
	}
	return xs, nil
}

func secretBits(secret *big.Int) int {
	if secret == nil {
		return 0
	}
	return secret.BitLen()
}
