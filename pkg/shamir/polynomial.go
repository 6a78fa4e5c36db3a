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
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/jeremyhahn/go-shamir/pkg/field"
)

// Polynomial is a polynomial over a prime field. Coefficient i is the
// coefficient of x^i; coefficient 0 is the shared secret.
type Polynomial struct {
	field        *field.Field
	coefficients []*big.Int
}

// NewRandomPolynomial returns a polynomial of the given degree whose constant
// term is secret and whose remaining coefficients are uniformly random field
// elements read from r. Exactly degree elements are drawn. A nil r uses
// crypto/rand.Reader.
func NewRandomPolynomial(f *field.Field, degree int, secret *big.Int, r io.Reader) (*Polynomial, error) {
	if f == nil {
		return nil, fmt.Errorf("shamir: field cannot be nil")
	}
	if degree < 0 {
		return nil, fmt.Errorf("shamir: degree must be non-negative, got %d", degree)
	}
	if !f.Contains(secret) {
		return nil, ErrSecretTooLarge
	}
	if r == nil {
		r = rand.Reader
	}

	coefficients := make([]*big.Int, degree+1)
	coefficients[0] = new(big.Int).Set(secret)
	for i := 1; i <= degree; i++ {
		c, err := f.Random(r)
		if err != nil {
			return nil, fmt.Errorf("shamir: failed to generate coefficient %d: %w", i, err)
		}
		coefficients[i] = c
	}

	return &Polynomial{
		field:        f,
		coefficients: coefficients,
	}, nil
}

// Degree returns the degree of the polynomial.
func (p *Polynomial) Degree() int {
	return len(p.coefficients) - 1
}

// Coefficients returns copies of the coefficients, lowest degree first.
func (p *Polynomial) Coefficients() []*big.Int {
	out := make([]*big.Int, len(p.coefficients))
	for i, c := range p.coefficients {
		out[i] = new(big.Int).Set(c)
	}
	return out
}

// Evaluate returns p(x) mod p using Horner's method, reducing after every
// step.
func (p *Polynomial) Evaluate(x *big.Int) *big.Int {
	acc := new(big.Int)
	modulus := p.field.Modulus()
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		acc.Mul(acc, x)
		acc.Add(acc, p.coefficients[i])
		acc.Mod(acc, modulus)
	}
	return acc
}

// Zeroize overwrites the coefficients and drops them. A zeroized polynomial
// evaluates to zero everywhere.
func (p *Polynomial) Zeroize() {
	for _, c := range p.coefficients {
		if c != nil {
			c.SetInt64(0)
		}
	}
	clear(p.coefficients)
	p.coefficients = nil
}
