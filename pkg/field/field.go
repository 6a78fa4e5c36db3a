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

// Package field implements arithmetic in a prime field GF(p) over math/big.
//
// A Field carries its own modulus so callers can work in several fields at
// once (for example a small prime in tests and a 1279-bit prime in
// production). All results are reduced into the range [0, p).
package field

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
)

// Named fields
const (
	NameM1279  = "m1279"
	NameM521   = "m521"
	NameM127   = "m127"
	NameCustom = "custom"

	// DefaultName is the field used when none is configured
	DefaultName = NameM1279
)

// primalityRounds is the number of Miller-Rabin rounds used to accept a modulus.
const primalityRounds = 20

var (
	// ErrNotPrime is returned when a modulus fails the primality check
	ErrNotPrime = errors.New("field: modulus is not prime")

	// ErrNotInvertible is returned when inverting zero
	ErrNotInvertible = errors.New("field: element is not invertible")

	// ErrUnknownField is returned when a field name cannot be resolved
	ErrUnknownField = errors.New("field: unknown field")
)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)

	named = map[string]uint{
		NameM1279: 1279,
		NameM521:  521,
		NameM127:  127,
	}

	defaultField = mustNamed(DefaultName)
)

// Field is GF(p) for a prime p. A Field is immutable and safe for
// concurrent use.
type Field struct {
	name    string
	p       *big.Int
	pMinus2 *big.Int
	byteLen int
	mask    byte
}

// New returns the field with modulus p. p must be a prime greater than 2.
func New(p *big.Int) (*Field, error) {
	return newNamed(NameCustom, p)
}

// MustNew is like New but panics if p is not an acceptable modulus.
func MustNew(p *big.Int) *Field {
	f, err := New(p)
	if err != nil {
		panic(err)
	}
	return f
}

func mustNamed(name string) *Field {
	f, err := newNamed(name, mersenne(named[name]))
	if err != nil {
		panic(err)
	}
	return f
}

func newNamed(name string, p *big.Int) (*Field, error) {
	if p == nil || p.Cmp(two) <= 0 {
		return nil, fmt.Errorf("%w: modulus must be greater than 2", ErrNotPrime)
	}
	if !p.ProbablyPrime(primalityRounds) {
		return nil, fmt.Errorf("%w: %d-bit modulus", ErrNotPrime, p.BitLen())
	}

	modulus := new(big.Int).Set(p)
	byteLen := (modulus.BitLen() + 7) / 8
	excess := uint(byteLen*8 - modulus.BitLen())

	return &Field{
		name:    name,
		p:       modulus,
		pMinus2: new(big.Int).Sub(modulus, two),
		byteLen: byteLen,
		mask:    byte(0xFF >> excess),
	}, nil
}

// Default returns the default field, GF(2^1279 - 1).
func Default() *Field {
	return defaultField
}

// ByName returns one of the named Mersenne-prime fields.
func ByName(name string) (*Field, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == DefaultName {
		return defaultField, nil
	}
	exp, ok := named[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return newNamed(name, mersenne(exp))
}

// Parse resolves a field from either a name (m1279, m521, m127) or a
// hexadecimal modulus prefixed with 0x.
func Parse(s string) (*Field, error) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "0x") {
		return ByName(lower)
	}
	p, ok := new(big.Int).SetString(lower[2:], 16)
	if !ok {
		return nil, fmt.Errorf("%w: invalid hex modulus %q", ErrUnknownField, s)
	}
	return New(p)
}

// Names returns the names accepted by ByName.
func Names() []string {
	return []string{NameM1279, NameM521, NameM127}
}

func mersenne(exp uint) *big.Int {
	p := new(big.Int).Lsh(one, exp)
	return p.Sub(p, one)
}

// Name returns the field name, or "custom" for fields built with New.
func (f *Field) Name() string {
	return f.name
}

// Modulus returns a copy of p.
func (f *Field) Modulus() *big.Int {
	return new(big.Int).Set(f.p)
}

// BitLen returns the bit length of p.
func (f *Field) BitLen() int {
	return f.p.BitLen()
}

// ByteLen returns the number of bytes needed to hold any element.
func (f *Field) ByteLen() int {
	return f.byteLen
}

// Contains reports whether 0 <= x < p.
func (f *Field) Contains(x *big.Int) bool {
	return x != nil && x.Sign() >= 0 && x.Cmp(f.p) < 0
}

// Reduce returns x mod p in [0, p).
func (f *Field) Reduce(x *big.Int) *big.Int {
	return new(big.Int).Mod(x, f.p)
}

// Add returns a + b mod p.
func (f *Field) Add(a, b *big.Int) *big.Int {
	r := new(big.Int).Add(a, b)
	return r.Mod(r, f.p)
}

// Sub returns a - b mod p.
func (f *Field) Sub(a, b *big.Int) *big.Int {
	r := new(big.Int).Sub(a, b)
	return r.Mod(r, f.p)
}

// Mul returns a * b mod p.
func (f *Field) Mul(a, b *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, f.p)
}

// Neg returns -a mod p.
func (f *Field) Neg(a *big.Int) *big.Int {
	r := new(big.Int).Neg(a)
	return r.Mod(r, f.p)
}

// Inverse returns y such that x*y = 1 mod p, computed as x^(p-2) mod p
// (Fermat's little theorem).
func (f *Field) Inverse(x *big.Int) (*big.Int, error) {
	r := f.Reduce(x)
	if r.Sign() == 0 {
		return nil, ErrNotInvertible
	}
	return r.Exp(r, f.pMinus2, f.p), nil
}

// Random returns a uniformly distributed element of [0, p) using bytes read
// from r. Candidates are drawn from ByteLen bytes with the excess high bits
// masked off and rejected when >= p.
func (f *Field) Random(r io.Reader) (*big.Int, error) {
	if r == nil {
		return nil, errors.New("field: nil random source")
	}
	buf := make([]byte, f.byteLen)
	n := new(big.Int)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("field: failed to read random bytes: %w", err)
		}
		buf[0] &= f.mask
		n.SetBytes(buf)
		if n.Cmp(f.p) < 0 {
			clear(buf)
			return n, nil
		}
	}
}

// String implements fmt.Stringer.
func (f *Field) String() string {
	return fmt.Sprintf("GF(p) %s, %d bits", f.name, f.p.BitLen())
}
