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

package field

import (
	"bytes"
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallField(t *testing.T) *Field {
	t.Helper()
	f, err := New(big.NewInt(257))
	require.NoError(t, err)
	return f
}

func TestNew(t *testing.T) {
	composite := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 1280), big.NewInt(1))

	tests := []struct {
		name    string
		p       *big.Int
		wantErr bool
	}{
		{"small prime", big.NewInt(257), false},
		{"mersenne 127", mersenne(127), false},
		{"nil modulus", nil, true},
		{"two", big.NewInt(2), true},
		{"negative", big.NewInt(-7), true},
		{"composite", big.NewInt(255), true},
		{"2^1280-1 is composite", composite, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.p)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrNotPrime)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 0, f.Modulus().Cmp(tt.p))
			assert.Equal(t, NameCustom, f.Name())
		})
	}
}

func TestMustNew_Panics(t *testing.T) {
	assert.Panics(t, func() { MustNew(big.NewInt(100)) })
}

func TestDefault(t *testing.T) {
	f := Default()
	assert.Equal(t, NameM1279, f.Name())
	assert.Equal(t, 1279, f.BitLen())
	assert.Equal(t, 160, f.ByteLen())
	assert.Same(t, f, Default())
}

func TestModulus_ReturnsCopy(t *testing.T) {
	f := smallField(t)
	p := f.Modulus()
	p.SetInt64(11)
	assert.Equal(t, int64(257), f.Modulus().Int64())
}

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		bits    int
		name    string
		wantErr error
	}{
		{"", 1279, NameM1279, nil},
		{"m1279", 1279, NameM1279, nil},
		{" M521 ", 521, NameM521, nil},
		{"m127", 127, NameM127, nil},
		{"0x101", 9, NameCustom, nil},
		{"0XFFFFFFFB", 32, NameCustom, nil},
		{"0xzz", 0, "", ErrUnknownField},
		{"0xff", 0, "", ErrNotPrime},
		{"m1280", 0, "", ErrUnknownField},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f, err := Parse(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bits, f.BitLen())
			assert.Equal(t, tt.name, f.Name())
		})
	}
}

func TestNames(t *testing.T) {
	for _, name := range Names() {
		f, err := ByName(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, f.Name())
	}
}

func TestArithmetic_Wraps(t *testing.T) {
	f := smallField(t)
	a := big.NewInt(200)
	b := big.NewInt(100)

	assert.Equal(t, int64(43), f.Add(a, b).Int64())
	assert.Equal(t, int64(157), f.Sub(b, a).Int64())
	assert.Equal(t, int64(20000%257), f.Mul(a, b).Int64())
	assert.Equal(t, int64(57), f.Neg(a).Int64())
	assert.Equal(t, int64(0), f.Neg(big.NewInt(0)).Int64())
	assert.Equal(t, int64(256), f.Reduce(big.NewInt(-1)).Int64())

	// inputs are not modified
	assert.Equal(t, int64(200), a.Int64())
	assert.Equal(t, int64(100), b.Int64())
}

func TestContains(t *testing.T) {
	f := smallField(t)
	assert.True(t, f.Contains(big.NewInt(0)))
	assert.True(t, f.Contains(big.NewInt(256)))
	assert.False(t, f.Contains(big.NewInt(257)))
	assert.False(t, f.Contains(big.NewInt(-1)))
	assert.False(t, f.Contains(nil))
}

func TestInverse(t *testing.T) {
	f := smallField(t)
	for x := int64(1); x < 257; x++ {
		inv, err := f.Inverse(big.NewInt(x))
		require.NoError(t, err)
		assert.Equal(t, int64(1), f.Mul(big.NewInt(x), inv).Int64(), "x=%d", x)
	}

	// negative inputs are reduced first
	inv, err := f.Inverse(big.NewInt(-3))
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.Mul(big.NewInt(-3), inv).Int64())
}

func TestInverse_LargeField(t *testing.T) {
	f := Default()
	for i := 0; i < 16; i++ {
		x, err := f.Random(rand.Reader)
		require.NoError(t, err)
		if x.Sign() == 0 {
			continue
		}
		inv, err := f.Inverse(x)
		require.NoError(t, err)
		assert.Equal(t, 0, f.Mul(x, inv).Cmp(big.NewInt(1)))
	}
}

func TestInverse_Zero(t *testing.T) {
	f := smallField(t)
	_, err := f.Inverse(big.NewInt(0))
	assert.ErrorIs(t, err, ErrNotInvertible)

	_, err = f.Inverse(big.NewInt(257 * 3))
	assert.ErrorIs(t, err, ErrNotInvertible)
}

func TestRandom_InRange(t *testing.T) {
	f := smallField(t)
	seen := make(map[int64]bool)
	for i := 0; i < 2000; i++ {
		x, err := f.Random(rand.Reader)
		require.NoError(t, err)
		require.True(t, f.Contains(x))
		seen[x.Int64()] = true
	}
	// 2000 draws over 257 values should hit most of them
	assert.Greater(t, len(seen), 200)
}

func TestRandom_RejectsOutOfRange(t *testing.T) {
	f := smallField(t)
	// 0x01ff = 511 is rejected, 0x0005 is accepted
	r := bytes.NewReader([]byte{0x01, 0xff, 0x00, 0x05})
	x, err := f.Random(r)
	require.NoError(t, err)
	assert.Equal(t, int64(5), x.Int64())
}

func TestRandom_MasksHighBits(t *testing.T) {
	f := smallField(t)
	// the top byte is masked down to a single bit: 0xfe01 -> 0x0001
	x, err := f.Random(bytes.NewReader([]byte{0xfe, 0x01}))
	require.NoError(t, err)
	assert.Equal(t, int64(1), x.Int64())
}

func TestRandom_ReaderErrors(t *testing.T) {
	f := smallField(t)
	_, err := f.Random(bytes.NewReader([]byte{0x00}))
	assert.Error(t, err)

	_, err = f.Random(nil)
	assert.Error(t, err)
}
