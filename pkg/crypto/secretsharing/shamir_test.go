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
	"bytes"
	"math/big"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-shamir/internal/testutil"
	"github.com/jeremyhahn/go-shamir/pkg/field"
	"github.com/jeremyhahn/go-shamir/pkg/shamir"
)

const bip39Mnemonic = "pen aunt text rotate donate sock shield pottery cloud toy tank sibling " +
	"parrot oblige agent egg october angle short wolf survey frequent autumn desert"

func TestSplitAndRecover(t *testing.T) {
	tests := []struct {
		name        string
		secret      string
		threshold   int
		totalShares int
	}{
		{"simple word", "my_secret", 2, 3},
		{"simple sentence", "god of mices ate my food and then he cried", 2, 6},
		{"long sentence", "god of mices ate my food and then he cried while other mices danced around him", 6, 6},
		{"BIP-39", bip39Mnemonic, 3, 6},
		{"multi-byte text", "pässwörd 🔑", 3, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secret := []byte(tt.secret)

			shares, err := Split(secret, tt.totalShares, tt.threshold)
			require.NoError(t, err)
			require.Len(t, shares, tt.totalShares)

			restored, err := RecoverText(shares)
			require.NoError(t, err)
			assert.True(t, restored.IsText)
			assert.Equal(t, tt.secret, restored.Text)

			shuffled := append([]Share(nil), shares...)
			rand.Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})
			restoredBytes, err := Recover(shuffled)
			require.NoError(t, err)
			assert.Equal(t, secret, restoredBytes)

			for n := 1; n < tt.totalShares; n++ {
				got, err := Recover(shares[:n])
				switch {
				case n < 2:
					assert.ErrorIs(t, err, shamir.ErrInsufficientShares)
				case n < tt.threshold:
					require.NoError(t, err)
					assert.NotEqual(t, secret, got, "n=%d", n)
				default:
					require.NoError(t, err)
					assert.Equal(t, secret, got, "n=%d", n)
				}
			}

			encoded := FormatShares(shares)

			truncated, err := ParseShares(encoded[:len(encoded)-2])
			require.NoError(t, err)
			_, err = Recover(truncated)
			assert.ErrorIs(t, err, ErrMalformedShare)

			extra, err := ParseShares(encoded + ",4-" + "65787472615f73686172655f64617461")
			require.NoError(t, err)
			_, err = Recover(extra)
			assert.ErrorIs(t, err, ErrMalformedShare)

			_, err = ParseShares("1624ghjsgd762")
			assert.ErrorIs(t, err, ErrMalformedShare)

			values := make([]string, len(shares))
			for i, share := range shares {
				values[i] = share.Value
			}
			_, err = ParseShares(strings.Join(values, ","))
			assert.ErrorIs(t, err, ErrMalformedShare)
		})
	}
}

func TestSplit_InvalidThreshold(t *testing.T) {
	tests := []struct {
		name        string
		threshold   int
		totalShares int
	}{
		{"zero threshold", 0, 3},
		{"too low threshold", 1, 3},
		{"threshold > total shares", 3, 2},
		{"both zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Split([]byte("my_secret"), tt.totalShares, tt.threshold)
			assert.ErrorIs(t, err, shamir.ErrInvalidThreshold)
		})
	}
}

func TestSplit_MySecretScenario(t *testing.T) {
	shares, err := Split([]byte("my_secret"), 3, 2)
	require.NoError(t, err)
	require.Len(t, shares, 3)

	pairs := [][2]int{{0, 1}, {0, 2}, {1, 2}, {2, 0}}
	for _, pair := range pairs {
		restored, err := RecoverText([]Share{shares[pair[0]], shares[pair[1]]})
		require.NoError(t, err)
		assert.Equal(t, "my_secret", restored.Text)
	}

	fabricated := []Share{shares[0], {Index: 1, Value: shares[1].Value}}
	_, err = Recover(fabricated)
	assert.ErrorIs(t, err, shamir.ErrDuplicatePoints)
}

func TestSplit_PaddingInvariant(t *testing.T) {
	for i := 0; i < 20; i++ {
		shares, err := Split([]byte("pad"), 8, 3)
		require.NoError(t, err)

		width, err := Width(shares)
		require.NoError(t, err)
		for _, share := range shares {
			assert.Len(t, share.Value, width)
		}
	}
}

func TestEncodePoints_PadsToWidest(t *testing.T) {
	shares := encodePoints([]shamir.Point{
		{X: 1, Y: big.NewInt(0x0f)},
		{X: 2, Y: big.NewInt(0xabcd)},
		{X: 3, Y: big.NewInt(0)},
	})

	assert.Equal(t, "000f", shares[0].Value)
	assert.Equal(t, "abcd", shares[1].Value)
	assert.Equal(t, "0000", shares[2].Value)
	assert.Equal(t, "1-000f,2-abcd,3-0000", FormatShares(shares))
}

func TestRecoverText_BinaryFallback(t *testing.T) {
	// f(x) = 0xff + 5x, so the recovered secret is the single byte 0xff
	shares := []Share{
		{Index: 1, Value: "0104"},
		{Index: 2, Value: "0109"},
	}

	restored, err := RecoverText(shares)
	require.NoError(t, err)
	assert.False(t, restored.IsText)
	assert.Empty(t, restored.Text)
	assert.Equal(t, []byte{0xff}, restored.Secret)
	assert.Equal(t, `"\xff"`, restored.String())
}

func TestRecoverText_UnderThresholdNeverFails(t *testing.T) {
	scheme, err := NewScheme(&Config{Rand: testutil.NewDeterministicReader([]byte("fallback"))})
	require.NoError(t, err)

	shares, err := scheme.Split([]byte("my_secret"), 5, 4)
	require.NoError(t, err)

	restored, err := scheme.RecoverText(shares[:2])
	require.NoError(t, err)
	assert.NotEqual(t, []byte("my_secret"), restored.Secret)
	if !restored.IsText {
		assert.True(t, strings.HasPrefix(restored.String(), `"`))
	}
}

func TestSplit_SecretSize(t *testing.T) {
	scheme, err := NewScheme(nil)
	require.NoError(t, err)
	assert.Equal(t, 159, scheme.MaxSecretLen())

	largest := bytes.Repeat([]byte{0xff}, scheme.MaxSecretLen())
	shares, err := scheme.Split(largest, 3, 2)
	require.NoError(t, err)
	restored, err := scheme.Recover(shares[1:])
	require.NoError(t, err)
	assert.Equal(t, largest, restored)

	_, err = scheme.Split(bytes.Repeat([]byte{0xff}, 160), 3, 2)
	assert.ErrorIs(t, err, shamir.ErrSecretTooLarge)

	_, err = scheme.Split(nil, 3, 2)
	assert.ErrorIs(t, err, shamir.ErrEmptySecret)
}

func TestScheme_CustomField(t *testing.T) {
	f, err := field.ByName(field.NameM127)
	require.NoError(t, err)

	scheme, err := NewScheme(&Config{Field: f})
	require.NoError(t, err)
	assert.Same(t, f, scheme.Field())
	assert.Equal(t, 15, scheme.MaxSecretLen())

	shares, err := scheme.Split([]byte("fifteen bytes!!"), 4, 3)
	require.NoError(t, err)
	for _, share := range shares {
		assert.LessOrEqual(t, len(share.Value), 32)
	}

	restored, err := scheme.Recover([]Share{shares[3], shares[0], shares[2]})
	require.NoError(t, err)
	assert.Equal(t, "fifteen bytes!!", string(restored))

	_, err = scheme.Split([]byte("seventeen bytes!!"), 4, 3)
	assert.ErrorIs(t, err, shamir.ErrSecretTooLarge)
}

func TestScheme_DeterministicRandom(t *testing.T) {
	split := func(seed string) string {
		scheme, err := NewScheme(&Config{Rand: testutil.NewDeterministicReader([]byte(seed))})
		require.NoError(t, err)
		shares, err := scheme.Split([]byte("repeatable"), 4, 2)
		require.NoError(t, err)
		return FormatShares(shares)
	}

	assert.Equal(t, split("a"), split("a"))
	assert.NotEqual(t, split("a"), split("b"))
}

func TestScheme_ConcurrentUse(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			secret := []byte(strings.Repeat("x", i+1))
			shares, err := Split(secret, 4, 3)
			if err != nil {
				errs <- err
				return
			}
			restored, err := Recover(shares[1:])
			if err != nil {
				errs <- err
				return
			}
			if !bytes.Equal(secret, restored) {
				errs <- assert.AnError
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestParseShare(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    Share
		wantErr bool
	}{
		{"valid", "1-0a0b", Share{Index: 1, Value: "0a0b"}, false},
		{"whitespace", "  12-ff \n", Share{Index: 12, Value: "ff"}, false},
		{"upper case", "3-ABCD", Share{Index: 3, Value: "abcd"}, false},
		{"odd width", "2-abc", Share{Index: 2, Value: "abc"}, false},
		{"missing separator", "1624ghjsgd762", Share{}, true},
		{"empty index", "-ab", Share{}, true},
		{"non-integer index", "x-ab", Share{}, true},
		{"zero index", "0-ab", Share{}, true},
		{"non-hex value", "1-xyz", Share{}, true},
		{"empty value", "1-", Share{}, true},
		{"extra separator", "1-ab-cd", Share{}, true},
		{"signed value", "1--ab", Share{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseShare(tt.token)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedShare)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseShares(t *testing.T) {
	shares, err := ParseShares("1-0a, 2-0b,3-0c")
	require.NoError(t, err)
	assert.Equal(t, []Share{{1, "0a"}, {2, "0b"}, {3, "0c"}}, shares)
	assert.Equal(t, "1-0a,2-0b,3-0c", FormatShares(shares))

	for _, input := range []string{"", "   ", "1-0a,", "1-0a,,2-0b"} {
		_, err := ParseShares(input)
		assert.ErrorIs(t, err, ErrMalformedShare, "input %q", input)
	}
}

func TestRecover_MalformedValues(t *testing.T) {
	tests := []struct {
		name   string
		shares []Share
	}{
		{"non-hex value", []Share{{1, "0a"}, {2, "zz"}}},
		{"empty value", []Share{{1, "0a"}, {2, ""}}},
		{"zero index", []Share{{0, "0a"}, {2, "0b"}}},
		{"mixed widths", []Share{{1, "0a"}, {2, "000b"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Recover(tt.shares)
			assert.ErrorIs(t, err, ErrMalformedShare)
		})
	}

	_, err := Recover([]Share{{1, "0a"}})
	assert.ErrorIs(t, err, shamir.ErrInsufficientShares)
}

func TestShare_String(t *testing.T) {
	assert.Equal(t, "7-00ff", Share{Index: 7, Value: "00ff"}.String())
}
