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

package secretsharing_test

import (
	"fmt"
	"log"

	"github.com/jeremyhahn/go-shamir/pkg/crypto/secretsharing"
)

// ExampleSplit demonstrates splitting a secret and recovering it from a
// subset of the shares.
func ExampleSplit() {
	// 3 shares, any 2 recover the secret
	shares, err := secretsharing.Split([]byte("my_secret"), 3, 2)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Secret split into %d shares\n", len(shares))

	restored, err := secretsharing.Recover([]secretsharing.Share{shares[2], shares[0]})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Restored: %s\n", restored)

	// Output:
	// Secret split into 3 shares
	// Restored: my_secret
}

// ExampleParseShares demonstrates the comma-joined text form of a share set.
func ExampleParseShares() {
	shares, err := secretsharing.Split([]byte("launch codes"), 5, 3)
	if err != nil {
		log.Fatal(err)
	}

	// hand three tokens to the custodians, then collect them again
	encoded := secretsharing.FormatShares(shares[1:4])
	parsed, err := secretsharing.ParseShares(encoded)
	if err != nil {
		log.Fatal(err)
	}

	restored, err := secretsharing.RecoverText(parsed)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(restored.IsText, restored.Text)

	// Output:
	// true launch codes
}

// ExampleRecoverText demonstrates the raw-bytes fallback.
func ExampleRecoverText() {
	restored, err := secretsharing.RecoverText([]secretsharing.Share{
		{Index: 1, Value: "0104"},
		{Index: 2, Value: "0109"},
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(restored.IsText, restored)

	// Output:
	// false "\xff"
}
