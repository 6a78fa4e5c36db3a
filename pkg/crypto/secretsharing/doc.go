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

// Package secretsharing is the byte and text boundary of the Shamir
// implementation in package shamir.
//
// A secret is read as a big-endian unsigned integer and becomes the constant
// term of the sharing polynomial. Each share is rendered as its x-coordinate
// and its y-coordinate in lower-case hexadecimal:
//
//	1-0f3a...c2
//
// All y values produced by one Split are zero-padded to the same width, the
// widest value in the batch, so leading zeros survive a round trip and
// shares from one split can be recognised by width alone. A share set is the
// comma-joined list of tokens.
//
// # Usage Example
//
//	shares, err := secretsharing.Split([]byte("my_secret"), 3, 2)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(secretsharing.FormatShares(shares))
//
//	// any two shares
//	secret, err := secretsharing.Recover(shares[1:])
//
// # Recovered text
//
// RecoverText never fails because the recovered bytes are not UTF-8. That is
// the expected result of recovering from too few or from mismatched shares,
// so the raw bytes are returned with IsText set to false.
//
// # Constraints
//
//   - 2 <= threshold <= total shares
//   - the secret integer must be smaller than the field modulus; MaxSecretLen
//     reports the length that always fits (159 bytes in the default field)
//   - leading zero bytes of a secret are not preserved, the integer form
//     cannot represent them
package secretsharing
