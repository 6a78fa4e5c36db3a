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

// Package shamir implements Shamir's threshold secret sharing over a prime
// field.
//
// A secret s is hidden as the constant term of a random polynomial
//
//	f(x) = s + a1*x + a2*x^2 + ... + a(t-1)*x^(t-1)   (mod p)
//
// and share i is the point (i, f(i)). Any t points determine f and therefore
// s = f(0); t-1 points are consistent with every possible secret.
//
// This package works on integers. Byte and text encodings of secrets and
// shares live in package secretsharing, and an explicit threshold check lives
// in package threshold/shamir.
//
// # Reconstruction and the threshold
//
// Recover interpolates whatever distinct points it is given. Two or more
// points always produce a field element, so a caller that supplies fewer
// than t shares gets a value that is not the secret and no error. Recover
// trusts its caller to know t; use threshold/shamir when the threshold must
// be enforced.
//
// # Randomness
//
// Coefficients are read from an explicit io.Reader. Production callers pass
// nil (crypto/rand.Reader); tests may pass a deterministic stream.
package shamir
