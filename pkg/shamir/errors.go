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

import "errors"

var (
	// ErrInvalidThreshold is returned when threshold < 2, threshold > total
	// or total < 2
	ErrInvalidThreshold = errors.New("shamir: invalid threshold")

	// ErrInsufficientShares is returned when too few shares are supplied
	ErrInsufficientShares = errors.New("shamir: insufficient shares")

	// ErrDuplicatePoints is returned when two shares have the same x-coordinate
	ErrDuplicatePoints = errors.New("shamir: duplicate share points")

	// ErrInvalidPoint is returned for a non-positive x-coordinate or a
	// y-coordinate outside the field
	ErrInvalidPoint = errors.New("shamir: invalid share point")

	// ErrSecretTooLarge is returned when the secret does not fit in the field
	ErrSecretTooLarge = errors.New("shamir: secret too large for field")

	// ErrEmptySecret is returned when the secret is empty
	ErrEmptySecret = errors.New("shamir: secret cannot be empty")
)
