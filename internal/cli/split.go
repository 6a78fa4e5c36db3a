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

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-shamir/pkg/metrics"
	tshamir "github.com/jeremyhahn/go-shamir/pkg/threshold/shamir"
)

// ErrMissingSplitParams is returned when split has no share count or threshold
var ErrMissingSplitParams = errors.New("cli: num-shares and threshold are required")

func (a *app) newSplitCommand() *cobra.Command {
	var fromStdin bool

	cmd := &cobra.Command{
		Use:   "split [secret]",
		Short: "Split a secret into shares",
		Long: `Split a secret into --num-shares shares, any --threshold of which
restore it. The secret is taken from the first argument, or from standard
input with --stdin (a trailing newline is removed).

The share count and threshold may also come from the config file
(split.num_shares, split.threshold) or from SHAMIR_SPLIT_NUM_SHARES and
SHAMIR_SPLIT_THRESHOLD.`,
		Example: `  shamir split "correct horse battery staple" -n 5 -t 3
  printf 's3cret' | shamir split --stdin -n 3 -t 2 -o json > shares.json`,
		Args: func(cmd *cobra.Command, args []string) error {
			if fromStdin {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var secret []byte
			if fromStdin {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read secret: %w", err)
				}
				secret = bytes.TrimRight(data, "\r\n")
			} else {
				secret = []byte(args[0])
			}
			return a.split(cmd, secret)
		},
	}

	cmd.Flags().IntP("num-shares", "n", 0, "total number of shares to create")
	cmd.Flags().IntP("threshold", "t", 0, "number of shares required to restore")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "read the secret from standard input")

	return cmd
}

func (a *app) split(cmd *cobra.Command, secret []byte) error {
	total, threshold := a.cfg.Split.NumShares, a.cfg.Split.Threshold
	if total == 0 || threshold == 0 {
		return fmt.Errorf("%w (use -n and -t)", ErrMissingSplitParams)
	}

	fieldName := a.scheme.Field().Name()
	start := time.Now()
	shares, err := tshamir.SplitWithScheme(a.scheme, secret, threshold, total)
	elapsed := time.Since(start)

	metrics.RecordOperation(metrics.OpSplit, fieldName, metrics.Status(err), elapsed.Seconds())
	if err != nil {
		metrics.RecordError(metrics.OpSplit, fieldName, err)
		return err
	}
	metrics.AddShares(metrics.OpSplit, len(shares))

	a.logger.Info("secret split",
		"field", fieldName,
		"shares", total,
		"threshold", threshold,
		"duration", elapsed)

	return a.printer(cmd.OutOrStdout()).PrintShares(shares)
}
