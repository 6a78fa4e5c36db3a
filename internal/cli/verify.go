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
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-shamir/pkg/field"
	"github.com/jeremyhahn/go-shamir/pkg/metrics"
	"github.com/jeremyhahn/go-shamir/pkg/shamir"
	tshamir "github.com/jeremyhahn/go-shamir/pkg/threshold/shamir"
)

// ErrVerificationFailed is returned when at least one share of a document
// does not check out against the others.
var ErrVerificationFailed = errors.New("cli: share verification failed")

// shareCheck is the verification outcome of one share
type shareCheck struct {
	Index int    `json:"index" yaml:"index"`
	Valid bool   `json:"valid" yaml:"valid"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

func (a *app) newVerifyCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the shares of a share document against each other",
		Long: `Verify every share of a JSON or YAML document written by split -o json|yaml.
Each share must carry the same threshold, total, batch and field as the
others. When the rest of the document holds at least threshold shares, the
share must also lie on the polynomial they interpolate, which catches a
corrupted or substituted value.

Shares split in a custom field are checked in the field given by --field.`,
		Example: `  shamir split "s3cret" -n 5 -t 3 -o json > shares.json
  shamir verify --file shares.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.verify(cmd, file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON or YAML share document")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (a *app) verify(cmd *cobra.Command, file string) error {
	fieldName := a.scheme.Field().Name()
	start := time.Now()
	checks, err := a.verifyDocument(file)
	elapsed := time.Since(start)

	metrics.RecordOperation(metrics.OpVerify, fieldName, metrics.Status(err), elapsed.Seconds())
	if err != nil {
		metrics.RecordError(metrics.OpVerify, fieldName, err)
		if checks == nil {
			return err
		}
	}
	metrics.AddShares(metrics.OpVerify, len(checks))

	a.logger.Info("shares verified",
		"field", fieldName,
		"shares", len(checks),
		"valid", err == nil,
		"duration", elapsed)

	if perr := a.printer(cmd.OutOrStdout()).PrintVerification(checks); perr != nil {
		return perr
	}
	return err
}

// verifyDocument checks each share of the document against all the others.
// The returned error is nil only if every share is valid; checks is nil when
// the document itself could not be read.
func (a *app) verifyDocument(file string) ([]shareCheck, error) {
	shares, err := readShareDocument(file)
	if err != nil {
		return nil, err
	}
	if len(shares) == 0 {
		return nil, fmt.Errorf("%w: %s holds no shares", shamir.ErrInsufficientShares, file)
	}

	checks := make([]shareCheck, len(shares))
	var failed int
	for i, share := range shares {
		others := make([]*tshamir.Share, 0, len(shares)-1)
		others = append(others, shares[:i]...)
		others = append(others, shares[i+1:]...)

		check := shareCheck{Valid: true}
		if share != nil {
			check.Index = share.Index
		}
		if err := a.verifyShare(share, others); err != nil {
			check.Valid = false
			check.Error = err.Error()
			failed++
		}
		checks[i] = check
	}
	if failed > 0 {
		return checks, fmt.Errorf("%w: %d of %d shares", ErrVerificationFailed, failed, len(shares))
	}
	return checks, nil
}

func (a *app) verifyShare(share *tshamir.Share, others []*tshamir.Share) error {
	if share != nil && share.Metadata[tshamir.MetadataField] == field.NameCustom {
		return tshamir.VerifyShareWithScheme(a.scheme, share, others)
	}
	return tshamir.VerifyShare(share, others)
}
