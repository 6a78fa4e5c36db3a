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
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jeremyhahn/go-shamir/pkg/crypto/secretsharing"
	"github.com/jeremyhahn/go-shamir/pkg/field"
	"github.com/jeremyhahn/go-shamir/pkg/metrics"
	tshamir "github.com/jeremyhahn/go-shamir/pkg/threshold/shamir"
)

// shareSet is the document written by split -o json|yaml
type shareSet struct {
	Shares []*tshamir.Share `json:"shares" yaml:"shares"`
}

type restoreOptions struct {
	threshold int
	file      string
	fromStdin bool
}

func (a *app) newRestoreCommand() *cobra.Command {
	var opts restoreOptions

	cmd := &cobra.Command{
		Use:   "restore [shares]",
		Short: "Restore a secret from shares",
		Long: `Restore a secret from a comma-separated share set such as
"1-0a3f...,3-91c2...". Shares may also be read from standard input, one or
more per line, or from a JSON/YAML document written by split -o json|yaml.

Without --threshold the shares are trusted to meet the threshold: too few
shares restore a wrong value without an error. --threshold T rejects sets
of fewer than T shares. Document input always enforces the threshold
recorded in the shares.`,
		Example: `  shamir restore 1-0a3f...,3-91c2...
  shamir split "s3cret" -n 5 -t 3 | head -3 | shamir restore --stdin
  shamir restore --file shares.json`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.file != "" || opts.fromStdin {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.restore(cmd, args, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.threshold, "threshold", "t", 0,
		"reject share sets with fewer than this many shares")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "",
		"read a JSON or YAML share document")
	cmd.Flags().BoolVar(&opts.fromStdin, "stdin", false,
		"read shares from standard input")
	cmd.MarkFlagsMutuallyExclusive("file", "stdin")

	return cmd
}

func (a *app) restore(cmd *cobra.Command, args []string, opts restoreOptions) error {
	fieldName := a.scheme.Field().Name()
	start := time.Now()
	secret, count, err := a.recover(cmd, args, opts)
	elapsed := time.Since(start)

	metrics.RecordOperation(metrics.OpRecover, fieldName, metrics.Status(err), elapsed.Seconds())
	if err != nil {
		metrics.RecordError(metrics.OpRecover, fieldName, err)
		return err
	}
	metrics.AddShares(metrics.OpRecover, count)

	recovered := secretsharing.NewRecovered(secret)
	if !recovered.IsText {
		metrics.RecordNonText()
		a.logger.Warn("restored data is not valid UTF-8", "bytes", len(secret))
	}
	a.logger.Info("secret restored",
		"field", fieldName,
		"shares", count,
		"duration", elapsed)

	return a.printer(cmd.OutOrStdout()).PrintRecovered(recovered)
}

func (a *app) recover(cmd *cobra.Command, args []string, opts restoreOptions) ([]byte, int, error) {
	if opts.file != "" {
		shares, err := readShareDocument(opts.file)
		if err != nil {
			return nil, 0, err
		}
		secret, err := a.combine(shares)
		return secret, len(shares), err
	}

	var set string
	if opts.fromStdin {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read shares: %w", err)
		}
		set = string(data)
	} else {
		set = args[0]
	}

	tokens, err := secretsharing.ParseShares(normalizeSet(set))
	if err != nil {
		return nil, 0, err
	}

	if opts.threshold == 0 {
		secret, err := a.scheme.Recover(tokens)
		return secret, len(tokens), err
	}

	shares := withThreshold(tokens, opts.threshold, a.scheme.Field().Name())
	secret, err := tshamir.CombineWithScheme(a.scheme, shares)
	return secret, len(tokens), err
}

// combine restores a share document. Named fields are taken from the
// shares; custom fields need a matching --field.
func (a *app) combine(shares []*tshamir.Share) ([]byte, error) {
	if len(shares) > 0 && shares[0] != nil && shares[0].Metadata[tshamir.MetadataField] == field.NameCustom {
		return tshamir.CombineWithScheme(a.scheme, shares)
	}
	return tshamir.Combine(shares)
}

func readShareDocument(path string) ([]*tshamir.Share, error) {
	// #nosec G304 - share file path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read share file: %w", err)
	}
	// JSON is a subset of YAML, so one decoder reads both formats
	var doc shareSet
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse share file: %w", err)
	}
	return doc.Shares, nil
}

// withThreshold lifts bare tokens into threshold shares so the hardened
// layer can enforce t.
func withThreshold(tokens []secretsharing.Share, t int, fieldName string) []*tshamir.Share {
	total := t
	for _, token := range tokens {
		total = max(total, token.Index)
	}
	shares := make([]*tshamir.Share, len(tokens))
	for i, token := range tokens {
		shares[i] = &tshamir.Share{
			Index:     token.Index,
			Threshold: t,
			Total:     total,
			Value:     token.Value,
			Metadata:  map[string]string{tshamir.MetadataField: fieldName},
		}
	}
	return shares
}

// normalizeSet accepts tokens separated by commas, whitespace or newlines.
func normalizeSet(set string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(set, secretsharing.SetSeparator, " ")),
		secretsharing.SetSeparator)
}
