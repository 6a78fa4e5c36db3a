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
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jeremyhahn/go-shamir/internal/config"
	"github.com/jeremyhahn/go-shamir/pkg/crypto/secretsharing"
	tshamir "github.com/jeremyhahn/go-shamir/pkg/threshold/shamir"
)

// OutputFormat defines the output format type
type OutputFormat string

const (
	OutputFormatText OutputFormat = config.OutputText
	OutputFormatJSON OutputFormat = config.OutputJSON
	OutputFormatYAML OutputFormat = config.OutputYAML
)

// NonTextNotice precedes the raw bytes of a restored secret that is not UTF-8
const NonTextNotice = "Restored data is not valid UTF-8. Here is the raw data:"

// Printer handles formatted output
type Printer struct {
	format OutputFormat
	writer io.Writer
}

// NewPrinter creates a new Printer
func NewPrinter(format string, writer io.Writer) *Printer {
	return &Printer{
		format: OutputFormat(strings.ToLower(format)),
		writer: writer,
	}
}

// recoveredOutput is the structured form of a restored secret
type recoveredOutput struct {
	Secret string `json:"secret,omitempty" yaml:"secret,omitempty"`
	UTF8   bool   `json:"utf8" yaml:"utf8"`
	Hex    string `json:"hex" yaml:"hex"`
}

// PrintShares prints shares one token per line, or as a share document
func (p *Printer) PrintShares(shares []*tshamir.Share) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(shareSet{Shares: shares})
	case OutputFormatYAML:
		return p.printYAML(shareSet{Shares: shares})
	case OutputFormatText:
		for _, share := range shares {
			fmt.Fprintln(p.writer, share.Token())
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintRecovered prints a restored secret
func (p *Printer) PrintRecovered(r *secretsharing.Recovered) error {
	out := recoveredOutput{
		Secret: r.Text,
		UTF8:   r.IsText,
		Hex:    hex.EncodeToString(r.Secret),
	}
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(out)
	case OutputFormatYAML:
		return p.printYAML(out)
	case OutputFormatText:
		if !r.IsText {
			fmt.Fprintln(p.writer, NonTextNotice)
		}
		fmt.Fprintln(p.writer, r.String())
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// verificationOutput is the structured form of a verify run
type verificationOutput struct {
	Valid  bool         `json:"valid" yaml:"valid"`
	Shares []shareCheck `json:"shares" yaml:"shares"`
}

// PrintVerification prints one line per checked share
func (p *Printer) PrintVerification(checks []shareCheck) error {
	out := verificationOutput{Valid: true, Shares: checks}
	for _, c := range checks {
		out.Valid = out.Valid && c.Valid
	}
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(out)
	case OutputFormatYAML:
		return p.printYAML(out)
	case OutputFormatText:
		for _, c := range checks {
			if c.Valid {
				fmt.Fprintf(p.writer, "share %d: ok\n", c.Index)
			} else {
				fmt.Fprintf(p.writer, "share %d: FAILED: %s\n", c.Index, c.Error)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintConfig prints the effective configuration
func (p *Printer) PrintConfig(cfg *config.Config) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(cfg)
	case OutputFormatYAML, OutputFormatText:
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = p.writer.Write(data)
		return err
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintError prints an error message
func (p *Printer) PrintError(err error) error {
	result := map[string]string{
		"status": "error",
		"error":  err.Error(),
	}
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(result)
	case OutputFormatYAML:
		return p.printYAML(result)
	default:
		fmt.Fprintf(p.writer, "Error: %v\n", err)
		return nil
	}
}

func (p *Printer) printJSON(data any) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func (p *Printer) printYAML(data any) error {
	encoder := yaml.NewEncoder(p.writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}
