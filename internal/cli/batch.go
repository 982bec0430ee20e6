package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dgellow/perfectemail/internal/batch"
	"github.com/dgellow/perfectemail/internal/log"
)

type batchFlags struct {
	op          string
	file        string
	format      string
	concurrency int
}

func (f *batchFlags) register(cmd *cobra.Command, defaultOp string) {
	cmd.Flags().StringVar(&f.op, "op", defaultOp, "operation: validate, normalize, or fix")
	cmd.Flags().StringVarP(&f.file, "file", "f", "-", "input file, - for stdin")
	cmd.Flags().StringVar(&f.format, "format", "text", "output format: text or json")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "parallel workers (default from config)")
}

func newBatchCmd(opts *options) *cobra.Command {
	flags := &batchFlags{}

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Process a list of addresses, one per line",
		Long: `Process a list of addresses, one per line. Blank lines and lines starting
with '#' are skipped. Results keep the input order.

Text output prints one tab separated line per input: the input, then the
result or the error. JSON output prints the summary and every result.

Examples:
  perfectemail batch -f signups.txt
  perfectemail batch --op normalize --format json < signups.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(cmd, flags.file)
			if err != nil {
				return err
			}
			defer in.Close()

			inputs, err := batch.ReadLines(in)
			if err != nil {
				return err
			}
			return runBatch(cmd, opts, flags, inputs)
		},
	}

	flags.register(cmd, string(batch.OpFix))
	return cmd
}

func newExtractCmd(opts *options) *cobra.Command {
	flags := &batchFlags{}

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Find addresses in free text",
		Long: `Find address-shaped strings in free text such as an email thread, a CSV
export or a web page. Each address is printed once, in order of first
appearance. With --op the extracted addresses are also processed like batch.

Examples:
  perfectemail extract -f thread.txt
  perfectemail extract --op fix < page.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(cmd, flags.file)
			if err != nil {
				return err
			}
			defer in.Close()

			text, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			found := batch.Extract(string(text))
			log.LogDebugWithFields("extract", "Addresses found", map[string]any{
				"count": len(found),
				"bytes": len(text),
			})

			if flags.op == "" {
				for _, addr := range found {
					fmt.Fprintln(cmd.OutOrStdout(), addr)
				}
				return nil
			}
			return runBatch(cmd, opts, flags, found)
		},
	}

	flags.register(cmd, "")
	return cmd
}

type batchOutput struct {
	Operation string        `json:"operation"`
	Summary   batch.Summary `json:"summary"`
	Results   []batchRecord `json:"results"`
}

type batchRecord struct {
	Input   string `json:"input"`
	Output  string `json:"output,omitempty"`
	Valid   bool   `json:"valid"`
	Changed bool   `json:"changed"`
	Match   string `json:"match,omitempty"`
	Error   string `json:"error,omitempty"`
}

func runBatch(cmd *cobra.Command, opts *options, flags *batchFlags, inputs []string) error {
	op, err := batch.ParseOp(flags.op)
	if err != nil {
		return err
	}
	if flags.format != "text" && flags.format != "json" {
		return fmt.Errorf("unknown format %q (text or json)", flags.format)
	}

	concurrency := flags.concurrency
	if concurrency <= 0 {
		concurrency = opts.cfg.Batch.Concurrency
	}
	processor, err := batch.NewProcessor(op, concurrency)
	if err != nil {
		return err
	}

	results, err := processor.Process(cmd.Context(), inputs)
	if err != nil {
		return err
	}
	summary := batch.Summarize(results)

	log.LogDebugWithFields("batch", "Batch processed", map[string]any{
		"op":      string(op),
		"total":   summary.Total,
		"invalid": summary.Invalid,
		"changed": summary.Changed,
	})

	out := cmd.OutOrStdout()
	if flags.format == "json" {
		doc := batchOutput{Operation: string(op), Summary: summary, Results: make([]batchRecord, len(results))}
		for i, r := range results {
			doc.Results[i] = toRecord(op, r)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("writing results: %w", err)
		}
	} else {
		for _, r := range results {
			fmt.Fprintf(out, "%s\t%s\n", r.Input, textResult(op, r))
		}
	}

	if summary.Invalid > 0 {
		return errFailed
	}
	return nil
}

func toRecord(op batch.Op, r batch.Result) batchRecord {
	rec := batchRecord{Input: r.Input, Output: r.Output, Valid: r.Valid, Changed: r.Changed}
	if op == batch.OpFix && r.Err == nil {
		rec.Match = r.Match.String()
	}
	if r.Err != nil {
		rec.Error = r.Err.Error()
	}
	return rec
}

func textResult(op batch.Op, r batch.Result) string {
	switch {
	case r.Err != nil:
		return "error: " + r.Err.Error()
	case op == batch.OpValidate && r.Valid:
		return "valid"
	case op == batch.OpValidate:
		return "invalid"
	default:
		return r.Output
	}
}
