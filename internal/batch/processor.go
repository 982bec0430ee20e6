// Package batch runs the address operations over many inputs at once.
package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/dgellow/perfectemail/emailutil"
	"github.com/dgellow/perfectemail/internal/log"
)

// Op names the operation applied to every input.
type Op string

const (
	OpValidate  Op = "validate"
	OpNormalize Op = "normalize"
	OpFix       Op = "fix"
)

// ParseOp converts a user supplied name into an Op.
func ParseOp(s string) (Op, error) {
	switch op := Op(strings.ToLower(strings.TrimSpace(s))); op {
	case OpValidate, OpNormalize, OpFix:
		return op, nil
	default:
		return "", fmt.Errorf("unknown batch operation %q (validate, normalize, or fix)", s)
	}
}

// Result is the outcome for one input. Err is set when the input could not be
// processed; it never aborts the rest of the batch.
type Result struct {
	Index   int                 `json:"index"`
	Input   string              `json:"input"`
	Output  string              `json:"output,omitempty"`
	Valid   bool                `json:"valid"`
	Changed bool                `json:"changed,omitempty"`
	Match   emailutil.MatchKind `json:"-"`
	Err     error               `json:"-"`
}

// Summary counts results by outcome.
type Summary struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
	Changed int `json:"changed"`
	Skipped int `json:"skipped"`
}

// Summarize tallies results. Inputs that were never processed because the
// context ended are counted as skipped.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Err != nil && isContextErr(r.Err):
			s.Skipped++
		case r.Valid:
			s.Valid++
		default:
			s.Invalid++
		}
		if r.Changed {
			s.Changed++
		}
	}
	return s
}

// Processor applies one Op to a list of inputs with bounded concurrency.
type Processor struct {
	op          Op
	concurrency int
	inflight    singleflight.Group
}

// NewProcessor creates a processor. A concurrency below 1 runs inputs one at
// a time.
func NewProcessor(op Op, concurrency int) (*Processor, error) {
	if _, err := ParseOp(string(op)); err != nil {
		return nil, err
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Processor{op: op, concurrency: concurrency}, nil
}

// Op returns the operation this processor applies.
func (p *Processor) Op() Op {
	return p.op
}

// Process runs the operation over inputs and returns one Result per input in
// input order. When ctx ends, inputs not yet started are marked with the
// context error and Process returns that error alongside the partial results.
func (p *Processor) Process(ctx context.Context, inputs []string) ([]Result, error) {
	results := make([]Result, len(inputs))

	var g errgroup.Group
	g.SetLimit(p.concurrency)

	for i, input := range inputs {
		if err := ctx.Err(); err != nil {
			results[i] = Result{Index: i, Input: input, Err: err}
			continue
		}
		g.Go(func() error {
			results[i] = p.apply(i, input)
			return nil
		})
	}
	_ = g.Wait()

	fields := map[string]any{
		"op":          string(p.op),
		"total":       len(inputs),
		"concurrency": p.concurrency,
	}
	if err := ctx.Err(); err != nil {
		fields["error"] = err.Error()
		log.LogWarnWithFields("batch", "Batch interrupted", fields)
		return results, fmt.Errorf("batch interrupted: %w", err)
	}
	log.LogDebugWithFields("batch", "Batch complete", fields)
	return results, nil
}

// apply computes the result for one input. Identical inputs running at the
// same time share a single computation.
func (p *Processor) apply(index int, input string) Result {
	v, _, _ := p.inflight.Do(input, func() (any, error) {
		return p.compute(input), nil
	})
	r := v.(Result)
	r.Index = index
	return r
}

func (p *Processor) compute(input string) Result {
	r := Result{Input: input}
	switch p.op {
	case OpValidate:
		r.Valid = emailutil.IsValid(input)
	case OpNormalize:
		r.Output, r.Err = emailutil.Normalize(input)
		r.Valid = r.Err == nil
		r.Changed = r.Valid && r.Output != input
	case OpFix:
		s, err := emailutil.Suggest(input)
		if err != nil {
			r.Err = err
			break
		}
		r.Output = s.Email
		r.Valid = true
		r.Match = s.Kind
		r.Changed = r.Output != input
	}
	return r
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
