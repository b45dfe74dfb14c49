// Package oracle abstracts the language model backends the inference
// engine consults. Providers live in subpackages; the core only
// depends on this interface.
package oracle

import "context"

// Request is one completion request. Analysis callers keep the
// temperature low so responses stay parseable.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int64
	Temperature float64
}

// Response is the raw completion text.
type Response struct {
	Text string
	// Model is the backend model that produced the text, when known.
	Model string
}

// Oracle produces a completion for a prompt. Implementations must
// honor context cancellation.
type Oracle interface {
	Complete(ctx context.Context, req *Request) (*Response, error)
}

// Func adapts a function to the Oracle interface. Useful in tests.
type Func func(ctx context.Context, req *Request) (*Response, error)

func (f Func) Complete(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}
