// Package llm provides clients for hosted generative-text services used as
// the narrative summarizer and the final recommendation analyst.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrServiceUnavailable is the sentinel for errors.Is matching
var ErrServiceUnavailable = errors.New("generative-text service unavailable")

// ServiceUnavailableError indicates the hosted generative-text service failed
// or could not be reached. Callers degrade to "no summary available" rather
// than aborting the fixture.
type ServiceUnavailableError struct {
	Provider string
	Err      error
}

func (e *ServiceUnavailableError) Error() string {
	return fmt.Sprintf("service %s unavailable: %v", e.Provider, e.Err)
}

func (e *ServiceUnavailableError) Unwrap() error {
	return e.Err
}

func (e *ServiceUnavailableError) Is(target error) bool {
	return target == ErrServiceUnavailable
}

// Summarizer converts prepared statistical content into prose. Implementations
// call a hosted model; the stub used in tests keeps the pipeline
// deterministic. An empty reply is valid and means "no summary available".
type Summarizer interface {
	Summarize(ctx context.Context, systemPrompt, content string, temperature float64, maxTokens int) (string, error)
}

// SummarizerFunc adapts a function to the Summarizer interface
type SummarizerFunc func(ctx context.Context, systemPrompt, content string, temperature float64, maxTokens int) (string, error)

// Summarize implements Summarizer
func (f SummarizerFunc) Summarize(ctx context.Context, systemPrompt, content string, temperature float64, maxTokens int) (string, error) {
	return f(ctx, systemPrompt, content, temperature, maxTokens)
}
