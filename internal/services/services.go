// package services defines the external capabilities heydj consumes
//
// Text generation (OpenAI-compatible chat completions), music catalogs (interface only)
package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/heydj/internal/shared"
)

// Generator is the text-generation capability every pipeline step uses.
type Generator interface {
	// Generate returns the raw model text for req.
	// Failures of the underlying service are reported as [*GenerationCallError].
	Generate(ctx context.Context, req Request) (string, error)
}

// Request is one text-generation call.
type Request struct {
	Step        string  // Pipeline step issuing the call, for logging and test doubles
	Prompt      string  // Fully rendered instruction
	Temperature float64 // Sampling randomness of the calling profile
}

// GeneratorFunc adapts a function to [Generator].
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// GenerationCallError reports that the text-generation capability failed or timed out.
type GenerationCallError struct {
	Step string
	Err  error
}

func (e *GenerationCallError) Error() string {
	return fmt.Sprintf("%s: step %s: %v", shared.ErrGenerationCall, e.Step, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause to errors.Is / errors.As.
func (e *GenerationCallError) Unwrap() []error {
	return []error{shared.ErrGenerationCall, e.Err}
}
