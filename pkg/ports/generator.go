package ports

import "context"

// TextGenerator is an external text-generation service.
// Implementations must respect ctx deadlines; callers treat any error as "unavailable".
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// TextGeneratorFunc adapts a function to TextGenerator.
type TextGeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate implements TextGenerator.
func (f TextGeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
