package providers

import "context"

// TextGenerator produces free text from a prompt. The reply is untrusted;
// the response normalizer owns all parsing and repair.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
