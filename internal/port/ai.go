package port

import "context"

// GenerateInput is a single prompt, optionally with an inline image.
type GenerateInput struct {
	Prompt      string
	Image       []byte
	ContentType string
}

// TextGenerator abstracts the generative-AI provider.
type TextGenerator interface {
	Generate(ctx context.Context, input GenerateInput) (string, error)
}
