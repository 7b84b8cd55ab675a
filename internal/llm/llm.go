package llm

import (
	"context"
	"errors"
)

// Part is one element of a generation request: either instruction text or an
// inline binary payload with its declared MIME type. Exactly one of Text or
// Data is set.
type Part struct {
	Text     string
	MIMEType string
	Data     []byte
}

// TextPart builds an instruction-text part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// DataPart builds an inline binary part.
func DataPart(mimeType string, data []byte) Part {
	return Part{MIMEType: mimeType, Data: data}
}

// Client abstracts generative model providers. The returned string is the
// model's free-form text output; callers own any JSON parsing of it.
type Client interface {
	GenerateContent(ctx context.Context, parts []Part) (string, error)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("LLM not configured")

// PlaceholderClient stands in when no provider key is configured.
type PlaceholderClient struct{}

// GenerateContent returns ErrNotConfigured.
func (PlaceholderClient) GenerateContent(ctx context.Context, parts []Part) (string, error) {
	_ = ctx
	_ = parts
	return "", ErrNotConfigured
}
