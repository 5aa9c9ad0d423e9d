package suggest

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrInvalidJSON is returned when a model response carries no usable JSON.
var ErrInvalidJSON = errors.New("suggest: model returned invalid JSON")

// LLMClient is the minimal surface the suggestion provider needs from a
// model backend. Cross-cutting concerns (retries, caching) are layered on
// top by the provider, not implemented by clients.
type LLMClient interface {
	Name() string
	Close() error
	GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error)
}
