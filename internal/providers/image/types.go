package image

import "context"

// Generator renders a single illustration for one slide prompt and returns
// the raw PNG bytes. Implementations are single-attempt; the caller treats
// failures as best-effort and leaves the slide without an image.
type Generator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}
