package script

import "context"

// Expander turns source text into a narration script.
type Expander interface {
	Expand(ctx context.Context, sourceText string) (string, error)
}
