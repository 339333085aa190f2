package extraction

import "context"

// Strategy is one way of turning an artifact into text.
type Strategy interface {
	Name() string
	Available() bool
	Extract(ctx context.Context, path string) (string, error)
}
