package sectioner

import "context"

// Classifier labels a block of text, for example with a sentiment such as
// POSITIVE or NEGATIVE. Implementations usually call an external service.
type Classifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// ClassifierFunc adapts a function to the Classifier interface
type ClassifierFunc func(ctx context.Context, text string) (string, error)

// Classify calls f
func (f ClassifierFunc) Classify(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}
