package qa

import "context"

// LLMConnector is the whole contract the pipeline needs from a provider:
// given a prompt string, return a response string or fail. Failures are
// expected to be *entity.CallError values.
type LLMConnector interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
