package llm

import (
	"context"
	"errors"
	"time"
)

// Status is the outcome of a connectivity check.
type Status struct {
	OK bool
	// Model is the configured model.
	Model string
	// Models lists what the endpoint serves. Empty for providers that
	// cannot list.
	Models []string
	// ModelAvailable reports whether Model appears in Models. It is true
	// when the provider cannot list and a probe request succeeded.
	ModelAvailable bool
	Latency        time.Duration
	Err            error
}

// Check verifies that the provider is reachable. Providers that can list
// models are asked for /v1/models; the rest get a minimal probe request.
func Check(ctx context.Context, p Provider) Status {
	ctx = WithPurpose(ctx, PurposeCheck)
	st := Status{Model: p.ModelID()}
	start := time.Now()

	models, err := listModels(ctx, p)
	switch {
	case err == nil:
		st.OK = true
		st.Models = models
		st.ModelAvailable = HasModel(models, st.Model)
	case errors.Is(err, ErrListUnsupported):
		_, err = p.Generate(ctx, Request{
			Messages:  []Message{{Role: RoleUser, Content: "Reply with OK."}},
			MaxTokens: 8,
		})
		st.OK = err == nil
		st.ModelAvailable = err == nil
		st.Err = err
	default:
		st.Err = err
	}

	st.Latency = time.Since(start)
	return st
}
