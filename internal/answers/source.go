package answers

import (
	"context"
	"errors"
)

// ErrNoInput reports that input ended before a required answer was given.
// Callers treat it as a quiet early return, not a failure.
var ErrNoInput = errors.New("no input provided")

// Source answers the questions a scaffold run asks. Implementations that
// block on input return ctx.Err() once ctx is done.
type Source interface {
	// Identity returns the raw project name and namespace. Empty values are
	// allowed; sanitization substitutes defaults.
	Identity(ctx context.Context) (name, namespace string, err error)
	// ConfirmOverwrite asks whether to continue into an existing root.
	ConfirmOverwrite(ctx context.Context, root string) (bool, error)
}

// Static is a Source with pre-supplied answers.
type Static struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
	Overwrite bool   `json:"overwrite"`
}

func (s Static) Identity(ctx context.Context) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	return s.Name, s.Namespace, nil
}

func (s Static) ConfirmOverwrite(ctx context.Context, _ string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.Overwrite, nil
}
