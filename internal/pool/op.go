package pool

import (
	"context"

	"github.com/sourcegraph/conc/panics"
)

// runGuarded executes op and converts a panic into success=false, the
// idiomatic equivalent of the spec's "guard that converts any thrown error
// into success = false".
func runGuarded(op Operation, ctx context.Context) bool {
	var success bool
	var catcher panics.Catcher
	catcher.Try(func() {
		success = op(ctx)
	})
	if catcher.Recovered() != nil {
		return false
	}
	return success
}
