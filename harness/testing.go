package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// New starts a harness for the duration of t. If it cannot start, t fails
// immediately and nothing else runs.
func New(t testing.TB, opts Options) *Harness {
	t.Helper()

	h, err := Start(context.Background(), opts)
	require.NoError(t, err, "harness setup")

	t.Cleanup(func() {
		if err := h.Stop(); err != nil {
			t.Errorf("harness teardown: %s", err)
		}
	})

	return h
}

// Case runs fn as a subtest against freshly seeded data. The store is wiped
// when the subtest ends, whether it passed or not. A failed wipe is only
// logged.
func (h *Harness) Case(t *testing.T, name string, fn func(t *testing.T)) bool {
	return t.Run(name, func(t *testing.T) {
		ctx := context.Background()

		t.Cleanup(func() {
			if err := h.Wipe(ctx); err != nil {
				h.log.Errorw("case teardown failed", "test", t.Name(), "err", err)
			}
		})

		_, err := h.Seed(ctx)
		require.NoError(t, err, "case setup")

		fn(t)
	})
}
