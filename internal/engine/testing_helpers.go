package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/temoto/tpanel/internal/amx"
)

// TestDo submits command string on port and requires queue to drain.
func (self *Engine) TestDo(t testing.TB, ctx context.Context, port int, text string) {
	t.Helper()
	t.Logf("Engine.TestDo port=%d text=%s", port, text)
	_, err := self.Resolve(mustMnemonic(text))
	require.NoError(t, err, text)
	self.SubmitEvent(ctx, amx.String(port, text))
	require.Equal(t, 0, self.Pending())
}

func mustMnemonic(text string) string {
	m, _, _ := amx.SplitMnemonic(text)
	return m
}
