package state_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/tpanel/internal/state"
	state_new "github.com/temoto/tpanel/internal/state/new"
	"github.com/temoto/tpanel/internal/tele"
)

func TestSessionRestore(t *testing.T) {
	t.Parallel()

	conf := fmt.Sprintf(`persist { root = %q  enabled = true }`, t.TempDir())
	ctx, g, _ := state_new.NewTestContext(t, conf)
	assert.Equal(t, "", g.Session().Page)
	g.Engine.TestDo(t, ctx, 1, "PAGE-Lights")
	g.Engine.TestDo(t, ctx, 1, "@PPN-Toast")
	g.Engine.TestDo(t, ctx, 1, "@PPN-Popup1")
	require.NoError(t, g.SaveSession())
	assert.Equal(t, []string{"Toast", "Popup1"}, g.Session().Popups)

	_, g2, _ := state_new.NewTestContext(t, conf)
	s := g2.Session()
	assert.Equal(t, "Lights", s.Page)
	assert.Equal(t, []string{"Toast", "Popup1"}, s.Popups)
	assert.NotZero(t, s.Time)
	reg := g2.Panel.Registry
	require.NotNil(t, reg.Active())
	assert.Equal(t, "Lights", reg.Active().Name)
	visible := reg.Active().VisibleSubPages()
	require.Len(t, visible, 2)
	assert.Equal(t, "Popup1", visible[0].Name)
	assert.Equal(t, "Toast", visible[1].Name)
}

func TestSessionDisabled(t *testing.T) {
	t.Parallel()

	ctx, g, _ := state_new.NewTestContext(t, "")
	g.Engine.TestDo(t, ctx, 1, "@PPN-Dialog")
	require.NoError(t, g.SaveSession())
	assert.Equal(t, "", g.Session().Page)
}

func TestSessionCommands(t *testing.T) {
	t.Parallel()

	s := state.Session{Page: "Main", Popups: []string{"a", "b"}}
	b, err := s.MarshalBinary()
	require.NoError(t, err)
	var s2 state.Session
	require.NoError(t, s2.UnmarshalBinary(b))
	assert.Equal(t, []string{"PAGE-Main", "@PPN-a", "@PPN-b"}, s2.Commands())
	assert.Nil(t, (&state.Session{}).Commands())
}

func TestIdentityOverBridge(t *testing.T) {
	t.Parallel()

	ctx, g, env := state_new.NewTestContext(t, `panel { version = "9.9" system_port = 3 }`)
	g.Engine.TestDo(t, ctx, 3, "^VER?")
	ms := env.Sender.Kind(tele.KindCommand)
	require.Len(t, ms, 1)
	assert.Equal(t, int32(3), ms[0].Port)
	assert.Equal(t, "^VER-9.9", ms[0].Text)
}

func TestGetGlobal(t *testing.T) {
	t.Parallel()

	ctx, g, _ := state_new.NewTestContext(t, "")
	assert.Equal(t, g, state.GetGlobal(ctx))
	assert.Panics(t, func() { state.GetGlobal(context.Background()) })
}
