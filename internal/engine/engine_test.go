package engine

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/tpanel/internal/amx"
	"github.com/temoto/tpanel/log2"
)

func newTestEngine(t testing.TB) (context.Context, *Engine) {
	log := log2.NewTest(t, log2.LDebug)
	ctx := context.WithValue(context.Background(), log2.ContextKey, log)
	return ctx, NewEngine(log)
}

type recorder struct {
	mu   sync.Mutex
	cmds []amx.Command
}

func (self *recorder) Do(ctx context.Context, cmd amx.Command) error {
	self.mu.Lock()
	self.cmds = append(self.cmds, cmd)
	self.mu.Unlock()
	return nil
}

func TestNotResolved(t *testing.T) {
	t.Parallel()

	_, e := newTestEngine(t)
	e.Register("ON", &recorder{})
	assert.True(t, IsNotResolved(NewErrNotResolved("TODO_random")))
	assert.True(t, IsNotResolved(errors.Annotate(NewErrNotResolved("X"), "context")))
	assert.False(t, IsNotResolved(errors.New("other")))
	assert.False(t, IsNotResolved(nil))

	_, err := e.Resolve("ON")
	assert.NoError(t, err)
	_, err = e.Resolve("on")
	assert.True(t, IsNotResolved(err), "exact match only")
}

func TestRegisterLastWinsAndAliases(t *testing.T) {
	t.Parallel()

	ctx, e := newTestEngine(t)
	first, second := &recorder{}, &recorder{}
	e.Register("PAGE", first)
	e.Register("PAGE", second)
	var flips []string
	e.RegisterFunc("@PPN", func(ctx context.Context, cmd amx.Command) error {
		flips = append(flips, cmd.Mnemonic+":"+cmd.Param(0))
		return nil
	}, "^PPN", "PPON")

	e.TestDo(t, ctx, 1, "PAGE-Main")
	assert.Empty(t, first.cmds)
	require.Len(t, second.cmds, 1)
	assert.Equal(t, []string{"Main"}, second.cmds[0].Params)

	for _, text := range []string{"@PPN-Popup1", "^PPN-Popup1;Main", "PPON-Popup1"} {
		e.TestDo(t, ctx, 1, text)
	}
	assert.Equal(t, []string{"@PPN:Popup1", "^PPN:Popup1", "PPON:Popup1"}, flips)
	assert.Equal(t, []string{"@PPN", "PAGE", "PPON", "^PPN"}, e.List())
}

func TestDispatchEventShapes(t *testing.T) {
	t.Parallel()

	ctx, e := newTestEngine(t)
	rec := &recorder{}
	for _, m := range []string{"ON", "OFF", "LEVEL", "^BCF", "^TXT"} {
		e.Register(m, rec)
	}
	e.SubmitEvent(ctx, amx.ChannelOn(5, 200))
	e.SubmitEvent(ctx, amx.ChannelOff(5, 200))
	e.SubmitEvent(ctx, amx.Level(1, 30, 128))
	e.SubmitEvent(ctx, amx.String(1, "^BCF-1.3&7,0,RED"))
	e.SubmitEvent(ctx, amx.String(1, "^TXT-9,0,'a,b',c"))
	// unknown mnemonic is dropped
	e.SubmitEvent(ctx, amx.String(1, "NOPE-1"))
	// malformed channel list is dropped
	e.SubmitEvent(ctx, amx.String(1, "^BCF-x,0,RED"))

	require.Len(t, rec.cmds, 5)
	assert.Equal(t, amx.Command{Port: 5, Mnemonic: "ON", Params: []string{"200"}, Raw: "ON-200"}, rec.cmds[0])
	assert.Equal(t, "OFF", rec.cmds[1].Mnemonic)
	assert.Equal(t, []string{"30", "128"}, rec.cmds[2].Params)
	assert.Equal(t, []int{1, 2, 3, 7}, rec.cmds[3].Channels)
	assert.Equal(t, []string{"0", "RED"}, rec.cmds[3].Params)
	assert.Equal(t, []string{"0", "a,b", "c"}, rec.cmds[4].Params)

	s := e.Stats()
	assert.Equal(t, uint64(5), s.Processed)
	assert.Equal(t, uint64(2), s.Dropped)
	assert.True(t, s.LastEvent >= 0)
}

func TestFragmentReassembly(t *testing.T) {
	t.Parallel()

	ctx, e := newTestEngine(t)
	rec := &recorder{}
	e.Register("^TXT", rec)
	full := "^TXT-1,0,Hello World"
	e.SubmitEvent(ctx, amx.Event{Kind: amx.EventString, Port: 1, Text: full[:8], Length: len(full)})
	assert.Empty(t, rec.cmds)
	e.SubmitEvent(ctx, amx.Event{Kind: amx.EventString, Port: 1, Text: full[8:], Length: len(full) - 8})
	require.Len(t, rec.cmds, 1)
	assert.Equal(t, []string{"0", "Hello World"}, rec.cmds[0].Params)
}

func TestFragmentReassemblyCodepage(t *testing.T) {
	t.Parallel()

	ctx, e := newTestEngine(t)
	dec, err := amx.NewDecoder("windows-1251")
	require.NoError(t, err)
	e.SetDecoder(dec)
	rec := &recorder{}
	e.Register("^TXT", rec)

	// cp1251 А..З, one byte each on the wire
	head := "^TXT-1,0,\xc0\xc1\xc2\xc3\xc4\xc5"
	tail := "\xc6\xc7"
	e.SubmitEvent(ctx, amx.Event{Kind: amx.EventString, Port: 1, Text: head, Length: len(head) + len(tail)})
	assert.Empty(t, rec.cmds)
	e.SubmitEvent(ctx, amx.Event{Kind: amx.EventString, Port: 1, Text: tail, Length: len(tail)})
	require.Len(t, rec.cmds, 1)
	assert.Equal(t, []string{"0", "АБВГДЕЖЗ"}, rec.cmds[0].Params)

	// nothing left buffered for the port
	e.TestDo(t, ctx, 1, "^TXT-1,0,x")
	require.Len(t, rec.cmds, 2)
	assert.Equal(t, []string{"0", "x"}, rec.cmds[1].Params)
}

type ctxKey string

func TestQueuedTaskKeepsContext(t *testing.T) {
	t.Parallel()

	ctx, e := newTestEngine(t)
	var seen []interface{}
	e.RegisterFunc("B", func(ctx context.Context, cmd amx.Command) error {
		seen = append(seen, ctx.Value(ctxKey("who")))
		return nil
	})
	e.RegisterFunc("A", func(actx context.Context, cmd amx.Command) error {
		e.SubmitCommand(context.WithValue(ctx, ctxKey("who"), "nested"), 1, "B")
		return nil
	})
	e.TestDo(t, context.WithValue(ctx, ctxKey("who"), "outer"), 1, "A")
	assert.Equal(t, []interface{}{"nested"}, seen)
}

func TestQueueSerializes(t *testing.T) {
	t.Parallel()

	ctx, e := newTestEngine(t)
	var order []string
	e.RegisterFunc("A", func(ctx context.Context, cmd amx.Command) error {
		order = append(order, "A-begin")
		// nested submit and post are queued, not interleaved
		e.SubmitCommand(ctx, 1, "B")
		e.Post(func() { order = append(order, "post") })
		order = append(order, "A-end")
		return nil
	})
	e.RegisterFunc("B", func(ctx context.Context, cmd amx.Command) error {
		order = append(order, "B")
		return nil
	})
	e.TestDo(t, ctx, 1, "A")
	assert.Equal(t, []string{"A-begin", "A-end", "B", "post"}, order)
}

func TestConcurrentSubmit(t *testing.T) {
	t.Parallel()

	ctx, e := newTestEngine(t)
	active, maxActive, total := 0, 0, 0
	var mu sync.Mutex
	e.RegisterFunc("X", func(ctx context.Context, cmd amx.Command) error {
		mu.Lock()
		active++
		if active > maxActive {
			maxActive = active
		}
		mu.Unlock()
		time.Sleep(time.Millisecond)
		mu.Lock()
		active--
		total++
		mu.Unlock()
		return nil
	})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				e.SubmitCommand(ctx, 1, "X")
			}
		}()
	}
	wg.Wait()
	// last submitter may still be draining
	require.Eventually(t, func() bool { return e.Pending() == 0 && e.Stats().Processed == 80 }, time.Second, time.Millisecond)
	mu.Lock()
	assert.Equal(t, 1, maxActive)
	assert.Equal(t, 80, total)
	mu.Unlock()

	ok := e.Inspect("test", func() {})
	assert.True(t, ok)
}

func TestHandlerErrorDoesNotStop(t *testing.T) {
	t.Parallel()

	ctx, e := newTestEngine(t)
	calls := 0
	e.RegisterFunc("F", func(ctx context.Context, cmd amx.Command) error {
		calls++
		return errors.NotValidf("bad")
	})
	e.RegisterFunc("P", func(ctx context.Context, cmd amx.Command) error {
		calls++
		panic("boom")
	})
	e.TestDo(t, ctx, 1, "F-1")
	e.TestDo(t, ctx, 1, "P-1")
	e.TestDo(t, ctx, 1, "F-1")
	assert.Equal(t, 3, calls)
	assert.Equal(t, uint64(3), e.Stats().Failed)
}

func TestProfile(t *testing.T) {
	t.Parallel()

	ctx, e := newTestEngine(t)
	e.Register("^TXT", &recorder{})
	e.Register("ON", &recorder{})
	var profiled []string
	e.SetProfile(regexp.MustCompile(`^\^`), 0, func(cmd amx.Command, d time.Duration) {
		profiled = append(profiled, cmd.Mnemonic)
	})
	e.TestDo(t, ctx, 1, "^TXT-1,0,x")
	e.TestDo(t, ctx, 1, "ON-1")
	assert.Equal(t, []string{"^TXT"}, profiled)
	e.SetProfile(nil, 0, nil)
	e.TestDo(t, ctx, 1, "^TXT-1,0,x")
	assert.Len(t, profiled, 1)
}
