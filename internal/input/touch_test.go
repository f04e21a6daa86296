package input

import (
	"bytes"
	"io/ioutil"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/alive/v2"
	"github.com/temoto/inputevent-go"
	"github.com/temoto/tpanel/log2"
)

type touchCall struct {
	x, y    int
	pressed bool
}

func frame(evs ...inputevent.InputEvent) []inputevent.InputEvent {
	return append(evs, inputevent.InputEvent{Type: evSyn})
}

func TestTouchFeed(t *testing.T) {
	t.Parallel()

	type Case struct {
		name   string
		events []inputevent.InputEvent
		expect []touchCall
	}
	press := func() []inputevent.InputEvent {
		return frame(
			inputevent.InputEvent{Type: evAbs, Code: absX, Value: 20},
			inputevent.InputEvent{Type: evAbs, Code: absY, Value: 120},
			inputevent.InputEvent{Type: evKey, Code: btnTouch, Value: 1},
		)
	}
	cases := []Case{
		{"press", press(), []touchCall{{20, 120, true}}},
		{"press-release", append(press(), frame(
			inputevent.InputEvent{Type: evKey, Code: btnTouch, Value: 0},
		)...), []touchCall{{20, 120, true}, {20, 120, false}}},
		{"move-only", append(press(), frame(
			inputevent.InputEvent{Type: evAbs, Code: absX, Value: 30},
		)...), []touchCall{{20, 120, true}}},
		{"multitouch-position", frame(
			inputevent.InputEvent{Type: evAbs, Code: absMtPositionX, Value: 5},
			inputevent.InputEvent{Type: evAbs, Code: absMtPositionY, Value: 6},
			inputevent.InputEvent{Type: evKey, Code: btnTouch, Value: 1},
		), []touchCall{{5, 6, true}}},
		{"other-key", frame(
			inputevent.InputEvent{Type: evKey, Code: 30, Value: 1},
		), nil},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			var calls []touchCall
			tt := NewTouchReader(log2.NewTest(t, log2.LDebug), nil, func(x, y int, pressed bool) {
				calls = append(calls, touchCall{x, y, pressed})
			})
			for _, ev := range c.events {
				tt.Feed(ev)
			}
			assert.Equal(t, c.expect, calls)
		})
	}
}

func TestTouchRun(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	for _, ev := range frame(
		inputevent.InputEvent{Type: evAbs, Code: absX, Value: 100},
		inputevent.InputEvent{Type: evAbs, Code: absY, Value: 200},
		inputevent.InputEvent{Type: evKey, Code: btnTouch, Value: 1},
	) {
		ev := ev
		buf.Write((*[inputevent.EventSizeof]byte)(unsafe.Pointer(&ev))[:])
	}
	var calls []touchCall
	tt := NewTouchReader(log2.NewTest(t, log2.LDebug), ioutil.NopCloser(&buf), func(x, y int, pressed bool) {
		calls = append(calls, touchCall{x, y, pressed})
	})
	a := alive.NewAlive()
	require.NoError(t, tt.Run(a))
	assert.Equal(t, []touchCall{{100, 200, true}}, calls)
	a.Stop()
}
