package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualClock(t *testing.T) {
	t.Parallel()
	var c ManualClock
	fired := []string{}
	c.AfterFunc(300*time.Millisecond, func() { fired = append(fired, "b") })
	c.AfterFunc(100*time.Millisecond, func() {
		fired = append(fired, "a")
		c.AfterFunc(100*time.Millisecond, func() { fired = append(fired, "a2") })
	})
	stopped := c.AfterFunc(150*time.Millisecond, func() { fired = append(fired, "never") })
	assert.True(t, stopped.Stop())
	assert.False(t, stopped.Stop())

	c.Advance(99 * time.Millisecond)
	assert.Empty(t, fired)
	c.Advance(time.Millisecond)
	assert.Equal(t, []string{"a"}, fired)
	c.Advance(time.Second)
	assert.Equal(t, []string{"a", "a2", "b"}, fired)
	assert.Equal(t, 0, c.Pending())
}

func TestDeciSecond(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 1500*time.Millisecond, DeciSecond(15))
	assert.Equal(t, time.Duration(0), DeciSecond(-3))
	assert.Equal(t, 7*time.Second, IntSecondDefault(0, 7*time.Second))
}

func TestFoldErrors(t *testing.T) {
	t.Parallel()
	assert.NoError(t, FoldErrors(nil))
	assert.NoError(t, FoldErrors([]error{nil, nil}))
	e1 := assert.AnError
	assert.Equal(t, e1, FoldErrors([]error{nil, e1}))
	err := FoldErrors([]error{e1, e1})
	assert.EqualError(t, err, e1.Error()+"\n"+e1.Error())
}
