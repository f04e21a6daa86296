package addr

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/tpanel/internal/project"
	"github.com/temoto/tpanel/log2"
)

type mapFunc func() (*project.Map, error)

func (f mapFunc) Map() (*project.Map, error) { return f() }

func TestFindButtons(t *testing.T) {
	t.Parallel()
	r := NewResolver(log2.NewTest(t, log2.LDebug), project.MustSample(t))

	cases := []struct {
		name     string
		port     int
		channels []int
		cat      Category
		expect   []int // button ids
	}{
		{"state/single", 5, []int{200}, CategoryState, []int{3}},
		{"state/wrong-port", 4, []int{200}, CategoryState, nil},
		{"analog/range", 1, []int{1, 2, 3}, CategoryAnalog, []int{3, 4, 5}},
		{"analog/order-by-channel", 1, []int{3, 1}, CategoryAnalog, []int{5, 3}},
		{"analog/state-channel", 5, []int{200}, CategoryAnalog, nil},
		{"level", 1, []int{30, 31}, CategoryLevel, []int{6, 7}},
		{"empty-channels", 1, nil, CategoryAnalog, nil},
		{"strings-empty-table", 1, []int{1}, CategoryString, nil},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			entries, err := r.FindButtons(c.port, c.channels, c.cat)
			require.NoError(t, err)
			var ids []int
			for _, e := range entries {
				ids = append(ids, e.ButtonID)
			}
			assert.Equal(t, c.expect, ids)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()
	e := project.MapEntry{Port: 5, Channel: 200, PageID: 12, ButtonID: 3}
	r := NewResolver(log2.NewTest(t, log2.LDebug), mapFunc(func() (*project.Map, error) {
		return &project.Map{State: []project.MapEntry{e}}, nil
	}))
	found, err := r.FindButtons(5, []int{200}, CategoryState)
	require.NoError(t, err)
	assert.Equal(t, []project.MapEntry{e}, found)
}

func TestByNameAndSounds(t *testing.T) {
	t.Parallel()
	r := NewResolver(log2.NewTest(t, log2.LDebug), project.MustSample(t))
	found, err := r.FindButtonByName("lamp")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 12, found[0].PageID)
	found, err = r.FindButtonByName("fx1") // analog only
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.True(t, r.SoundExists("chime.wav"))
	assert.False(t, r.SoundExists("boom.wav"))
}

func TestMapLoadError(t *testing.T) {
	t.Parallel()
	calls := 0
	r := NewResolver(log2.NewTest(t, log2.LDebug), mapFunc(func() (*project.Map, error) {
		calls++
		return nil, errors.NotFoundf("map.xma")
	}))
	_, err := r.FindButtons(1, []int{1}, CategoryState)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(errors.Cause(err)))
	_, err = r.FindBargraphs(1, []int{1})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.False(t, r.SoundExists("chime.wav"))
	r.Reload()
	_, err = r.FindButtonByName("x")
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}
