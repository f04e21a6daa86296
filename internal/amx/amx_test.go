package amx

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFields(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input  string
		sep    byte
		expect []string
	}{
		{"", ',', nil},
		{"1,2,3", ',', []string{"1", "2", "3"}},
		{"a,,b", ',', []string{"a", "", "b"}},
		{"a,b,", ',', []string{"a", "b"}},
		{"'hello, world',x", ',', []string{"hello, world", "x"}},
		{"Popup1;GroupA", ';', []string{"Popup1", "GroupA"}},
		{"Popup1,GroupA", ';', []string{"Popup1,GroupA"}},
		{"file:1:2", ':', []string{"file", "1", "2"}},
	}
	for _, c := range cases {
		c := c
		t.Run(c.input, func(t *testing.T) {
			assert.Equal(t, c.expect, SplitFields(c.input, c.sep))
		})
	}
}

func TestExpandChannels(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input     string
		expect    []int
		expectErr string
	}{
		{"200", []int{200}, ""},
		{"1&5&3", []int{1, 5, 3}, ""},
		{"1.3", []int{1, 2, 3}, ""},
		{"1.3&7", []int{1, 2, 3, 7}, ""},
		{"2&1.3", []int{2, 1, 3}, ""},
		{" 4 ", []int{4}, ""},
		{"", nil, "empty channel specifier not valid"},
		{"x", nil, `channel "x" not valid`},
		{"5.1", nil, `channel range "5.1" not valid`},
		{"1&", nil, `channel "" not valid`},
	}
	for _, c := range cases {
		c := c
		t.Run(c.input, func(t *testing.T) {
			chs, err := ExpandChannels(c.input)
			if c.expectErr != "" {
				require.Error(t, err)
				assert.True(t, errors.IsNotValid(err))
				assert.Equal(t, c.expectErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.expect, chs)
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text      string
		channels  []int
		params    []string
		expectErr bool
	}{
		{"^BCF-1.3,0,RED", []int{1, 2, 3}, []string{"0", "RED"}, false},
		{"^TXT-5,0,'Hello, world'", []int{5}, []string{"0", "Hello, world"}, false},
		{"^TXT-5", []int{5}, []string{}, false},
		{"@PPN-Popup1;Main", nil, []string{"Popup1", "Main"}, false},
		{"@PPN-Popup-Two", nil, []string{"Popup-Two"}, false},
		{"PAGE-Main", nil, []string{"Main"}, false},
		{"ON-200", nil, []string{"200"}, false},
		{"LEVEL-7,128", nil, []string{"7", "128"}, false},
		{"@PPX", nil, nil, false},
		{"@PPX-ignored", nil, nil, false},
		{"^BCF-x,0,RED", nil, nil, true},
		{"^VER?", nil, nil, false},
	}
	for _, c := range cases {
		c := c
		t.Run(c.text, func(t *testing.T) {
			mnemonic, _, _ := SplitMnemonic(c.text)
			def, ok := LookupDef(mnemonic)
			require.True(t, ok, "def for %s", mnemonic)
			cmd, err := Parse(def, 1, c.text)
			if c.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, mnemonic, cmd.Mnemonic)
			assert.Equal(t, 1, cmd.Port)
			assert.Equal(t, c.channels, cmd.Channels)
			assert.Equal(t, c.params, cmd.Params)
		})
	}
}

func TestParseDefaultDef(t *testing.T) {
	t.Parallel()
	cmd, err := Parse(DefaultDef, 3, "CUSTOM-a,b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, cmd.Params)
	n, err := cmd.ParamInt(0)
	assert.Equal(t, 0, n)
	assert.True(t, errors.IsNotValid(err))
	assert.Error(t, cmd.RequireParams(3))
	assert.Equal(t, "", cmd.Param(5))
}

func TestEventCommandText(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "ON-200", ChannelOn(5, 200).CommandText())
	assert.Equal(t, "OFF-200", ChannelOff(5, 200).CommandText())
	assert.Equal(t, "LEVEL-3,99", Level(1, 3, 99).CommandText())
	assert.Equal(t, "^TXT-1,0,hi", String(1, "^TXT-1,0,hi").CommandText())
	ev := Event{Kind: EventBlink, Blink: Blink{Hour: 9, Minute: 5, Second: 7, Year: 2024, Month: 3, Day: 1, Weekday: 5, LED: true}}
	assert.Equal(t, "BLINK-9:05:07,2024-03-01,5,ON", ev.CommandText())
}

func TestReassembler(t *testing.T) {
	t.Parallel()
	var r Reassembler
	s, ok := r.Feed("PAGE-Main", 9)
	assert.True(t, ok)
	assert.Equal(t, "PAGE-Main", s)

	_, ok = r.Feed("^TXT-1,0,Hel", 17)
	assert.False(t, ok)
	assert.True(t, r.Pending())
	_, ok = r.Feed("lo", 0)
	assert.False(t, ok)
	s, ok = r.Feed(" you", 0)
	assert.True(t, ok)
	assert.Equal(t, "^TXT-1,0,Hello you", s)
	assert.False(t, r.Pending())
}

func TestDecoder(t *testing.T) {
	t.Parallel()
	d, err := NewDecoder("")
	require.NoError(t, err)
	assert.Nil(t, d)
	s, err := d.Decode("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", s)

	d, err = NewDecoder("windows-1251")
	require.NoError(t, err)
	s, err = d.Decode("^TXT-1,0,\xc0\xc1")
	require.NoError(t, err)
	assert.Equal(t, "^TXT-1,0,АБ", s)
}
