package amx

import (
	"strconv"
	"strings"

	"github.com/juju/errors"
)

// Command is a parsed command string ready for a handler.
type Command struct {
	Device   int
	Port     int
	Mnemonic string
	Channels []int
	Params   []string
	Raw      string
}

func (self *Command) String() string {
	return strconv.Quote(self.Raw)
}

// Param returns i-th parameter or empty string.
func (self *Command) Param(i int) string {
	if i < 0 || i >= len(self.Params) {
		return ""
	}
	return self.Params[i]
}

// ParamInt parses i-th parameter, surrounding space ignored.
func (self *Command) ParamInt(i int) (int, error) {
	if i >= len(self.Params) {
		return 0, errors.NotValidf("%s missing parameter %d", self.Mnemonic, i+1)
	}
	n, err := strconv.Atoi(strings.TrimSpace(self.Params[i]))
	if err != nil {
		return 0, errors.NotValidf("%s parameter %d=%q", self.Mnemonic, i+1, self.Params[i])
	}
	return n, nil
}

// RequireParams returns protocol error when fewer than n parameters.
func (self *Command) RequireParams(n int) error {
	if len(self.Params) < n {
		return errors.NotValidf("%s expected %d parameters, got %d", self.Mnemonic, n, len(self.Params))
	}
	return nil
}

// SplitMnemonic cuts text on the first '-'.
// Without '-' the whole text is the mnemonic and hasBlob=false.
func SplitMnemonic(text string) (mnemonic, blob string, hasBlob bool) {
	if i := strings.IndexByte(text, '-'); i >= 0 {
		return text[:i], text[i+1:], true
	}
	return text, "", false
}

// Parse splits parameter blob of a known mnemonic according to def.
func Parse(def Def, port int, text string) (Command, error) {
	mnemonic, blob, hasBlob := SplitMnemonic(text)
	c := Command{Port: port, Mnemonic: mnemonic, Raw: text}
	if !hasBlob || !(def.HasChannels || def.HasParams) {
		return c, nil
	}

	parts := SplitFields(blob, def.Sep)
	if def.HasChannels {
		if len(parts) == 0 {
			return c, errors.NotValidf("%s missing address", mnemonic)
		}
		chs, err := ExpandChannels(parts[0])
		if err != nil {
			return c, errors.Annotatef(err, "%s", mnemonic)
		}
		c.Channels = chs
	}
	if def.HasParams {
		switch {
		case len(parts) == 0:
			c.Params = []string{blob}
		case def.HasChannels:
			c.Params = parts[1:]
		default:
			c.Params = parts
		}
	}
	return c, nil
}

// SplitFields splits s on sep. Single quotes toggle string mode where sep is
// literal; quotes are removed. Trailing empty field is dropped.
func SplitFields(s string, sep byte) []string {
	var fields []string
	var part strings.Builder
	quoted := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == sep && sep != 0 && !quoted:
			fields = append(fields, part.String())
			part.Reset()
		case ch == '\'':
			quoted = !quoted
		default:
			part.WriteByte(ch)
		}
	}
	if part.Len() != 0 {
		fields = append(fields, part.String())
	}
	return fields
}

const maxChannelRange = 4000

// ExpandChannels turns address specifier into concrete list.
// Grammar: item ('&' item)*, item = number | number '.' number (inclusive range).
// Duplicates keep first position.
func ExpandChannels(spec string) ([]int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, errors.NotValidf("empty channel specifier")
	}
	result := make([]int, 0, 4)
	seen := make(map[int]struct{})
	add := func(n int) {
		if _, ok := seen[n]; !ok {
			seen[n] = struct{}{}
			result = append(result, n)
		}
	}
	for _, item := range strings.Split(spec, "&") {
		item = strings.TrimSpace(item)
		if i := strings.IndexByte(item, '.'); i >= 0 {
			lo, err1 := parseChannel(item[:i])
			hi, err2 := parseChannel(item[i+1:])
			if err1 != nil || err2 != nil {
				return nil, errors.NotValidf("channel range %q", item)
			}
			if lo > hi || hi-lo > maxChannelRange {
				return nil, errors.NotValidf("channel range %q", item)
			}
			for n := lo; n <= hi; n++ {
				add(n)
			}
			continue
		}
		n, err := parseChannel(item)
		if err != nil {
			return nil, errors.NotValidf("channel %q", item)
		}
		add(n)
	}
	return result, nil
}

func parseChannel(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 0 || n > 0xffff {
		return 0, errors.Errorf("out of range")
	}
	return n, nil
}
