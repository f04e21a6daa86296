package amx

import (
	"strings"

	"github.com/juju/errors"
	"github.com/paulrosania/go-charset/charset"
	_ "github.com/paulrosania/go-charset/data"
)

// Decoder converts controller strings from a legacy codepage to UTF-8.
// Not safe for concurrent use, the dispatcher owns it.
type Decoder struct {
	name string
	tr   charset.Translator
}

// NewDecoder returns nil decoder (pass-through) for empty or utf-8 name.
func NewDecoder(name string) (*Decoder, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return nil, nil
	}
	tr, err := charset.TranslatorFrom(name)
	if err != nil {
		return nil, errors.Annotatef(err, "charset=%s", name)
	}
	return &Decoder{name: name, tr: tr}, nil
}

func (self *Decoder) Decode(s string) (string, error) {
	if self == nil || isASCII(s) {
		return s, nil
	}
	_, out, err := self.tr.Translate([]byte(s), true)
	if err != nil {
		return s, errors.Annotatef(err, "charset=%s decode", self.name)
	}
	// translator reuses internal buffer
	return string(out), nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
