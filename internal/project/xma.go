package project

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/paulrosania/go-charset/charset"
	_ "github.com/paulrosania/go-charset/data"
)

type xmaEntry struct {
	P  string `xml:"p"`
	C  string `xml:"c"`
	AX string `xml:"ax"`
	PG string `xml:"pg"`
	BT string `xml:"bt"`
	PN string `xml:"pn"`
	BN string `xml:"bn"`
	I  string `xml:"i"`
}

// ReadMapXML reads channel map in the vendor .xma format:
// tables cm (state), am (analog), lm (level), strm (strings), sm (sounds),
// each a list of <me> entries. Other tables are skipped.
func ReadMapXML(r io.Reader) (*Map, error) {
	d := xml.NewDecoder(r)
	d.CharsetReader = charset.NewReader
	m := &Map{}
	table := ""
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return m, nil
		}
		if err != nil {
			return nil, errors.Annotate(err, "map xml")
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "cm", "am", "lm", "strm", "sm":
				table = t.Name.Local
			case "me":
				var e xmaEntry
				if err := d.DecodeElement(&e, &t); err != nil {
					return nil, errors.Annotatef(err, "map xml table=%s", table)
				}
				if err := m.add(table, &e); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			if t.Name.Local == table {
				table = ""
			}
		}
	}
}

func (self *Map) add(table string, e *xmaEntry) error {
	if table == "sm" {
		if name := strings.TrimSpace(e.I); name != "" {
			self.Sounds = append(self.Sounds, name)
		}
		return nil
	}
	me, err := e.entry()
	if err != nil {
		return errors.Annotatef(err, "map xml table=%s", table)
	}
	switch table {
	case "cm":
		self.State = append(self.State, me)
	case "am":
		self.Analog = append(self.Analog, me)
	case "lm":
		self.Level = append(self.Level, me)
	case "strm":
		self.Strings = append(self.Strings, me)
	}
	return nil
}

func (e *xmaEntry) entry() (MapEntry, error) {
	me := MapEntry{PageName: e.PN, ButtonName: e.BN}
	fields := []struct {
		s string
		p *int
	}{{e.P, &me.Port}, {e.C, &me.Channel}, {e.AX, &me.AddressExtra}, {e.PG, &me.PageID}, {e.BT, &me.ButtonID}}
	for _, f := range fields {
		s := strings.TrimSpace(f.s)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return me, errors.NotValidf("number %q", s)
		}
		*f.p = n
	}
	return me, nil
}
