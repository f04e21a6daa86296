package amx

import "strings"

// Reassembler joins command strings split over several datagrams.
// A string is a fragment when its declared length exceeds delivered bytes.
type Reassembler struct {
	buf    strings.Builder
	want   int
	active bool
}

// Feed returns the complete command and true, or "" and false while incomplete.
func (self *Reassembler) Feed(text string, declared int) (string, bool) {
	if !self.active {
		if declared <= len(text) {
			return text, true
		}
		self.active = true
		self.want = declared
		self.buf.Reset()
		self.buf.WriteString(text)
		return "", false
	}
	self.buf.WriteString(text)
	if self.buf.Len() < self.want {
		return "", false
	}
	s := self.buf.String()
	self.Reset()
	return s, true
}

func (self *Reassembler) Pending() bool { return self.active }

func (self *Reassembler) Reset() {
	self.buf.Reset()
	self.want = 0
	self.active = false
}
