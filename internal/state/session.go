package state

import (
	"github.com/golang/protobuf/proto"
	"github.com/juju/errors"
	"github.com/temoto/tpanel/internal/panel"
)

// Session is the screen layout saved across restarts.
type Session struct {
	Page string `protobuf:"bytes,1,opt,name=page,proto3" json:"page,omitempty"`
	// visible popups of active page, lowest z first
	Popups []string `protobuf:"bytes,2,rep,name=popups,proto3" json:"popups,omitempty"`
	Time   int64    `protobuf:"varint,3,opt,name=time,proto3" json:"time,omitempty"`
}

func (m *Session) Reset()         { *m = Session{} }
func (m *Session) String() string { return proto.CompactTextString(m) }
func (*Session) ProtoMessage()    {}

var _ Stater = &Session{}

func (self *Session) MarshalBinary() ([]byte, error) {
	b, err := proto.Marshal(self)
	return b, errors.Annotate(err, "session marshal")
}

func (self *Session) UnmarshalBinary(b []byte) error {
	err := proto.Unmarshal(b, self)
	return errors.Annotate(err, "session unmarshal")
}

// Capture copies layout from panel. Caller must hold engine state.
func (self *Session) Capture(p *panel.Panel) {
	self.Page = ""
	self.Popups = self.Popups[:0]
	active := p.Registry.Active()
	if active == nil {
		return
	}
	self.Page = active.Name
	visible := active.VisibleSubPages()
	for i := len(visible) - 1; i >= 0; i-- {
		self.Popups = append(self.Popups, visible[i].Name)
	}
}

// Commands replays layout through the engine, showing popups in z order.
func (self *Session) Commands() []string {
	if self.Page == "" {
		return nil
	}
	r := make([]string, 0, 1+len(self.Popups))
	r = append(r, "PAGE-"+self.Page)
	for _, name := range self.Popups {
		r = append(r, "@PPN-"+name)
	}
	return r
}
