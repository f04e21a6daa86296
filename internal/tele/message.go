package tele

import (
	"github.com/golang/protobuf/proto"
)

// Message kinds
const (
	KindChannel int32 = 1
	KindLevel   int32 = 2
	KindString  int32 = 3
	KindCustom  int32 = 4
	KindCommand int32 = 5
	KindError   int32 = 6
)

// Message is the bridge wire unit, both directions.
type Message struct {
	Kind     int32  `protobuf:"varint,1,opt,name=kind,proto3" json:"kind,omitempty"`
	Device   int32  `protobuf:"varint,2,opt,name=device,proto3" json:"device,omitempty"`
	Port     int32  `protobuf:"varint,3,opt,name=port,proto3" json:"port,omitempty"`
	Channel  int32  `protobuf:"varint,4,opt,name=channel,proto3" json:"channel,omitempty"`
	Value    int32  `protobuf:"varint,5,opt,name=value,proto3" json:"value,omitempty"`
	Text     string `protobuf:"bytes,6,opt,name=text,proto3" json:"text,omitempty"`
	Instance int32  `protobuf:"varint,7,opt,name=instance,proto3" json:"instance,omitempty"`
	Length   int32  `protobuf:"varint,8,opt,name=length,proto3" json:"length,omitempty"`
	Type     int32  `protobuf:"varint,9,opt,name=type,proto3" json:"type,omitempty"`
	Time     int64  `protobuf:"varint,10,opt,name=time,proto3" json:"time,omitempty"`
}

func (m *Message) Reset()         { *m = Message{} }
func (m *Message) String() string { return proto.CompactTextString(m) }
func (*Message) ProtoMessage()    {}

// CustomEvent is reply to query commands.
type CustomEvent struct {
	Port     int
	Channel  int
	Instance int
	Value    int
	Length   int
	Text     string
	Type     int
}

func (self CustomEvent) message() *Message {
	return &Message{
		Kind:     KindCustom,
		Port:     int32(self.Port),
		Channel:  int32(self.Channel),
		Instance: int32(self.Instance),
		Value:    int32(self.Value),
		Length:   int32(self.Length),
		Text:     self.Text,
		Type:     int32(self.Type),
	}
}
