package tele

import (
	"sync"

	"github.com/temoto/tpanel/log2"
)

// Sender delivers panel originated messages to the controller.
type Sender interface {
	SendChannel(port, channel int, pressed bool)
	SendLevel(port, channel, value int)
	SendString(port, channel int, text string)
	SendCustomEvent(ev CustomEvent)
	SendCommand(port int, text string)
}

type Noop struct{}

var _ Sender = Noop{}

func (Noop) SendChannel(int, int, bool) {}
func (Noop) SendLevel(int, int, int) {}
func (Noop) SendString(int, int, string) {}
func (Noop) SendCustomEvent(CustomEvent) {}
func (Noop) SendCommand(int, string) {}

// Log prints outbound messages, used by interactive console.
type Log struct{ L *log2.Log }

var _ Sender = Log{}

func (self Log) SendChannel(port, channel int, pressed bool) { self.print(channelMessage(port, channel, pressed)) }
func (self Log) SendLevel(port, channel, value int) { self.print(levelMessage(port, channel, value)) }
func (self Log) SendString(port, channel int, text string) { self.print(stringMessage(port, channel, text)) }
func (self Log) SendCustomEvent(ev CustomEvent) { self.print(ev.message()) }
func (self Log) SendCommand(port int, text string) { self.print(commandMessage(port, text)) }
func (self Log) print(m *Message) { self.L.Infof("tele out %s", m.String()) }

// Recorder keeps sent messages for tests.
type Recorder struct {
	mu   sync.Mutex
	msgs []Message
}

var _ Sender = &Recorder{}

func (self *Recorder) add(m *Message) {
	self.mu.Lock()
	self.msgs = append(self.msgs, *m)
	self.mu.Unlock()
}

func (self *Recorder) Messages() []Message {
	self.mu.Lock()
	defer self.mu.Unlock()
	r := make([]Message, len(self.msgs))
	copy(r, self.msgs)
	return r
}

func (self *Recorder) Kind(kind int32) []Message {
	var r []Message
	for _, m := range self.Messages() {
		if m.Kind == kind {
			r = append(r, m)
		}
	}
	return r
}

func (self *Recorder) Reset() {
	self.mu.Lock()
	self.msgs = nil
	self.mu.Unlock()
}

func (self *Recorder) SendChannel(port, channel int, pressed bool) { self.add(channelMessage(port, channel, pressed)) }
func (self *Recorder) SendLevel(port, channel, value int) { self.add(levelMessage(port, channel, value)) }
func (self *Recorder) SendString(port, channel int, text string) { self.add(stringMessage(port, channel, text)) }
func (self *Recorder) SendCustomEvent(ev CustomEvent) { self.add(ev.message()) }
func (self *Recorder) SendCommand(port int, text string) { self.add(commandMessage(port, text)) }

func channelMessage(port, channel int, pressed bool) *Message {
	m := &Message{Kind: KindChannel, Port: int32(port), Channel: int32(channel)}
	if pressed {
		m.Value = 1
	}
	return m
}

func levelMessage(port, channel, value int) *Message {
	return &Message{Kind: KindLevel, Port: int32(port), Channel: int32(channel), Value: int32(value)}
}

func stringMessage(port, channel int, text string) *Message {
	return &Message{Kind: KindString, Port: int32(port), Channel: int32(channel), Text: text, Length: int32(len(text))}
}

func commandMessage(port int, text string) *Message {
	return &Message{Kind: KindCommand, Port: int32(port), Text: text, Length: int32(len(text))}
}
