// Package amx is the text protocol spoken by the master controller:
// decoded events, command grammar, channel specifiers and fragments.
package amx

import (
	"fmt"
	"strconv"
)

type EventKind uint8

const (
	EventInvalid EventKind = iota
	EventChannelOn
	EventChannelOff
	EventLevel
	EventString
	EventBlink
)

func (k EventKind) String() string {
	switch k {
	case EventChannelOn:
		return "on"
	case EventChannelOff:
		return "off"
	case EventLevel:
		return "level"
	case EventString:
		return "string"
	case EventBlink:
		return "blink"
	}
	return "invalid"
}

// Blink is the controller heartbeat carrying wall clock and LED state.
type Blink struct {
	Hour, Minute, Second int
	Year, Month, Day     int
	Weekday              int
	LED                  bool
}

// Event is one decoded message from the controller link.
type Event struct {
	Kind    EventKind
	Device  int
	Port    int
	Channel int
	Value   int
	Text    string
	// Declared length of Text in bytes. Greater than len(Text) marks a fragment.
	Length int
	Blink  Blink
}

func ChannelOn(port, channel int) Event  { return Event{Kind: EventChannelOn, Port: port, Channel: channel} }
func ChannelOff(port, channel int) Event { return Event{Kind: EventChannelOff, Port: port, Channel: channel} }
func Level(port, channel, value int) Event {
	return Event{Kind: EventLevel, Port: port, Channel: channel, Value: value}
}
func String(port int, text string) Event {
	return Event{Kind: EventString, Port: port, Text: text, Length: len(text)}
}

// CommandText synthesizes the command string dispatched for the event.
// String events return Text as is.
func (self Event) CommandText() string {
	switch self.Kind {
	case EventChannelOn:
		return "ON-" + strconv.Itoa(self.Channel)
	case EventChannelOff:
		return "OFF-" + strconv.Itoa(self.Channel)
	case EventLevel:
		return fmt.Sprintf("LEVEL-%d,%d", self.Channel, self.Value)
	case EventString:
		return self.Text
	case EventBlink:
		b := self.Blink
		led := "OFF"
		if b.LED {
			led = "ON"
		}
		return fmt.Sprintf("BLINK-%d:%02d:%02d,%d-%02d-%02d,%d,%s",
			b.Hour, b.Minute, b.Second, b.Year, b.Month, b.Day, b.Weekday, led)
	}
	return ""
}

func (self Event) String() string {
	return fmt.Sprintf("%s device=%d port=%d %s", self.Kind.String(), self.Device, self.Port, strconv.Quote(self.CommandText()))
}
