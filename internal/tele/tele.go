// Package tele is the controller bridge: outbound panel messages go through
// persistent queue to MQTT, inbound command topic feeds the engine.
package tele

import (
	"context"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/spq"
	"github.com/temoto/tpanel/helpers"
	"github.com/temoto/tpanel/internal/amx"
	"github.com/temoto/tpanel/log2"
)

// EventFunc receives inbound controller events.
type EventFunc func(context.Context, amx.Event)

// Bridge contract:
// - Init() fails only with invalid config, network issues ignored
// - Send* calls block at most for disk write,
//   messages are delivered in background at least once
// - Close() stops worker, undelivered messages stay on disk
type Bridge struct {
	config    Config
	log       *log2.Log
	transport Transporter
	q         *spq.Queue
	alive     *alive.Alive
	onEvent   EventFunc
	backoff   helpers.Backoff
}

var _ Sender = &Bridge{}

func NewBridge() *Bridge { return &Bridge{} }
func NewBridgeWithTransporter(trans Transporter) *Bridge {
	return &Bridge{transport: trans}
}

func (self *Bridge) Init(ctx context.Context, log *log2.Log, config Config, onEvent EventFunc) error {
	self.config = config
	self.log = log
	self.onEvent = onEvent
	if self.backoff.Min == 0 {
		self.backoff = helpers.Backoff{Min: time.Second, Max: time.Minute, K: 2}
	}
	if self.config.LogDebug {
		self.log.SetLevel(log2.LDebug)
	}
	if !self.config.Enabled {
		return nil
	}
	if self.config.PersistPath == "" {
		return errors.NotValidf("tele.persist_path empty")
	}

	// test code sets .transport
	if self.transport == nil {
		self.transport = &transportMqtt{}
	}
	if err := self.transport.Init(ctx, log, config, self.onCommandMessage); err != nil {
		return errors.Annotate(err, "tele transport")
	}
	var err error
	self.q, err = spq.Open(self.config.PersistPath)
	if err != nil {
		return errors.Annotate(err, "tele queue")
	}

	self.alive = alive.NewAlive()
	self.alive.Add(1)
	go self.qworker()
	self.transport.SendState([]byte{stateOnline})
	return nil
}

const (
	stateOffline byte = 0
	stateOnline  byte = 1
)

func (self *Bridge) Close() {
	if self.alive == nil {
		return
	}
	self.alive.Stop()
	self.q.Close()
	self.alive.Wait()
	self.transport.Close()
}

func (self *Bridge) enabled() bool {
	if !self.config.Enabled || self.q == nil {
		self.log.Debugf("tele disabled")
		return false
	}
	return true
}

func (self *Bridge) SendChannel(port, channel int, pressed bool) {
	self.push(channelMessage(port, channel, pressed))
}
func (self *Bridge) SendLevel(port, channel, value int) {
	self.push(levelMessage(port, channel, value))
}
func (self *Bridge) SendString(port, channel int, text string) {
	self.push(stringMessage(port, channel, text))
}
func (self *Bridge) SendCustomEvent(ev CustomEvent) { self.push(ev.message()) }
func (self *Bridge) SendCommand(port int, text string) {
	self.push(commandMessage(port, text))
}

// Error is log2 error hook, forwards error text to controller side.
func (self *Bridge) Error(e error) {
	if !self.config.Enabled || self.q == nil {
		return
	}
	self.push(&Message{Kind: KindError, Text: e.Error()})
}

func (self *Bridge) push(m *Message) {
	if !self.enabled() {
		return
	}
	if m.Time == 0 {
		m.Time = time.Now().UnixNano()
	}
	b, err := proto.Marshal(m)
	if err == nil {
		err = self.q.Push(b)
	}
	if err != nil {
		// not log.Error: error hook would recurse here
		self.log.Logf(log2.LError, "CRITICAL tele push msg=%s err=%v", m.String(), err)
	}
}

func (self *Bridge) qworker() {
	defer self.alive.Done()
	for {
		box, err := self.q.Peek()
		switch err {
		case nil:
			b := box.Bytes()
			if self.qhandle(b) {
				self.backoff.Reset()
				if err = self.q.Delete(box); err != nil {
					self.log.Logf(log2.LError, "tele queue Delete b=%x err=%v", b, err)
				}
			} else {
				if err = self.q.DeletePush(box); err != nil {
					self.log.Logf(log2.LError, "tele queue DeletePush b=%x err=%v", b, err)
				}
				select {
				case <-self.alive.StopChan():
					return
				case <-time.After(self.backoff.DelayAfter(false)):
				}
			}

		case spq.ErrClosed:
			if self.alive.IsRunning() {
				self.log.Logf(log2.LError, "CRITICAL tele spq closed unexpectedly")
			}
			return

		default:
			self.log.Logf(log2.LError, "CRITICAL tele spq err=%v", err)
			select {
			case <-self.alive.StopChan():
				return
			case <-time.After(self.backoff.DelayAfter(false)):
			}
		}
	}
}

// qhandle returns true when message may be deleted from queue.
func (self *Bridge) qhandle(b []byte) bool {
	if len(b) == 0 {
		self.log.Logf(log2.LError, "tele spq peek=empty")
		return true
	}
	var m Message
	if err := proto.Unmarshal(b, &m); err != nil {
		self.log.Logf(log2.LError, "tele spq unmarshal b=%x err=%v", b, err)
		// retry will not help
		return true
	}
	return self.transport.SendMessage(b)
}

func (self *Bridge) onCommandMessage(ctx context.Context, payload []byte) bool {
	var m Message
	if err := proto.Unmarshal(payload, &m); err != nil {
		self.log.Errorf("tele command parse raw=%x err=%v", payload, err)
		return true
	}
	self.log.Debugf("tele inbound %s", m.String())
	ev, err := m.Event()
	if err != nil {
		self.log.Warning(err)
		return true
	}
	if self.onEvent != nil {
		self.onEvent(ctx, ev)
	}
	return true
}

// Event converts inbound message to controller event.
func (m *Message) Event() (amx.Event, error) {
	ev := amx.Event{Device: int(m.Device), Port: int(m.Port), Channel: int(m.Channel)}
	switch m.Kind {
	case KindChannel:
		ev.Kind = amx.EventChannelOff
		if m.Value != 0 {
			ev.Kind = amx.EventChannelOn
		}
	case KindLevel:
		ev.Kind = amx.EventLevel
		ev.Value = int(m.Value)
	case KindString, KindCommand:
		ev.Kind = amx.EventString
		ev.Text = m.Text
		ev.Length = int(m.Length)
		if ev.Length == 0 {
			ev.Length = len(m.Text)
		}
	default:
		return ev, errors.NotValidf("tele message kind=%d", m.Kind)
	}
	return ev, nil
}
