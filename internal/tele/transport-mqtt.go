package tele

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/juju/errors"
	"github.com/temoto/tpanel/helpers"
	"github.com/temoto/tpanel/log2"
)

const (
	defaultKeepAlive   = 60 * time.Second
	defaultPingTimeout = 30 * time.Second
)

func TopicState(client string) string   { return fmt.Sprintf("%s/w/s", client) }
func TopicMessage(client string) string { return fmt.Sprintf("%s/w/m", client) }
func TopicCommand(client string) string { return fmt.Sprintf("%s/r/c", client) }

type transportMqtt struct {
	log       *log2.Log
	onCommand func([]byte) bool
	m         mqtt.Client
	mopt      *mqtt.ClientOptions
	stopCh    chan struct{}

	connectBackoff helpers.Backoff

	topicState   string
	topicMessage string
	topicCommand string
}

func (self *transportMqtt) Init(ctx context.Context, log *log2.Log, config Config, onCommand CommandCallback) error {
	self.log = log
	mqttLog := log.Clone(log2.LInfo)
	if config.LogDebug {
		mqttLog.SetLevel(log2.LDebug)
		mqtt.DEBUG = log2.Printer{L: mqttLog, Level: log2.LDebug}
	}
	mqtt.ERROR = log2.Printer{L: mqttLog, Level: log2.LError}
	mqtt.CRITICAL = log2.Printer{L: mqttLog, Level: log2.LError}
	mqtt.WARN = log2.Printer{L: mqttLog, Level: log2.LWarning}

	if config.MqttBroker == "" {
		return errors.NotValidf("tele.mqtt_broker empty")
	}
	clientID := config.ClientID
	if clientID == "" {
		clientID = "tpanel"
	}
	credFun := func() (string, string) {
		return clientID, config.MqttPassword
	}

	self.onCommand = func(payload []byte) bool {
		return onCommand(ctx, payload)
	}
	self.topicState = TopicState(clientID)
	self.topicMessage = TopicMessage(clientID)
	self.topicCommand = TopicCommand(clientID)
	pingTimeout := helpers.IntSecondDefault(config.PingTimeoutSec, defaultPingTimeout)
	if pingTimeout < time.Second {
		pingTimeout = time.Second
	}
	keepAlive := helpers.IntSecondDefault(config.KeepaliveSec, defaultKeepAlive)
	connectTimeout := pingTimeout * 3
	self.connectBackoff = helpers.Backoff{Min: time.Second, Max: connectTimeout, K: 2, Jitter: 0.5}
	self.stopCh = make(chan struct{})

	self.mopt = mqtt.NewClientOptions().
		AddBroker(config.MqttBroker).
		SetAutoReconnect(true).
		SetBinaryWill(self.topicState, []byte{stateOffline}, 1, true).
		SetCleanSession(false).
		SetClientID(clientID).
		SetConnectTimeout(connectTimeout).
		SetCredentialsProvider(credFun).
		SetDefaultPublishHandler(self.messageHandler).
		SetKeepAlive(keepAlive).
		SetMaxReconnectInterval(connectTimeout).
		SetOrderMatters(true).
		SetPingTimeout(pingTimeout).
		SetOnConnectHandler(self.onConnectHandler).
		SetConnectionLostHandler(self.connectLostHandler)
	if config.StorePath != "" {
		self.mopt.SetStore(mqtt.NewFileStore(config.StorePath))
	}
	self.m = mqtt.NewClient(self.mopt)

	// auto reconnect only applies after first successful connect
	go self.connect()
	return nil
}

func (self *transportMqtt) connect() {
	for {
		select {
		case <-self.stopCh:
			return
		case <-time.After(self.connectBackoff.DelayBefore()):
		}
		err := self.tokenWait(self.m.Connect(), "connect")
		self.connectBackoff.Update(err == nil)
		if err == nil {
			return
		}
	}
}

func (self *transportMqtt) Close() {
	close(self.stopCh)
	if !self.m.IsConnected() {
		return
	}
	if token := self.m.Unsubscribe(self.topicCommand); token.Wait() && token.Error() != nil {
		self.log.Infof("mqtt unsubscribe err=%v", token.Error())
	}
	self.m.Publish(self.topicState, 1, true, []byte{stateOffline}).Wait()
	self.m.Disconnect(uint(self.mopt.PingTimeout / time.Millisecond))
}

func (self *transportMqtt) SendState(payload []byte) bool {
	self.log.Infof("mqtt send state payload=%x", payload)
	self.m.Publish(self.topicState, 1, true, payload)
	return true
}

func (self *transportMqtt) SendMessage(payload []byte) bool {
	if !self.m.IsConnected() {
		return false
	}
	token := self.m.Publish(self.topicMessage, 1, false, payload)
	if token.Wait() && token.Error() != nil {
		self.log.Errorf("mqtt publish err=%v", token.Error())
		return false
	}
	return true
}

func (self *transportMqtt) tokenWait(t mqtt.Token, tag string) error {
	if !t.Wait() {
		err := errors.Errorf("mqtt %s timeout", tag)
		self.log.Error(err)
		return err
	}
	if err := t.Error(); err != nil {
		err = errors.Annotatef(err, "mqtt %s", tag)
		self.log.Error(err)
		return err
	}
	return nil
}

func (self *transportMqtt) messageHandler(c mqtt.Client, msg mqtt.Message) {
	if msg.Topic() != self.topicCommand {
		self.log.Errorf("mqtt message in unexpected topic=%s payload=%x", msg.Topic(), msg.Payload())
		return
	}
	payload := msg.Payload()
	self.log.Debugf("mqtt income message (%x)", payload)
	self.onCommand(payload)
}

func (self *transportMqtt) connectLostHandler(c mqtt.Client, err error) {
	self.log.Infof("mqtt disconnect err=%v", err)
}

func (self *transportMqtt) onConnectHandler(c mqtt.Client) {
	self.log.Infof("mqtt connect")
	if token := c.Subscribe(self.topicCommand, 1, nil); token.Wait() && token.Error() != nil {
		self.log.Errorf("mqtt subscribe err=%v", token.Error())
	} else {
		c.Publish(self.topicState, 1, true, []byte{stateOnline})
	}
}
