package tele

type Config struct {
	Enabled      bool   `hcl:"enabled"`
	MqttBroker   string `hcl:"mqtt_broker"`
	MqttPassword string `hcl:"mqtt_password"`
	ClientID     string `hcl:"client_id"`
	// spq outbound queue directory
	PersistPath string `hcl:"persist_path"`
	// paho in-flight store directory, memory store if empty
	StorePath      string `hcl:"store_path"`
	KeepaliveSec   int    `hcl:"keepalive_sec"`
	PingTimeoutSec int    `hcl:"ping_timeout_sec"`
	LogDebug       bool   `hcl:"log_debug"`
}
