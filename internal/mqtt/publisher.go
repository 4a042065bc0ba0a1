// Package mqtt publishes session state to an MQTT broker.
//
// Topics, relative to the configured base topic:
//
//	<base>/availability   "online" or "offline", retained, with a last will
//	<base>/kind           identified device kind, retained
//	<base>/state          JSON of the last completed query, retained
//	<base>/state/<field>  one retained message per field that changed
package mqtt

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/vrazzer/LED-control/internal/command"
	"github.com/vrazzer/LED-control/internal/logging"
	"github.com/vrazzer/LED-control/internal/state"
)

// Availability payloads
const (
	Online  = "online"
	Offline = "offline"
)

const (
	qos            = 1
	publishTimeout = 5 * time.Second
	connectTimeout = 10 * time.Second
)

// Config describes the broker connection.
type Config struct {
	Broker   string // e.g. tcp://localhost:1883
	Topic    string
	ClientID string
	Username string
	Password string
}

// DefaultTopic returns the base topic used for address when none is set.
func DefaultTopic(address string) string {
	return "spe6ctrl/" + strings.ToLower(strings.NewReplacer(":", "", "-", "").Replace(address))
}

// publisher is the subset of paho.Client the Publisher needs.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// Publisher mirrors session events to MQTT. It implements the session
// observer interface.
type Publisher struct {
	client publisher
	topic  string
	closer func()
}

// StatePayload is the JSON published on <base>/state.
type StatePayload struct {
	Address  string            `json:"address"`
	Kind     string            `json:"kind,omitempty"`
	Query    int               `json:"query"`
	Firmware string            `json:"firmware,omitempty"`
	Fields   map[string]string `json:"fields"`
	Changes  []string          `json:"changes,omitempty"`
	Time     time.Time         `json:"time"`
}

// Connect dials the broker and announces availability.
func Connect(cfg Config) (*Publisher, error) {
	if cfg.Broker == "" {
		return nil, fmt.Errorf("mqtt: broker address is required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("mqtt: base topic is required")
	}
	if cfg.ClientID == "" {
		cfg.ClientID = fmt.Sprintf("spe6ctrl-%d", time.Now().UnixNano())
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetWill(cfg.Topic+"/availability", Offline, qos, true)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		client.Disconnect(0)
		return nil, fmt.Errorf("mqtt: connect to %s timed out", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: connect to %s: %w", cfg.Broker, err)
	}
	logging.Info("MQTT connected", zap.String("broker", cfg.Broker), zap.String("topic", cfg.Topic))

	p := newPublisher(client, cfg.Topic)
	p.closer = func() { client.Disconnect(250) }
	return p, nil
}

func newPublisher(client publisher, topic string) *Publisher {
	return &Publisher{client: client, topic: strings.TrimSuffix(topic, "/")}
}

// Close marks the device offline and disconnects.
func (p *Publisher) Close() {
	p.wait(p.publish("availability", []byte(Offline), true))
	if p.closer != nil {
		p.closer()
	}
}

func (p *Publisher) publish(suffix string, payload []byte, retained bool) (string, paho.Token) {
	topic := p.topic + "/" + suffix
	return topic, p.client.Publish(topic, qos, retained, payload)
}

// wait blocks for one publish and logs a failure.
func (p *Publisher) wait(topic string, token paho.Token) {
	if !token.WaitTimeout(publishTimeout) {
		logging.Warn("MQTT publish timed out", zap.String("topic", topic))
		return
	}
	if err := token.Error(); err != nil {
		logging.Warn("MQTT publish failed", zap.String("topic", topic), zap.Error(err))
	}
}

// send publishes without blocking the caller.
func (p *Publisher) send(suffix string, payload []byte, retained bool) {
	topic, token := p.publish(suffix, payload, retained)
	go p.wait(topic, token)
}

// BuildState converts a report into the state payload.
func BuildState(address, kind string, report *state.Report, now time.Time) StatePayload {
	payload := StatePayload{
		Address:  address,
		Kind:     kind,
		Query:    report.Query,
		Firmware: report.Firmware,
		Fields:   report.Values(),
		Time:     now.UTC(),
	}
	for _, c := range report.Changes {
		payload.Changes = append(payload.Changes, c.String())
	}
	return payload
}

// changedFields returns the fields to publish individually. The first report
// on a connection publishes all of them.
func changedFields(report *state.Report) []state.FieldValue {
	var out []state.FieldValue
	for _, v := range report.Fields {
		if v.Separator {
			continue
		}
		if v.Changed || report.Query <= 1 {
			out = append(out, v)
		}
	}
	return out
}

func (p *Publisher) Connected(string) {
	p.send("availability", []byte(Online), true)
}

func (p *Publisher) ConnectFailed(string, error) {}

func (p *Publisher) Disconnected(string, error) {
	p.send("availability", []byte(Offline), true)
}

func (p *Publisher) Identified(_ string, kind string) {
	p.send("kind", []byte(kind), true)
}

func (p *Publisher) Sent(*command.Request) {}

func (p *Publisher) Rejected(string, error) {}

func (p *Publisher) Segment(state.SegmentResult) {}

func (p *Publisher) Reported(address, kind string, report *state.Report) {
	data, err := json.Marshal(BuildState(address, kind, report, time.Now()))
	if err != nil {
		logging.Warn("Failed to encode MQTT state", zap.Error(err))
		return
	}
	p.send("state", data, true)

	for _, v := range changedFields(report) {
		p.send("state/"+v.Key, []byte(v.Current), true)
	}
}
