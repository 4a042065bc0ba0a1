package mqtt

import (
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/vrazzer/LED-control/internal/state"
)

type doneToken struct{}

func (doneToken) Wait() bool                     { return true }
func (doneToken) WaitTimeout(time.Duration) bool { return true }
func (doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (doneToken) Error() error { return nil }

type message struct {
	topic    string
	payload  string
	retained bool
}

type fakeClient struct {
	mu       sync.Mutex
	messages []message
}

func (c *fakeClient) Publish(topic string, _ byte, retained bool, payload interface{}) paho.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, message{topic: topic, payload: string(payload.([]byte)), retained: retained})
	return doneToken{}
}

func (c *fakeClient) last(topic string) (message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].topic == topic {
			return c.messages[i], true
		}
	}
	return message{}, false
}

func (c *fakeClient) count(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, m := range c.messages {
		if len(m.topic) >= len(prefix) && m.topic[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func report(query int, prev, cur []byte) *state.Report {
	p := state.NewRecord(prev)
	c := state.NewRecord(cur)
	r := state.Compare(&p, &c)
	r.Query = query
	return &r
}

func TestDefaultTopic(t *testing.T) {
	if got := DefaultTopic("C0:00:00:00:12:AB"); got != "spe6ctrl/c000000012ab" {
		t.Errorf("DefaultTopic() = %q, want spe6ctrl/c000000012ab", got)
	}
}

func TestPublisherAvailability(t *testing.T) {
	client := &fakeClient{}
	p := newPublisher(client, "leds/desk/")

	p.Connected("C0:00:00:00:12:34")
	if m, ok := client.last("leds/desk/availability"); !ok || m.payload != Online || !m.retained {
		t.Errorf("availability after connect = %+v, %v", m, ok)
	}

	p.Identified("C0:00:00:00:12:34", "SP630E-1")
	if m, _ := client.last("leds/desk/kind"); m.payload != "SP630E-1" {
		t.Errorf("kind = %q, want SP630E-1", m.payload)
	}

	p.Disconnected("C0:00:00:00:12:34", io.EOF)
	if m, _ := client.last("leds/desk/availability"); m.payload != Offline {
		t.Errorf("availability after disconnect = %q, want offline", m.payload)
	}

	p.Close()
	if m, _ := client.last("leds/desk/availability"); m.payload != Offline {
		t.Errorf("availability after close = %q, want offline", m.payload)
	}
}

func TestPublisherState(t *testing.T) {
	client := &fakeClient{}
	p := newPublisher(client, "leds/desk")

	first := make([]byte, state.Capacity)
	first[state.OffsetLevel] = 10
	p.Reported("C0:00:00:00:12:34", "SP630E-0", report(1, first, first))

	m, ok := client.last("leds/desk/state")
	if !ok || !m.retained {
		t.Fatalf("state message = %+v, %v", m, ok)
	}
	var payload StatePayload
	if err := json.Unmarshal([]byte(m.payload), &payload); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if payload.Kind != "SP630E-0" || payload.Query != 1 || payload.Fields["level"] != "10" {
		t.Errorf("state payload = %+v", payload)
	}
	allFields := client.count("leds/desk/state/")
	if allFields == 0 {
		t.Fatal("first report published no field topics")
	}

	second := append([]byte(nil), first...)
	second[state.OffsetLevel] = 20
	p.Reported("C0:00:00:00:12:34", "SP630E-0", report(2, first, second))

	if got := client.count("leds/desk/state/") - allFields; got != 1 {
		t.Errorf("second report published %d field topics, want 1", got)
	}
	if m, _ := client.last("leds/desk/state/level"); m.payload != "20" {
		t.Errorf("state/level = %q, want 20", m.payload)
	}
}

func TestBuildState(t *testing.T) {
	prev := make([]byte, state.Capacity)
	cur := make([]byte, state.Capacity)
	cur[state.OffsetPower] = 1
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	got := BuildState("C0:00:00:00:12:34", "SP630E-1", report(3, prev, cur), now)
	if got.Query != 3 || !got.Time.Equal(now) {
		t.Errorf("BuildState() = %+v", got)
	}
	if len(got.Changes) != 1 || got.Changes[0] != "(power)0x17:00->01" {
		t.Errorf("Changes = %v, want [(power)0x17:00->01]", got.Changes)
	}
}

func TestConnectValidatesConfig(t *testing.T) {
	if _, err := Connect(Config{Topic: "x"}); err == nil {
		t.Error("Connect() without broker succeeded")
	}
	if _, err := Connect(Config{Broker: "tcp://127.0.0.1:1"}); err == nil {
		t.Error("Connect() without topic succeeded")
	}
}
