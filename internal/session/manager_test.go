package session

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vrazzer/LED-control/internal/command"
	"github.com/vrazzer/LED-control/internal/logging"
	"github.com/vrazzer/LED-control/internal/protocol"
	"github.com/vrazzer/LED-control/internal/state"
)

func runManager(t *testing.T, cfg Config) (*Manager, error) {
	t.Helper()
	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	return m, m.Run(context.Background())
}

func TestManagerDispatchesQueuedCommands(t *testing.T) {
	link := &fakeLink{fingerprint: patternSP630E1, record: testRecord(100)}
	rec := &recorder{}

	m, err := runManager(t, testConfig(dialSequence(link), rec, "power 1", "query 1"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := link.deviceOpcodes(); !bytes.Equal(got, []byte{0x50, protocol.OpcodeQuery}) {
		t.Errorf("device opcodes = % x, want 50 02", got)
	}
	if n := link.count(protocol.BuildNotifyEnable()); n != 1 {
		t.Errorf("notify enable sent %d times, want 1", n)
	}
	if !reflect.DeepEqual(rec.kinds, []string{"SP630E-1"}) {
		t.Errorf("identified kinds = %v, want [SP630E-1]", rec.kinds)
	}
	if !reflect.DeepEqual(rec.sent, []string{"power", "query"}) {
		t.Errorf("sent = %v, want [power query]", rec.sent)
	}
	if len(rec.reports) != 1 {
		t.Fatalf("reports = %d, want 1", len(rec.reports))
	}
	if rec.reports[0].HasChanges() {
		t.Errorf("first report has changes: %s", rec.reports[0].DiffLine())
	}
	if rec.reports[0].Firmware != "V3.0.08" {
		t.Errorf("report firmware = %q, want V3.0.08", rec.reports[0].Firmware)
	}

	sess := m.Session()
	if sess.Kind != "SP630E-1" {
		t.Errorf("session kind = %q, want SP630E-1", sess.Kind)
	}
	if sess.Current.Level() != 100 {
		t.Errorf("session level = %d, want 100", sess.Current.Level())
	}
	if !link.closed {
		t.Error("link left open after Run")
	}
}

func TestManagerNotifyEnabledOnce(t *testing.T) {
	link := &fakeLink{fingerprint: patternSP630E1, record: testRecord(100)}
	rec := &recorder{}

	if _, err := runManager(t, testConfig(dialSequence(link), rec, "?", "query 1")); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if n := link.count(protocol.BuildNotifyEnable()); n != 1 {
		t.Errorf("notify enable sent %d times, want 1", n)
	}
	if len(rec.reports) != 2 {
		t.Fatalf("reports = %d, want 2", len(rec.reports))
	}
	if rec.reports[1].Query != 2 {
		t.Errorf("second report query = %d, want 2", rec.reports[1].Query)
	}
}

func TestManagerLevelGuards(t *testing.T) {
	link := &fakeLink{fingerprint: patternSP630E1, record: testRecord(100)}
	rec := &recorder{}

	_, err := runManager(t, testConfig(dialSequence(link), rec, "query 1", "dec 200", "inc 100", "inc 150"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !reflect.DeepEqual(rec.sent, []string{"query", "inc"}) {
		t.Errorf("sent = %v, want [query inc]", rec.sent)
	}
	if len(rec.rejected) != 2 {
		t.Fatalf("rejected = %d, want 2", len(rec.rejected))
	}
	for _, err := range rec.rejected {
		if !command.IsGuard(err) {
			t.Errorf("rejection %v is not a guard error", err)
		}
	}
}

func TestManagerRejectsBadLines(t *testing.T) {
	link := &fakeLink{fingerprint: patternSP630E1}
	rec := &recorder{}

	_, err := runManager(t, testConfig(dialSequence(link), rec, "bogus 1", "", "power 300", "power 1"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !reflect.DeepEqual(rec.sent, []string{"power"}) {
		t.Errorf("sent = %v, want [power]", rec.sent)
	}
	if len(rec.rejected) != 2 {
		t.Fatalf("rejected = %v, want 2 entries", rec.rejected)
	}
	if !command.IsUnknownCommand(rec.rejected[0]) {
		t.Errorf("rejected[0] = %v, want unknown command", rec.rejected[0])
	}
	if !command.IsBadArgument(rec.rejected[1]) {
		t.Errorf("rejected[1] = %v, want bad argument", rec.rejected[1])
	}
}

func TestManagerUnknownDeviceSendsNothing(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logging.SetLogger(zap.New(core))
	defer logging.SetLogger(nil)

	link := &fakeLink{fingerprint: patternUnknown}
	rec := &recorder{}
	cfg := testConfig(dialSequence(link), rec, "power 1")
	cfg.Timeout = 100 * time.Millisecond

	m, err := runManager(t, cfg)
	if !errors.Is(err, ErrIncomplete) {
		t.Fatalf("Run() error = %v, want ErrIncomplete", err)
	}
	if m.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", m.Pending())
	}
	if ops := link.deviceOpcodes(); len(ops) != 0 {
		t.Errorf("device opcodes = % x, want none", ops)
	}
	if len(rec.kinds) != 0 || m.Session().Identified() {
		t.Errorf("device identified as %v", rec.kinds)
	}
	if link.count(protocol.BuildIdentifyRequest()) < 2 {
		t.Error("identify probe not repeated")
	}

	unrecognised := logs.FilterMessage("Unrecognised identify response").All()
	if len(unrecognised) == 0 {
		t.Fatal("unrecognised identify response not logged")
	}
	if got := unrecognised[0].ContextMap()["hex"]; got != "00000f00070015000000" {
		t.Errorf("logged hex = %v, want 00000f00070015000000", got)
	}
}

func TestManagerReconnects(t *testing.T) {
	first := &fakeLink{fingerprint: patternSP630E1, failAfter: 1}
	second := &fakeLink{fingerprint: patternSP630E1, record: testRecord(42)}
	rec := &recorder{}

	m, err := runManager(t, testConfig(dialSequence(nil, first, second), rec, "power 1", "query 1"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if rec.failed != 1 {
		t.Errorf("connect failures = %d, want 1", rec.failed)
	}
	if rec.connected != 2 {
		t.Errorf("connections = %d, want 2", rec.connected)
	}
	if len(rec.disconnect) == 0 || rec.disconnect[0] == nil {
		t.Errorf("first disconnect = %v, want link error", rec.disconnect)
	}
	if !reflect.DeepEqual(rec.kinds, []string{"SP630E-1", "SP630E-1"}) {
		t.Errorf("identified kinds = %v, want identification on each connection", rec.kinds)
	}
	if got := first.deviceOpcodes(); !bytes.Equal(got, []byte{0x50}) {
		t.Errorf("first link opcodes = % x, want 50", got)
	}
	if got := second.deviceOpcodes(); !bytes.Equal(got, []byte{protocol.OpcodeQuery}) {
		t.Errorf("second link opcodes = % x, want 02", got)
	}
	if m.Session().Current.Level() != 42 {
		t.Errorf("level = %d, want 42", m.Session().Current.Level())
	}
}

func TestManagerQueryWatchdog(t *testing.T) {
	link := &fakeLink{fingerprint: patternSP630E1, silent: true}
	rec := &recorder{}

	m, err := runManager(t, testConfig(dialSequence(link), rec, "query 1", "power 1"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !reflect.DeepEqual(rec.sent, []string{"query", "power"}) {
		t.Errorf("sent = %v, want [query power]", rec.sent)
	}
	if len(rec.reports) != 0 {
		t.Errorf("reports = %d, want 0", len(rec.reports))
	}
	if m.Session().Query.Completed() != 0 {
		t.Errorf("Completed() = %d, want 0", m.Session().Query.Completed())
	}
}

func TestManagerInteractiveInput(t *testing.T) {
	link := &fakeLink{fingerprint: patternSP630E1, record: testRecord(7)}
	rec := &recorder{}
	cfg := testConfig(dialSequence(link), rec)
	cfg.Interactive = true
	cfg.Input = &fakeInput{batches: [][]string{{"power 1"}, {"query 1"}}}

	if _, err := runManager(t, cfg); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !reflect.DeepEqual(rec.sent, []string{"power", "query"}) {
		t.Errorf("sent = %v, want [power query]", rec.sent)
	}
	if len(rec.reports) != 1 {
		t.Errorf("reports = %d, want 1", len(rec.reports))
	}
}

func TestManagerStopsOnCancel(t *testing.T) {
	rec := &recorder{}
	cfg := testConfig(dialSequence(), rec)
	cfg.Interactive = true
	cfg.Input = &fakeInput{}

	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	if err := m.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run() error = %v, want context deadline", err)
	}
	if rec.failed == 0 {
		t.Error("no connect attempts recorded")
	}
}

func TestNewManagerRejectsAddress(t *testing.T) {
	if _, err := NewManager(Config{Address: "kitchen"}); err == nil {
		t.Error("NewManager() accepted an invalid address")
	}
}

func TestSessionHandleSegment(t *testing.T) {
	sess := New("C0:00:00:00:12:34")
	first := testRecord(10)
	second := testRecord(20)

	feed := func(data []byte) *state.Report {
		t.Helper()
		sess.Query.Begin()
		var report *state.Report
		for i, off := 0, 0; off < state.FixedPrefix; i, off = i+1, off+40 {
			end := min(off+40, state.FixedPrefix)
			_, report = sess.HandleSegment(&protocol.Segment{Index: byte(i), Length: end - off, Payload: data[off:end]})
		}
		return report
	}

	if sess.Baseline().Queried {
		t.Error("Baseline().Queried before any query")
	}
	if !sess.NeedsNotify() {
		t.Error("NeedsNotify() = false on empty session")
	}

	r1 := feed(first)
	if r1 == nil || r1.HasChanges() {
		t.Fatalf("first report = %+v, want no changes", r1)
	}
	r2 := feed(second)
	if r2 == nil || len(r2.Changes) != 1 || r2.Changes[0].Offset != state.OffsetLevel {
		t.Fatalf("second report changes = %v, want level only", r2.Changes)
	}
	if got := sess.Baseline(); !got.Queried || got.Level != 20 {
		t.Errorf("Baseline() = %+v, want queried level 20", got)
	}

	sess.Kind = "SP630E-0"
	sess.Reset()
	if sess.Identified() || !sess.Current.IsEmpty() || sess.Query.Completed() != 0 {
		t.Error("Reset() left connection state behind")
	}
}
