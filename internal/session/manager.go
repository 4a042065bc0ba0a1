package session

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/vrazzer/LED-control/internal/command"
	"github.com/vrazzer/LED-control/internal/logging"
	"github.com/vrazzer/LED-control/internal/protocol"
	"github.com/vrazzer/LED-control/internal/state"
	"github.com/vrazzer/LED-control/internal/transport"
)

// Defaults used when the matching Config field is zero.
const (
	DefaultTimeout      = 60 * time.Second
	DefaultPollInterval = 250 * time.Millisecond
	DefaultBackoff      = time.Second
	DefaultSettleDelay  = 100 * time.Millisecond
	DefaultQueryTimeout = 5 * time.Second
	readBufferSize      = 1024
)

// ErrIncomplete is returned when the deadline passes with commands queued.
var ErrIncomplete = errors.New("session: deadline reached with commands still queued")

// Link is a connected packet transport.
type Link interface {
	io.ReadWriteCloser
	Wait(timeout time.Duration, input transport.LineSource) (transport.Ready, error)
}

// Dialer opens a link to address. The context deadline bounds the attempt.
type Dialer func(ctx context.Context, address string) (Link, error)

// DialL2CAP dials the device over the kernel Bluetooth stack.
func DialL2CAP(ctx context.Context, address string) (Link, error) {
	conn, err := transport.Dial(ctx, address)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Config controls one Manager run.
type Config struct {
	Address string
	// Commands are queued in order before any interactive input
	Commands []string
	// Interactive keeps the loop running after the queue drains and
	// disables the deadline
	Interactive bool
	// Input supplies interactive lines; nil means none
	Input transport.LineSource

	Timeout      time.Duration
	PollInterval time.Duration
	Backoff      time.Duration
	SettleDelay  time.Duration
	QueryTimeout time.Duration

	Dial      Dialer
	Observers []Observer
}

func (c *Config) applyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.Backoff <= 0 {
		c.Backoff = DefaultBackoff
	}
	if c.SettleDelay <= 0 {
		c.SettleDelay = DefaultSettleDelay
	}
	if c.QueryTimeout <= 0 {
		c.QueryTimeout = DefaultQueryTimeout
	}
	if c.Dial == nil {
		c.Dial = DialL2CAP
	}
}

// Manager drives one device: it connects, identifies, dispatches queued
// commands and reassembles state until the work is done or the deadline
// passes. It reconnects after any link failure.
type Manager struct {
	cfg      Config
	sess     *Session
	events   observers
	queue    []string
	link     Link
	input    transport.LineSource
	deadline time.Time
	progress time.Time
	readBuf  []byte
}

// NewManager validates cfg and returns a Manager ready to Run.
func NewManager(cfg Config) (*Manager, error) {
	if _, err := transport.ParseAddress(cfg.Address); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	m := &Manager{
		cfg:     cfg,
		sess:    New(cfg.Address),
		events:  observers(cfg.Observers),
		queue:   append([]string(nil), cfg.Commands...),
		readBuf: make([]byte, readBufferSize),
	}
	if cfg.Interactive {
		m.input = cfg.Input
	}
	return m, nil
}

// Session returns the protocol state. It must only be read after Run returns.
func (m *Manager) Session() *Session {
	return m.sess
}

// Pending returns the number of queued lines not yet dispatched.
func (m *Manager) Pending() int {
	return len(m.queue)
}

// Run executes the event loop. It returns nil once every queued command has
// been sent and any outstanding query has completed, ErrIncomplete if the
// deadline passed first, or the context error.
func (m *Manager) Run(ctx context.Context) error {
	m.deadline = time.Now().Add(m.cfg.Timeout)
	defer m.teardown(nil)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if m.done() {
			return nil
		}
		if !m.cfg.Interactive && !time.Now().Before(m.deadline) {
			if len(m.queue) > 0 {
				return ErrIncomplete
			}
			return nil
		}

		if m.link == nil {
			if err := m.connect(ctx); err != nil {
				m.sleep(ctx, m.cfg.Backoff)
			}
			continue
		}

		if err := m.step(ctx); err != nil {
			m.teardown(err)
			m.sleep(ctx, m.cfg.Backoff)
		}
	}
}

// done reports whether the loop has nothing left to do.
func (m *Manager) done() bool {
	if len(m.queue) > 0 || !m.sess.Query.Idle() {
		return false
	}
	if m.cfg.Interactive {
		return m.input == nil
	}
	return true
}

func (m *Manager) connect(ctx context.Context) error {
	dialCtx := ctx
	if !m.cfg.Interactive {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithDeadline(ctx, m.deadline)
		defer cancel()
	}

	logging.LogConnection(m.cfg.Address, "connecting")
	link, err := m.cfg.Dial(dialCtx, m.cfg.Address)
	if err != nil {
		logging.Warn("Connect failed", zap.String("address", m.cfg.Address), zap.Error(err))
		m.events.ConnectFailed(m.cfg.Address, err)
		return err
	}

	m.link = link
	m.sess.Reset()
	m.progress = time.Now()
	logging.LogConnection(m.cfg.Address, "connected")
	m.events.Connected(m.cfg.Address)
	return nil
}

func (m *Manager) teardown(err error) {
	if m.link == nil {
		return
	}
	if err != nil {
		logging.Warn("Link failed", zap.String("address", m.cfg.Address), zap.Error(err))
	}
	_ = m.link.Close()
	m.link = nil
	m.sess.Query.Abort()
	logging.LogConnection(m.cfg.Address, "disconnected")
	m.events.Disconnected(m.cfg.Address, err)
}

// step runs one poll cycle on a connected link.
func (m *Manager) step(ctx context.Context) error {
	ready, err := m.link.Wait(m.cfg.PollInterval, m.input)
	if err != nil {
		return err
	}

	if !ready.Link && !m.sess.Identified() {
		if err := m.probe(ctx); err != nil {
			return err
		}
	}

	if ready.Link {
		if err := m.receive(); err != nil {
			return err
		}
	}

	if ready.Input {
		m.readInput()
	}

	m.watchdog()

	if m.sess.CanSend() && len(m.queue) > 0 {
		line := m.queue[0]
		m.queue = m.queue[1:]
		return m.dispatch(ctx, line)
	}
	return nil
}

// probe sends the discovery request used to fingerprint the device.
func (m *Manager) probe(ctx context.Context) error {
	m.sleep(ctx, m.cfg.SettleDelay)
	return m.send(protocol.BuildIdentifyRequest())
}

func (m *Manager) receive() error {
	n, err := m.link.Read(m.readBuf)
	if err != nil {
		return err
	}
	data := m.readBuf[:n]
	logging.LogPacket("recv", data)

	if !m.sess.Identified() {
		if value, err := protocol.ParseReadByTypeValue(data); err == nil {
			if kind, ok := m.sess.HandleIdentify(value); ok {
				logging.Info("Device identified", zap.String("address", m.cfg.Address), zap.String("kind", kind))
				m.events.Identified(m.cfg.Address, kind)
			} else {
				logging.LogRawBytes("Unrecognised identify response", value)
			}
			return nil
		}
	}

	seg, err := protocol.ParseStateSegment(data)
	if errors.Is(err, protocol.ErrNotSegment) {
		return nil
	}
	if err != nil {
		logging.Debug("Dropping segment", zap.Error(err))
		m.events.Segment(state.SegmentDropped)
		return nil
	}

	m.progress = time.Now()
	result, report := m.sess.HandleSegment(seg)
	m.events.Segment(result)
	if result == state.SegmentDropped {
		logging.Debug("Segment overflows record", zap.Uint8("index", seg.Index), zap.Int("offset", m.sess.Query.Offset()))
	}
	if report != nil {
		logging.Debug("Query complete", zap.Int("query", report.Query), zap.Int("changes", len(report.Changes)))
		m.events.Reported(m.cfg.Address, m.sess.Kind, report)
	}
	return nil
}

func (m *Manager) readInput() {
	lines, err := m.input.ReadLines()
	m.queue = append(m.queue, lines...)
	if err == nil {
		return
	}
	if !errors.Is(err, io.EOF) {
		logging.Warn("Input failed", zap.Error(err))
	}
	m.input = nil
}

// watchdog abandons a query the device stopped answering.
func (m *Manager) watchdog() {
	if m.sess.Query.Idle() || time.Since(m.progress) < m.cfg.QueryTimeout {
		return
	}
	logging.Warn("Query timed out",
		zap.String("phase", m.sess.Query.Phase().String()),
		zap.Int("offset", m.sess.Query.Offset()))
	m.sess.Query.Abort()
}

func (m *Manager) dispatch(ctx context.Context, line string) error {
	req, err := command.EncodeLine(line, m.sess.Baseline())
	if err != nil {
		if command.IsEmpty(err) {
			return nil
		}
		if command.IsGuard(err) {
			logging.Info("Command skipped", zap.String("line", line), zap.Error(err))
		} else {
			logging.Warn("Command rejected", zap.String("line", line), zap.Error(err))
		}
		m.events.Rejected(line, err)
		return nil
	}

	if req.IsQuery() && m.sess.NeedsNotify() {
		if err := m.send(protocol.BuildNotifyEnable()); err != nil {
			return err
		}
		m.sleep(ctx, m.cfg.SettleDelay)
	}

	if err := m.send(req.Frame); err != nil {
		return err
	}
	if req.IsQuery() {
		m.sess.Query.Begin()
		m.progress = time.Now()
	}
	logging.Debug("Command sent", zap.String("request", req.String()))
	m.events.Sent(req)
	return nil
}

func (m *Manager) send(frame []byte) error {
	logging.LogPacket("send", frame)
	_, err := m.link.Write(frame)
	return err
}

// sleep waits for d or until ctx is done.
func (m *Manager) sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
