package session

import (
	"github.com/vrazzer/LED-control/internal/command"
	"github.com/vrazzer/LED-control/internal/state"
)

// Observer receives session events. Calls are made from the Manager loop and
// must not block.
type Observer interface {
	Connected(address string)
	ConnectFailed(address string, err error)
	Disconnected(address string, err error)
	Identified(address, kind string)
	Sent(req *command.Request)
	Rejected(line string, err error)
	Segment(result state.SegmentResult)
	Reported(address, kind string, report *state.Report)
}

// NopObserver implements Observer with no-ops; embed it to handle a subset.
type NopObserver struct{}

func (NopObserver) Connected(string)                       {}
func (NopObserver) ConnectFailed(string, error)            {}
func (NopObserver) Disconnected(string, error)             {}
func (NopObserver) Identified(string, string)              {}
func (NopObserver) Sent(*command.Request)                  {}
func (NopObserver) Rejected(string, error)                 {}
func (NopObserver) Segment(state.SegmentResult)            {}
func (NopObserver) Reported(string, string, *state.Report) {}

// observers fans one event out to many observers.
type observers []Observer

func (o observers) Connected(address string) {
	for _, ob := range o {
		ob.Connected(address)
	}
}

func (o observers) ConnectFailed(address string, err error) {
	for _, ob := range o {
		ob.ConnectFailed(address, err)
	}
}

func (o observers) Disconnected(address string, err error) {
	for _, ob := range o {
		ob.Disconnected(address, err)
	}
}

func (o observers) Identified(address, kind string) {
	for _, ob := range o {
		ob.Identified(address, kind)
	}
}

func (o observers) Sent(req *command.Request) {
	for _, ob := range o {
		ob.Sent(req)
	}
}

func (o observers) Rejected(line string, err error) {
	for _, ob := range o {
		ob.Rejected(line, err)
	}
}

func (o observers) Segment(result state.SegmentResult) {
	for _, ob := range o {
		ob.Segment(result)
	}
}

func (o observers) Reported(address, kind string, report *state.Report) {
	for _, ob := range o {
		ob.Reported(address, kind, report)
	}
}
