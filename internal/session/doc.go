// Package session runs the conversation with one SP630E controller.
//
// A Manager owns the link for the whole run. One goroutine connects,
// identifies the device, dispatches queued command lines and reassembles
// state notifications, all driven by a single poll over the link and the
// optional interactive input. Nothing is sent until the device has been
// identified, and a command is only dispatched when no query is in flight.
//
// # Events
//
// Everything that happens is reported to Observers: the console printer,
// the Prometheus collector, the status server and the MQTT publisher all
// implement the same interface.
//
//	mgr, err := session.NewManager(session.Config{
//	    Address:   "C0:00:00:00:12:34",
//	    Commands:  []string{"power 1", "set 128", "?"},
//	    Dial:      session.DialL2CAP,
//	    Observers: []session.Observer{console},
//	})
//	if err != nil {
//	    return err
//	}
//	err = mgr.Run(ctx)
//
// # Replay
//
// Replay feeds a packet capture through the same decoding path, which is
// useful for examining a session after the fact.
package session
