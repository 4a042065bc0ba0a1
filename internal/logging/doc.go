// Package logging provides structured logging for the spe6ctrl session engine.
//
// This package wraps the zap logger with convenience functions for the logging
// patterns used by the session loop, the transport and the report sinks. Status
// output (state diffs and summaries) is not logging and is written to stdout by
// the CLI; everything in this package goes to stderr.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Packet hex dumps, dropped segments, poll timeouts
//   - Info: Connection lifecycle, device identification, sent commands
//   - Warn: Rejected commands, stuck queries, reconnects
//   - Error: Transport failures and sink failures
//
// # Structured Logging
//
//	logging.Info("Device identified",
//	    zap.String("address", "C0:00:00:00:12:34"),
//	    zap.String("kind", "SP630E-0"),
//	)
//
// # Packet Logging
//
//	logging.LogPacket("send", frame)
//	logging.LogPacket("recv", data)
//
// The one-byte write acknowledgement the device returns after every write
// request is only logged at debug level.
//
// # Configuration
//
// Initialize logging at startup:
//
//	if err := logging.Initialize("info"); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// An empty level falls back to the SPE6CTRL_LOG_LEVEL environment variable; when
// that is empty too, logging is silent.
package logging
