// Package ui renders spe6ctrl output for the terminal.
//
// Reports are written the way the controller tool always has: the byte diff
// goes to stderr prefixed with "diff: " and the field summary goes to stdout,
// one record per block. When the destination is a terminal the changed
// entries are highlighted with Lipgloss; when it is not, the output is the
// plain text, so scripts can parse it.
//
// # Components
//
//   - Console: a session observer that prints reports and link events
//   - Header: banner shown when an interactive session starts
//   - Result: success/failure box summarising a finished run
//   - Commands and Fields: reference tables for the command set and the
//     record layout
//
// # Logging Integration
//
// Zap logging is controlled via the SPE6CTRL_LOG_LEVEL environment variable
// and also goes to stderr. When unset, logging is silent and only the
// curated output is shown.
package ui
