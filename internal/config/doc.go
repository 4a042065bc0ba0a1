// Package config provides user configuration management for spe6ctrl.
//
// This package manages a YAML-based configuration file that stores device
// aliases and default options for the connect command. The configuration
// follows OS-specific conventions for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/spe6ctrl/config.yaml or $HOME/.config/spe6ctrl/config.yaml
//   - macOS: $HOME/.config/spe6ctrl/config.yaml
//   - Windows: %LOCALAPPDATA%\spe6ctrl\config.yaml
//
// # Example
//
//	version: 1
//	devices:
//	  desk:
//	    address: "C0:00:00:00:12:34"
//	    note: under-desk strip
//	preferences:
//	  timeout: 30
//	  listen: 127.0.0.1:9630
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	address, err := registry.ResolveDevice("desk")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// File operations are protected by a mutex to ensure atomic writes.
package config
