package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vrazzer/LED-control/internal/transport"
)

// Registry represents the entire user configuration file.
// This stores device aliases and application preferences.
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by alias
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Device is one named controller.
type Device struct {
	Address  string    `yaml:"address"`             // Bluetooth address, XX:XX:XX:XX:XX:XX
	Note     string    `yaml:"note,omitempty"`      // Free-form description
	LastKind string    `yaml:"last_kind,omitempty"` // Kind reported at the last identification
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last identification time
}

// Preferences represents application-wide user preferences. Zero values
// mean the built-in default.
type Preferences struct {
	Timeout    int    `yaml:"timeout,omitempty"`     // Session deadline in seconds
	LogLevel   string `yaml:"log_level,omitempty"`   // debug, info, warn or error
	Listen     string `yaml:"listen,omitempty"`      // Status server address, host:port
	MQTTBroker string `yaml:"mqtt_broker,omitempty"` // e.g. tcp://localhost:1883
	MQTTTopic  string `yaml:"mqtt_topic,omitempty"`  // Base topic for state publishing
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Devices:     make(map[string]*Device),
		Preferences: &Preferences{},
	}
}

// normalizeAlias returns the lookup key for an alias.
func normalizeAlias(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// GetDevice retrieves a device by alias.
// Returns nil if the alias doesn't exist in the registry.
func (r *Registry) GetDevice(alias string) *Device {
	return r.Devices[normalizeAlias(alias)]
}

// SetAlias creates or replaces an alias for address.
func (r *Registry) SetAlias(alias, address, note string) error {
	key := normalizeAlias(alias)
	if key == "" {
		return fmt.Errorf("alias must not be empty")
	}
	if transport.IsAddress(key) {
		return fmt.Errorf("alias %q looks like a device address", alias)
	}
	addr, err := transport.ParseAddress(address)
	if err != nil {
		return err
	}

	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}
	device, exists := r.Devices[key]
	if !exists || device.Address != addr.String() {
		device = &Device{Address: addr.String()}
		r.Devices[key] = device
	}
	device.Note = note
	return nil
}

// RemoveAlias deletes an alias. It reports whether the alias existed.
func (r *Registry) RemoveAlias(alias string) bool {
	key := normalizeAlias(alias)
	if _, ok := r.Devices[key]; !ok {
		return false
	}
	delete(r.Devices, key)
	return true
}

// Aliases returns the alias names in sorted order.
func (r *Registry) Aliases() []string {
	names := make([]string, 0, len(r.Devices))
	for name := range r.Devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveDevice turns a command-line target into a device address. A
// target that parses as an address is returned in canonical form;
// anything else must be a known alias.
func (r *Registry) ResolveDevice(target string) (string, error) {
	if addr, err := transport.ParseAddress(target); err == nil {
		return addr.String(), nil
	}
	device := r.GetDevice(target)
	if device == nil {
		return "", fmt.Errorf("unknown device %q: not an address or a configured alias", target)
	}
	return device.Address, nil
}

// RecordSeen stamps every alias of address with the identified kind. It
// reports whether any alias matched.
func (r *Registry) RecordSeen(address, kind string) bool {
	matched := false
	for _, device := range r.Devices {
		if strings.EqualFold(device.Address, address) {
			device.LastKind = kind
			device.LastSeen = time.Now()
			matched = true
		}
	}
	return matched
}
