package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	if !strings.Contains(configDir, "spe6ctrl") {
		t.Errorf("GetConfigDir() = %v, should contain 'spe6ctrl'", configDir)
	}

	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("macOS config dir should contain '.config', got: %v", configDir)
		}
	}
}

func TestGetConfigDirXDG(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME only applies on unix")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if want := filepath.Join(dir, "spe6ctrl"); got != want {
		t.Errorf("GetConfigDir() = %v, want %v", got, want)
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}
	if reg.Devices == nil {
		t.Error("NewRegistry().Devices should not be nil")
	}
	if reg.Preferences == nil {
		t.Error("NewRegistry().Preferences should not be nil")
	}
}

func TestRegistrySetAlias(t *testing.T) {
	tests := []struct {
		name    string
		alias   string
		address string
		wantErr bool
	}{
		{"valid", "desk", "c0:00:00:00:12:34", false},
		{"dash separated", "shelf", "C0-00-00-00-12-35", false},
		{"empty alias", "  ", "C0:00:00:00:12:34", true},
		{"alias is an address", "C0:00:00:00:12:34", "C0:00:00:00:12:34", true},
		{"bad address", "desk", "C0:00:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			err := reg.SetAlias(tt.alias, tt.address, "note")
			if (err != nil) != tt.wantErr {
				t.Fatalf("SetAlias() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if len(reg.Devices) != 0 {
					t.Errorf("Devices = %v, want empty after error", reg.Devices)
				}
				return
			}
			device := reg.GetDevice(strings.ToUpper(tt.alias))
			if device == nil {
				t.Fatal("GetDevice() returned nil")
			}
			if device.Address != strings.ToUpper(strings.ReplaceAll(tt.address, "-", ":")) {
				t.Errorf("Address = %v, want canonical form of %v", device.Address, tt.address)
			}
			if device.Note != "note" {
				t.Errorf("Note = %q, want note", device.Note)
			}
		})
	}
}

func TestRegistrySetAliasKeepsHistory(t *testing.T) {
	reg := NewRegistry()
	if err := reg.SetAlias("desk", "C0:00:00:00:12:34", ""); err != nil {
		t.Fatal(err)
	}
	reg.RecordSeen("c0:00:00:00:12:34", "SP630E-1")

	if err := reg.SetAlias("desk", "C0:00:00:00:12:34", "renamed"); err != nil {
		t.Fatal(err)
	}
	if got := reg.GetDevice("desk"); got.LastKind != "SP630E-1" || got.LastSeen.IsZero() {
		t.Errorf("same address lost history: %+v", got)
	}

	if err := reg.SetAlias("desk", "C0:00:00:00:99:99", ""); err != nil {
		t.Fatal(err)
	}
	if got := reg.GetDevice("desk"); got.LastKind != "" {
		t.Errorf("new address kept history: %+v", got)
	}
}

func TestRegistryRemoveAlias(t *testing.T) {
	reg := NewRegistry()
	_ = reg.SetAlias("desk", "C0:00:00:00:12:34", "")

	if !reg.RemoveAlias("Desk") {
		t.Error("RemoveAlias(Desk) = false, want true")
	}
	if reg.RemoveAlias("desk") {
		t.Error("second RemoveAlias(desk) = true, want false")
	}
}

func TestRegistryAliases(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"shelf", "desk", "bed"} {
		if err := reg.SetAlias(name, "C0:00:00:00:12:34", ""); err != nil {
			t.Fatal(err)
		}
	}
	got := strings.Join(reg.Aliases(), ",")
	if got != "bed,desk,shelf" {
		t.Errorf("Aliases() = %v, want bed,desk,shelf", got)
	}
}

func TestRegistryResolveDevice(t *testing.T) {
	reg := NewRegistry()
	_ = reg.SetAlias("desk", "C0:00:00:00:12:34", "")

	tests := []struct {
		target  string
		want    string
		wantErr bool
	}{
		{"desk", "C0:00:00:00:12:34", false},
		{"DESK", "C0:00:00:00:12:34", false},
		{"c0:00:00:00:ab:cd", "C0:00:00:00:AB:CD", false},
		{"kitchen", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			got, err := reg.ResolveDevice(tt.target)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveDevice() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveDevice() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	reg := NewRegistry()
	_ = reg.SetAlias("desk", "C0:00:00:00:12:34", "under-desk strip")
	reg.RecordSeen("C0:00:00:00:12:34", "SP630E-0")
	reg.Preferences.Timeout = 30
	reg.Preferences.Listen = "127.0.0.1:9630"
	reg.Preferences.MQTTBroker = "tcp://localhost:1883"

	if err := reg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("config mode = %v, want 0600", info.Mode().Perm())
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}

	loaded, err := LoadRegistryFrom(path)
	if err != nil {
		t.Fatalf("LoadRegistryFrom() error = %v", err)
	}

	device := loaded.GetDevice("desk")
	if device == nil {
		t.Fatal("loaded registry missing desk")
	}
	if device.Address != "C0:00:00:00:12:34" || device.Note != "under-desk strip" || device.LastKind != "SP630E-0" {
		t.Errorf("loaded device = %+v", device)
	}
	if loaded.Preferences.Timeout != 30 || loaded.Preferences.Listen != "127.0.0.1:9630" {
		t.Errorf("loaded preferences = %+v", loaded.Preferences)
	}
	if loaded.Preferences.MQTTBroker != "tcp://localhost:1883" {
		t.Errorf("MQTTBroker = %v", loaded.Preferences.MQTTBroker)
	}
}

func TestLoadRegistryFromMissing(t *testing.T) {
	reg, err := LoadRegistryFrom(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("LoadRegistryFrom() error = %v", err)
	}
	if reg.Version != 1 || len(reg.Devices) != 0 {
		t.Errorf("missing file registry = %+v, want defaults", reg)
	}
}

func TestLoadRegistryFromInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad version", "version: 2\n"},
		{"bad yaml", "version: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadRegistryFrom(path); err == nil {
				t.Error("LoadRegistryFrom() error = nil, want error")
			}
		})
	}
}

func TestLoadRegistryFromFillsNilMaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: 1\n"), 0600); err != nil {
		t.Fatal(err)
	}
	reg, err := LoadRegistryFrom(path)
	if err != nil {
		t.Fatalf("LoadRegistryFrom() error = %v", err)
	}
	if reg.Devices == nil || reg.Preferences == nil {
		t.Errorf("registry = %+v, want non-nil Devices and Preferences", reg)
	}
}

func BenchmarkResolveDevice(b *testing.B) {
	reg := NewRegistry()
	_ = reg.SetAlias("desk", "C0:00:00:00:12:34", "")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = reg.ResolveDevice("desk")
	}
}

func TestRegistryRecordSeen(t *testing.T) {
	reg := NewRegistry()
	_ = reg.SetAlias("desk", "C0:00:00:00:12:34", "")
	_ = reg.SetAlias("desk2", "C0:00:00:00:12:34", "")

	if reg.RecordSeen("C0:00:00:00:99:99", "SP630E-0") {
		t.Error("RecordSeen(unknown) = true, want false")
	}
	if !reg.RecordSeen("c0:00:00:00:12:34", "SP630E-1") {
		t.Fatal("RecordSeen(known) = false, want true")
	}
	for _, name := range []string{"desk", "desk2"} {
		if got := reg.GetDevice(name).LastKind; got != "SP630E-1" {
			t.Errorf("%s LastKind = %q, want SP630E-1", name, got)
		}
	}
}
