package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
)

// withHome points HOME at a temp dir for the duration of the test
func withHome(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	return tmpDir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ServerURL != "http://localhost:5000" {
		t.Errorf("Expected default server to be 'http://localhost:5000', got '%s'", cfg.ServerURL)
	}
	if cfg.RequestTimeout != 30 {
		t.Errorf("Expected RequestTimeout to be 30, got %d", cfg.RequestTimeout)
	}
	if !cfg.SaveHistory {
		t.Error("Expected SaveHistory to be true")
	}
	if cfg.Verbose {
		t.Error("Expected Verbose to be false")
	}
	if cfg.PerPage != 10 {
		t.Errorf("Expected PerPage to be 10, got %d", cfg.PerPage)
	}
	if cfg.TUITheme != "tokyonight" {
		t.Errorf("Expected TUITheme to be 'tokyonight', got '%s'", cfg.TUITheme)
	}
}

func TestGetConfigPath(t *testing.T) {
	home := withHome(t)

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() returned error: %v", err)
	}
	testboil.FailTestIfDiff(t, path, filepath.Join(home, ".estate", "config.json"))

	logPath, err := GetDebugLogPath()
	if err != nil {
		t.Fatalf("GetDebugLogPath() returned error: %v", err)
	}
	testboil.FailTestIfDiff(t, logPath, filepath.Join(home, ".estate", "debug.log"))
}

func TestEnsureConfigDir(t *testing.T) {
	withHome(t)

	dir, err := EnsureConfigDir()
	if err != nil {
		t.Fatalf("EnsureConfigDir() returned error: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Directory does not exist: %v", err)
	}
	if !info.IsDir() {
		t.Error("Path is not a directory")
	}
	if perm := info.Mode().Perm(); perm != 0o700 {
		t.Errorf("Directory permissions = %o, want 700", perm)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	withHome(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	testboil.FailTestIfDiff(t, cfg, DefaultConfig())
}

func TestSaveConfig(t *testing.T) {
	home := withHome(t)

	cfg := DefaultConfig()
	cfg.ServerURL = "http://analytics.internal:8080"
	cfg.Verbose = true
	cfg.PerPage = 25

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() returned error: %v", err)
	}

	configPath := filepath.Join(home, ".estate", "config.json")
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	var saved Config
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("Failed to parse saved config: %v", err)
	}
	testboil.FailTestIfDiff(t, saved, cfg)

	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("Failed to stat config file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("File permissions = %o, want 600", perm)
	}
}

func TestLoadConfig_WithExistingFile(t *testing.T) {
	home := withHome(t)

	configDir := filepath.Join(home, ".estate")
	_ = os.MkdirAll(configDir, 0o755)

	// per_page and request_timeout are zero in a hand-written partial file
	partial := `{"server_url": "http://10.0.0.5:5000", "verbose": true, "save_history": false}`
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte(partial), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}

	testboil.FailTestIfDiff(t, cfg.ServerURL, "http://10.0.0.5:5000")
	testboil.FailTestIfDiff(t, cfg.Verbose, true)
	testboil.FailTestIfDiff(t, cfg.SaveHistory, false)
	testboil.FailTestIfDiff(t, cfg.PerPage, 10)
	testboil.FailTestIfDiff(t, cfg.RequestTimeout, 30)
}

func TestLoadConfig_Normalizes(t *testing.T) {
	home := withHome(t)

	configDir := filepath.Join(home, ".estate")
	_ = os.MkdirAll(configDir, 0o755)
	body := `{"server_url": "", "request_timeout": -4, "per_page": 0, "tui_theme": "", "markdown": {"style": ""}}`
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte(body), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	def := DefaultConfig()
	testboil.FailTestIfDiff(t, cfg.ServerURL, def.ServerURL)
	testboil.FailTestIfDiff(t, cfg.RequestTimeout, def.RequestTimeout)
	testboil.FailTestIfDiff(t, cfg.PerPage, def.PerPage)
	testboil.FailTestIfDiff(t, cfg.TUITheme, def.TUITheme)
	testboil.FailTestIfDiff(t, cfg.Markdown.Style, def.Markdown.Style)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	home := withHome(t)

	configDir := filepath.Join(home, ".estate")
	_ = os.MkdirAll(configDir, 0o755)
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte(`{"invalid": json content`), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfig()
	if err == nil {
		t.Error("LoadConfig() with invalid JSON should return error")
	}
	testboil.FailTestIfDiff(t, cfg, DefaultConfig())
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvServerURL, "http://from-env:9000")
	t.Setenv(EnvVerbose, "true")
	t.Setenv(EnvTheme, "nord")

	cfg := ApplyEnv(DefaultConfig())
	testboil.FailTestIfDiff(t, cfg.ServerURL, "http://from-env:9000")
	testboil.FailTestIfDiff(t, cfg.Verbose, true)
	testboil.FailTestIfDiff(t, cfg.TUITheme, "nord")
}

func TestApplyEnv_Verbose(t *testing.T) {
	tests := []struct {
		name  string
		value string
		base  bool
		want  bool
	}{
		{"yes", "yes", false, true},
		{"off", "off", true, false},
		{"one", "1", false, true},
		{"empty", "", true, false},
		{"garbage keeps true", "sometimes", true, true},
		{"garbage keeps false", "sometimes", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvVerbose, tt.value)
			cfg := DefaultConfig()
			cfg.Verbose = tt.base
			testboil.FailTestIfDiff(t, ApplyEnv(cfg).Verbose, tt.want)
		})
	}
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"true", "TRUE", "1", "t", "yes", "Y", "on"} {
		if b, err := ParseBool(v); err != nil || !b {
			t.Errorf("ParseBool(%q) = %v, %v; want true", v, b, err)
		}
	}
	for _, v := range []string{"false", "0", "F", "no", "n", "OFF"} {
		if b, err := ParseBool(v); err != nil || b {
			t.Errorf("ParseBool(%q) = %v, %v; want false", v, b, err)
		}
	}
	for _, v := range []string{"", "banana", "2"} {
		if _, err := ParseBool(v); err == nil {
			t.Errorf("ParseBool(%q) should fail", v)
		}
	}
}

func TestApplyEnv_Unset(t *testing.T) {
	t.Setenv(EnvServerURL, "")
	t.Setenv(EnvTheme, "")
	_ = os.Unsetenv(EnvVerbose)

	cfg := DefaultConfig()
	cfg.Verbose = true
	got := ApplyEnv(cfg)
	testboil.FailTestIfDiff(t, got, cfg)
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	home := withHome(t)
	t.Setenv(EnvServerURL, "")
	_ = os.Unsetenv(EnvServerURL)
	t.Cleanup(func() { _ = os.Unsetenv(EnvServerURL) })

	configDir := filepath.Join(home, ".estate")
	_ = os.MkdirAll(configDir, 0o700)
	envFile := filepath.Join(configDir, ".env")
	if err := os.WriteFile(envFile, []byte("ESTATE_SERVER_URL=http://dotenv:7000\n"), 0o600); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}

	t.Chdir(t.TempDir())
	loaded := LoadEnvFiles()
	testboil.FailTestIfDiff(t, len(loaded), 1)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	testboil.FailTestIfDiff(t, cfg.ServerURL, "http://dotenv:7000")
}

func TestConfigSet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    string
		wantErr bool
	}{
		{"server_url", "http://192.168.1.20:5000/", "http://192.168.1.20:5000", false},
		{"server_url", "localhost:5000", "", true},
		{"server_url", "ftp://host", "", true},
		{"request_timeout", "60", "60", false},
		{"request_timeout", "0", "", true},
		{"request_timeout", "soon", "", true},
		{"verbose", "yes", "true", false},
		{"verbose", "0", "false", false},
		{"verbose", "On", "true", false},
		{"verbose", "maybe", "", true},
		{"save_history", "banana", "", true},
		{"save_history", "no", "false", false},
		{"markdown.enable_emoji", "", "", true},
		{"copy_to_clipboard", "true", "true", false},
		{"save_history", "false", "false", false},
		{"tui_theme", "Dracula", "dracula", false},
		{"per_page", "50", "50", false},
		{"per_page", "-1", "", true},
		{"markdown.style", "light", "light", false},
		{"markdown.enable_emoji", "false", "false", false},
		{"default_model", "pro", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg, err := DefaultConfig().Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			got, err := cfg.Get(tt.key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			testboil.FailTestIfDiff(t, got, tt.want)
		})
	}
}

func TestKeys(t *testing.T) {
	keys := Keys()
	if len(keys) != len(fields) {
		t.Fatalf("Keys() returned %d keys, want %d", len(keys), len(fields))
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Errorf("Keys() not sorted: %v", keys)
		}
	}
	if _, err := DefaultConfig().Get("nope"); err == nil {
		t.Error("Get() of unknown key should fail")
	}
}
