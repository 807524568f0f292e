package commands

import (
	"errors"
	"strings"
	"testing"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"

	"github.com/diogo/estate/internal/config"
)

func TestConfigCmd_OpensMenu(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.PerPage = 25

	if err := env.run("config"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !env.tui.configCalled {
		t.Fatal("config menu should be opened")
	}
	testboil.FailTestIfDiff(t, env.tui.configCfg.PerPage, 25)
	if !strings.HasSuffix(env.tui.configPath, "config.json") {
		t.Errorf("unexpected config path %q", env.tui.configPath)
	}
}

func TestConfigCmd_Show(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv(config.EnvServerURL, "http://env.test:5000")

	if err := env.run("config", "show"); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := env.stdout.String()
	for _, key := range config.Keys() {
		testboil.AssertStringContains(t, out, key)
	}
	testboil.AssertStringContains(t, out, "http://env.test:5000")
}

func TestConfigCmd_Get(t *testing.T) {
	env := newTestEnv(t)

	if err := env.run("config", "get", "per_page"); err != nil {
		t.Fatalf("run: %v", err)
	}
	testboil.FailTestIfDiff(t, env.stdout.String(), "10\n")

	if err := env.run("config", "get", "nope"); err == nil {
		t.Fatal("expected an unknown key error")
	}
}

func TestConfigCmd_Set(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		check   func(t *testing.T, cfg config.Config)
		wantErr bool
	}{
		{
			name:  "server url",
			key:   "server_url",
			value: "http://backend.test:8080/",
			check: func(t *testing.T, cfg config.Config) {
				testboil.FailTestIfDiff(t, cfg.ServerURL, "http://backend.test:8080")
			},
		},
		{
			name:  "per page",
			key:   "per_page",
			value: "25",
			check: func(t *testing.T, cfg config.Config) {
				testboil.FailTestIfDiff(t, cfg.PerPage, 25)
			},
		},
		{
			name:  "tui theme",
			key:   "tui_theme",
			value: "Nord",
			check: func(t *testing.T, cfg config.Config) {
				testboil.FailTestIfDiff(t, cfg.TUITheme, "nord")
			},
		},
		{
			name:  "verbose yes",
			key:   "verbose",
			value: "yes",
			check: func(t *testing.T, cfg config.Config) {
				testboil.FailTestIfDiff(t, cfg.Verbose, true)
			},
		},
		{name: "bad boolean", key: "save_history", value: "banana", wantErr: true},
		{name: "unknown theme", key: "tui_theme", value: "solarized", wantErr: true},
		{name: "bad url", key: "server_url", value: "localhost", wantErr: true},
		{name: "bad page size", key: "per_page", value: "0", wantErr: true},
		{name: "unknown key", key: "color", value: "red", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			err := env.run("config", "set", tt.key, tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				testboil.FailTestIfDiff(t, len(env.saved), 0)
				return
			}
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			testboil.FailTestIfDiff(t, len(env.saved), 1)
			tt.check(t, env.saved[0])
			testboil.AssertStringContains(t, env.stdout.String(), tt.key+" = ")
		})
	}
}

func TestConfigCmd_SetRefusesUnreadableFile(t *testing.T) {
	env := newTestEnv(t)
	env.deps.LoadConfig = func() (config.Config, error) {
		return config.DefaultConfig(), errors.New("failed to parse config file")
	}

	if err := env.run("config", "set", "per_page", "20"); err == nil {
		t.Fatal("expected an error")
	}
	testboil.FailTestIfDiff(t, len(env.saved), 0)
}

func TestConfigCmd_Path(t *testing.T) {
	env := newTestEnv(t)
	if err := env.run("config", "path"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(env.stdout.String()), "config.json") {
		t.Errorf("unexpected path output %q", env.stdout.String())
	}
}

func TestConfigCmd_Themes(t *testing.T) {
	env := newTestEnv(t)
	if err := env.run("config", "themes"); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := env.stdout.String()
	testboil.AssertStringContains(t, out, "Markdown styles (markdown.style):")
	testboil.AssertStringContains(t, out, "TUI themes (tui_theme):")
	testboil.AssertStringContains(t, out, "tokyonight")
	testboil.AssertStringContains(t, out, "dracula")
}
