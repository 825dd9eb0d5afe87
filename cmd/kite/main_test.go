package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/kite/internal/config"
	kerrors "github.com/vango-dev/kite/internal/errors"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// projectConfig writes a config using a single-quote file source.
func projectConfig(t *testing.T, mutate func(*config.Config)) string {
	t.Helper()
	dir := t.TempDir()
	quotes := filepath.Join(dir, "quotes.json")
	if err := os.WriteFile(quotes, []byte(`[{"content":"Less is more","author":"Mies"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.New()
	cfg.Quotes.Source = config.SourceFile
	cfg.Quotes.File = "quotes.json"
	if mutate != nil {
		mutate(cfg)
	}
	path := filepath.Join(dir, config.ConfigFileName)
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRender(t *testing.T) {
	cfgPath := projectConfig(t, nil)

	tests := []struct {
		name    string
		args    []string
		want    []string
		wantNot []string
	}{
		{
			name: "page",
			args: []string{"render"},
			want: []string{`data-component="Page"`, "Less is more", "Mies", "Refresh"},
			wantNot: []string{"Loading"},
		},
		{
			name: "random",
			args: []string{"render", "--component=random"},
			want: []string{`data-component="RandomQuote"`, "<blockquote", "Less is more"},
			wantNot: []string{"Refresh", "<!DOCTYPE html>"},
		},
		{
			name: "full page",
			args: []string{"render", "--component=refreshable", "--page"},
			want: []string{"<!DOCTYPE html>", `<div id="kite-root"><kite-region data-component="RefreshableQuote">`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append(tt.args, "--config", cfgPath)...)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			for _, w := range tt.wantNot {
				if strings.Contains(out, w) {
					t.Errorf("output contains %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestRenderFailedFetch(t *testing.T) {
	cfgPath := projectConfig(t, func(c *config.Config) { c.Quotes.Down = true })

	out, err := run(t, "render", "--component=refreshable", "--config", cfgPath)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `role="alert"`) || !strings.Contains(out, "network down") {
		t.Errorf("expected the error node:\n%s", out)
	}
	if !strings.Contains(out, "disabled") {
		t.Errorf("refresh button re-enabled after failure:\n%s", out)
	}
}

func TestFlagErrors(t *testing.T) {
	cfgPath := projectConfig(t, nil)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown component", []string{"render", "--component=nope"}},
		{"bad log level", []string{"render", "--log-level=loud"}},
		{"bad log format", []string{"render", "--log-format=xml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, append(tt.args, "--config", cfgPath)...)
			var ke *kerrors.KiteError
			if !errors.As(err, &ke) || ke.Code != "K200" {
				t.Errorf("err = %v, want K200", err)
			}
		})
	}

	if _, err := run(t, "render", "--config", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing --config file accepted")
	}
}

func TestTUIRequiresTerminal(t *testing.T) {
	if isTerminal(os.Stdin) && isTerminal(os.Stdout) {
		t.Skip("running on a terminal")
	}
	_, err := run(t, "tui", "--config", projectConfig(t, nil))
	var ke *kerrors.KiteError
	if !errors.As(err, &ke) || ke.Code != "K201" {
		t.Errorf("err = %v, want K201", err)
	}
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "init", "--dir", dir, "--yaml")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, config.YAMLConfigFileName) {
		t.Errorf("output = %q", out)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Address != config.DefaultAddress {
		t.Errorf("Address = %q", cfg.Server.Address)
	}

	if _, err := run(t, "init", "--dir", dir); err == nil {
		t.Error("init overwrote an existing config without --force")
	}
	if _, err := run(t, "init", "--dir", dir, "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version", "--short")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version --short = %q, want %q", out, version)
	}

	out, _ = run(t, "version")
	if !strings.Contains(out, "Go version:") {
		t.Errorf("version output = %q", out)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "debug", "json")
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	logger.Debug("hello", "k", "v")
	if !strings.Contains(buf.String(), `"msg":"hello"`) || !strings.Contains(buf.String(), `"k":"v"`) {
		t.Errorf("json output = %q", buf.String())
	}
}
