package daemon

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 8480 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8480)
	}
	if cfg.TokenTTL() != 12*time.Hour {
		t.Errorf("TokenTTL() = %v, want 12h", cfg.TokenTTL())
	}
	if cfg.RemoteTimeout() != 15*time.Second {
		t.Errorf("RemoteTimeout() = %v, want 15s", cfg.RemoteTimeout())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestLoadConfig_NoFile(t *testing.T) {
	t.Setenv("TASKDECK_HOME", t.TempDir())
	t.Setenv("TASKDECK_API_URL", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Remote.URL != DefaultConfig().Remote.URL {
		t.Errorf("Remote.URL = %q, want default", cfg.Remote.URL)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	t.Setenv("TASKDECK_HOME", t.TempDir())
	t.Setenv("TASKDECK_API_URL", "")
	t.Setenv("TASKDECK_LOG_LEVEL", "")

	cfg := DefaultConfig()
	cfg.Server.Port = 9999
	cfg.Remote.URL = "http://tasks.internal:9999"
	cfg.Logging.Level = "debug"
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}

	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if got.Server.Port != 9999 || got.Remote.URL != "http://tasks.internal:9999" || got.Logging.Level != "debug" {
		t.Errorf("LoadConfig() = %+v", got)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("TASKDECK_HOME", home)
	t.Setenv("TASKDECK_API_URL", "http://from-env:1")
	t.Setenv("TASKDECK_LOG_FORMAT", "json")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Remote.URL != "http://from-env:1" {
		t.Errorf("Remote.URL = %q", cfg.Remote.URL)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q", cfg.Logging.Format)
	}
}

func TestLoadConfig_DotEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("TASKDECK_HOME", home)
	t.Setenv("TASKDECK_LOG_LEVEL", "")
	os.Unsetenv("TASKDECK_LOG_LEVEL")
	t.Cleanup(func() { os.Unsetenv("TASKDECK_LOG_LEVEL") })

	if err := os.WriteFile(filepath.Join(home, ".env"), []byte("TASKDECK_LOG_LEVEL=warn\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn from .env", cfg.Logging.Level)
	}
}

func TestLoadConfig_MalformedDotEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("TASKDECK_HOME", home)

	if err := os.WriteFile(filepath.Join(home, ".env"), []byte("TASKDECK_API_URL=\"http://unterminated\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("LoadConfig() should fail on a malformed .env")
	}
	if !strings.Contains(err.Error(), ".env") {
		t.Errorf("error = %v, want it to name the .env file", err)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"bad toml", "[server\nport = 1"},
		{"bad port", "[server]\nport = 70000"},
		{"bad ttl", "[server]\ntoken_ttl = \"soon\""},
		{"bad format", "[logging]\nformat = \"xml\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := t.TempDir()
			t.Setenv("TASKDECK_HOME", home)
			t.Setenv("TASKDECK_LOG_FORMAT", "")
			os.WriteFile(filepath.Join(home, "config.toml"), []byte(tt.toml), 0600)
			if _, err := LoadConfig(); err == nil {
				t.Error("LoadConfig() should fail")
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"30m", 30 * time.Minute},
		{"", time.Hour},
		{"garbage", time.Hour},
		{"-5s", time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseDuration(tt.input, time.Hour); got != tt.want {
				t.Errorf("parseDuration(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// ─── Logging ────────────────────────────────────────────────────────────────

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggingConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info should be filtered at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Errorf("json output = %q", out)
	}
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggingConfig{Level: "debug"}, &buf)
	logger.Debug("hello", "n", 1)

	out := buf.String()
	if !strings.Contains(out, "hello") || !strings.Contains(out, "n=1") {
		t.Errorf("text output = %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("non-terminal writer should get no colour codes")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug, "INFO": slog.LevelInfo, "warning": slog.LevelWarn,
		"error": slog.LevelError, "": slog.LevelInfo, "loud": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

// ─── Daemon ─────────────────────────────────────────────────────────────────

func TestDaemon_ServeAndShutdown(t *testing.T) {
	cfg := DefaultConfig()
	d, err := NewInDir(cfg, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewInDir() error: %v", err)
	}
	defer d.Close()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- d.ServeListener(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("ServeListener() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ServeListener() did not return after cancel")
	}
}
