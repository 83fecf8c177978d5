package api

import (
	"context"
	"flag"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("api", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 8000 {
		t.Fatalf("expected default port, got %d", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level, got %q", cfg.LogLevel)
	}
	if cfg.HealthGRPCAddr != "" {
		t.Fatalf("expected health endpoint disabled, got %q", cfg.HealthGRPCAddr)
	}
	if got := cfg.HTTPAddr(); got != "0.0.0.0:8000" {
		t.Fatalf("http addr = %q, want 0.0.0.0:8000", got)
	}
}

func TestParseConfigPortFallback(t *testing.T) {
	for _, value := range []string{"abc", "0", "70000", "-1"} {
		t.Setenv("PORT", value)

		fs := flag.NewFlagSet("api", flag.ContinueOnError)
		cfg, err := ParseConfig(fs, nil)
		if err != nil {
			t.Fatalf("PORT=%q: parse config: %v", value, err)
		}
		if cfg.Port != 8000 {
			t.Fatalf("PORT=%q: port = %d, want 8000", value, cfg.Port)
		}
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("MY_API_LOG_LEVEL", "debug")
	t.Setenv("MY_API_HEALTH_GRPC_ADDR", "env-health")
	t.Setenv("MY_API_CORS_ALLOW_ORIGIN", "http://env.example")

	fs := flag.NewFlagSet("api", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9000 || cfg.LogLevel != "debug" || cfg.HealthGRPCAddr != "env-health" || cfg.CORSAllowOrigin != "http://env.example" {
		t.Fatalf("unexpected env config: %+v", cfg)
	}

	fs = flag.NewFlagSet("api", flag.ContinueOnError)
	args := []string{
		"-port", "9100",
		"-log-level", "warn",
		"-health-grpc-addr", "flag-health",
		"-cors-allow-origin", "",
	}
	cfg, err = ParseConfig(fs, args)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9100 {
		t.Fatalf("expected flag port, got %d", cfg.Port)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("expected flag log level, got %q", cfg.LogLevel)
	}
	if cfg.HealthGRPCAddr != "flag-health" {
		t.Fatalf("expected flag health addr, got %q", cfg.HealthGRPCAddr)
	}
	if cfg.CORSAllowOrigin != "" {
		t.Fatalf("expected CORS disabled by flag, got %q", cfg.CORSAllowOrigin)
	}
}

func TestRunStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Config{Port: 0, LogLevel: "error", CORSAllowOrigin: "*"})
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after context cancel")
	}
}
