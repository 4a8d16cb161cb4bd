package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPackCommand(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"crypto_forecast.json": `[{"ds":"2025-08-09","yhat":1}]`,
		"eth_forecast.json":    `[{"ds":"2025-08-09","yhat":2}]`,
		"doge_forecast.json":   `[{"ds":"2025-08-09","yhat":3}]`,
		"gold_forecast.json":   `[{"ds":"2025-08-09","yhat":4}]`,
		"gold_actual_data.csv": `"13-08-2025","3,350.00"`,
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	out := filepath.Join(t.TempDir(), "forecasts.db")

	cmd := newRootCmd()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"--data-dir", dir, "-o", out})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("bundle not written: %v", err)
	}
	if !strings.Contains(stdout.String(), "gold-actual") {
		t.Errorf("summary = %q", stdout.String())
	}
}

func TestPackCommandRequiresOutput(t *testing.T) {
	t.Setenv("FORECAST_DB", "")
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--data-dir", t.TempDir()})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error without output path")
	}
}
