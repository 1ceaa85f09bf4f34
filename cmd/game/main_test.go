package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun_ConfigErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
		wantLog string
	}{
		{
			name:    "invalid log level",
			env:     map[string]string{"LOG_LEVEL": "loud"},
			wantErr: "config:",
		},
		{
			name: "missing gesture config is logged to the log file",
			env: map[string]string{
				"LOG_FILE":       filepath.Join(dir, "game.log"),
				"GESTURE_CONFIG": filepath.Join(dir, "missing.yaml"),
			},
			wantErr: "gesture config:",
			wantLog: "gesture config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			var stdout, stderr bytes.Buffer
			if code := run(os.Stdin, &stdout, &stderr); code != 1 {
				t.Fatalf("exit code = %d, want 1", code)
			}
			if !strings.Contains(stderr.String(), tt.wantErr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr.String(), tt.wantErr)
			}
			if tt.wantLog == "" {
				return
			}
			data, err := os.ReadFile(tt.env["LOG_FILE"])
			if err != nil {
				t.Fatalf("read log file: %v", err)
			}
			if !strings.Contains(string(data), tt.wantLog) {
				t.Errorf("log file = %q, want it to contain %q", data, tt.wantLog)
			}
		})
	}
}
