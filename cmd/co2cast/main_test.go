package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	t.Setenv("CO2CAST_CONFIG", "")
	t.Setenv("CO2CAST_DATA", "")
	t.Setenv("CO2CAST_OUTPUT", "")

	tests := []struct {
		name      string
		args      []string
		wantCode  int
		wantOut   string
		wantError string
	}{
		{
			name:     "version",
			args:     []string{"--version"},
			wantCode: 0,
			wantOut:  "co2cast version dev",
		},
		{
			name:     "forecast",
			args:     []string{"wma", "Canada"},
			wantCode: 0,
			wantOut:  "Canada: weighted moving average forecast",
		},
		{
			name:      "unknown country",
			args:      []string{"wma", "Narnia"},
			wantCode:  1,
			wantError: `[co2cast] Error: country not found: "Narnia"`,
		},
		{
			name:      "unknown command",
			args:      []string{"forecast-everything"},
			wantCode:  1,
			wantError: "unknown command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), tt.args, &stdout, &stderr)

			assert.Equal(t, tt.wantCode, code)
			if tt.wantOut != "" {
				assert.Contains(t, stdout.String(), tt.wantOut)
			}
			if tt.wantError != "" {
				assert.Contains(t, stderr.String(), tt.wantError)
			}
		})
	}
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run(ctx, []string{"wma", "Canada"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "context canceled")
}
