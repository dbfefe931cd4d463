package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/paintworklet/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		want     *app.Config
		wantExit bool
		wantErr  string
	}{
		{
			name: "positional path with defaults",
			args: []string{"project.hcl"},
			want: &app.Config{
				ConfigPaths: []string{"project.hcl"},
				LogFormat:   "json",
				LogLevel:    "info",
				OutDir:      ".",
				Workers:     4,
			},
		},
		{
			name: "all flags",
			args: []string{
				"-c", "a.yaml", "-log-level", "DEBUG", "-log-format", "text",
				"-serve-port", "8080", "-out-dir", "out", "-publish-url", "http://localhost:3000",
				"-script-timeout", "250ms", "-workers", "2", "b.yaml",
			},
			want: &app.Config{
				ConfigPaths:   []string{"a.yaml", "b.yaml"},
				LogFormat:     "text",
				LogLevel:      "debug",
				ServePort:     8080,
				OutDir:        "out",
				PublishURL:    "http://localhost:3000",
				ScriptTimeout: 250 * time.Millisecond,
				Workers:       2,
			},
		},
		{
			name: "config flag wins over shorthand",
			args: []string{"-config", "long.hcl", "-c", "short.hcl"},
			want: &app.Config{
				ConfigPaths: []string{"long.hcl"},
				LogFormat:   "json",
				LogLevel:    "info",
				OutDir:      ".",
				Workers:     4,
			},
		},
		{name: "help", args: []string{"-h"}, wantExit: true},
		{name: "no path", args: nil, wantExit: true},
		{name: "bad log level", args: []string{"-log-level", "loud", "p.hcl"}, wantErr: "invalid log-level"},
		{name: "bad log format", args: []string{"-log-format", "xml", "p.hcl"}, wantErr: "invalid log-format"},
		{name: "bad workers", args: []string{"-workers", "0", "p.hcl"}, wantErr: "invalid workers"},
		{name: "bad port", args: []string{"-serve-port", "70000", "p.hcl"}, wantErr: "out of range"},
		{name: "bad timeout", args: []string{"-script-timeout", "-1s", "p.hcl"}, wantErr: "must not be negative"},
		{name: "unknown flag", args: []string{"-nope"}, wantErr: "flag provided but not defined"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			var out bytes.Buffer

			// Act
			cfg, shouldExit, err := Parse(tc.args, &out)

			// Assert
			if tc.wantErr != "" {
				require.Error(t, err)
				var exitErr *ExitError
				require.ErrorAs(t, err, &exitErr)
				assert.Equal(t, 2, exitErr.Code)
				assert.Contains(t, exitErr.Message, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantExit, shouldExit)
			if tc.wantExit {
				assert.Contains(t, out.String(), "Usage:")
				return
			}
			if diff := cmp.Diff(tc.want, cfg); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
