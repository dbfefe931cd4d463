package yamlconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/specialistvlad/paintworklet/internal/config"
	"github.com/specialistvlad/paintworklet/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	// Arrange
	ctx, _ := testutil.LogContext(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "project.yaml", `
worklets:
  - name: rings
    scripts: [rings.js]
    script_timeout: 2s
draws:
  - worklet: rings
    paint: ring
    width: 64
    height: 48.5
    output: ring.bmp
---
worklets:
  - name: dots
    scripts: [/abs/dots.js]
draws:
  - worklet: dots
    paint: dot
    width: 8
    height: 8
`)

	// Act
	model, err := NewLoader().Load(ctx, path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, &config.Worklet{
		Name:          "rings",
		Scripts:       []string{filepath.Join(dir, "rings.js")},
		ScriptTimeout: 2 * time.Second,
	}, model.Worklets["rings"])
	assert.Equal(t, []string{"/abs/dots.js"}, model.Worklets["dots"].Scripts)
	assert.Equal(t, []*config.Draw{
		{Worklet: "rings", Paint: "ring", Width: 64, Height: 48.5, Output: "ring.bmp"},
		{Worklet: "dots", Paint: "dot", Width: 8, Height: 8},
	}, model.Draws)
	assert.NoError(t, model.Validate())
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "unknown field", content: "worklets:\n  - name: a\n    script: [a.js]\n", wantErr: "field script not found"},
		{name: "bad timeout", content: "worklets:\n  - name: a\n    scripts: [a.js]\n    script_timeout: never\n", wantErr: "invalid script_timeout"},
		{name: "duplicate", content: "worklets:\n  - name: a\n    scripts: [a.js]\n  - name: a\n    scripts: [b.js]\n", wantErr: "more than once"},
		{name: "bad width", content: "draws:\n  - worklet: a\n    paint: b\n    width: wide\n", wantErr: "failed to decode"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := testutil.LogContext(t)
			path := writeFile(t, t.TempDir(), "p.yml", tc.content)

			_, err := NewLoader().Load(ctx, path)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad_NonFiniteDimensionFailsValidation(t *testing.T) {
	// Arrange
	ctx, _ := testutil.LogContext(t)
	path := writeFile(t, t.TempDir(), "project.yaml", `
worklets:
  - name: rings
    scripts: [rings.js]
draws:
  - worklet: rings
    paint: ring
    width: .nan
    height: 1e9
`)

	// Act
	model, err := NewLoader().Load(ctx, path)
	require.NoError(t, err)
	err = model.Validate()

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "draw rings/ring: width NaN is out of range")
	assert.Contains(t, err.Error(), "draw rings/ring: height 1e+09 is out of range")
}
