package config

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddWorklet_RejectsDuplicates(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.AddWorklet(&Worklet{Name: "a", Scripts: []string{"a.js"}}))

	err := m.AddWorklet(&Worklet{Name: "a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than once")

	assert.Error(t, m.AddWorklet(&Worklet{}))
}

func TestValidate(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.AddWorklet(&Worklet{Name: "rings", Scripts: []string{"rings.js"}}))
	require.NoError(t, m.AddWorklet(&Worklet{Name: "empty"}))
	m.Draws = []*Draw{
		{Worklet: "rings", Paint: "ring"},
		{Worklet: "ghost", Paint: "boo"},
		{Worklet: "rings"},
	}

	err := m.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), `worklet "empty" has no scripts`)
	assert.Contains(t, err.Error(), `unknown worklet "ghost"`)
	assert.Contains(t, err.Error(), "has no paint name")
	assert.NotContains(t, err.Error(), "rings/ring")
}

func TestParseTimeout(t *testing.T) {
	d, err := ParseTimeout("")
	require.NoError(t, err)
	assert.Zero(t, d)

	d, err = ParseTimeout("1500ms")
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, d)

	_, err = ParseTimeout("soon")
	assert.Error(t, err)
	_, err = ParseTimeout("-1s")
	assert.Error(t, err)
}

func TestResolvePaths(t *testing.T) {
	abs := filepath.Join(string(filepath.Separator), "abs", "x.js")

	got := ResolvePaths(filepath.Join("proj", "cfg"), []string{"a.js", abs})

	assert.Equal(t, []string{filepath.Join("proj", "cfg", "a.js"), abs}, got)
}

func TestCheckDimension(t *testing.T) {
	testCases := []struct {
		name    string
		px      float64
		wantErr bool
	}{
		{name: "zero", px: 0},
		{name: "upper bound", px: MaxDimension},
		{name: "lower bound", px: -MaxDimension},
		{name: "too wide", px: MaxDimension + 1, wantErr: true},
		{name: "too negative", px: -MaxDimension - 0.5, wantErr: true},
		{name: "nan", px: math.NaN(), wantErr: true},
		{name: "inf", px: math.Inf(1), wantErr: true},
		{name: "negative inf", px: math.Inf(-1), wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckDimension("width", tc.px)
			if tc.wantErr {
				assert.ErrorContains(t, err, "out of range")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
