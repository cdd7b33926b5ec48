// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Config
		errCount int
	}{
		{
			name:     "Empty document uses defaults",
			input:    "",
			expected: Default(),
		},
		{
			name: "All sections",
			input: `
global:
  log:
    path: /var/log/pcepio
    name: capture.log
    level: debug
  decode:
    ignoreSpaces: true
    verifyRoundTrip: true
  capture:
    port: 14189
    maxFlows: 16
  ted:
    metric: te
`,
			expected: Config{Global: Global{
				Log:     Log{Path: "/var/log/pcepio", Name: "capture.log", Level: "debug"},
				Decode:  Decode{IgnoreSpaces: true, VerifyRoundTrip: true},
				Capture: Capture{Port: 14189, MaxFlows: 16},
				Ted:     Ted{Metric: "te"},
			}},
		},
		{
			name: "Partial section keeps other defaults",
			input: `
global:
  ted:
    metric: hopcount
`,
			expected: Config{Global: Global{
				Log:     Log{Name: DefaultLogName, Level: DefaultLogLevel},
				Capture: Capture{Port: DefaultPcepPort, MaxFlows: DefaultMaxFlows},
				Ted:     Ted{Metric: "hopcount"},
			}},
		},
		{
			name: "Every invalid field reported",
			input: `
global:
  log:
    level: verbose
  capture:
    maxFlows: -1
  ted:
    metric: delay
`,
			errCount: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse(strings.NewReader(tt.input))
			if tt.errCount > 0 {
				require.Error(t, err)
				assert.Len(t, multierr.Errors(err), tt.errCount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse(strings.NewReader("global: [1, 2"))
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestReadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pcepio.yaml")
	require.NoError(t, os.WriteFile(path, []byte("global:\n  capture:\n    port: 4190\n"), 0o600))

	c, err := ReadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, uint16(4190), c.Global.Capture.Port)
	assert.Equal(t, DefaultMaxFlows, c.Global.Capture.MaxFlows)

	_, err = ReadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLog_FilePath(t *testing.T) {
	assert.Equal(t, "", Log{Name: "x.log"}.FilePath())
	assert.Equal(t, filepath.Join("/tmp", "x.log"), Log{Path: "/tmp", Name: "x.log"}.FilePath())
}
