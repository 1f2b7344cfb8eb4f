package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/hotswap/cmd/hotswap/commands"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name         string
		files        map[string]string
		args         []string
		expectedExit int
		expectedOut  string
	}{
		{
			name: "check valid mod",
			files: map[string]string{
				"mod.yaml":     "id: ra\nweapons: [weapons.yaml]\n",
				"weapons.yaml": "m1carbine: {range: 5, damage: 10}\n",
			},
			args:         []string{"hotswap", "check"},
			expectedExit: 0,
			expectedOut:  "mod ra",
		},
		{
			name:         "check without manifest",
			args:         []string{"hotswap", "check"},
			expectedExit: 1,
		},
		{
			name: "invalid setting",
			files: map[string]string{
				"mod.yaml":     "weapons: [weapons.yaml]\n",
				"weapons.yaml": "m1carbine: {range: 5}\n",
				"hotswap.yaml": "watch:\n  debounce: 0s\n",
			},
			args:         []string{"hotswap", "files"},
			expectedExit: 1,
		},
		{
			name:         "version",
			args:         []string{"hotswap", "version"},
			expectedExit: 0,
			expectedOut:  "hotswap version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			for name, content := range tt.files {
				if err := os.WriteFile(filepath.Join(tmpDir, name), []byte(content), 0o600); err != nil {
					t.Fatalf("failed to write %s: %v", name, err)
				}
			}
			t.Chdir(tmpDir)
			t.Setenv("HOTSWAP_LOG_FORMAT", "json")

			var out bytes.Buffer
			exitCode := run(func(c *commands.CLI) {
				c.SetArgs(tt.args[1:])
				c.SetOutput(&out, &out)
			})
			assert.Equal(t, tt.expectedExit, exitCode)
			assert.Contains(t, out.String(), tt.expectedOut)
		})
	}
}
